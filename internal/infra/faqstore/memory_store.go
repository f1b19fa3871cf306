// Package faqstore keeps the trending query counters.
package faqstore

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
)

// MemoryStore keeps trending counters in process memory. Counts are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	buckets  map[faq.Language]map[string]*counter
	displays map[string]string
	seq      int
}

type counter struct {
	count int64
	first int
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets:  make(map[faq.Language]map[string]*counter),
		displays: make(map[string]string),
	}
}

// IncrementQuery bumps the overall and per-language counters and remembers
// the first display form seen for the canonical query.
func (s *MemoryStore) IncrementQuery(_ context.Context, lang faq.Language, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bump("", canonical)
	if lang != "" {
		s.bump(lang, canonical)
	}
	if _, exists := s.displays[canonical]; !exists && display != "" {
		s.displays[canonical] = display
	}
	return nil
}

func (s *MemoryStore) bump(lang faq.Language, canonical string) {
	bucket, ok := s.buckets[lang]
	if !ok {
		bucket = make(map[string]*counter)
		s.buckets[lang] = bucket
	}
	c, ok := bucket[canonical]
	if !ok {
		s.seq++
		c = &counter{first: s.seq}
		bucket[canonical] = c
	}
	c.count++
}

// TopQueries ranks by count; ties keep the order queries were first asked.
func (s *MemoryStore) TopQueries(_ context.Context, lang faq.Language, limit int) ([]faq.TrendingQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket := s.buckets[lang]
	type ranked struct {
		canonical string
		counter
	}
	all := make([]ranked, 0, len(bucket))
	for canonical, c := range bucket {
		all = append(all, ranked{canonical: canonical, counter: *c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count == all[j].count {
			return all[i].first < all[j].first
		}
		return all[i].count > all[j].count
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	items := make([]faq.TrendingQuery, 0, len(all))
	for _, r := range all {
		display := s.displays[r.canonical]
		if display == "" {
			display = r.canonical
		}
		items = append(items, faq.TrendingQuery{Query: display, Count: r.count})
	}
	return items, nil
}

var _ faq.Store = (*MemoryStore)(nil)

package faq

import (
	"strings"
	"sync"
)

type indexKey struct {
	generation uint64
	language   Language
	category   string
}

// questionIndex is the fitted space for one view and language. positions maps
// a document of the space back to its position in the view; rows without a
// question in that language are left out.
type questionIndex struct {
	space     *vectorSpace
	positions []int
}

// indexCache holds one questionIndex per (table generation, language,
// category). Entries for older generations are dropped when a newer table
// is first indexed.
type indexCache struct {
	mu      sync.RWMutex
	latest  uint64
	indexes map[indexKey]*questionIndex
}

func newIndexCache() *indexCache {
	return &indexCache{indexes: make(map[indexKey]*questionIndex)}
}

// indexFor returns the cached index for the view's questions in lang, fitting it on first use.
func (c *indexCache) indexFor(view View, lang Language) *questionIndex {
	key := view.key(lang)

	c.mu.RLock()
	idx, ok := c.indexes[key]
	c.mu.RUnlock()
	if ok {
		return idx
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if idx, ok := c.indexes[key]; ok {
		return idx
	}
	idx = buildQuestionIndex(view, lang)
	if key.generation < c.latest {
		// a request still holding a replaced table; serve it without caching
		return idx
	}
	if key.generation > c.latest {
		for k := range c.indexes {
			if k.generation < key.generation {
				delete(c.indexes, k)
			}
		}
		c.latest = key.generation
	}
	c.indexes[key] = idx
	return idx
}

func (c *indexCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.indexes)
}

func buildQuestionIndex(view View, lang Language) *questionIndex {
	var (
		texts     []string
		positions []int
	)
	for i := 0; i < view.Len(); i++ {
		q := view.At(i).Entry(lang).Query
		if strings.TrimSpace(q) == "" {
			continue
		}
		texts = append(texts, q)
		positions = append(positions, i)
	}
	return &questionIndex{space: fitVectorSpace(texts), positions: positions}
}

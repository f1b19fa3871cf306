package faq

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

func record(category string, entries map[Language]LocalizedEntry) AnswerRecord {
	return AnswerRecord{Category: category, Entries: entries}
}

func english(query, short, detailed string) map[Language]LocalizedEntry {
	return map[Language]LocalizedEntry{
		LanguageEnglish: {Query: query, ShortAnswer: short, DetailedAnswer: detailed},
	}
}

func sampleTable() *Table {
	return NewTable([]AnswerRecord{
		record("Criminal", map[Language]LocalizedEntry{
			LanguageEnglish: {
				Query:          "How to file an FIR?",
				ShortAnswer:    "Visit nearest police station.",
				DetailedAnswer: "Step 1: Go to station. Step 2: Narrate facts. Step 3: Get a copy.",
			},
			LanguageHindi: {
				Query:          "एफआईआर कैसे दर्ज करें?",
				ShortAnswer:    "नजदीकी पुलिस स्टेशन जाएं।",
				DetailedAnswer: "चरण 1: स्टेशन जाएं। चरण 2: तथ्य बताएं। चरण 3: प्रति लें।",
			},
		}),
		record("Family", english("How do I apply for divorce by mutual consent?", "File a joint petition in family court.", "Draft the petition. File it. Attend the first motion. Wait six months. Attend the second motion.")),
		record("Property", english("How can I register a rent agreement?", "Register it at the sub-registrar office.", "Draft the agreement; pay stamp duty; visit the sub-registrar.")),
		record("Criminal", english("What should I do if police refuse to file an FIR?", "Approach the Superintendent of Police.", "Write to the SP. Approach the magistrate.")),
		record("Consumer", english("", "", "")),
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubStore struct {
	mu       sync.Mutex
	counts   map[string]int64
	lastLang Language
	err      error
}

func newStubStore() *stubStore {
	return &stubStore{counts: make(map[string]int64)}
}

func (s *stubStore) IncrementQuery(_ context.Context, lang Language, canonical, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[canonical]++
	s.lastLang = lang
	return nil
}

func (s *stubStore) TopQueries(_ context.Context, _ Language, limit int) ([]TrendingQuery, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TrendingQuery, 0, len(s.counts))
	for q, c := range s.counts {
		out = append(out, TrendingQuery{Query: q, Count: c})
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

package faq

import "context"

// Store keeps the asked-query counters behind the trending list. Counters are
// kept per language and overall; an empty Language in TopQueries reads the
// overall ranking.
type Store interface {
	IncrementQuery(ctx context.Context, lang Language, canonical, display string) error
	TopQueries(ctx context.Context, lang Language, limit int) ([]TrendingQuery, error)
}

package faq

import (
	"errors"
	"strings"
)

var (
	// ErrNoData means the view has no question to compare against.
	ErrNoData = errors.New("no data to match against")
	// ErrNoMatch means no row cleared the active policy.
	ErrNoMatch = errors.New("no matching question")
)

// Matcher finds the closest row of a view for a query.
type Matcher struct {
	threshold float64
	indexes   *indexCache
}

// NewMatcher builds a matcher. Similarity scores below threshold count as no match;
// a zero threshold returns the best row whatever its score.
func NewMatcher(threshold float64) *Matcher {
	return &Matcher{threshold: threshold, indexes: newIndexCache()}
}

// Match runs policy over the view's questions in lang. The query must already be
// validated as non-empty. Errors are ErrNoData or ErrNoMatch.
func (m *Matcher) Match(view View, lang Language, query string, policy MatchPolicy) (MatchResult, error) {
	if !hasQuestions(view, lang) {
		return MatchResult{}, ErrNoData
	}
	for _, step := range resolvePlan(policy) {
		var (
			result MatchResult
			found  bool
		)
		switch step {
		case PolicySubstring:
			result, found = m.matchSubstring(view, lang, query)
		case PolicySimilarity:
			result, found = m.matchSimilarity(view, lang, query)
		}
		if found {
			return result, nil
		}
	}
	return MatchResult{}, ErrNoMatch
}

func (m *Matcher) matchSubstring(view View, lang Language, query string) (MatchResult, bool) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return MatchResult{}, false
	}
	for i := 0; i < view.Len(); i++ {
		rec := view.At(i)
		question := rec.Entry(lang).Query
		if question == "" {
			continue
		}
		if strings.Contains(strings.ToLower(question), needle) {
			return MatchResult{Record: rec, Found: true, Score: 1, Policy: PolicySubstring}, true
		}
	}
	return MatchResult{}, false
}

func (m *Matcher) matchSimilarity(view View, lang Language, query string) (MatchResult, bool) {
	idx := m.indexes.indexFor(view, lang)
	best, score, ok := idx.space.rank(idx.space.transform(query))
	if !ok || score <= 0 || score < m.threshold {
		return MatchResult{}, false
	}
	return MatchResult{
		Record: view.At(idx.positions[best]),
		Found:  true,
		Score:  score,
		Policy: PolicySimilarity,
	}, true
}

func hasQuestions(view View, lang Language) bool {
	for i := 0; i < view.Len(); i++ {
		if strings.TrimSpace(view.At(i).Entry(lang).Query) != "" {
			return true
		}
	}
	return false
}

func resolvePlan(policy MatchPolicy) []MatchPolicy {
	switch policy {
	case PolicySubstring:
		return []MatchPolicy{PolicySubstring}
	case PolicySimilarity:
		return []MatchPolicy{PolicySimilarity}
	default:
		return []MatchPolicy{PolicySubstring, PolicySimilarity}
	}
}

// Valid reports whether p names a known policy.
func (p MatchPolicy) Valid() bool {
	switch p {
	case PolicySubstring, PolicySimilarity, PolicyHybrid:
		return true
	default:
		return false
	}
}

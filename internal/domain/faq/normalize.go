package faq

import (
	"strings"
	"unicode"
)

// normalizeQuestion lowercases q and collapses punctuation and whitespace
// runs into single spaces. Combining marks are kept so Indic words stay whole.
func normalizeQuestion(q string) string {
	lowered := strings.ToLower(strings.TrimSpace(q))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if isWordRune(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		if r == '\u200c' || r == '\u200d' {
			// zero width (non-)joiners shape conjuncts, they never separate words
			continue
		}
		// punctuation and whitespace both end a word
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(builder.String())
}

// tokenize splits normalized text into terms of at least two runes.
func tokenize(text string) []string {
	fields := strings.Fields(normalizeQuestion(text))
	terms := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r)
}

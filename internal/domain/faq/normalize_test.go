package faq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeQuestion(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "trims whitespace", in: "  Hello World  ", out: "hello world"},
		{name: "removes punctuation", in: "What's, the distance?", out: "what s the distance"},
		{name: "keeps devanagari vowel signs", in: "एफआईआर कैसे दर्ज करें?", out: "एफआईआर कैसे दर्ज करें"},
		{name: "danda is punctuation", in: "शिकायत।दर्ज", out: "शिकायत दर्ज"},
	}

	for _, tc := range cases {
		if got := normalizeQuestion(tc.in); got != tc.out {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.out, got)
		}
	}
}

func TestTokenizeDropsSingleRunes(t *testing.T) {
	require.Equal(t, []string{"how", "to", "file", "an", "fir"}, tokenize("How to file an FIR?"))
	require.Equal(t, []string{"section", "154"}, tokenize("Section 154 a"))
	require.Empty(t, tokenize("  ?! "))
}

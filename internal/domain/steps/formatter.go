// Package steps breaks a long-form answer into a short numbered list.
//
// Splitting is layered: explicit lines first, then sentences (including the
// Devanagari danda) and semicolons, then long or comma-joined fragments are
// halved on a word boundary. The first layer that yields enough fragments
// wins. Lists are never padded: a short answer produces fewer steps and the
// shortfall is reported in Result.Missing.
package steps

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultCount is used when a caller passes a non-positive count.
	DefaultCount = 5
	// longFragmentWords is the word count above which a fragment gets halved.
	longFragmentWords = 14
)

// Result is a formatted step list.
type Result struct {
	Steps   []string `json:"steps"`
	Missing int      `json:"missing"`
}

var numberingPrefix = regexp.MustCompile(`(?i)^\s*(?:` +
	`[-•*·–]\s+` +
	`|(?:step|चरण|पायरी|पाऊल|ধাপ|পদক্ষেপ|படி|దశ)\s*[\p{Nd}]+\s*[.):\-–]?(?:\s+|$)` +
	`|\(?[\p{Nd}]+\s*[.):\-–](?:\s+|$)` +
	`)`)

// Format splits text into at most n non-empty, non-numeric steps.
func Format(text string, n int) Result {
	if n <= 0 {
		n = DefaultCount
	}

	fragments := splitLines(text)
	if len(fragments) < n {
		fragments = splitSentences(fragments)
	}
	if len(fragments) < n {
		fragments = splitLong(fragments, n)
	}
	if len(fragments) > n {
		fragments = fragments[:n]
	}
	if fragments == nil {
		fragments = []string{}
	}
	return Result{Steps: fragments, Missing: n - len(fragments)}
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if cleaned, ok := clean(line); ok {
			out = append(out, cleaned)
		}
	}
	return out
}

func splitSentences(fragments []string) []string {
	var out []string
	for _, frag := range fragments {
		for _, sentence := range sentences(frag) {
			if cleaned, ok := clean(sentence); ok {
				out = append(out, cleaned)
			}
		}
	}
	return out
}

// sentences cuts after . ! ? when followed by whitespace, and after every
// danda, double danda or semicolon. Semicolons are dropped from the output.
func sentences(text string) []string {
	runes := []rune(text)
	var (
		out   []string
		start int
	)
	for i, r := range runes {
		switch r {
		case '.', '!', '?':
			if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
				continue
			}
			out = append(out, string(runes[start:i+1]))
		case '।', '॥':
			out = append(out, string(runes[start:i+1]))
		case ';':
			out = append(out, string(runes[start:i]))
		default:
			continue
		}
		start = i + 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

// splitLong halves the longest splittable fragment until there are n
// fragments or nothing is left to split. Order is preserved.
func splitLong(fragments []string, n int) []string {
	for len(fragments) < n {
		target := -1
		longest := 0
		for i, frag := range fragments {
			if !splittable(frag) {
				continue
			}
			if size := len([]rune(frag)); size > longest {
				target, longest = i, size
			}
		}
		if target < 0 {
			break
		}
		head, tail := halve(fragments[target])
		head, okHead := clean(head)
		tail, okTail := clean(tail)
		if !okHead || !okTail {
			break
		}
		next := make([]string, 0, len(fragments)+1)
		next = append(next, fragments[:target]...)
		next = append(next, head, tail)
		next = append(next, fragments[target+1:]...)
		fragments = next
	}
	return fragments
}

func splittable(frag string) bool {
	words := strings.Fields(frag)
	if len(words) < 2 {
		return false
	}
	return len(words) > longFragmentWords || strings.Contains(frag, ",")
}

// halve splits frag on the word boundary closest to its middle, preferring a
// boundary that follows a comma.
func halve(frag string) (string, string) {
	words := strings.Fields(frag)
	total := len([]rune(frag))
	half := total / 2

	bestAny, bestComma := -1, -1
	distAny, distComma := total+1, total+1
	offset := 0
	for k := 1; k < len(words); k++ {
		offset += len([]rune(words[k-1])) + 1
		d := abs(offset - half)
		if d < distAny {
			bestAny, distAny = k, d
		}
		if strings.HasSuffix(words[k-1], ",") && d < distComma {
			bestComma, distComma = k, d
		}
	}
	cut := bestAny
	if bestComma > 0 {
		cut = bestComma
	}
	head := strings.TrimRight(strings.Join(words[:cut], " "), ",")
	tail := strings.Join(words[cut:], " ")
	return head, tail
}

// clean strips list numbering and reports whether anything usable remains.
func clean(fragment string) (string, bool) {
	text := strings.TrimSpace(fragment)
	for {
		loc := numberingPrefix.FindStringIndex(text)
		if loc == nil || loc[1] == 0 {
			break
		}
		tail := strings.TrimSpace(text[loc[1]:])
		if isRange(text[:loc[1]], tail) {
			break
		}
		text = tail
	}
	if text == "" || isNumeric(text) {
		return "", false
	}
	return text, true
}

// isRange reports whether a numeric prefix ending in a dash or colon is the
// start of a quantity such as "2 - 3 witnesses" rather than list numbering.
func isRange(prefix, tail string) bool {
	prefix = strings.TrimSpace(prefix)
	if !strings.HasSuffix(prefix, "-") && !strings.HasSuffix(prefix, "–") && !strings.HasSuffix(prefix, ":") {
		return false
	}
	if !strings.ContainsFunc(prefix, unicode.IsDigit) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(tail)
	return unicode.IsDigit(r)
}

// isNumeric reports whether s holds nothing but digits and punctuation.
func isNumeric(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) || unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		return false
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

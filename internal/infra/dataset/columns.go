package dataset

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
)

type field int

const (
	fieldQuery field = iota
	fieldShort
	fieldDetailed
)

var fieldAliases = map[string]field{
	"query":           fieldQuery,
	"question":        fieldQuery,
	"short":           fieldShort,
	"short_answer":    fieldShort,
	"answer":          fieldShort,
	"detailed":        fieldDetailed,
	"detailed_answer": fieldDetailed,
	"detail":          fieldDetailed,
	"long":            fieldDetailed,
	"long_answer":     fieldDetailed,
}

type languageColumns struct {
	query    int
	short    int
	detailed int
}

// columnMap records the spreadsheet column index of every recognized field.
type columnMap struct {
	category  int
	languages map[faq.Language]*languageColumns
	order     []faq.Language
}

// mapColumns resolves a header row. Names are matched case-insensitively with
// spaces and hyphens treated as underscores, so "Query_English", "query english"
// and "QUESTION_EN" all name the English question column. The first occurrence
// of a duplicated column wins.
func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{category: -1, languages: make(map[faq.Language]*languageColumns)}
	for i, raw := range header {
		name := normalizeHeader(raw)
		if name == "" {
			continue
		}
		if name == "category" || name == "categories" {
			if cols.category < 0 {
				cols.category = i
			}
			continue
		}
		f, lang, ok := splitHeader(name)
		if !ok {
			continue
		}
		lc, exists := cols.languages[lang]
		if !exists {
			lc = &languageColumns{query: -1, short: -1, detailed: -1}
			cols.languages[lang] = lc
		}
		switch f {
		case fieldQuery:
			if lc.query < 0 {
				lc.query = i
			}
		case fieldShort:
			if lc.short < 0 {
				lc.short = i
			}
		case fieldDetailed:
			if lc.detailed < 0 {
				lc.detailed = i
			}
		}
	}
	for _, lang := range faq.SupportedLanguages() {
		if lc, ok := cols.languages[lang]; ok && lc.query >= 0 {
			cols.order = append(cols.order, lang)
		}
	}
	if len(cols.order) == 0 {
		return columnMap{}, fmt.Errorf("no question column found (expected e.g. Query_English)")
	}
	return cols, nil
}

// splitHeader reads "<field>_<language>" or "<language>_<field>".
func splitHeader(name string) (field, faq.Language, bool) {
	if idx := strings.LastIndex(name, "_"); idx > 0 {
		if f, ok := fieldAliases[name[:idx]]; ok {
			if lang, err := faq.ParseLanguage(name[idx+1:]); err == nil {
				return f, lang, true
			}
		}
	}
	if idx := strings.Index(name, "_"); idx > 0 {
		if f, ok := fieldAliases[name[idx+1:]]; ok {
			if lang, err := faq.ParseLanguage(name[:idx]); err == nil {
				return f, lang, true
			}
		}
	}
	return 0, "", false
}

func normalizeHeader(raw string) string {
	raw = strings.TrimPrefix(raw, "\ufeff")
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case r == '_' || r == '-' || unicode.IsSpace(r):
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

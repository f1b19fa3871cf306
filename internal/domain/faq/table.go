package faq

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
)

// TableSource loads the answer table from its backing store.
type TableSource interface {
	Load(ctx context.Context) (*Table, error)
}

// Table is the ordered, read-only set of FAQ rows. It is never mutated after
// NewTable returns, so concurrent readers need no locking.
type Table struct {
	generation uint64
	records    []AnswerRecord
	categories []string
	languages  []Language
}

var tableGenerations atomic.Uint64

// NewTable copies records into a new immutable table. Row numbers are
// reassigned from slice position.
func NewTable(records []AnswerRecord) *Table {
	copied := make([]AnswerRecord, len(records))
	seenCategory := make(map[string]struct{})
	seenLanguage := make(map[Language]struct{})
	var categories []string
	for i, rec := range records {
		entries := make(map[Language]LocalizedEntry, len(rec.Entries))
		for lang, entry := range rec.Entries {
			entries[lang] = entry
			if strings.TrimSpace(entry.Query) != "" {
				seenLanguage[lang] = struct{}{}
			}
		}
		copied[i] = AnswerRecord{
			Row:      i,
			Category: strings.TrimSpace(rec.Category),
			Entries:  entries,
		}
		if c := copied[i].Category; c != "" {
			key := strings.ToLower(c)
			if _, ok := seenCategory[key]; !ok {
				seenCategory[key] = struct{}{}
				categories = append(categories, c)
			}
		}
	}
	sort.Strings(categories)

	var languages []Language
	for _, lang := range SupportedLanguages() {
		if _, ok := seenLanguage[lang]; ok {
			languages = append(languages, lang)
		}
	}

	return &Table{
		generation: tableGenerations.Add(1),
		records:    copied,
		categories: categories,
		languages:  languages,
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Record returns the row at position i.
func (t *Table) Record(i int) (AnswerRecord, bool) {
	if t == nil || i < 0 || i >= len(t.records) {
		return AnswerRecord{}, false
	}
	return t.records[i], true
}

// Categories lists the distinct non-empty categories, sorted.
func (t *Table) Categories() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.categories...)
}

// Languages lists the languages that have at least one question.
func (t *Table) Languages() []Language {
	if t == nil {
		return nil
	}
	return append([]Language(nil), t.languages...)
}

// HasCategory reports whether category exists (case-insensitive).
func (t *Table) HasCategory(category string) bool {
	for _, c := range t.Categories() {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// View selects the rows of one category ("" means every row) in table order.
func (t *Table) View(category string) View {
	view := View{table: t, category: strings.TrimSpace(category)}
	if t == nil {
		return view
	}
	for i, rec := range t.records {
		if view.category == "" || strings.EqualFold(rec.Category, view.category) {
			view.rows = append(view.rows, i)
		}
	}
	return view
}

// View is an ordered subset of a table's rows.
type View struct {
	table    *Table
	category string
	rows     []int
}

// Len returns the number of rows in the view.
func (v View) Len() int {
	return len(v.rows)
}

// At returns the i-th record of the view.
func (v View) At(i int) AnswerRecord {
	return v.table.records[v.rows[i]]
}

func (v View) key(lang Language) indexKey {
	var generation uint64
	if v.table != nil {
		generation = v.table.generation
	}
	return indexKey{generation: generation, language: lang, category: strings.ToLower(v.category)}
}

// TableHolder is the process-wide handle on the current table. It is built
// once at startup from the initial load; Swap replaces the table on reload.
type TableHolder struct {
	current atomic.Pointer[Table]
}

// NewTableHolder returns a holder initialised with table.
func NewTableHolder(table *Table) *TableHolder {
	h := &TableHolder{}
	h.current.Store(table)
	return h
}

// Current returns the active table; callers keep using it for a whole request.
func (h *TableHolder) Current() *Table {
	return h.current.Load()
}

// Swap installs a freshly loaded table and returns the previous one.
func (h *TableHolder) Swap(table *Table) *Table {
	return h.current.Swap(table)
}

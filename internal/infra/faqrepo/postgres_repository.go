package faqrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
	apperrors "github.com/yanqian/nyayasetu/pkg/errors"
)

// PostgresSource serves the answer table from the faq_entries table, one
// row per (row_index, language).
//
//	CREATE TABLE faq_entries (
//	    row_index       INTEGER NOT NULL,
//	    category        TEXT,
//	    language        TEXT    NOT NULL,
//	    query           TEXT    NOT NULL DEFAULT '',
//	    short_answer    TEXT    NOT NULL DEFAULT '',
//	    detailed_answer TEXT    NOT NULL DEFAULT '',
//	    PRIMARY KEY (row_index, language)
//	);
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource constructs the source.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Close releases the pool.
func (r *PostgresSource) Close() error {
	r.pool.Close()
	return nil
}

// Load reads every entry ordered by row. Unknown language values are skipped.
func (r *PostgresSource) Load(ctx context.Context) (*faq.Table, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT row_index, category, language, query, short_answer, detailed_answer
		FROM faq_entries
		ORDER BY row_index, language
	`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDataLoad, "failed to query faq entries", err)
	}
	defer rows.Close()

	var builder recordBuilder
	for rows.Next() {
		row, err := scanEntryRow(rows)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDataLoad, "failed to scan faq entry", err)
		}
		builder.add(row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDataLoad, "failed to read faq entries", err)
	}
	records := builder.records()
	if len(records) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeDataLoad, "faq_entries is empty", nil)
	}
	return faq.NewTable(records), nil
}

// Replace swaps the stored table for table inside one transaction.
func (r *PostgresSource) Replace(ctx context.Context, table *faq.Table) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM faq_entries`); err != nil {
		return 0, fmt.Errorf("clear faq entries: %w", err)
	}
	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"faq_entries"},
		[]string{"row_index", "category", "language", "query", "short_answer", "detailed_answer"},
		pgx.CopyFromRows(tableRows(table)),
	)
	if err != nil {
		return 0, fmt.Errorf("copy faq entries: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return copied, nil
}

type entryRow struct {
	row      int
	category string
	language faq.Language
	entry    faq.LocalizedEntry
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntryRow(row rowScanner) (entryRow, error) {
	var (
		out      entryRow
		category sql.NullString
		language string
	)
	if err := row.Scan(&out.row, &category, &language, &out.entry.Query, &out.entry.ShortAnswer, &out.entry.DetailedAnswer); err != nil {
		return entryRow{}, err
	}
	out.category = category.String
	lang, err := faq.ParseLanguage(language)
	if err == nil {
		out.language = lang
	}
	return out, nil
}

// recordBuilder folds language rows into records, keeping row_index order.
type recordBuilder struct {
	out  []faq.AnswerRecord
	last int
}

func (b *recordBuilder) add(row entryRow) {
	if len(b.out) == 0 || row.row != b.last {
		b.out = append(b.out, faq.AnswerRecord{Entries: make(map[faq.Language]faq.LocalizedEntry)})
		b.last = row.row
	}
	rec := &b.out[len(b.out)-1]
	if rec.Category == "" {
		rec.Category = row.category
	}
	if row.language != "" {
		rec.Entries[row.language] = row.entry
	}
}

func (b *recordBuilder) records() []faq.AnswerRecord {
	return b.out
}

func tableRows(table *faq.Table) [][]any {
	var out [][]any
	for i := 0; i < table.Len(); i++ {
		rec, _ := table.Record(i)
		for _, lang := range faq.SupportedLanguages() {
			entry, ok := rec.Entries[lang]
			if !ok {
				continue
			}
			var category any
			if rec.Category != "" {
				category = rec.Category
			}
			out = append(out, []any{rec.Row, category, string(lang), entry.Query, entry.ShortAnswer, entry.DetailedAnswer})
		}
	}
	return out
}

var _ faq.TableSource = (*PostgresSource)(nil)

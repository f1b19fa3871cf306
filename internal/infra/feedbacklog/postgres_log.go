package feedbacklog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/nyayasetu/internal/domain/feedback"
)

// PostgresLog stores feedback in the feedback table.
//
//	CREATE TABLE feedback (
//	    id               UUID PRIMARY KEY,
//	    created_at       TIMESTAMPTZ NOT NULL,
//	    language         TEXT NOT NULL,
//	    query            TEXT NOT NULL,
//	    closest_question TEXT NOT NULL DEFAULT '',
//	    answer           TEXT NOT NULL DEFAULT '',
//	    verdict          TEXT NOT NULL
//	);
type PostgresLog struct {
	pool *pgxpool.Pool
}

// NewPostgresLog constructs the log.
func NewPostgresLog(pool *pgxpool.Pool) *PostgresLog {
	return &PostgresLog{pool: pool}
}

func (l *PostgresLog) Append(ctx context.Context, e feedback.Entry) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO feedback (id, created_at, language, query, closest_question, answer, verdict)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.Timestamp, e.Language, e.Query, e.ClosestQuestion, e.Answer, string(e.Verdict))
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (l *PostgresLog) Scan(ctx context.Context, fn func(feedback.Entry) error) error {
	rows, err := l.pool.Query(ctx, `
		SELECT id::text, created_at, language, query, closest_question, answer, verdict
		FROM feedback
		ORDER BY created_at, id
	`)
	if err != nil {
		return fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			e       feedback.Entry
			verdict string
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Language, &e.Query, &e.ClosestQuestion, &e.Answer, &verdict); err != nil {
			return fmt.Errorf("scan feedback: %w", err)
		}
		e.Verdict = feedback.Verdict(verdict)
		if err := fn(e); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Close releases the pool.
func (l *PostgresLog) Close() error {
	l.pool.Close()
	return nil
}

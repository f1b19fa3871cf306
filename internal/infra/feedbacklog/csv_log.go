// Package feedbacklog persists feedback entries.
package feedbacklog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yanqian/nyayasetu/internal/domain/feedback"
	"github.com/yanqian/nyayasetu/pkg/util"
)

// ErrClosed is returned by Append after Close.
var ErrClosed = errors.New("feedback log closed")

// Store is a feedback log that holds a file or connection until Close.
type Store interface {
	feedback.Log
	io.Closer
}

var (
	_ Store = (*CSVLog)(nil)
	_ Store = (*PostgresLog)(nil)
)

var csvHeader = []string{"timestamp", "language", "query", "closest_question", "answer", "feedback"}

type appendRequest struct {
	entry  feedback.Entry
	result chan error
}

// CSVLog appends feedback rows to a CSV file. A single goroutine owns the
// file handle and writes one request at a time, so rows never interleave.
type CSVLog struct {
	path     string
	requests chan appendRequest
	done     chan struct{}

	mu     sync.RWMutex
	closed bool

	// fileMu keeps Scan from reading a row that is half written.
	fileMu sync.RWMutex

	logger *slog.Logger
}

// OpenCSV creates the file with its header when missing and starts the writer.
func OpenCSV(path string, queue int, logger *slog.Logger) (*CSVLog, error) {
	if queue <= 0 {
		queue = 64
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create feedback dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open feedback log: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}

	l := &CSVLog{
		path:     path,
		requests: make(chan appendRequest, queue),
		done:     make(chan struct{}),
		logger:   logger.With("component", "feedbacklog.csv"),
	}
	go l.run(f)
	return l, nil
}

func (l *CSVLog) run(f *os.File) {
	defer close(l.done)
	defer f.Close()
	w := csv.NewWriter(f)
	for req := range l.requests {
		l.fileMu.Lock()
		err := w.Write(encodeRow(req.entry))
		if err == nil {
			w.Flush()
			err = w.Error()
		}
		l.fileMu.Unlock()
		if err != nil {
			l.logger.Error("feedback append failed", "error", err)
		}
		req.result <- err
	}
}

// Append queues entry and waits until it is written.
func (l *CSVLog) Append(ctx context.Context, entry feedback.Entry) error {
	req := appendRequest{entry: entry, result: make(chan error, 1)}

	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		return ErrClosed
	}
	select {
	case l.requests <- req:
		l.mu.RUnlock()
	case <-ctx.Done():
		l.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		// the row is still written; only the caller stops waiting
		return ctx.Err()
	}
}

// Scan reads the file from the top. Rows that cannot be parsed are skipped
// with a warning.
func (l *CSVLog) Scan(ctx context.Context, fn func(feedback.Entry) error) error {
	l.fileMu.RLock()
	defer l.fileMu.RUnlock()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()
	return scanCSV(ctx, f, fn, l.logger)
}

// Close drains queued appends and stops the writer.
func (l *CSVLog) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.requests)
	l.mu.Unlock()
	<-l.done
	return nil
}

func encodeRow(e feedback.Entry) []string {
	return []string{
		util.FormatTimestamp(e.Timestamp),
		e.Language,
		e.Query,
		e.ClosestQuestion,
		e.Answer,
		string(e.Verdict),
	}
}

func scanCSV(ctx context.Context, r io.Reader, fn func(feedback.Entry) error, logger *slog.Logger) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read feedback header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			logger.Warn("skipping unreadable feedback row", "line", line, "error", err)
			continue
		}
		verdict, err := feedback.ParseVerdict(field(row, "feedback"))
		if err != nil {
			logger.Warn("skipping feedback row", "line", line, "error", err)
			continue
		}
		if err := fn(feedback.Entry{
			Timestamp:       util.ParseTimestamp(field(row, "timestamp")),
			Language:        field(row, "language"),
			Query:           field(row, "query"),
			ClosestQuestion: field(row, "closest_question"),
			Answer:          field(row, "answer"),
			Verdict:         verdict,
		}); err != nil {
			return err
		}
	}
}

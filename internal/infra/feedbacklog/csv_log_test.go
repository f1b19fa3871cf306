package feedbacklog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/nyayasetu/internal/domain/feedback"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func entry(query string, verdict feedback.Verdict) feedback.Entry {
	return feedback.Entry{
		Timestamp:       time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Language:        "English",
		Query:           query,
		ClosestQuestion: "How to file an FIR?",
		Answer:          "Visit nearest police station, then ask for a copy.",
		Verdict:         verdict,
	}
}

func collect(t *testing.T, log feedback.Log) []feedback.Entry {
	t.Helper()
	var out []feedback.Entry
	require.NoError(t, log.Scan(context.Background(), func(e feedback.Entry) error {
		out = append(out, e)
		return nil
	}))
	return out
}

func TestCSVLogCreatesHeaderAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "feedback.csv")
	log, err := OpenCSV(path, 4, testLogger())
	require.NoError(t, err)

	require.NoError(t, log.Append(context.Background(), entry("file FIR", feedback.VerdictPositive)))
	require.NoError(t, log.Append(context.Background(), entry("bail, quickly", feedback.VerdictNegative)))
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Equal(t, "timestamp,language,query,closest_question,answer,feedback", lines[0])
	require.Len(t, lines, 3)
	require.Equal(t, `2024-03-01T10:00:00Z,English,"bail, quickly",How to file an FIR?,"Visit nearest police station, then ask for a copy.",negative`, lines[2])

	reopened, err := OpenCSV(path, 4, testLogger())
	require.NoError(t, err)
	defer reopened.Close()
	entries := collect(t, reopened)
	require.Len(t, entries, 2)
	require.Equal(t, "bail, quickly", entries[1].Query)
	require.Equal(t, feedback.VerdictNegative, entries[1].Verdict)
	require.Equal(t, 2024, entries[0].Timestamp.Year())
}

func TestCSVLogConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.csv")
	log, err := OpenCSV(path, 2, testLogger())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- log.Append(context.Background(), entry(fmt.Sprintf("query %d\nwith newline", i), feedback.VerdictPositive))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	entries := collect(t, log)
	require.Len(t, entries, 50)
	require.NoError(t, log.Close())
	require.ErrorIs(t, log.Append(context.Background(), entry("late", feedback.VerdictPositive)), ErrClosed)
}

func TestScanReadsLegacyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.csv")
	legacy := "timestamp,language,query,closest_question,answer,feedback\n" +
		"2024-01-05 09:30:12.123456,Hindi,तलाक,तलाक कैसे लें?,परिवार न्यायालय।,positive\n" +
		"2024-01-05 09:31:00,English,rent,,,maybe\n"
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	log, err := OpenCSV(path, 1, testLogger())
	require.NoError(t, err)
	defer log.Close()

	entries := collect(t, log)
	require.Len(t, entries, 1)
	require.Equal(t, "Hindi", entries[0].Language)
	require.Equal(t, 9, entries[0].Timestamp.Hour())
}

func TestScanStopsOnCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.csv")
	log, err := OpenCSV(path, 1, testLogger())
	require.NoError(t, err)
	defer log.Close()
	require.NoError(t, log.Append(context.Background(), entry("a", feedback.VerdictPositive)))
	require.NoError(t, log.Append(context.Background(), entry("b", feedback.VerdictPositive)))

	stop := fmt.Errorf("stop")
	calls := 0
	err = log.Scan(context.Background(), func(feedback.Entry) error {
		calls++
		return stop
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, calls)
}

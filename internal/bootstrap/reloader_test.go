package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
	"github.com/yanqian/nyayasetu/internal/infra/dataset"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type manualNotifier struct {
	ch     chan struct{}
	closed atomic.Bool
}

func (n *manualNotifier) Changes(context.Context) <-chan struct{} { return n.ch }

func (n *manualNotifier) Close() error {
	n.closed.Store(true)
	return nil
}

type flakySource struct {
	tables []*faq.Table
	calls  atomic.Int32
}

func (s *flakySource) Load(context.Context) (*faq.Table, error) {
	i := int(s.calls.Add(1)) - 1
	if i >= len(s.tables) || s.tables[i] == nil {
		return nil, errors.New("sheet is locked")
	}
	return s.tables[i], nil
}

func tableOf(questions ...string) *faq.Table {
	records := make([]faq.AnswerRecord, 0, len(questions))
	for _, q := range questions {
		records = append(records, faq.AnswerRecord{Entries: map[faq.Language]faq.LocalizedEntry{
			faq.LanguageEnglish: {Query: q, ShortAnswer: "a", DetailedAnswer: "b"},
		}})
	}
	return faq.NewTable(records)
}

func TestReloaderKeepsPreviousTableOnFailure(t *testing.T) {
	initial := tableOf("How to file an FIR?")
	holder := faq.NewTableHolder(initial)
	next := tableOf("How to file an FIR?", "How to get bail?")
	source := &flakySource{tables: []*faq.Table{nil, next}}
	r := NewReloader(source, holder, nil, discardLogger())

	require.False(t, r.reload(context.Background()))
	require.Same(t, initial, holder.Current())

	require.True(t, r.reload(context.Background()))
	require.Same(t, next, holder.Current())
}

func TestReloaderRunReactsToChanges(t *testing.T) {
	holder := faq.NewTableHolder(tableOf("first"))
	next := tableOf("first", "second")
	notifier := &manualNotifier{ch: make(chan struct{}, 1)}
	r := NewReloader(&flakySource{tables: []*faq.Table{next}}, holder, notifier, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	notifier.ch <- struct{}{}
	require.Eventually(t, func() bool { return holder.Current() == next }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
	require.NoError(t, r.Close())
	require.True(t, notifier.closed.Load())
}

func TestReloaderWithFileWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.csv")
	require.NoError(t, os.WriteFile(path, []byte("Query_English,Short_English,Detailed_English\nHow to file an FIR?,a,b\n"), 0o600))

	source := dataset.NewFileSource(dataset.Options{Path: path}, discardLogger())
	initial, err := source.Load(context.Background())
	require.NoError(t, err)
	holder := faq.NewTableHolder(initial)

	watcher, err := dataset.NewWatcher(path, discardLogger())
	require.NoError(t, err)
	r := NewReloader(source, holder, watcher, discardLogger())
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	require.NoError(t, os.WriteFile(path, []byte("Query_English,Short_English,Detailed_English\nHow to file an FIR?,a,b\nHow to get bail?,c,d\n"), 0o600))
	require.Eventually(t, func() bool { return holder.Current().Len() == 2 }, 5*time.Second, 25*time.Millisecond)
}

func TestNilReloaderIsInert(t *testing.T) {
	var r *Reloader
	r.Run(context.Background())
	require.NoError(t, r.Close())
}

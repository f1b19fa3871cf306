package bootstrap

import (
	"context"
	"log/slog"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
)

// ChangeNotifier signals that the dataset behind a TableSource changed.
type ChangeNotifier interface {
	Changes(ctx context.Context) <-chan struct{}
	Close() error
}

// Reloader swaps in a freshly loaded table whenever the dataset changes. A
// failed reload keeps the previous table.
type Reloader struct {
	source   faq.TableSource
	holder   *faq.TableHolder
	notifier ChangeNotifier
	logger   *slog.Logger
}

// NewReloader builds a reloader. A nil notifier disables reloading.
func NewReloader(source faq.TableSource, holder *faq.TableHolder, notifier ChangeNotifier, logger *slog.Logger) *Reloader {
	return &Reloader{
		source:   source,
		holder:   holder,
		notifier: notifier,
		logger:   logger.With("component", "bootstrap.reloader"),
	}
}

// Run blocks until ctx is done.
func (r *Reloader) Run(ctx context.Context) {
	if r == nil || r.notifier == nil {
		return
	}
	changes := r.notifier.Changes(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			r.reload(ctx)
		}
	}
}

func (r *Reloader) reload(ctx context.Context) bool {
	table, err := r.source.Load(ctx)
	if err != nil {
		r.logger.Warn("dataset reload failed, keeping previous table", "error", err)
		return false
	}
	previous := r.holder.Swap(table)
	r.logger.Info("dataset reloaded", "rows", table.Len(), "previous_rows", previous.Len(), "languages", table.Languages())
	return true
}

// Close stops the underlying notifier.
func (r *Reloader) Close() error {
	if r == nil || r.notifier == nil {
		return nil
	}
	return r.notifier.Close()
}

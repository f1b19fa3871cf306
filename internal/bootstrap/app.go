package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/nyayasetu/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *http.Server
	reloader *Reloader
	closers  []io.Closer
}

// NewApp is used by Wire to build the runnable app. closers are closed in
// order after the server has drained.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, reloader *Reloader, closers []io.Closer) *App {
	return &App{
		cfg:      cfg,
		logger:   logger.With("component", "bootstrap"),
		server:   server,
		reloader: reloader,
		closers:  closers,
	}
}

// Run starts the HTTP server and the dataset reloader and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	reloadCtx, stopReload := context.WithCancel(ctx)
	defer stopReload()
	go a.reloader.Run(reloadCtx)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		runErr = a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	}

	stopReload()
	if err := a.reloader.Close(); err != nil {
		a.logger.Warn("dataset watcher close failed", "error", err)
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	return runErr
}

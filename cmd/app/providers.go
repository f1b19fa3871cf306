package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/nyayasetu/internal/bootstrap"
	"github.com/yanqian/nyayasetu/internal/domain/auth"
	"github.com/yanqian/nyayasetu/internal/domain/faq"
	"github.com/yanqian/nyayasetu/internal/domain/feedback"
	"github.com/yanqian/nyayasetu/internal/domain/speech"
	"github.com/yanqian/nyayasetu/internal/infra/audiostore"
	"github.com/yanqian/nyayasetu/internal/infra/config"
	"github.com/yanqian/nyayasetu/internal/infra/dataset"
	"github.com/yanqian/nyayasetu/internal/infra/faqrepo"
	"github.com/yanqian/nyayasetu/internal/infra/faqstore"
	"github.com/yanqian/nyayasetu/internal/infra/feedbacklog"
	"github.com/yanqian/nyayasetu/internal/infra/speech/gtts"
	"github.com/yanqian/nyayasetu/internal/infra/speech/whisper"
)

const valkeyPrefix = "nyayasetu"

func provideTableSource(cfg *config.Config, logger *slog.Logger) (faq.TableSource, error) {
	fileSource := dataset.NewFileSource(dataset.Options{
		Path:   cfg.Dataset.Path,
		Sheet:  cfg.Dataset.Sheet,
		Strict: cfg.Dataset.Strict,
	}, logger)
	if strings.TrimSpace(cfg.Dataset.Postgres.DSN) == "" {
		return fileSource, nil
	}
	pool, err := newPostgresPool(cfg.Dataset.Postgres)
	if err != nil {
		if strings.TrimSpace(cfg.Dataset.Path) == "" {
			return nil, fmt.Errorf("dataset postgres: %w", err)
		}
		logger.Error("dataset postgres unavailable, using file", "path", cfg.Dataset.Path, "error", err)
		return fileSource, nil
	}
	logger.Info("dataset postgres source enabled")
	return faqrepo.NewPostgresSource(pool), nil
}

// provideTableHolder performs the initial load; a dataset that cannot be read stops startup.
func provideTableHolder(source faq.TableSource, logger *slog.Logger) (*faq.TableHolder, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	table, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded", "rows", table.Len(), "languages", table.Languages(), "categories", table.Categories())
	return faq.NewTableHolder(table), nil
}

func provideChangeNotifier(cfg *config.Config, source faq.TableSource, logger *slog.Logger) bootstrap.ChangeNotifier {
	fileSource, ok := source.(*dataset.FileSource)
	if !ok || !cfg.Dataset.Watch {
		return nil
	}
	watcher, err := dataset.NewWatcher(fileSource.Path(), logger)
	if err != nil {
		logger.Warn("dataset watcher unavailable, reload disabled", "error", err)
		return nil
	}
	return watcher
}

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		Policy:              faq.MatchPolicy(strings.ToLower(cfg.FAQ.Policy)),
		SimilarityThreshold: cfg.FAQ.SimilarityThreshold,
		DefaultSteps:        cfg.FAQ.DefaultSteps,
		AllowedSteps:        cfg.FAQ.AllowedSteps,
		FallbackMessage:     cfg.FAQ.FallbackMessage,
		TopRecommendations:  cfg.FAQ.TopRecommendations,
		ExampleCount:        cfg.FAQ.ExampleCount,
	}
}

// provideValkeyClient returns nil when valkey is disabled or unreachable.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) valkey.Client {
	if !cfg.FAQ.Redis.Enabled {
		return nil
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration", "error", err)
		return nil
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed", "error", err)
		client.Close()
		return nil
	}
	logger.Info("valkey connected", "addr", cfg.FAQ.Redis.Addr)
	return client
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.FAQ.Redis.Addr, "://") {
		return valkey.ParseURL(cfg.FAQ.Redis.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.FAQ.Redis.Addr}}, nil
}

func provideFAQStore(client valkey.Client, logger *slog.Logger) faq.Store {
	if client == nil {
		logger.Info("trending counters kept in memory")
		return faqstore.NewMemoryStore()
	}
	return faqstore.NewValkeyStore(client, valkeyPrefix, logger)
}

func provideFeedbackStore(cfg *config.Config, logger *slog.Logger) (feedbacklog.Store, error) {
	if strings.TrimSpace(cfg.Feedback.Postgres.DSN) != "" {
		pool, err := newPostgresPool(cfg.Feedback.Postgres)
		if err == nil {
			logger.Info("feedback postgres log enabled")
			return feedbacklog.NewPostgresLog(pool), nil
		}
		if strings.TrimSpace(cfg.Feedback.Path) == "" {
			return nil, fmt.Errorf("feedback postgres: %w", err)
		}
		logger.Error("feedback postgres unavailable, using csv", "path", cfg.Feedback.Path, "error", err)
	}
	return feedbacklog.OpenCSV(cfg.Feedback.Path, cfg.Feedback.Queue, logger)
}

func provideFeedbackLog(store feedbacklog.Store) feedback.Log {
	return store
}

func provideSpeechConfig(cfg *config.Config) speech.Config {
	return speech.Config{
		AudioTTL: cfg.Speech.AudioTTL,
		MaxChars: cfg.Speech.MaxChars,
		BasePath: "/api/v1/audio/",
	}
}

func provideSynthesizer(cfg *config.Config) speech.Synthesizer {
	if !cfg.Speech.TTS.Enabled {
		return nil
	}
	return gtts.NewClient(cfg.Speech.TTS.BaseURL, cfg.Speech.TTS.Timeout, cfg.Speech.TTS.MaxAttempts)
}

func provideTranscriber(cfg *config.Config) (speech.Transcriber, error) {
	if !cfg.Speech.STT.Enabled {
		return nil, nil
	}
	client, err := whisper.NewClient(cfg.Speech.STT.APIKey, cfg.Speech.STT.BaseURL, cfg.Speech.STT.Model, cfg.Speech.STT.Timeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func provideAudioStorage(cfg *config.Config, client valkey.Client, logger *slog.Logger) (speech.AudioStorage, error) {
	storageCfg := cfg.Speech.Storage
	switch storageCfg.Driver {
	case "r2":
		store, err := audiostore.NewR2Storage(storageCfg.Endpoint, storageCfg.AccessKey, storageCfg.SecretKey, storageCfg.Bucket, storageCfg.Region, storageCfg.Prefix, logger)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("audio artifacts stored in r2", "bucket", storageCfg.Bucket)
		return store, nil
	case "valkey":
		if client != nil {
			return audiostore.NewValkeyStorage(client, valkeyPrefix), nil
		}
		logger.Error("valkey unavailable, audio artifacts kept in memory")
	}
	return audiostore.NewMemoryStorage(), nil
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	operators := make([]auth.Operator, 0, len(cfg.Auth.Operators))
	for _, op := range cfg.Auth.Operators {
		operators = append(operators, auth.Operator{Username: op.Username, PasswordHash: op.PasswordHash})
	}
	return auth.Config{
		Secret:    cfg.Auth.Secret,
		TokenTTL:  cfg.Auth.TokenTTL,
		Operators: operators,
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func provideClosers(store feedbacklog.Store, client valkey.Client, source faq.TableSource) []io.Closer {
	closers := []io.Closer{store}
	if c, ok := source.(io.Closer); ok {
		closers = append(closers, c)
	}
	if client != nil {
		closers = append(closers, closerFunc(func() error {
			client.Close()
			return nil
		}))
	}
	return closers
}

func newPostgresPool(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("initialize postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

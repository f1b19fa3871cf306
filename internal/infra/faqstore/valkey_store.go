package faqstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
)

// ValkeyStore keeps trending counters in sorted sets so every replica shares
// them: one overall set plus one per language.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	logger *slog.Logger
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, logger *slog.Logger) *ValkeyStore {
	if prefix == "" {
		prefix = "nyayasetu"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ValkeyStore{client: client, prefix: prefix, logger: logger.With("component", "faqstore.valkey")}
}

func (s *ValkeyStore) IncrementQuery(ctx context.Context, lang faq.Language, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	cmds := []valkey.Completed{s.client.B().Zincrby().Key(s.trendingKey("")).Increment(1).Member(canonical).Build()}
	if lang != "" {
		cmds = append(cmds, s.client.B().Zincrby().Key(s.trendingKey(lang)).Increment(1).Member(canonical).Build())
	}
	for _, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return err
		}
	}
	if display != "" {
		err := s.client.Do(ctx, s.client.B().Set().Key(s.displayKey(canonical)).Value(display).Nx().Build()).Error()
		if displayWriteFailed(err) {
			s.logger.Warn("failed to store trending display text", "query", canonical, "error", err)
		}
	}
	return nil
}

func (s *ValkeyStore) TopQueries(ctx context.Context, lang faq.Language, limit int) ([]faq.TrendingQuery, error) {
	if limit <= 0 {
		limit = 10
	}
	scores, err := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.trendingKey(lang)).Start(0).Stop(int64(limit-1)).Withscores().Build()).AsZScores()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}

	lookups := make([]valkey.Completed, 0, len(scores))
	for _, z := range scores {
		lookups = append(lookups, s.client.B().Get().Key(s.displayKey(z.Member)).Build())
	}
	displays := s.client.DoMulti(ctx, lookups...)

	out := make([]faq.TrendingQuery, 0, len(scores))
	for i, z := range scores {
		display, err := displays[i].ToString()
		if err != nil || display == "" {
			display = z.Member
		}
		out = append(out, faq.TrendingQuery{Query: display, Count: int64(z.Score)})
	}
	return out, nil
}

// displayWriteFailed ignores the nil reply SET NX gives when the key exists.
func displayWriteFailed(err error) bool {
	return err != nil && !valkey.IsValkeyNil(err)
}

func (s *ValkeyStore) trendingKey(lang faq.Language) string {
	if lang == "" {
		return fmt.Sprintf("%s:trending", s.prefix)
	}
	return fmt.Sprintf("%s:trending:%s", s.prefix, lang)
}

func (s *ValkeyStore) displayKey(canonical string) string {
	return fmt.Sprintf("%s:display:%s", s.prefix, canonical)
}

var _ faq.Store = (*ValkeyStore)(nil)

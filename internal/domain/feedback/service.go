package feedback

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
	apperrors "github.com/yanqian/nyayasetu/pkg/errors"
	"github.com/yanqian/nyayasetu/pkg/util"
)

const defaultTopQueries = 5

// Service records feedback and reports on it.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (Entry, error)
	Summary(ctx context.Context, top int) (Summary, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

type service struct {
	log    Log
	now    func() time.Time
	logger *slog.Logger
}

// NewService builds the feedback service over log.
func NewService(log Log, logger *slog.Logger) Service {
	return &service{
		log:    log,
		now:    util.NowUTC,
		logger: logger.With("component", "feedback.service"),
	}
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (Entry, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return Entry{}, apperrors.Wrap(apperrors.CodeInvalidInput, "query cannot be empty", nil)
	}
	verdict, err := ParseVerdict(req.Feedback)
	if err != nil {
		return Entry{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	lang, err := faq.ParseLanguage(req.Language)
	if err != nil {
		return Entry{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}

	entry := Entry{
		ID:              uuid.NewString(),
		Timestamp:       s.now(),
		Language:        lang.Title(),
		Query:           query,
		ClosestQuestion: strings.TrimSpace(req.ClosestQuestion),
		Answer:          strings.TrimSpace(req.Answer),
		Verdict:         verdict,
	}
	if err := s.log.Append(ctx, entry); err != nil {
		return Entry{}, apperrors.Wrap(apperrors.CodeFeedback, "failed to record feedback", err)
	}
	s.logger.Info("feedback recorded", "id", entry.ID, "language", entry.Language, "feedback", entry.Verdict)
	return entry, nil
}

func (s *service) Summary(ctx context.Context, top int) (Summary, error) {
	if top <= 0 {
		top = defaultTopQueries
	}
	summary := Summary{
		ByLanguage: make(map[string]int),
		Breakdown:  make(map[Verdict]int),
	}
	counts := make(map[string]*QueryCount)
	var order []string
	err := s.log.Scan(ctx, func(e Entry) error {
		summary.Total++
		switch e.Verdict {
		case VerdictPositive:
			summary.Positive++
		case VerdictNegative:
			summary.Negative++
		}
		summary.Breakdown[e.Verdict]++
		if e.Language != "" {
			summary.ByLanguage[e.Language]++
		}
		key := strings.ToLower(strings.TrimSpace(e.Query))
		if key == "" {
			return nil
		}
		qc, ok := counts[key]
		if !ok {
			qc = &QueryCount{Query: strings.TrimSpace(e.Query)}
			counts[key] = qc
			order = append(order, key)
		}
		qc.Count++
		return nil
	})
	if err != nil {
		return Summary{}, apperrors.Wrap(apperrors.CodeFeedback, "failed to read feedback log", err)
	}
	if summary.Total > 0 {
		summary.SatisfactionRate = float64(summary.Positive) / float64(summary.Total)
	}

	ranked := make([]QueryCount, 0, len(order))
	for _, key := range order {
		ranked = append(ranked, *counts[key])
	}
	// stable: ties keep first-seen order
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > top {
		ranked = ranked[:top]
	}
	summary.TopQueries = ranked
	return summary, nil
}

// Recent returns the last limit entries, newest first.
func (s *service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	ring := make([]Entry, 0, limit)
	next := 0
	err := s.log.Scan(ctx, func(e Entry) error {
		if len(ring) < limit {
			ring = append(ring, e)
			return nil
		}
		ring[next] = e
		next = (next + 1) % limit
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFeedback, "failed to read feedback log", err)
	}
	out := make([]Entry, 0, len(ring))
	for i := len(ring) - 1; i >= 0; i-- {
		out = append(out, ring[(next+i)%len(ring)])
	}
	return out, nil
}

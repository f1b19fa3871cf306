package faq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/nyayasetu/internal/domain/steps"
	apperrors "github.com/yanqian/nyayasetu/pkg/errors"
)

// Service exposes the legal FAQ lookup.
type Service interface {
	Answer(ctx context.Context, req Request) (Response, error)
	// Trending ranks asked queries for a language, or overall when language is empty.
	Trending(ctx context.Context, language string) ([]TrendingQuery, error)
	Examples(ctx context.Context, language string, limit int) ([]Example, error)
	Catalog(ctx context.Context) Catalog
}

// Catalog describes what the loaded table can answer.
type Catalog struct {
	Rows         int        `json:"rows"`
	Languages    []Language `json:"languages"`
	Categories   []string   `json:"categories"`
	AllowedSteps []int      `json:"allowedSteps"`
	DefaultSteps int        `json:"defaultSteps"`
}

type service struct {
	cfg     Config
	tables  *TableHolder
	matcher *Matcher
	store   Store
	logger  *slog.Logger
}

// NewService wires up the FAQ domain around the process-wide table holder.
func NewService(cfg Config, tables *TableHolder, store Store, logger *slog.Logger) Service {
	if cfg.Policy == "" {
		cfg.Policy = PolicyHybrid
	}
	if cfg.DefaultSteps <= 0 {
		cfg.DefaultSteps = steps.DefaultCount
	}
	if len(cfg.AllowedSteps) == 0 {
		cfg.AllowedSteps = []int{5, 6, 7}
	}
	if strings.TrimSpace(cfg.FallbackMessage) == "" {
		cfg.FallbackMessage = defaultFallbackMessage
	}
	return &service{
		cfg:     cfg,
		tables:  tables,
		matcher: NewMatcher(cfg.SimilarityThreshold),
		store:   store,
		logger:  logger.With("component", "faq.service"),
	}
}

func (s *service) Answer(ctx context.Context, req Request) (Response, error) {
	start := time.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "question cannot be empty", nil)
	}
	lang, err := ParseLanguage(req.Language)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	policy := req.Policy
	if policy == "" {
		policy = s.cfg.Policy
	}
	if !policy.Valid() {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unsupported match policy %q", req.Policy), nil)
	}
	stepCount, err := s.resolveStepCount(req.Steps)
	if err != nil {
		return Response{}, err
	}

	table := s.tables.Current()
	category := strings.TrimSpace(req.Category)
	if category != "" && !table.HasCategory(category) {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unsupported category %q", category), nil)
	}

	resp := Response{
		Question:       question,
		Language:       lang,
		Category:       category,
		Policy:         policy,
		Row:            -1,
		StepsRequested: stepCount,
		Steps:          []string{},
	}

	match, err := s.matcher.Match(table.View(category), lang, question, policy)
	switch {
	case errors.Is(err, ErrNoData):
		resp.Outcome = OutcomeNoData
	case errors.Is(err, ErrNoMatch):
		resp.Outcome = OutcomeNoMatch
	case err != nil:
		return Response{}, apperrors.Wrap("faq_error", "match failed", err)
	default:
		entry := match.Record.Entry(lang)
		formatted := steps.Format(entry.DetailedAnswer, stepCount)
		resp.Found = true
		resp.Outcome = OutcomeMatched
		resp.Policy = match.Policy
		resp.Score = match.Score
		resp.Row = match.Record.Row
		resp.MatchedQuestion = entry.Query
		resp.ShortAnswer = entry.ShortAnswer
		resp.DetailedAnswer = entry.DetailedAnswer
		resp.Steps = formatted.Steps
		resp.StepsUnavailable = formatted.Missing
	}
	if !resp.Found {
		resp.ShortAnswer = s.cfg.FallbackMessage
		resp.DetailedAnswer = s.cfg.FallbackMessage
	}

	if err := s.store.IncrementQuery(ctx, lang, normalizeQuestion(question), question); err != nil {
		s.logger.Warn("faq trending increment failed", "error", err)
	}
	recs, err := s.store.TopQueries(ctx, lang, s.cfg.TopRecommendations)
	if err != nil {
		s.logger.Warn("faq trending fetch failed", "error", err)
		recs = nil
	}
	resp.Recommendations = recs
	resp.DurationMs = time.Since(start).Milliseconds()

	s.logger.Info("faq answered",
		"language", lang,
		"category", category,
		"outcome", resp.Outcome,
		"policy", resp.Policy,
		"score", resp.Score,
		"row", resp.Row,
	)
	return resp, nil
}

func (s *service) Trending(ctx context.Context, language string) ([]TrendingQuery, error) {
	var lang Language
	if strings.TrimSpace(language) != "" {
		parsed, err := ParseLanguage(language)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
		}
		lang = parsed
	}
	recs, err := s.store.TopQueries(ctx, lang, s.cfg.TopRecommendations)
	if err != nil {
		return nil, apperrors.Wrap("faq_error", "failed to load trending queries", err)
	}
	return recs, nil
}

// Examples returns the first questions of the table in the given language.
func (s *service) Examples(_ context.Context, language string, limit int) ([]Example, error) {
	lang, err := ParseLanguage(language)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	if limit <= 0 {
		limit = s.cfg.ExampleCount
	}
	if limit <= 0 {
		limit = 5
	}
	table := s.tables.Current()
	out := make([]Example, 0, limit)
	for i := 0; i < table.Len() && len(out) < limit; i++ {
		rec, _ := table.Record(i)
		q := strings.TrimSpace(rec.Entry(lang).Query)
		if q == "" {
			continue
		}
		out = append(out, Example{Row: rec.Row, Question: q, Category: rec.Category})
	}
	return out, nil
}

func (s *service) Catalog(context.Context) Catalog {
	table := s.tables.Current()
	return Catalog{
		Rows:         table.Len(),
		Languages:    table.Languages(),
		Categories:   table.Categories(),
		AllowedSteps: append([]int(nil), s.cfg.AllowedSteps...),
		DefaultSteps: s.cfg.DefaultSteps,
	}
}

func (s *service) resolveStepCount(requested int) (int, error) {
	if requested == 0 {
		return s.cfg.DefaultSteps, nil
	}
	for _, allowed := range s.cfg.AllowedSteps {
		if requested == allowed {
			return requested, nil
		}
	}
	return 0, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("steps must be one of %v", s.cfg.AllowedSteps), nil)
}

package faq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/nyayasetu/pkg/errors"
)

func newTestService(t *testing.T, table *Table, store Store, cfg Config) Service {
	t.Helper()
	return NewService(cfg, NewTableHolder(table), store, discardLogger())
}

func TestServiceAnswerScenario(t *testing.T) {
	table := NewTable([]AnswerRecord{
		record("", english("How to file an FIR?", "Visit nearest police station.", "Step 1: Go to station. Step 2: Narrate facts. Step 3: Get a copy.")),
	})
	store := newStubStore()
	svc := newTestService(t, table, store, Config{AllowedSteps: []int{3, 5, 6, 7}})

	resp, err := svc.Answer(context.Background(), Request{Question: "file FIR", Language: "English", Steps: 3})
	require.NoError(t, err)
	require.True(t, resp.Found)
	require.Equal(t, OutcomeMatched, resp.Outcome)
	require.Equal(t, 0, resp.Row)
	require.Equal(t, "How to file an FIR?", resp.MatchedQuestion)
	require.Equal(t, "Visit nearest police station.", resp.ShortAnswer)
	require.Equal(t, []string{"Go to station.", "Narrate facts.", "Get a copy."}, resp.Steps)
	require.Zero(t, resp.StepsUnavailable)
	require.Equal(t, int64(1), store.counts["file fir"])
	require.Equal(t, LanguageEnglish, store.lastLang)
	require.Len(t, resp.Recommendations, 1)
}

func TestServiceAnswerRejectsEmptyQuestion(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, sampleTable(), store, Config{})

	_, err := svc.Answer(context.Background(), Request{Question: "   ", Language: "en"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Empty(t, store.counts)
}

func TestServiceAnswerValidation(t *testing.T) {
	svc := newTestService(t, sampleTable(), newStubStore(), Config{})
	cases := []Request{
		{Question: "bail", Language: "klingon"},
		{Question: "bail", Language: ""},
		{Question: "bail", Language: "en", Category: "Tax"},
		{Question: "bail", Language: "en", Policy: "regex"},
		{Question: "bail", Language: "en", Steps: 9},
	}
	for _, req := range cases {
		_, err := svc.Answer(context.Background(), req)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), "request %+v: %v", req, err)
	}
}

func TestServiceAnswerNoDataFallsBack(t *testing.T) {
	svc := newTestService(t, sampleTable(), newStubStore(), Config{FallbackMessage: "Please contact legal aid."})

	resp, err := svc.Answer(context.Background(), Request{Question: "refund", Language: "en", Category: "Consumer"})
	require.NoError(t, err)
	require.False(t, resp.Found)
	require.Equal(t, OutcomeNoData, resp.Outcome)
	require.Equal(t, "Please contact legal aid.", resp.ShortAnswer)
	require.Equal(t, -1, resp.Row)
	require.Empty(t, resp.Steps)
}

func TestServiceAnswerBelowThreshold(t *testing.T) {
	svc := newTestService(t, sampleTable(), newStubStore(), Config{Policy: PolicySimilarity, SimilarityThreshold: 0.3})

	resp, err := svc.Answer(context.Background(), Request{Question: "weather forecast", Language: "english"})
	require.NoError(t, err)
	require.False(t, resp.Found)
	require.Equal(t, OutcomeNoMatch, resp.Outcome)
	require.Equal(t, defaultFallbackMessage, resp.DetailedAnswer)
}

func TestServiceAnswerReportsMissingSteps(t *testing.T) {
	svc := newTestService(t, sampleTable(), newStubStore(), Config{})

	resp, err := svc.Answer(context.Background(), Request{Question: "rent agreement", Language: "en", Steps: 5})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Row)
	require.Equal(t, []string{"Draft the agreement", "pay stamp duty", "visit the sub-registrar."}, resp.Steps)
	require.Equal(t, 2, resp.StepsUnavailable)
	require.Equal(t, 5, resp.StepsRequested)
}

func TestServiceAnswerIsDeterministic(t *testing.T) {
	svc := newTestService(t, sampleTable(), newStubStore(), Config{})
	first, err := svc.Answer(context.Background(), Request{Question: "police will not register complaint", Language: "en"})
	require.NoError(t, err)
	second, err := svc.Answer(context.Background(), Request{Question: "police will not register complaint", Language: "en"})
	require.NoError(t, err)
	require.Equal(t, first.Row, second.Row)
	require.Equal(t, first.Score, second.Score)
}

func TestServiceAnswerSurvivesStoreFailure(t *testing.T) {
	store := newStubStore()
	store.err = errors.New("valkey down")
	svc := newTestService(t, sampleTable(), store, Config{})

	resp, err := svc.Answer(context.Background(), Request{Question: "divorce", Language: "en"})
	require.NoError(t, err)
	require.True(t, resp.Found)
	require.Nil(t, resp.Recommendations)
}

func TestServiceExamplesAndCatalog(t *testing.T) {
	svc := newTestService(t, sampleTable(), newStubStore(), Config{ExampleCount: 2})

	examples, err := svc.Examples(context.Background(), "en", 0)
	require.NoError(t, err)
	require.Len(t, examples, 2)
	require.Equal(t, "How to file an FIR?", examples[0].Question)

	hindi, err := svc.Examples(context.Background(), "hi", 10)
	require.NoError(t, err)
	require.Len(t, hindi, 1)

	_, err = svc.Examples(context.Background(), "xx", 1)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	catalog := svc.Catalog(context.Background())
	require.Equal(t, 5, catalog.Rows)
	require.Equal(t, []Language{LanguageEnglish, LanguageHindi}, catalog.Languages)
	require.Equal(t, []string{"Consumer", "Criminal", "Family", "Property"}, catalog.Categories)
	require.Equal(t, []int{5, 6, 7}, catalog.AllowedSteps)
}

func TestServiceUsesSwappedTable(t *testing.T) {
	holder := NewTableHolder(sampleTable())
	svc := NewService(Config{}, holder, newStubStore(), discardLogger())

	holder.Swap(NewTable([]AnswerRecord{record("", english("What is a will?", "A legal declaration.", "Write it. Sign it. Get two witnesses."))}))

	resp, err := svc.Answer(context.Background(), Request{Question: "will", Language: "en"})
	require.NoError(t, err)
	require.Equal(t, "What is a will?", resp.MatchedQuestion)
}

func TestRenderReport(t *testing.T) {
	report := RenderReport(Response{
		Question:         "file FIR",
		MatchedQuestion:  "How to file an FIR?",
		Language:         LanguageEnglish,
		ShortAnswer:      "Visit nearest police station.",
		Steps:            []string{"Go to station.", "Narrate facts."},
		StepsUnavailable: 3,
	})
	require.Contains(t, report, "Question: file FIR\n")
	require.Contains(t, report, "Language: English\n")
	require.Contains(t, report, "1. Go to station.\n2. Narrate facts.\n")
	require.Contains(t, report, "(3 more step(s) unavailable")
}

func TestServiceTrendingLanguageFilter(t *testing.T) {
	svc := newTestService(t, sampleTable(), newStubStore(), Config{})

	_, err := svc.Trending(context.Background(), "")
	require.NoError(t, err)
	_, err = svc.Trending(context.Background(), "hi")
	require.NoError(t, err)
	_, err = svc.Trending(context.Background(), "klingon")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

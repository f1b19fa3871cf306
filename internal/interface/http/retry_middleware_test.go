package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/nyayasetu/internal/infra/config"
)

func flakyHandler(failures int, status int, calls *int, bodies *[]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		data, _ := io.ReadAll(r.Body)
		*bodies = append(*bodies, string(data))
		if *calls <= failures {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func retryConfig() config.RetryConfig {
	return config.RetryConfig{Enabled: true, MaxAttempts: 3, Exclude: []string{"/api/v1/feedback", "/api/v1/audio/"}}
}

func TestWithRetryReplaysBody(t *testing.T) {
	var calls int
	var bodies []string
	h := withRetry(flakyHandler(2, http.StatusServiceUnavailable, &calls, &bodies), retryConfig(), newTestLogger())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/answers", strings.NewReader(`{"question":"bail"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 3, calls)
	require.Equal(t, []string{`{"question":"bail"}`, `{"question":"bail"}`, `{"question":"bail"}`}, bodies)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestWithRetrySkipsBadGatewayAndExcludedPrefixes(t *testing.T) {
	var calls int
	var bodies []string
	h := withRetry(flakyHandler(5, http.StatusBadGateway, &calls, &bodies), retryConfig(), newTestLogger())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/answers", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, 1, calls)

	calls = 0
	h = withRetry(flakyHandler(5, http.StatusInternalServerError, &calls, &bodies), retryConfig(), newTestLogger())
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/feedback", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, calls)
}

func TestWithRetryStopsWhenClientCancels(t *testing.T) {
	var calls int
	var bodies []string
	cfg := retryConfig()
	cfg.BaseBackoff = 1 << 40
	h := withRetry(flakyHandler(5, http.StatusInternalServerError, &calls, &bodies), cfg, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/answers", strings.NewReader(`{}`)).WithContext(ctx)
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, 1, calls)
}

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-lecturer-console/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveRefresh(t *testing.T) {
	before := testutil.ToFloat64(metrics.TokenRefreshTotal.WithLabelValues(metrics.RefreshRejected))
	metrics.ObserveRefresh(metrics.RefreshRejected)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.TokenRefreshTotal.WithLabelValues(metrics.RefreshRejected)))
}

func TestHandler_ExposesConsoleMetrics(t *testing.T) {
	metrics.ObserveHTTP(http.MethodGet, http.StatusOK)
	metrics.ObserveRetry()
	metrics.ObserveGuard("render")

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `console_http_requests_total{method="GET",status="200"}`)
	require.Contains(t, body, "console_request_retry_total")
	require.Contains(t, body, `console_guard_decisions_total{decision="render"}`)
}

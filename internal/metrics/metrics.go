// Package metrics holds the console's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresh outcomes
const (
	RefreshSuccess     = "success"
	RefreshNoToken     = "no_refresh_token"
	RefreshRejected    = "rejected"
	RefreshUnavailable = "unavailable"
)

var (
	TokenRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_token_refresh_total",
		Help: "Token refresh calls made against the backend, by outcome.",
	}, []string{"outcome"})

	RequestRetryTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "console_request_retry_total",
		Help: "Requests replayed once after a 401.",
	})

	GuardDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_guard_decisions_total",
		Help: "Route guard decisions, by decision.",
	}, []string{"decision"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_http_requests_total",
		Help: "Console HTTP requests, by method and status.",
	}, []string{"method", "status"})
)

func ObserveRefresh(outcome string) {
	TokenRefreshTotal.WithLabelValues(outcome).Inc()
}

func ObserveRetry() {
	RequestRetryTotal.Inc()
}

func ObserveGuard(decision string) {
	GuardDecisionsTotal.WithLabelValues(decision).Inc()
}

func ObserveHTTP(method string, status int) {
	HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

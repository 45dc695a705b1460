package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// UpstreamRequests counts completed upstream exchanges by endpoint and HTTP status.
	// Network faults are recorded with status "error".
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iol_dashboard",
			Name:      "upstream_requests_total",
			Help:      "Upstream IOL API requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	// UpstreamLatency observes upstream request duration in seconds.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "iol_dashboard",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream IOL API request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// TokenRefreshes counts password-grant token requests by outcome.
	TokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iol_dashboard",
			Name:      "token_refreshes_total",
			Help:      "Password-grant token requests by outcome.",
		},
		[]string{"outcome"},
	)

	// Responses counts handler answers by route and status code.
	Responses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iol_dashboard",
			Name:      "responses_total",
			Help:      "Aggregator responses by handler and status code.",
		},
		[]string{"handler", "code"},
	)

	registerOnce sync.Once
)

// MustRegisterMetrics registers every collector with the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(UpstreamRequests, UpstreamLatency, TokenRefreshes, Responses)
	})
}

// StatusLabel renders an HTTP status code as a label value.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}

package cartbackend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes recorded in backendRequestsTotal.
const (
	resultOK           = "ok"
	resultUnauthorized = "unauthorized"
	resultHTTPError    = "http_error"
	resultTransport    = "transport_error"
	resultDecode       = "decode_error"
)

var (
	// backendRequestsTotal counts cart backend calls by operation and outcome
	backendRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_backend_requests_total",
		Help: "Total cart backend requests by operation and result",
	}, []string{"operation", "result"})

	// backendRequestDuration tracks cart backend latency
	backendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_backend_request_duration_seconds",
		Help:    "Cart backend request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"operation"})

	// invalidLinesTotal counts backend lines dropped by validation
	invalidLinesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_backend_invalid_lines_total",
		Help: "Cart lines dropped because the backend payload failed validation",
	})
)

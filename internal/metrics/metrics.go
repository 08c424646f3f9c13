// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "isabitv_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "isabitv_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "isabitv_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// RateLimiterRejections counts rejected requests due to rate limiting
	RateLimiterRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "isabitv_rate_limiter_rejections_total",
			Help: "Total number of requests rejected by rate limiter",
		},
		[]string{"scope"},
	)

	// ContestTransitions counts contest lifecycle transitions by target status
	ContestTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "isabitv_contest_transitions_total",
			Help: "Total number of contest lifecycle transitions",
		},
		[]string{"to"},
	)

	// EntryModerations counts entry moderation decisions by outcome
	EntryModerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "isabitv_entry_moderations_total",
			Help: "Total number of entry moderation decisions",
		},
		[]string{"to"},
	)

	// UploadRollbacks counts compensating deletes after failed metadata inserts
	UploadRollbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "isabitv_upload_rollbacks_total",
			Help: "Total number of uploads rolled back after metadata insert failure",
		},
	)
)

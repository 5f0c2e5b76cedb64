package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess     = "success"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
	OutcomeCacheHit    = "cache_hit"
)

var (
	ModelRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitescout_model_requests_total",
			Help: "Total number of generative model calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	ScoutFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitescout_scout_fallbacks_total",
			Help: "Total number of scout requests served by synthetic generation",
		},
		[]string{"reason"},
	)

	AuditRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sitescout_audit_retries_total",
			Help: "Total number of audit attempts retried after a rate limit",
		},
	)

	EmailVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitescout_email_verifications_total",
			Help: "Total number of simulated email verifications by verdict",
		},
		[]string{"status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sitescout_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

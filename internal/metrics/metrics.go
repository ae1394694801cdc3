// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Webhook event results.
const (
	ResultIgnored      = "ignored"
	ResultReviewed     = "reviewed"
	ResultUnauthorized = "unauthorized"
	ResultBadRequest   = "bad_request"
	ResultFailed       = "failed"
)

var (
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeinspector_webhook_events_total",
			Help: "Webhook deliveries received, by event type and result",
		},
		[]string{"event", "result"},
	)

	ReviewOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeinspector_review_outcomes_total",
			Help: "Completed reviews, by outcome status",
		},
		[]string{"status"},
	)

	ReviewDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codeinspector_review_duration_seconds",
			Help:    "Wall time of one end-to-end review",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
	)

	PersistenceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "codeinspector_persistence_failures_total",
			Help: "Review outcomes that could not be stored",
		},
	)
)

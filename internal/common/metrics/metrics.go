// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_created_total",
			Help: "Total number of submissions persisted, by type",
		},
		[]string{"type"},
	)

	SubmissionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_rejected_total",
			Help: "Total number of submissions rejected at intake",
		},
		[]string{"type", "reason"},
	)

	WebhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Webhook delivery attempts by form type and outcome",
		},
		[]string{"type", "status"},
	)

	ReviewScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "staff_application_review_score",
			Help:    "Distribution of computed staff application scores",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "route", "status"},
	)
)

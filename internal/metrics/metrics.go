// Package metrics holds the Prometheus instruments exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Searches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmatch_searches_total",
			Help: "Total number of recommendation searches by media type and outcome status",
		},
		[]string{"media_type", "status"},
	)

	Feedback = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmatch_feedback_total",
			Help: "Total number of feedback actions by media type",
		},
		[]string{"media_type", "action"},
	)

	AnalyzerFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodmatch_analyzer_fallbacks_total",
			Help: "Total number of prompt analyses that fell back to empty attributes",
		},
	)

	CatalogFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmatch_catalog_fallbacks_total",
			Help: "Total number of searches that used the popular-list fallback",
		},
		[]string{"media_type"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmatch_upstream_requests_total",
			Help: "Total number of catalog API requests by catalog and outcome",
		},
		[]string{"catalog", "outcome"}, // "ok", "http_error", "transport_error", "decode_error"
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodmatch_upstream_request_duration_seconds",
			Help:    "Duration of catalog API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"catalog"},
	)

	DetailsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmatch_details_dropped_total",
			Help: "Total number of candidates dropped because their detail lookup failed",
		},
		[]string{"media_type"},
	)
)

// RecordUpstream records one catalog request.
func RecordUpstream(catalog, outcome string, duration time.Duration) {
	UpstreamRequests.WithLabelValues(catalog, outcome).Inc()
	UpstreamDuration.WithLabelValues(catalog).Observe(duration.Seconds())
}

// RecordSearch records a finished search.
func RecordSearch(mediaType, status string) {
	Searches.WithLabelValues(mediaType, status).Inc()
}

func RecordFeedback(mediaType, action string) {
	Feedback.WithLabelValues(mediaType, action).Inc()
}

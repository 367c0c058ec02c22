// Package monitoring exposes Prometheus metrics and summarizes stored
// analyses for health checks.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feasibility_http_requests_total",
			Help: "Total number of API requests by route and status code",
		},
		[]string{"route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feasibility_http_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	ScoresComputed = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feasibility_score",
			Help:    "Distribution of computed scores by kind",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"kind"},
	)

	ClientRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feasibility_client_requests_total",
			Help: "Total number of analysis API calls by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	ClientFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feasibility_client_fallbacks_total",
			Help: "Total number of mock substitutions by operation and failure kind",
		},
		[]string{"op", "kind"},
	)

	AnalysesStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feasibility_analyses_stored_total",
			Help: "Total number of analyses saved by result source",
		},
		[]string{"source"},
	)
)

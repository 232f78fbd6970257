package recommendation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts recommendation requests by path (personalized, fallback) and outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bursary_recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"path", "outcome"},
	)

	// RequestDuration tracks end-to-end engine latency including store reads.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bursary_recommendation_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"path"},
	)

	// CandidateSetSize records how many bursaries were scored per personalized request.
	CandidateSetSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bursary_recommendation_candidates",
			Help:    "Number of candidate bursaries scored per personalized request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)

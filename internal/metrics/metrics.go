// Package metrics holds the Prometheus collectors of the originality service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ChecksTotal counts finished checks by status (completed, failed).
	ChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "originality_checks_total",
			Help: "Total number of originality checks by final status.",
		},
		[]string{"status"},
	)

	// CheckDuration measures whole-check duration including fetch and load.
	CheckDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "originality_check_duration_seconds",
			Help:    "Originality check duration in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	// ScoringDuration measures the scoring phase only.
	ScoringDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "originality_scoring_duration_seconds",
			Help:    "Duration of the pairwise scoring phase in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	PairsScored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "originality_pairs_scored_total",
			Help: "Total number of target/reference pairs scored.",
		},
	)

	// FilesLoaded counts loaded files by side (target, reference).
	FilesLoaded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "originality_files_loaded_total",
			Help: "Total number of files loaded by corpus side.",
		},
		[]string{"side"},
	)

	FilesSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "originality_files_skipped_total",
			Help: "Total number of files skipped because they could not be read.",
		},
		[]string{"side"},
	)

	AverageSimilarity = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "originality_average_similarity",
			Help:    "Distribution of run-wide average similarity.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	// RequestCount counts HTTP requests
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)
)

var registerOnce sync.Once

// InitPrometheus registers all collectors with the default registry.
func InitPrometheus() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ChecksTotal,
			CheckDuration,
			ScoringDuration,
			PairsScored,
			FilesLoaded,
			FilesSkipped,
			AverageSimilarity,
			RequestCount,
			RequestDuration,
		)
	})
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

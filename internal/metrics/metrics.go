// Package metrics provides Prometheus metrics for the news pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StageDuration measures how long each pipeline stage takes.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsagg",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"},
	)

	// StageErrors counts error strings appended per stage.
	StageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsagg",
			Name:      "stage_errors_total",
			Help:      "Total number of recorded stage errors",
		},
		[]string{"stage"},
	)

	// ProviderRequests counts search provider calls by outcome.
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsagg",
			Name:      "provider_requests_total",
			Help:      "Total number of search provider requests",
		},
		[]string{"provider", "status"},
	)

	// Extractions counts per-article extraction outcomes.
	Extractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsagg",
			Name:      "extractions_total",
			Help:      "Total number of article extractions by outcome",
		},
		[]string{"outcome"},
	)

	// Runs counts finished pipeline runs.
	Runs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsagg",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs",
		},
		[]string{"status"},
	)
)

// RecordStage records a stage duration and how many errors it appended.
func RecordStage(stage string, seconds float64, newErrors int) {
	StageDuration.WithLabelValues(stage).Observe(seconds)
	if newErrors > 0 {
		StageErrors.WithLabelValues(stage).Add(float64(newErrors))
	}
}

// RecordProvider records one provider call.
func RecordProvider(provider string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ProviderRequests.WithLabelValues(provider, status).Inc()
}

// RecordExtraction records one article extraction outcome
// ("extracted", "cached", "fallback", "skipped").
func RecordExtraction(outcome string) {
	Extractions.WithLabelValues(outcome).Inc()
}

// RecordRun records a finished run.
func RecordRun(succeeded bool) {
	status := "degraded"
	if succeeded {
		status = "success"
	}
	Runs.WithLabelValues(status).Inc()
}

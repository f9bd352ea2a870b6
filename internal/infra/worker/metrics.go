package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newswire/internal/pkg/config"
	"newswire/internal/usecase/orchestrator"
)

// RunMetrics provides Prometheus metrics for CLI runs.
// It embeds the standard ConfigMetrics for configuration monitoring.
//
// Embedded metrics (from ConfigMetrics):
//   - newswire_config_load_timestamp
//   - newswire_config_validation_errors_total
//   - newswire_config_fallbacks_total
//   - newswire_config_fallback_active
//
// Run metrics:
//   - newswire_runs_total: runs by status (success/failure)
//   - newswire_run_duration_seconds: run duration
//   - newswire_run_articles_total: articles by outcome (extracted/failed)
//   - newswire_run_last_success_timestamp: Unix timestamp of the last successful run
type RunMetrics struct {
	*config.ConfigMetrics

	RunsTotal            *prometheus.CounterVec
	RunDurationSeconds   prometheus.Histogram
	RunArticlesTotal     *prometheus.CounterVec
	LastSuccessTimestamp prometheus.Gauge
}

// NewRunMetrics creates and registers the run metrics. Call it once per process.
func NewRunMetrics() *RunMetrics {
	return &RunMetrics{
		ConfigMetrics: config.NewConfigMetrics("newswire"),

		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "newswire_runs_total",
			Help: "Total number of runs by status (success/failure)",
		}, []string{"status"}),

		RunDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "newswire_run_duration_seconds",
			Help:    "Duration of a run in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		RunArticlesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "newswire_run_articles_total",
			Help: "Total number of articles handled by runs, by outcome",
		}, []string{"outcome"}),

		LastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "newswire_run_last_success_timestamp",
			Help: "Unix timestamp of the last successful run",
		}),
	}
}

// RecordRun records the outcome of a finished run.
func (m *RunMetrics) RecordRun(stats orchestrator.RunStats, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(stats.Duration.Seconds())
	m.RunArticlesTotal.WithLabelValues("extracted").Add(float64(stats.Extracted))
	m.RunArticlesTotal.WithLabelValues("failed").Add(float64(stats.Failed))
	if err == nil {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}

package config

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics tracks how a component's environment configuration was loaded.
//
// One instance exists per component; the component name prefixes every metric:
//   - {component}_config_load_timestamp
//   - {component}_config_validation_errors_total{field}
//   - {component}_config_fallbacks_total{field}
//   - {component}_config_fallback_active
//
// Typical use goes through Track:
//
//	var configMetrics = config.NewConfigMetrics("scraper")
//
//	timeout := config.LoadEnvDuration("FEED_FETCH_TIMEOUT", 15*time.Second, nil)
//	cfg.Timeout = config.Track(configMetrics, "timeout", timeout)
type ConfigMetrics struct {
	LoadTimestamp         prometheus.Gauge
	ValidationErrorsTotal *prometheus.CounterVec
	FallbacksTotal        *prometheus.CounterVec
	// FallbackActive is 1 while any field of the last load runs on its default.
	FallbackActive prometheus.Gauge
}

// NewConfigMetrics registers the metrics of one component with the default
// registry. Registering the same component twice panics.
func NewConfigMetrics(component string) *ConfigMetrics {
	name := func(suffix string) string { return fmt.Sprintf("%s_config_%s", component, suffix) }

	return &ConfigMetrics{
		LoadTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: name("load_timestamp"),
			Help: fmt.Sprintf("Unix timestamp of the last %s configuration load", component),
		}),
		ValidationErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: name("validation_errors_total"),
			Help: fmt.Sprintf("Invalid %s configuration values by field", component),
		}, []string{"field"}),
		FallbacksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: name("fallbacks_total"),
			Help: fmt.Sprintf("%s configuration fields that fell back to their default", component),
		}, []string{"field"}),
		FallbackActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: name("fallback_active"),
			Help: fmt.Sprintf("1 if any %s configuration fallback is active, 0 otherwise", component),
		}),
	}
}

// RecordLoadTimestamp marks a completed configuration load.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// RecordFallback counts an invalid value for field that was replaced by its default.
func (m *ConfigMetrics) RecordFallback(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
	m.FallbacksTotal.WithLabelValues(field).Inc()
}

// SetFallbackActive sets the fallback gauge for the last load.
func (m *ConfigMetrics) SetFallbackActive(active bool) {
	if active {
		m.FallbackActive.Set(1)
		return
	}
	m.FallbackActive.Set(0)
}

// Track records the outcome of a load for field and returns its value.
func Track[T any](m *ConfigMetrics, field string, result LoadResult[T]) T {
	if result.FallbackApplied {
		m.RecordFallback(field)
	}
	return result.Value
}

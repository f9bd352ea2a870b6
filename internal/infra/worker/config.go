// Package worker holds the run-level settings, metrics and ops endpoints of a
// newswire run.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newswire/internal/domain/entity"
	"newswire/internal/pkg/config"
)

// RunConfig holds the configuration of one pipeline run.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
//   - CLI flags, which override both
//
// Example usage:
//
//	cfg := LoadConfigFromEnv(logger, metrics)
//	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
//	defer cancel()
type RunConfig struct {
	// Limit is the maximum number of entries taken per category. 0 means no limit.
	// Range: 0-1000
	// Default: 0
	Limit int

	// RunTimeout bounds a whole Process call.
	// Range: 1m-4h
	// Default: 10 minutes
	RunTimeout time.Duration

	// ExtractParallelism is the number of articles extracted at once.
	// Range: 1-50
	// Default: 4
	ExtractParallelism int

	// CategoryParallelism is the number of category feeds of one provider fetched at once.
	// Range: 1-20
	// Default: 2
	CategoryParallelism int

	// MetricsPort is the port of the ops server (/metrics, /health). 0 disables it.
	// Range: 0 or 1024-65535
	// Default: 0
	MetricsPort int

	// ProvidersPath is the provider configuration file. Empty selects the built-in providers.
	// Default: ""
	ProvidersPath string
}

// DefaultConfig returns a RunConfig with default values.
func DefaultConfig() RunConfig {
	return RunConfig{
		Limit:               0,
		RunTimeout:          10 * time.Minute,
		ExtractParallelism:  4,
		CategoryParallelism: 2,
		MetricsPort:         0,
		ProvidersPath:       "",
	}
}

// EntryLimit returns Limit as an entity.Limit.
func (c *RunConfig) EntryLimit() entity.Limit {
	if c.Limit == 0 {
		return entity.NoLimit()
	}
	return entity.LimitTo(c.Limit)
}

// Validate checks the configuration values and reports every invalid field.
func (c *RunConfig) Validate() error {
	var errs []error

	if err := config.ValidateIntRange(c.Limit, 0, 1000); err != nil {
		errs = append(errs, fmt.Errorf("limit: %w", err))
	}
	if err := config.ValidateDuration(c.RunTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.ExtractParallelism, 1, 50); err != nil {
		errs = append(errs, fmt.Errorf("extract parallelism: %w", err))
	}
	if err := config.ValidateIntRange(c.CategoryParallelism, 1, 20); err != nil {
		errs = append(errs, fmt.Errorf("category parallelism: %w", err))
	}
	if err := validatePort(c.MetricsPort); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	return errors.Join(errs...)
}

func validatePort(port int) error {
	if port == 0 {
		return nil
	}
	return config.ValidateIntRange(port, 1024, 65535)
}

// LoadConfigFromEnv loads the run configuration from environment variables.
// Invalid values fall back to their defaults with a warning and a metric; the
// returned configuration is always valid.
//
// Environment variables:
//   - NEWSWIRE_LIMIT: Integer 0-1000, 0 means no limit (default: 0)
//   - NEWSWIRE_RUN_TIMEOUT: Duration string, e.g. "10m" (default: 10m)
//   - NEWSWIRE_EXTRACT_PARALLELISM: Integer 1-50 (default: 4)
//   - NEWSWIRE_CATEGORY_PARALLELISM: Integer 1-20 (default: 2)
//   - METRICS_PORT: Integer 0 or 1024-65535 (default: 0, disabled)
//   - NEWSWIRE_PROVIDERS: Path to the provider file (default: built-in providers)
func LoadConfigFromEnv(logger *slog.Logger, metrics *RunMetrics) RunConfig {
	cfg := DefaultConfig()
	fallbackApplied := false

	load := func(field string, result config.LoadResult[int]) int {
		if result.FallbackApplied {
			fallbackApplied = true
			for _, warning := range result.Warnings {
				logger.Warn("Configuration fallback applied",
					slog.String("field", field),
					slog.String("warning", warning))
			}
		}
		return config.Track(metrics.ConfigMetrics, field, result)
	}

	cfg.Limit = load("limit", config.LoadEnvInt("NEWSWIRE_LIMIT", cfg.Limit, config.IntRange(0, 1000)))
	cfg.ExtractParallelism = load("extract_parallelism",
		config.LoadEnvInt("NEWSWIRE_EXTRACT_PARALLELISM", cfg.ExtractParallelism, config.IntRange(1, 50)))
	cfg.CategoryParallelism = load("category_parallelism",
		config.LoadEnvInt("NEWSWIRE_CATEGORY_PARALLELISM", cfg.CategoryParallelism, config.IntRange(1, 20)))
	cfg.MetricsPort = load("metrics_port", config.LoadEnvInt("METRICS_PORT", cfg.MetricsPort, validatePort))

	timeout := config.LoadEnvDuration("NEWSWIRE_RUN_TIMEOUT", cfg.RunTimeout,
		config.DurationRange(time.Minute, 4*time.Hour))
	if timeout.FallbackApplied {
		fallbackApplied = true
		for _, warning := range timeout.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", "run_timeout"),
				slog.String("warning", warning))
		}
	}
	cfg.RunTimeout = config.Track(metrics.ConfigMetrics, "run_timeout", timeout)

	cfg.ProvidersPath = config.LoadEnvString("NEWSWIRE_PROVIDERS", cfg.ProvidersPath)

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return cfg
}

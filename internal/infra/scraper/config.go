package scraper

import (
	"fmt"
	"log/slog"
	"time"

	"newswire/internal/pkg/config"
)

// FeedConfig holds the configuration for feed retrieval.
type FeedConfig struct {
	// Timeout is the maximum duration for a single feed request.
	// Default: 15s
	Timeout time.Duration

	// UserAgent identifies the fetcher to feed servers.
	// Default: "NewswireBot/1.0"
	UserAgent string

	// MaxBodySize is the maximum feed document size in bytes.
	// Default: 5242880 (5MB)
	MaxBodySize int64
}

// configMetrics tracks fallbacks applied while loading FeedConfig.
var configMetrics = config.NewConfigMetrics("scraper")

// DefaultConfig returns the default feed configuration.
func DefaultConfig() FeedConfig {
	return FeedConfig{
		Timeout:     15 * time.Second,
		UserAgent:   "NewswireBot/1.0",
		MaxBodySize: 5 * 1024 * 1024,
	}
}

// Validate checks the configuration values.
func (c FeedConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}
	if c.MaxBodySize < 1024 {
		return fmt.Errorf("max body size must be at least 1024 bytes, got %d", c.MaxBodySize)
	}
	return nil
}

// LoadConfigFromEnv loads FeedConfig from the environment. Invalid values fall back
// to the defaults and are logged; the result is always usable.
//
// Environment variables:
//   - FEED_FETCH_TIMEOUT: duration string (default: 15s)
//   - FEED_USER_AGENT: string (default: NewswireBot/1.0)
//   - FEED_MAX_BODY_SIZE_KB: integer in kilobytes, 1-102400 (default: 5120)
func LoadConfigFromEnv(logger *slog.Logger) FeedConfig {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()

	timeout := config.LoadEnvDuration("FEED_FETCH_TIMEOUT", defaults.Timeout,
		config.DurationRange(time.Second, 5*time.Minute))
	bodyKB := config.LoadEnvInt("FEED_MAX_BODY_SIZE_KB", int(defaults.MaxBodySize/1024),
		config.IntRange(1, 100*1024))

	for _, w := range append(timeout.Warnings, bodyKB.Warnings...) {
		logger.Warn("feed configuration fallback", slog.String("warning", w))
	}
	configMetrics.SetFallbackActive(timeout.FallbackApplied || bodyKB.FallbackApplied)
	configMetrics.RecordLoadTimestamp()

	return FeedConfig{
		Timeout:     config.Track(configMetrics, "timeout", timeout),
		UserAgent:   config.LoadEnvString("FEED_USER_AGENT", defaults.UserAgent),
		MaxBodySize: int64(config.Track(configMetrics, "max_body_size", bodyKB)) * 1024,
	}
}

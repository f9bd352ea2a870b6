package fetcher

import (
	"fmt"
	"log/slog"
	"time"

	"newswire/internal/pkg/config"
)

// ExtractConfig holds the configuration for article extraction.
//
// Security settings:
//   - DenyPrivateIPs: Prevents SSRF by blocking private IP addresses
//   - MaxBodySize: Prevents memory exhaustion from oversized responses
//   - MaxRedirects: Prevents redirect loops
//   - Timeout: Bounds each request
//
// Politeness settings:
//   - RequestsPerSecond and Burst throttle requests across all article hosts
type ExtractConfig struct {
	// Timeout is the maximum duration for a single article request.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// This is enforced during response reading, not based on Content-Length header.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Each redirect target is validated like the original URL.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs controls whether URLs resolving to private addresses are rejected.
	// Should always be true in production.
	// Default: true
	DenyPrivateIPs bool

	// RequestsPerSecond is the sustained article request rate. Zero disables throttling.
	// Default: 5
	RequestsPerSecond float64

	// Burst is the number of requests allowed above the sustained rate.
	// Default: 5
	Burst int

	// UserAgent identifies the extractor to article servers.
	// Default: "NewswireBot/1.0"
	UserAgent string
}

// configMetrics tracks fallbacks applied while loading ExtractConfig.
var configMetrics = config.NewConfigMetrics("fetcher")

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() ExtractConfig {
	return ExtractConfig{
		Timeout:           10 * time.Second,
		MaxBodySize:       10 * 1024 * 1024, // 10MB
		MaxRedirects:      5,
		DenyPrivateIPs:    true,
		RequestsPerSecond: 5,
		Burst:             5,
		UserAgent:         "NewswireBot/1.0",
	}
}

// Validate checks if the configuration values are valid and safe.
//
// Validation rules:
//   - Timeout: > 0
//   - MaxBodySize: 1KB-100MB
//   - MaxRedirects: 0-10
//   - RequestsPerSecond: >= 0
//   - Burst: >= 1 when throttling is enabled
func (c *ExtractConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must be non-negative, got %v", c.RequestsPerSecond)
	}
	if c.RequestsPerSecond > 0 && c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1 when throttling, got %d", c.Burst)
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// Unset variables keep their defaults; invalid ones fall back to the default
// with a logged warning.
//
// Environment variables:
//   - ARTICLE_FETCH_TIMEOUT: duration string, e.g. "10s" (default: 10s)
//   - ARTICLE_FETCH_MAX_BODY_SIZE_KB: integer in kilobytes, 1-102400 (default: 10240)
//   - ARTICLE_FETCH_MAX_REDIRECTS: integer 0-10 (default: 5)
//   - ARTICLE_FETCH_DENY_PRIVATE_IPS: boolean (default: true)
//   - ARTICLE_FETCH_RPS: requests per second, 0-1000, 0 disables throttling (default: 5)
//   - ARTICLE_FETCH_BURST: integer 1-100 (default: 5)
//   - ARTICLE_FETCH_USER_AGENT: string (default: NewswireBot/1.0)
func LoadConfigFromEnv(logger *slog.Logger) ExtractConfig {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()

	timeout := config.LoadEnvDuration("ARTICLE_FETCH_TIMEOUT", defaults.Timeout,
		config.DurationRange(time.Second, 2*time.Minute))
	bodyKB := config.LoadEnvInt("ARTICLE_FETCH_MAX_BODY_SIZE_KB", int(defaults.MaxBodySize/1024),
		config.IntRange(1, 100*1024))
	redirects := config.LoadEnvInt("ARTICLE_FETCH_MAX_REDIRECTS", defaults.MaxRedirects, config.IntRange(0, 10))
	denyPrivate := config.LoadEnvBool("ARTICLE_FETCH_DENY_PRIVATE_IPS", defaults.DenyPrivateIPs)
	rps := config.LoadEnvInt("ARTICLE_FETCH_RPS", int(defaults.RequestsPerSecond), config.IntRange(0, 1000))
	burst := config.LoadEnvInt("ARTICLE_FETCH_BURST", defaults.Burst, config.IntRange(1, 100))

	var warnings []string
	for _, w := range [][]string{
		timeout.Warnings, bodyKB.Warnings, redirects.Warnings,
		denyPrivate.Warnings, rps.Warnings, burst.Warnings,
	} {
		warnings = append(warnings, w...)
	}
	for _, w := range warnings {
		logger.Warn("article fetch configuration fallback", slog.String("warning", w))
	}
	configMetrics.SetFallbackActive(len(warnings) > 0)
	configMetrics.RecordLoadTimestamp()

	return ExtractConfig{
		Timeout:           config.Track(configMetrics, "timeout", timeout),
		MaxBodySize:       int64(config.Track(configMetrics, "max_body_size", bodyKB)) * 1024,
		MaxRedirects:      config.Track(configMetrics, "max_redirects", redirects),
		DenyPrivateIPs:    config.Track(configMetrics, "deny_private_ips", denyPrivate),
		RequestsPerSecond: float64(config.Track(configMetrics, "requests_per_second", rps)),
		Burst:             config.Track(configMetrics, "burst", burst),
		UserAgent:         config.LoadEnvString("ARTICLE_FETCH_USER_AGENT", defaults.UserAgent),
	}
}

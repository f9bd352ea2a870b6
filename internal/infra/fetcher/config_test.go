package fetcher_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"newswire/internal/infra/fetcher"
)

func TestDefaultConfig(t *testing.T) {
	cfg := fetcher.DefaultConfig()

	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxBodySize)
	assert.Equal(t, 5, cfg.MaxRedirects)
	assert.True(t, cfg.DenyPrivateIPs)
	assert.NoError(t, cfg.Validate())
}

func TestExtractConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*fetcher.ExtractConfig)
	}{
		{name: "zero timeout", modify: func(c *fetcher.ExtractConfig) { c.Timeout = 0 }},
		{name: "tiny body", modify: func(c *fetcher.ExtractConfig) { c.MaxBodySize = 10 }},
		{name: "huge body", modify: func(c *fetcher.ExtractConfig) { c.MaxBodySize = 200 * 1024 * 1024 }},
		{name: "negative redirects", modify: func(c *fetcher.ExtractConfig) { c.MaxRedirects = -1 }},
		{name: "too many redirects", modify: func(c *fetcher.ExtractConfig) { c.MaxRedirects = 11 }},
		{name: "negative rate", modify: func(c *fetcher.ExtractConfig) { c.RequestsPerSecond = -1 }},
		{name: "zero burst", modify: func(c *fetcher.ExtractConfig) { c.Burst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fetcher.DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ARTICLE_FETCH_TIMEOUT", "20s")
	t.Setenv("ARTICLE_FETCH_MAX_BODY_SIZE_KB", "2048")
	t.Setenv("ARTICLE_FETCH_MAX_REDIRECTS", "50")
	t.Setenv("ARTICLE_FETCH_DENY_PRIVATE_IPS", "false")
	t.Setenv("ARTICLE_FETCH_RPS", "0")

	cfg := fetcher.LoadConfigFromEnv(slog.New(slog.DiscardHandler))

	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, int64(2048*1024), cfg.MaxBodySize)
	assert.Equal(t, 5, cfg.MaxRedirects, "out of range falls back to default")
	assert.False(t, cfg.DenyPrivateIPs)
	assert.Zero(t, cfg.RequestsPerSecond)
	assert.NoError(t, cfg.Validate())
}

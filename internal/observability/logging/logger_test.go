package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "invalid", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: "info", Output: &buf})

	logger.Debug("hidden")
	logger.Info("fetched feed", slog.String("category", "HOME"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "fetched feed", record["msg"])
	assert.Equal(t, "HOME", record["category"])
	assert.Equal(t, "INFO", record["level"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: "debug", Format: "text", Output: &buf})

	logger.Debug("visible")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := WithRunID(NewLogger(Options{Output: &buf}), "run-123")

	logger.Info("run started")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "run-123", record["run_id"])
}

func TestWithRunID_EmptyKeepsLogger(t *testing.T) {
	logger := slog.Default()
	assert.Same(t, logger, WithRunID(logger, ""))
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := WithFields(NewLogger(Options{Output: &buf}), map[string]any{"provider": "sky"})

	logger.Info("hello")

	assert.Contains(t, buf.String(), `"provider":"sky"`)
}

func TestContextLogger(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	logger := NewLogger(Options{Output: &buf})
	ctx := WithLogger(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
}

// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helpers for the
// patterns used throughout the pipeline: building a JSON or text logger from the
// environment, and carrying a run-scoped logger through context.
//
// Example usage:
//
//	logger := logging.NewLogger(logging.OptionsFromEnv())
//	slog.SetDefault(logger)
//
//	ctx = logging.WithLogger(ctx, logging.WithRunID(logger, runID))
//	logging.FromContext(ctx).Info("run started")
package logging

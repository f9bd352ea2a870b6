// Package observability groups the logging, metrics and tracing infrastructure
// shared by the news pipeline.
//
// Subpackages:
//   - logging: slog logger construction and context propagation
//   - metrics: Prometheus collectors for feed fetches, article extraction and runs
//   - tracing: OpenTelemetry tracer used around orchestration steps
package observability

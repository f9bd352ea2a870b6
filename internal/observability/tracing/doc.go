// Package tracing provides the OpenTelemetry tracer of the news pipeline.
//
// No exporter is installed by default, so spans are no-ops until the process
// registers a TracerProvider with otel.SetTracerProvider.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "orchestrator.Process")
//	defer span.End()
package tracing

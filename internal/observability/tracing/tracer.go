package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "newswire"

// GetTracer returns the tracer for creating pipeline spans.
// It is resolved on each call so that a provider installed after start-up is honored.
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// EndSpan records err on the span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "ruffls"

// StartRequestSpan starts a span for an inbound LSP request.
func StartRequestSpan(ctx context.Context, method string, id string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "request",
		trace.WithAttributes(
			attribute.String("lsp.method", method),
			attribute.String("lsp.request_id", id),
		),
	)
}

// StartLintSpan starts a span for a single lint engine invocation.
func StartLintSpan(ctx context.Context, uri string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "lint",
		trace.WithAttributes(
			attribute.String("document.uri", uri),
		),
	)
}

// StartStateLockSpan starts a span covering the wait-then-hold window for a
// ServerState lock acquisition.
func StartStateLockSpan(ctx context.Context, field string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "state_lock",
		trace.WithAttributes(
			attribute.String("state.field", field),
		),
	)
}

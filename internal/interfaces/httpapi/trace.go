package httpapi

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("equipe-service/internal/interfaces/httpapi")

// startSpan opens a child span for handler work. Requests that otelhttp did
// not trace (health-check paths) carry no parent and get no span either.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return apiTracer.Start(ctx, name)
}

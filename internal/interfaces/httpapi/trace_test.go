package httpapi

import (
	"context"
	"testing"
)

func TestStartSpan_WithoutParentIsNoop(t *testing.T) {
	ctx := context.Background()
	got, span := startSpan(ctx, "httpapi.Handler.Healthz")
	defer span.End()

	if got != ctx {
		t.Fatalf("expected context to be returned unchanged")
	}
	if span.IsRecording() || span.SpanContext().IsValid() {
		t.Fatalf("expected a non-recording span without a parent")
	}
}

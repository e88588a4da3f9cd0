package otelx

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestTraceContextRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	traceparent := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	ctx := ContextWithTraceContext(context.Background(), traceparent, "")
	if got := TraceID(ctx); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("unexpected trace id %q", got)
	}
	if got, _ := TraceContextStrings(ctx); got != traceparent {
		t.Fatalf("unexpected traceparent %q", got)
	}
}

func TestTraceIDEmptyWithoutSpan(t *testing.T) {
	ctx := ContextWithTraceContext(context.Background(), "", "vendor=1")
	if got := TraceID(ctx); got != "" {
		t.Fatalf("expected no trace id, got %q", got)
	}
}

package oteltrace

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestStartPropagatesSpan(t *testing.T) {
	tr := FromProvider(noop.NewTracerProvider(), "")

	ctx, span := tr.Start(context.Background(), "UC.ProcessPayment", attribute.String("payment.method", "debit"))
	defer span.End()

	if got := trace.SpanContextFromContext(ctx); !got.Equal(span.SpanContext()) {
		t.Fatalf("context span = %v, want %v", got, span.SpanContext())
	}
	if span.IsRecording() {
		t.Error("noop span is recording")
	}
}

func TestNewUsesGlobalProvider(t *testing.T) {
	_, span := New("").Start(context.Background(), "UC.CreateOrder")
	span.End()
	if span == nil {
		t.Fatal("nil span")
	}
}

package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "chathub"
)

// GetTracer returns the tracer for the chathub service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// TurnAttributes returns common attributes for turn spans.
func TurnAttributes(conversationID string, firstTurn bool, inputLen int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("turn.conversation_id", conversationID),
		attribute.Bool("turn.first", firstTurn),
		attribute.Int("turn.input_length", inputLen),
	}
}

// StartTurnSpan starts a new span for one chat turn.
func StartTurnSpan(ctx context.Context, conversationID string, firstTurn bool, inputLen int) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "turn.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(TurnAttributes(conversationID, firstTurn, inputLen)...),
	)
	return ctx, span
}

// StartEnrichmentSpan starts a new span for an enrichment call.
func StartEnrichmentSpan(ctx context.Context, kind string) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "enrichment."+kind,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("enrichment.kind", kind)),
	)
	return ctx, span
}

// StartCompletionSpan starts a new span for one streamed completion.
func StartCompletionSpan(ctx context.Context, model string) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "completion.stream",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("completion.model", model)),
	)
	return ctx, span
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error, severity string) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("error.severity", severity))
}

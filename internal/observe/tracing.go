package observe

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("calc")

// StartEvalSpan starts a span for parsing and evaluating one expression.
func StartEvalSpan(ctx context.Context, src string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "calc.eval",
		trace.WithAttributes(
			attribute.String("calc.expr", src),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartSessionSpan starts a span for a whole game session.
func StartSessionSpan(ctx context.Context, sessionID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "rps.session",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartRoundSpan starts a span for one game round. It should be a child of
// the session span.
func StartRoundSpan(ctx context.Context, round int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "rps.round",
		trace.WithAttributes(
			attribute.Int("round", round),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

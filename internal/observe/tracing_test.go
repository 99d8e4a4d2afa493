package observe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest installs a tracer provider recording spans in memory.
func setupTracingTest(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("calc")
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		tracer = otel.Tracer("calc")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("shutting down tracer provider: %v", err)
		}
	})
	return exporter
}

func spanAttr(s tracetest.SpanStub, key string) attribute.Value {
	for _, kv := range s.Attributes {
		if string(kv.Key) == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

func TestStartEvalSpan(t *testing.T) {
	exporter := setupTracingTest(t)

	_, span := StartEvalSpan(context.Background(), "2+3")
	EndSpanWithError(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "calc.eval", spans[0].Name)
	assert.Equal(t, "2+3", spanAttr(spans[0], "calc.expr").AsString())
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func TestEndSpanWithError(t *testing.T) {
	exporter := setupTracingTest(t)

	_, span := StartEvalSpan(context.Background(), "7/0")
	EndSpanWithError(span, errors.New("division by zero"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "division by zero", spans[0].Status.Description)
	require.NotEmpty(t, spans[0].Events)
	assert.Equal(t, "exception", spans[0].Events[0].Name)

	assert.NotPanics(t, func() { EndSpanWithError(nil, nil) })
}

func TestSessionAndRoundSpans(t *testing.T) {
	exporter := setupTracingTest(t)

	ctx, session := StartSessionSpan(context.Background(), "abc")
	rctx, round := StartRoundSpan(ctx, 1)
	AddSpanEvent(rctx, "decided", attribute.String("outcome", "tie"))
	EndSpanWithError(round, nil)
	EndSpanWithError(session, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	r, s := spans[0], spans[1]
	assert.Equal(t, "rps.round", r.Name)
	assert.Equal(t, "rps.session", s.Name)
	assert.Equal(t, s.SpanContext.SpanID(), r.Parent.SpanID())
	assert.Equal(t, "abc", spanAttr(s, "session.id").AsString())
	assert.Equal(t, int64(1), spanAttr(r, "round").AsInt64())
	require.Len(t, r.Events, 1)
	assert.Equal(t, "decided", r.Events[0].Name)
}

func TestAddSpanEventWithoutSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		AddSpanEvent(context.Background(), "nothing")
	})
}

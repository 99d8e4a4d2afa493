package observe

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func TestTelemetrySpans(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	tel := NewTelemetry(logger)

	tr := tel.tp.Tracer("test")
	ctx, parent := tr.Start(context.Background(), "rps.session")
	_, child := tr.Start(ctx, "rps.round")
	child.SetAttributes(attribute.String("outcome", "tie"))
	EndSpanWithError(child, errors.New("history failed"))
	EndSpanWithError(parent, nil)
	require.NoError(t, tel.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "msg=span name=rps.round")
	assert.Contains(t, out, "msg=span name=rps.session")
	assert.Contains(t, out, "outcome=tie")
	assert.Contains(t, out, "status=Error")
	assert.Contains(t, out, "parent_id="+parent.SpanContext().SpanID().String())
}

func TestTelemetryMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	tel := NewTelemetry(logger)

	meter := tel.mp.Meter("test")
	counter, err := meter.Int64Counter("calc.evaluations")
	require.NoError(t, err)
	hist, err := meter.Float64Histogram("calc.evaluation.latency_ms")
	require.NoError(t, err)
	ctx := context.Background()
	ok := metric.WithAttributes(attribute.String("result", "ok"))
	counter.Add(ctx, 2, ok)
	hist.Record(ctx, 1.5, ok)
	hist.Record(ctx, 2.5, ok)
	require.NoError(t, tel.Shutdown(ctx))

	out := buf.String()
	assert.Contains(t, out, "name=calc.evaluations attributes=\"result=ok\" value=2")
	assert.Contains(t, out, "name=calc.evaluation.latency_ms attributes=\"result=ok\" count=2 sum=4")
}

func TestTelemetryNilLogger(t *testing.T) {
	tel := NewTelemetry(nil)
	require.NotNil(t, tel.logger)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

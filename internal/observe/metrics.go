package observe

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder records calculator and game metrics.
// Use NewRecorder() for OTel metrics or NoopRecorder{} when disabled.
type Recorder interface {
	// RecordEvaluation records an expression evaluation. result is "ok" or
	// the name of the error kind.
	RecordEvaluation(ctx context.Context, result string, duration time.Duration)

	// RecordRound records a game round with its outcome.
	RecordRound(ctx context.Context, outcome string)
}

// otelMetrics implements Recorder using OpenTelemetry.
type otelMetrics struct {
	evaluations metric.Int64Counter
	evalLatency metric.Float64Histogram
	rounds      metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("calc")

	evaluations, err := meter.Int64Counter("calc.evaluations",
		metric.WithDescription("Number of expression evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalLatency, err := meter.Float64Histogram("calc.evaluation.latency_ms",
		metric.WithDescription("Expression parse and evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	rounds, err := meter.Int64Counter("rps.rounds",
		metric.WithDescription("Number of rock-paper-scissors rounds"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations: evaluations,
		evalLatency: evalLatency,
		rounds:      rounds,
	}, nil
}

// NewRecorder returns a Recorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider, which must be set before
// the first call.
func NewRecorder() Recorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopRecorder{}
	}
	return m
}

func (m *otelMetrics) RecordEvaluation(ctx context.Context, result string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("result", result))
	m.evaluations.Add(ctx, 1, attrs)
	m.evalLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

func (m *otelMetrics) RecordRound(ctx context.Context, outcome string) {
	m.rounds.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

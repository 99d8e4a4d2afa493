package observe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Telemetry holds OpenTelemetry SDK providers that report to a logger.
// Finished spans are logged as they end, and metrics are logged once at
// Shutdown.
type Telemetry struct {
	logger *slog.Logger
	reader *sdkmetric.ManualReader
	mp     *sdkmetric.MeterProvider
	tp     *sdktrace.TracerProvider
}

// NewTelemetry creates providers reporting to logger. They are not
// installed until Install.
func NewTelemetry(logger *slog.Logger) *Telemetry {
	if logger == nil {
		logger = slog.Default()
	}
	reader := sdkmetric.NewManualReader()
	return &Telemetry{
		logger: logger,
		reader: reader,
		mp:     sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		tp:     sdktrace.NewTracerProvider(sdktrace.WithSyncer(&logExporter{logger: logger})),
	}
}

// Install makes the providers global. It must be called before the first
// NewRecorder for metrics to reach them.
func (t *Telemetry) Install() {
	otel.SetMeterProvider(t.mp)
	otel.SetTracerProvider(t.tp)
}

// Shutdown logs the collected metrics and stops the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var rm metricdata.ResourceMetrics
	err := t.reader.Collect(ctx, &rm)
	if err == nil {
		logMetrics(t.logger, &rm)
	}
	return errors.Join(err, t.tp.Shutdown(ctx), t.mp.Shutdown(ctx))
}

func logMetrics(logger *slog.Logger, rm *metricdata.ResourceMetrics) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					logger.Info("metric",
						slog.String("name", m.Name),
						slog.String("attributes", dp.Attributes.Encoded(attribute.DefaultEncoder())),
						slog.Int64("value", dp.Value),
					)
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					logger.Info("metric",
						slog.String("name", m.Name),
						slog.String("attributes", dp.Attributes.Encoded(attribute.DefaultEncoder())),
						slog.Uint64("count", dp.Count),
						slog.Float64("sum", dp.Sum),
					)
				}
			}
		}
	}
}

// logExporter is a span exporter writing each span as a log record.
type logExporter struct {
	logger *slog.Logger
}

var _ sdktrace.SpanExporter = (*logExporter)(nil)

func (e *logExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		attrs := []slog.Attr{
			slog.String("name", s.Name()),
			slog.String("trace_id", s.SpanContext().TraceID().String()),
			slog.String("span_id", s.SpanContext().SpanID().String()),
			slog.Float64("duration_ms", float64(s.EndTime().Sub(s.StartTime()))/float64(time.Millisecond)),
			slog.String("status", s.Status().Code.String()),
		}
		if p := s.Parent(); p.IsValid() {
			attrs = append(attrs, slog.String("parent_id", p.SpanID().String()))
		}
		for _, kv := range s.Attributes() {
			attrs = append(attrs, slog.String(string(kv.Key), kv.Value.Emit()))
		}
		e.logger.LogAttrs(ctx, slog.LevelInfo, "span", attrs...)
	}
	return nil
}

func (e *logExporter) Shutdown(context.Context) error {
	return nil
}

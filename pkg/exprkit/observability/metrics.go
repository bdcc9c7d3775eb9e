package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records evaluator metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvaluation records one evaluation. errKind is empty on success.
	RecordEvaluation(ctx context.Context, evaluator string, duration time.Duration, errKind string)

	// RecordExpressionLength records the byte length of an evaluated expression.
	RecordExpressionLength(ctx context.Context, evaluator string, length int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	evaluations metric.Int64Counter
	latency     metric.Float64Histogram
	errors      metric.Int64Counter
	length      metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("exprkit")

	evaluations, err := meter.Int64Counter("exprkit.evaluations",
		metric.WithDescription("Number of expression evaluations"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("exprkit.evaluation.latency_ms",
		metric.WithDescription("Expression evaluation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter("exprkit.evaluation.errors",
		metric.WithDescription("Number of failed expression evaluations"),
	)
	if err != nil {
		return nil, err
	}

	length, err := meter.Int64Histogram("exprkit.expression.length",
		metric.WithDescription("Expression length in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations: evaluations,
		latency:     latency,
		errors:      errs,
		length:      length,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEvaluation records an evaluation.
func (m *otelMetrics) RecordEvaluation(ctx context.Context, evaluator string, duration time.Duration, errKind string) {
	attrs := []attribute.KeyValue{
		attribute.String("evaluator", evaluator),
		attribute.Bool("success", errKind == ""),
	}
	m.evaluations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.latency.Record(ctx, Milliseconds(duration), metric.WithAttributes(attrs...))

	if errKind != "" {
		m.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("evaluator", evaluator),
			attribute.String("error_kind", errKind),
		))
	}
}

// RecordExpressionLength records the expression size.
func (m *otelMetrics) RecordExpressionLength(ctx context.Context, evaluator string, length int) {
	m.length.Record(ctx, int64(length), metric.WithAttributes(
		attribute.String("evaluator", evaluator),
	))
}

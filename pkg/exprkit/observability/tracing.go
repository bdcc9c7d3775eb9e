package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartEvaluationSpan starts a span for one evaluation.
	StartEvaluationSpan(ctx context.Context, evaluator, expression string) (context.Context, trace.Span)

	// FinishEvaluationSpan ends span. A non-nil err is recorded together
	// with its error kind.
	FinishEvaluationSpan(span trace.Span, errKind string, err error)
}

type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager on the global OTel tracer provider.
// Configure the provider first:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return NewSpanManagerWithProvider(otel.GetTracerProvider())
}

// NewSpanManagerWithProvider returns a SpanManager on tp.
func NewSpanManagerWithProvider(tp trace.TracerProvider) SpanManager {
	return &otelSpanManager{tracer: tp.Tracer("exprkit")}
}

func (m *otelSpanManager) StartEvaluationSpan(ctx context.Context, evaluator, expression string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "exprkit.evaluate",
		trace.WithAttributes(
			attribute.String("evaluator.name", evaluator),
			attribute.String("expression", expression),
			attribute.Int("expression.length", len(expression)),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) FinishEvaluationSpan(span trace.Span, errKind string, err error) {
	if span == nil {
		return
	}
	defer span.End()

	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.SetAttributes(attribute.String("error.kind", errKind))
	span.RecordError(err, trace.WithAttributes(attribute.String("error.kind", errKind)))
	span.SetStatus(codes.Error, errKind)
}

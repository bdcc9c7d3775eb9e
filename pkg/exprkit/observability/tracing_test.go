package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a span manager recording into memory.
func setupTracingTest(t *testing.T) (SpanManager, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	})
	return NewSpanManagerWithProvider(tp), exporter
}

func attrMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestStartEvaluationSpan(t *testing.T) {
	spans, exporter := setupTracingTest(t)

	_, span := spans.StartEvaluationSpan(context.Background(), "arith", "1+2")
	require.NotNil(t, span)
	spans.FinishEvaluationSpan(span, "", nil)

	got := exporter.GetSpans()
	require.Len(t, got, 1)
	assert.Equal(t, "exprkit.evaluate", got[0].Name)
	assert.Equal(t, codes.Ok, got[0].Status.Code)

	attrs := attrMap(got[0].Attributes)
	assert.Equal(t, "arith", attrs["evaluator.name"].AsString())
	assert.Equal(t, "1+2", attrs["expression"].AsString())
	assert.Equal(t, int64(3), attrs["expression.length"].AsInt64())
}

func TestFinishEvaluationSpan_Error(t *testing.T) {
	spans, exporter := setupTracingTest(t)

	_, span := spans.StartEvaluationSpan(context.Background(), "arith", "1+")
	spans.FinishEvaluationSpan(span, "structural", errors.New("missing operand"))

	got := exporter.GetSpans()
	require.Len(t, got, 1)
	assert.Equal(t, codes.Error, got[0].Status.Code)
	assert.Equal(t, "structural", got[0].Status.Description)
	assert.Equal(t, "structural", attrMap(got[0].Attributes)["error.kind"].AsString())
	require.Len(t, got[0].Events, 1)
	assert.Equal(t, "exception", got[0].Events[0].Name)
}

func TestFinishEvaluationSpan_NilSpan(t *testing.T) {
	spans, _ := setupTracingTest(t)
	assert.NotPanics(t, func() { spans.FinishEvaluationSpan(nil, "", nil) })
}

func TestNewSpanManager_Global(t *testing.T) {
	assert.NotPanics(t, func() {
		m := NewSpanManager()
		_, span := m.StartEvaluationSpan(context.Background(), "arith", "1")
		m.FinishEvaluationSpan(span, "", nil)
	})
}

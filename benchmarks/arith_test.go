package benchmarks

import (
	"strings"
	"testing"

	"github.com/Knetic/govaluate"

	"github.com/randalmurphal/exprkit/pkg/exprkit"
	"github.com/randalmurphal/exprkit/pkg/exprkit/arith"
)

const reference = "(2^3-1)*sin(pi/4)/ln(pi^2)"

func mustArith(b *testing.B, opts ...exprkit.Option) *exprkit.Evaluator[float64] {
	b.Helper()
	ev, err := arith.New(arith.DefaultParameters(arith.Standard), opts...)
	if err != nil {
		b.Fatal(err)
	}
	return ev
}

// BenchmarkArith_Reference evaluates the reference expression.
func BenchmarkArith_Reference(b *testing.B) {
	ev := mustArith(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ev.Evaluate(reference)
	}
}

// BenchmarkArith_Simple evaluates single-rune operators only.
func BenchmarkArith_Simple(b *testing.B) {
	ev := mustArith(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ev.Evaluate("1 + 2 * 3 - 4 / 5")
	}
}

// BenchmarkArith_Long evaluates a 1000-term sum.
func BenchmarkArith_Long(b *testing.B) {
	expr := strings.Repeat("1.5 + ", 999) + "1.5"
	ev := mustArith(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ev.Evaluate(expr)
	}
}

// BenchmarkArith_Nested evaluates 100 nested brackets.
func BenchmarkArith_Nested(b *testing.B) {
	expr := strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)
	ev := mustArith(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ev.Evaluate(expr)
	}
}

// BenchmarkArith_Aggregates evaluates variadic statistics functions.
func BenchmarkArith_Aggregates(b *testing.B) {
	ev := mustArith(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ev.Evaluate("avg(1, 2, 3, 4) + median(5, 1, 3) + stddev(2, 4, 4, 4, 5, 5, 7, 9)")
	}
}

// BenchmarkArith_Check validates without evaluating.
func BenchmarkArith_Check(b *testing.B) {
	ev := mustArith(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ev.Check(reference)
	}
}

// BenchmarkArith_WithObservability measures the metrics and tracing overhead.
func BenchmarkArith_WithObservability(b *testing.B) {
	ev := mustArith(b, exprkit.WithMetrics(), exprkit.WithTracing())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ev.Evaluate(reference)
	}
}

// BenchmarkArith_Parallel evaluates from many goroutines on one evaluator.
func BenchmarkArith_Parallel(b *testing.B) {
	ev := mustArith(b)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = ev.Evaluate(reference)
		}
	})
}

// BenchmarkGovaluate_Simple is the govaluate baseline for BenchmarkArith_Simple.
func BenchmarkGovaluate_Simple(b *testing.B) {
	expr, err := govaluate.NewEvaluableExpression("1 + 2 * 3 - 4 / 5")
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = expr.Evaluate(nil)
	}
}

// BenchmarkGovaluate_ParseAndEvaluate includes parsing, like Evaluate does.
func BenchmarkGovaluate_ParseAndEvaluate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		expr, err := govaluate.NewEvaluableExpression("1 + 2 * 3 - 4 / 5")
		if err != nil {
			b.Fatal(err)
		}
		_, _ = expr.Evaluate(nil)
	}
}

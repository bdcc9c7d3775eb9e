// Package observability provides production-grade observability features
// for exprkit evaluators: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds evaluator context to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "arith")
//	enriched.Debug("evaluating") // includes evaluator
func EnrichLogger(logger *slog.Logger, evaluator string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("evaluator", evaluator))
}

// LogEvaluation logs a successful evaluation.
func LogEvaluation(logger *slog.Logger, expression string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("expression evaluated",
		slog.String("expression", expression),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogEvaluationError logs a failed evaluation.
// Evaluation errors are the caller's to handle, so they are logged at debug level.
func LogEvaluationError(logger *slog.Logger, expression string, kind string, err error) {
	if logger == nil {
		return
	}
	logger.Debug("expression evaluation failed",
		slog.String("expression", expression),
		slog.String("error_kind", kind),
		slog.String("error", err.Error()),
	)
}

// LogLimitExceeded logs an expression rejected by a resource limit.
func LogLimitExceeded(logger *slog.Logger, limit string, value, max int) {
	if logger == nil {
		return
	}
	logger.Warn("expression limit exceeded",
		slog.String("limit", limit),
		slog.Int("value", value),
		slog.Int("max", max),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	elapsed := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Milliseconds converts a duration to fractional milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

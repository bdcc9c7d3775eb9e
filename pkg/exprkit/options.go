package exprkit

import (
	"log/slog"

	"github.com/randalmurphal/exprkit/pkg/exprkit/observability"
)

// Default evaluation limits.
const (
	DefaultMaxDepth  = 256
	DefaultMaxLength = 64 * 1024
)

// config holds evaluator settings fixed at construction.
type config struct {
	maxDepth  int
	maxLength int
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager
}

// defaultConfig returns the default evaluator configuration: no logging,
// no-op metrics and spans.
func defaultConfig() config {
	return config{
		maxDepth:  DefaultMaxDepth,
		maxLength: DefaultMaxLength,
		metrics:   observability.NoopMetrics{},
		spans:     observability.NoopSpanManager{},
	}
}

// Option configures an Evaluator.
type Option func(*config)

// WithMaxDepth sets the maximum bracket nesting depth.
// Default: 256
//
// Deeper expressions fail with a Structural error wrapping ErrTooDeep.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithMaxLength sets the maximum expression length in bytes.
// Default: 65536
//
// Longer expressions fail before tokenizing with a Structural error
// wrapping ErrTooLong.
func WithMaxLength(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLength = n
		}
	}
}

// WithLogger sets the logger for evaluation events. Successful evaluations
// and failures are logged at debug level, limit violations at warn level.
// The evaluator name is added to every record.
//
// Example:
//
//	ev, err := arith.New(arith.DefaultParameters(arith.Standard),
//	    exprkit.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter
// provider: evaluation count, latency, errors by kind and expression
// length.
func WithMetrics() Option {
	return func(c *config) {
		c.metrics = observability.NewMetricsRecorder()
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables an OpenTelemetry span per evaluation, using the
// global tracer provider.
func WithTracing() Option {
	return func(c *config) {
		c.spans = observability.NewSpanManager()
	}
}

// WithSpanManager sets a custom span manager.
func WithSpanManager(s observability.SpanManager) Option {
	return func(c *config) {
		if s != nil {
			c.spans = s
		}
	}
}

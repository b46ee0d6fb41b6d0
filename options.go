package multibuffer

import (
	"log/slog"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	invariantChecks  bool
}

// Option configures a MultiBuffer.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &multibuffer.BasicMetricsCollector{}
//	mb := multibuffer.New(multibuffer.WithMetricsCollector(metrics))
//	// ... use mb ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Excerpts: %d\n", stats.InsertCount, stats.Excerpts)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := multibuffer.NewJSONLogger(slog.LevelDebug)
//	mb := multibuffer.New(multibuffer.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithInvariantChecks enables the exhaustive consistency scan after every
// mutation. The scan always runs in builds with the invariants or race tag.
func WithInvariantChecks(enabled bool) Option {
	return func(o *options) {
		o.invariantChecks = enabled
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

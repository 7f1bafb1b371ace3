package wasmhost

import "go.uber.org/zap"

// DefaultModuleName is the import module name guests use for libc-style
// functions.
const DefaultModuleName = "env"

type options struct {
	name    string
	logger  *zap.Logger
	metrics MetricsCollector
}

// Option configures the host module.
type Option func(*options)

// WithModuleName sets the name the host module is registered under.
func WithModuleName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger used to report trapped calls.
// A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithMetrics sets the collector that records every host call.
// A nil collector disables metrics.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

func applyOptions(opts []Option) options {
	o := options{
		name:    DefaultModuleName,
		logger:  zap.NewNop(),
		metrics: NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

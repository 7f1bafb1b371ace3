package memstr

type options struct {
	logger *Logger
	base   Addr
}

// Option configures a Space.
type Option func(*options)

// WithLogger sets the logger used to report rejected operations.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithBase sets the address of the first byte of the space. Addresses
// below base are out of bounds, so a non-zero base keeps address 0 free
// to act as a null address.
func WithBase(base Addr) Option {
	return func(o *options) {
		o.base = base
	}
}

func applyOptions(opts []Option) options {
	o := options{
		logger: NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

package bindable

import "log/slog"

// Option configures a Variable at construction.
type Option func(*options)

type options struct {
	skipEqualityCheck bool
	startInitialized  bool
	name              string
	logger            *slog.Logger
}

// WithoutEqualityCheck makes every write notify, whether or not the new value
// equals the old one. The comparator is still used by WaitForValue.
func WithoutEqualityCheck() Option {
	return func(o *options) {
		o.skipEqualityCheck = true
	}
}

// StartInitialized treats the initial value as already written, so a first
// write of an equal value is suppressed.
func StartInitialized() Option {
	return func(o *options) {
		o.startInitialized = true
	}
}

// WithName labels the variable in log output.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger logs every write decision at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

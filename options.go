package kiohash

import "github.com/unkn0wn-root/kiohash/accel"

type options struct {
	logger   *Logger
	metrics  MetricsCollector
	device   accel.Device
	cache    *HashCache
	registry *Registry
}

// Option configures New.
type Option func(*options)

// WithLogger sets the engine logger. Default: NoopLogger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics collector. Default: NoopMetricsCollector.
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

// WithDevice offers an accelerator to the backend probe. Ignored when
// WithRegistry supplies its own backend.
func WithDevice(d accel.Device) Option {
	return func(o *options) { o.device = d }
}

// WithCache shares an existing cache instead of building one from Config.
func WithCache(c *HashCache) Option {
	return func(o *options) { o.cache = c }
}

// WithRegistry shares an existing registry (and its backend).
func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

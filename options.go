package nativeio

import (
	"log/slog"

	"github.com/hupe1980/nativeio/internal/sys"
	"github.com/hupe1980/nativeio/resource"
)

type options struct {
	sys                sys.Syscalls
	logger             *Logger
	metricsCollector   MetricsCollector
	resources          *resource.Controller
	dropCacheOnRelease bool
}

// Option configures an FS.
type Option func(*options)

// WithLogger sets the structured logger. If nil is passed, logging is disabled.
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

// WithMetricsCollector sets the metrics collector. If nil is passed, metrics are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithResourceController makes every mapping reserve its length against rc
// before the mmap call. A mapping that does not fit fails with KindOutOfMemory.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithDropCacheOnRelease makes Mapping.Release advise FADV_DONTNEED over the
// whole file before closing the descriptor. The hint is best-effort: a
// failure is logged, not returned.
func WithDropCacheOnRelease(enabled bool) Option {
	return func(o *options) {
		o.dropCacheOnRelease = enabled
	}
}

// withSyscalls replaces the syscall adapter. Used by tests.
func withSyscalls(s sys.Syscalls) Option {
	return func(o *options) {
		if s != nil {
			o.sys = s
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		sys:              sys.Default,
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

package loader

import (
	"strings"
	"time"
)

// Option adjusts a single Load call.
type Option func(*loadOptions)

type loadOptions struct {
	cache   bool
	timeout time.Duration
	retries int
	group   int
}

// WithCache controls whether a successful result is stored and whether a
// stored result may be returned. Default: true.
func WithCache(enabled bool) Option {
	return func(o *loadOptions) { o.cache = enabled }
}

// WithTimeout bounds each attempt. It must be positive. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(o *loadOptions) { o.timeout = d }
}

// WithRetries sets the total number of attempts. It must be at least 1.
// Default: 3.
func WithRetries(n int) Option {
	return func(o *loadOptions) { o.retries = n }
}

// withGroup tags telemetry with the preload group.
func withGroup(g int) Option {
	return func(o *loadOptions) { o.group = g }
}

func (l *Loader) resolve(name string, producer Producer, opts []Option) (loadOptions, error) {
	o := loadOptions{
		cache:   true,
		timeout: l.cfg.Timeout,
		retries: l.cfg.Retries,
	}
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case strings.TrimSpace(name) == "":
		return o, invalidArgf("module name is empty")
	case producer == nil:
		return o, invalidArgf("producer for %q is nil", name)
	case o.timeout <= 0:
		return o, invalidArgf("timeout must be positive, got %v", o.timeout)
	case o.retries < 1:
		return o, invalidArgf("retries must be at least 1, got %d", o.retries)
	}
	return o, nil
}

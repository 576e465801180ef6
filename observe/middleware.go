package observe

import (
	"context"
	"errors"
	"time"
)

// LoadFunc runs one load chain and reports how many attempts it made.
type LoadFunc func(ctx context.Context, meta ModuleMeta) (value any, attempts int, err error)

// Middleware wraps loads with tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: Wrap returns a LoadFunc safe for concurrent use.
//   - Errors: errors from the wrapped function are recorded and returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced with no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewTracer(nil)
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// NopMiddleware returns a Middleware that records nothing.
func NopMiddleware() *Middleware {
	return NewMiddleware(nil, nil, nil)
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Logger returns the middleware's logger.
func (m *Middleware) Logger() Logger { return m.logger }

// Metrics returns the middleware's instruments.
func (m *Middleware) Metrics() Metrics { return m.metrics }

// Wrap wraps fn with a span, load metrics, and a completion log line.
func (m *Middleware) Wrap(fn LoadFunc) LoadFunc {
	return func(ctx context.Context, meta ModuleMeta) (any, int, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		value, attempts, err := fn(ctx, meta)

		duration := time.Since(start)
		m.tracer.EndSpan(span, attempts, err)
		m.metrics.RecordLoad(ctx, meta, duration, err)

		log := m.logger.WithModule(meta)
		fields := []Field{
			{Key: "duration_ms", Value: duration.Milliseconds()},
			{Key: "attempts", Value: attempts},
		}
		switch {
		case err == nil:
			log.Info(ctx, "module loaded", fields...)
		case errors.Is(err, context.Canceled):
			log.Debug(ctx, "module load abandoned", append(fields, Field{Key: "error", Value: err})...)
		default:
			log.Error(ctx, "module load failed", append(fields, Field{Key: "error", Value: err})...)
		}

		return value, attempts, err
	}
}

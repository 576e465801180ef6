package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Metrics records loader instruments.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLoad records one settled load chain.
	RecordLoad(ctx context.Context, meta ModuleMeta, duration time.Duration, err error)

	// RecordRetry records a failed attempt that will be retried.
	RecordRetry(ctx context.Context, meta ModuleMeta, attempt int)

	// RecordCacheHit records a load served from cache.
	RecordCacheHit(ctx context.Context, meta ModuleMeta)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	retryCount   metric.Int64Counter
	hitCount     metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates the loader instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	m := &metricsImpl{}
	var err error

	if m.totalCount, err = meter.Int64Counter("loader.load.total",
		metric.WithDescription("Settled load chains"),
		metric.WithUnit("{load}"),
	); err != nil {
		return nil, err
	}
	if m.errorCount, err = meter.Int64Counter("loader.load.errors",
		metric.WithDescription("Load chains that exhausted their attempts"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}
	if m.retryCount, err = meter.Int64Counter("loader.load.retries",
		metric.WithDescription("Failed attempts followed by a retry"),
		metric.WithUnit("{attempt}"),
	); err != nil {
		return nil, err
	}
	if m.hitCount, err = meter.Int64Counter("loader.cache.hits",
		metric.WithDescription("Loads served from the module cache"),
		metric.WithUnit("{hit}"),
	); err != nil {
		return nil, err
	}
	if m.durationHist, err = meter.Float64Histogram("loader.load.duration_ms",
		metric.WithDescription("Load chain duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *metricsImpl) RecordLoad(ctx context.Context, meta ModuleMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

func (m *metricsImpl) RecordRetry(ctx context.Context, meta ModuleMeta, _ int) {
	m.retryCount.Add(ctx, 1, metric.WithAttributes(meta.attributes()...))
}

func (m *metricsImpl) RecordCacheHit(ctx context.Context, meta ModuleMeta) {
	m.hitCount.Add(ctx, 1, metric.WithAttributes(meta.attributes()...))
}

type noopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordLoad(context.Context, ModuleMeta, time.Duration, error) {}
func (noopMetrics) RecordRetry(context.Context, ModuleMeta, int)                 {}
func (noopMetrics) RecordCacheHit(context.Context, ModuleMeta)                   {}

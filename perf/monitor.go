package perf

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/observe"
)

// Monitor times labelled operations. Durations go to the
// perf.operation.duration_ms histogram when a meter is configured, and to
// the logger at debug level.
type Monitor struct {
	logger    observe.Logger
	histogram metric.Float64Histogram
	now       func() time.Time

	mu     sync.Mutex
	starts map[string]time.Time
}

// NewMonitor creates a Monitor. meter and logger may be nil.
func NewMonitor(meter metric.Meter, logger observe.Logger) (*Monitor, error) {
	if logger == nil {
		logger = observe.NopLogger()
	}
	m := &Monitor{
		logger: logger,
		now:    time.Now,
		starts: make(map[string]time.Time),
	}
	if meter != nil {
		h, err := meter.Float64Histogram("perf.operation.duration_ms",
			metric.WithDescription("Duration of timed operations"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return nil, err
		}
		m.histogram = h
	}
	return m, nil
}

// Start begins timing label, restarting it if already running.
func (m *Monitor) Start(label string) {
	m.mu.Lock()
	m.starts[label] = m.now()
	m.mu.Unlock()
}

// End stops timing label and returns the elapsed time. It reports false
// when label was never started.
func (m *Monitor) End(label string) (time.Duration, bool) {
	return m.end(context.Background(), label, nil)
}

// Measure times fn under label whether it succeeds or fails, and returns
// fn's error.
func (m *Monitor) Measure(ctx context.Context, label string, fn func(context.Context) error) error {
	start := m.now()
	err := fn(ctx)
	m.record(ctx, label, m.now().Sub(start), err)
	return err
}

// Running returns the number of started, unfinished labels.
func (m *Monitor) Running() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.starts)
}

func (m *Monitor) end(ctx context.Context, label string, err error) (time.Duration, bool) {
	m.mu.Lock()
	start, ok := m.starts[label]
	delete(m.starts, label)
	m.mu.Unlock()

	if !ok {
		return 0, false
	}
	d := m.now().Sub(start)
	m.record(ctx, label, d, err)
	return d, true
}

func (m *Monitor) record(ctx context.Context, label string, d time.Duration, err error) {
	ms := float64(d) / float64(time.Millisecond)
	if m.histogram != nil {
		m.histogram.Record(ctx, ms, metric.WithAttributes(
			attribute.String("operation", label),
			attribute.Bool("error", err != nil),
		))
	}
	m.logger.Debug(ctx, "operation timed",
		observe.Field{Key: "operation", Value: label},
		observe.Field{Key: "duration_ms", Value: ms},
	)
}

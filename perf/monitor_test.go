package perf

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/observe"
)

func TestMonitor_StartEnd(t *testing.T) {
	m, err := NewMonitor(nil, nil)
	require.NoError(t, err)

	now := time.Unix(0, 0)
	m.now = func() time.Time { return now }

	m.Start("transcript")
	assert.Equal(t, 1, m.Running())
	now = now.Add(150 * time.Millisecond)

	d, ok := m.End("transcript")
	assert.True(t, ok)
	assert.Equal(t, 150*time.Millisecond, d)
	assert.Equal(t, 0, m.Running())

	_, ok = m.End("transcript")
	assert.False(t, ok)
}

func TestMonitor_MeasureRecordsHistogram(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	var logs bytes.Buffer

	m, err := NewMonitor(mp.Meter("test"), observe.NewLoggerWithWriter("debug", &logs))
	require.NoError(t, err)

	cause := errors.New("bad caption")
	err = m.Measure(context.Background(), "parse", func(context.Context) error { return cause })
	require.ErrorIs(t, err, cause)
	require.NoError(t, m.Measure(context.Background(), "parse", func(context.Context) error { return nil }))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	got := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, "perf.operation.duration_ms", got.Name)
	hist, ok := got.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.EqualValues(t, 2, count)
	assert.Len(t, hist.DataPoints, 2)
	assert.Contains(t, logs.String(), `"operation":"parse"`)
}

package perf

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
	"tailscale.com/util/singleflight"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/cache"
	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/loader"
	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/observe"
)

// Config configures a Toolkit.
type Config struct {
	// MemoCapacity bounds the shared Memoize cache.
	// Default: cache.DefaultLRUCapacity (100)
	MemoCapacity int

	// Meter receives operation timings from the Monitor. Optional.
	Meter metric.Meter

	// Logger receives recovered panics and timing lines. Optional.
	Logger observe.Logger
}

// Metrics is a snapshot of a Toolkit's live state.
type Metrics struct {
	CacheSize       int // entries in the Memoize cache
	PendingRequests int // keys with a Deduplicate call in flight
	ActiveDebounces int // keys with a scheduled debounce
	ActiveThrottles int // keys still cooling down after a throttled call
	MemoryEstimate  int // approximate bytes held by the Memoize cache
}

// Toolkit owns the keyed state behind Debounce, Throttle, Memoize and
// Deduplicate. Helpers built from one Toolkit share that state: two
// debounced functions with the same key cancel each other.
type Toolkit struct {
	logger  observe.Logger
	monitor *Monitor

	memo      *cache.LRU[any]
	flights   singleflight.Group[string, any]
	wrapperID atomic.Uint64

	mu        sync.Mutex
	debounces map[string]*time.Timer
	throttles map[string]*rate.Limiter
	pending   map[string]struct{}
	memoSizes map[string]int
}

// New creates a Toolkit.
func New(cfg Config) (*Toolkit, error) {
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	mon, err := NewMonitor(cfg.Meter, cfg.Logger)
	if err != nil {
		return nil, err
	}

	return &Toolkit{
		logger:    cfg.Logger,
		monitor:   mon,
		memo:      cache.NewLRU[any](cfg.MemoCapacity),
		debounces: make(map[string]*time.Timer),
		throttles: make(map[string]*rate.Limiter),
		pending:   make(map[string]struct{}),
		memoSizes: make(map[string]int),
	}, nil
}

// Monitor returns the toolkit's timing monitor.
func (t *Toolkit) Monitor() *Monitor { return t.monitor }

// Metrics returns a snapshot of the toolkit's state.
func (t *Toolkit) Metrics() Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := Metrics{
		CacheSize:       t.memo.Len(),
		PendingRequests: len(t.pending),
		ActiveDebounces: len(t.debounces),
	}
	now := time.Now()
	for _, lim := range t.throttles {
		if lim.TokensAt(now) < 1 {
			m.ActiveThrottles++
		}
	}
	t.pruneMemoSizesLocked()
	for _, size := range t.memoSizes {
		m.MemoryEstimate += size
	}
	return m
}

// recordMemoSize notes the estimated size of a memoized entry. The LRU
// evicts silently, so once the table outgrows the LRU's capacity the
// sizes of evicted keys are dropped.
func (t *Toolkit) recordMemoSize(key string, size int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.memoSizes[key] = size
	if len(t.memoSizes) > t.memo.Capacity() {
		t.pruneMemoSizesLocked()
	}
}

func (t *Toolkit) pruneMemoSizesLocked() {
	for key := range t.memoSizes {
		if !t.memo.Contains(key) {
			delete(t.memoSizes, key)
		}
	}
}

// Cleanup stops every pending debounce and drops all cached, throttle and
// pending state. Helpers built earlier keep working against the emptied
// state.
func (t *Toolkit) Cleanup() {
	t.mu.Lock()
	for _, timer := range t.debounces {
		timer.Stop()
	}
	clear(t.debounces)
	clear(t.throttles)
	clear(t.pending)
	clear(t.memoSizes)
	t.mu.Unlock()

	t.memo.Clear()
}

// Clear drops the Memoize cache so a Toolkit can be tracked as a module
// sub-cache.
func (t *Toolkit) Clear() {
	t.memo.Clear()

	t.mu.Lock()
	clear(t.memoSizes)
	t.mu.Unlock()
}

// LoadOptimized loads a catalog module from l and times it under
// "load <name>".
func (t *Toolkit) LoadOptimized(ctx context.Context, l *loader.Loader, name string, opts ...loader.Option) (any, error) {
	var v any
	err := t.monitor.Measure(ctx, "load "+name, func(ctx context.Context) error {
		var err error
		v, err = l.LoadNamed(ctx, name, opts...)
		return err
	})
	return v, err
}

// namespace returns a prefix unique to one memoized or deduplicated wrapper.
func (t *Toolkit) namespace(kind string) string {
	return kind + "#" + strconv.FormatUint(t.wrapperID.Add(1), 10)
}

func (t *Toolkit) limiter(key string, delay time.Duration) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	lim, ok := t.throttles[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(delay), 1)
		t.throttles[key] = lim
	}
	return lim
}

func (t *Toolkit) setPending(key string, on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if on {
		t.pending[key] = struct{}{}
		return
	}
	delete(t.pending, key)
}

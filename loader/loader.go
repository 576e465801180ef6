package loader

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/cache"
	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/observe"
	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/resilience"
)

// Producer builds a module value. The context is cancelled when the attempt
// times out; producers that ignore it keep running and their late result is
// discarded.
type Producer func(ctx context.Context) (any, error)

// Clearer is a cache owned by a module, cleared together with it.
type Clearer interface {
	Clear()
}

// Config configures a Loader. Zero fields take the documented defaults.
type Config struct {
	// Timeout bounds each attempt. Default: 10s
	Timeout time.Duration

	// Retries is the total number of attempts per load. Default: 3
	Retries int

	// Backoff is the wait schedule between attempts. Zero fields take
	// resilience.DefaultLoadRetryConfig values; MaxAttempts is ignored in
	// favour of Retries.
	Backoff resilience.RetryConfig

	// GroupSize is the number of loads Preload runs at once. Default: 3
	GroupSize int

	// CircuitBreaker, when set, rejects loads of a module whose recent load
	// chains kept failing.
	CircuitBreaker *resilience.CircuitBreakerConfig

	// Telemetry wraps every load chain. Default: observe.NopMiddleware()
	Telemetry *observe.Middleware

	// Clock stamps cached entries. Default: cache.SystemClock
	Clock cache.Clock
}

// Status is a snapshot of one module.
type Status struct {
	Loaded  bool // a result is cached
	Loading bool // a load chain is in flight
	Cached  bool // sub-caches are tracked for the module
}

// Loader loads named modules on demand.
//
// Concurrent loads of one name share a single attempt chain. The options of
// the call that started the chain govern it.
type Loader struct {
	cfg       Config
	retry     *resilience.Retry
	breakers  *resilience.BreakerSet
	telemetry *observe.Middleware

	flights singleflight.Group
	modules *cache.MemoryCache[any]

	mu        sync.Mutex
	loading   map[string]struct{}
	failures  map[string]error
	subCaches map[string][]Clearer
	catalog   map[string]Producer
}

// New creates a Loader.
func New(cfg Config) *Loader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}
	if cfg.GroupSize <= 0 {
		cfg.GroupSize = 3
	}
	if cfg.Telemetry == nil {
		cfg.Telemetry = observe.NopMiddleware()
	}
	if cfg.Clock == nil {
		cfg.Clock = cache.SystemClock
	}
	backoff := cfg.Backoff
	backoff.MaxAttempts = cfg.Retries

	l := &Loader{
		cfg:       cfg,
		retry:     resilience.NewRetry(backoff),
		telemetry: cfg.Telemetry,
		modules:   cache.NewMemoryCache[any](cache.PersistentPolicy(), cfg.Clock),
		loading:   make(map[string]struct{}),
		failures:  make(map[string]error),
		subCaches: make(map[string][]Clearer),
		catalog:   make(map[string]Producer),
	}
	if cfg.CircuitBreaker != nil {
		l.breakers = resilience.NewBreakerSet(*cfg.CircuitBreaker)
	}
	return l
}

// Load returns the module called name, producing it if needed.
//
// A cached result is returned without calling producer. Otherwise producer
// is attempted up to the retry budget, each attempt racing the timeout, with
// backoff between failures. Exhaustion yields a *ModuleLoadError.
//
// Cancelling ctx stops this caller waiting but leaves the shared attempt
// chain running for other callers.
func (l *Loader) Load(ctx context.Context, name string, producer Producer, opts ...Option) (any, error) {
	o, err := l.resolve(name, producer, opts)
	if err != nil {
		return nil, err
	}

	meta := observe.ModuleMeta{Name: name, Group: o.group, Cache: o.cache}
	if o.cache {
		if v, ok := l.modules.Get(name); ok {
			l.telemetry.Metrics().RecordCacheHit(ctx, meta)
			return v, nil
		}
	}

	chain := context.WithoutCancel(ctx)
	ch := l.flights.DoChan(name, func() (any, error) {
		return l.run(chain, meta, producer, o)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LoadAs is Load with the result asserted to T.
func LoadAs[T any](ctx context.Context, l *Loader, name string, producer func(context.Context) (T, error), opts ...Option) (T, error) {
	var zero T
	var p Producer
	if producer != nil {
		p = func(ctx context.Context) (any, error) { return producer(ctx) }
	}

	v, err := l.Load(ctx, name, p, opts...)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("loader: module %s has type %T, want %T", name, v, zero)
	}
	return t, nil
}

func (l *Loader) run(ctx context.Context, meta observe.ModuleMeta, producer Producer, o loadOptions) (any, error) {
	name := meta.Name

	// a chain that finished just before this one joined may have cached it
	if o.cache {
		if v, ok := l.modules.Get(name); ok {
			return v, nil
		}
	}

	l.mu.Lock()
	l.loading[name] = struct{}{}
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		delete(l.loading, name)
		l.mu.Unlock()
	}()

	load := l.telemetry.Wrap(func(ctx context.Context, meta observe.ModuleMeta) (any, int, error) {
		return l.attempt(ctx, meta, producer, o)
	})
	value, _, err := load(ctx, meta)

	l.mu.Lock()
	if err != nil {
		l.failures[name] = err
	} else {
		delete(l.failures, name)
	}
	l.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if o.cache {
		l.modules.Set(name, value)
	}
	return value, nil
}

func (l *Loader) attempt(ctx context.Context, meta observe.ModuleMeta, producer Producer, o loadOptions) (any, int, error) {
	log := l.telemetry.Logger().WithModule(meta)
	retry := l.retry.WithMaxAttempts(o.retries).WithOnRetry(func(attempt int, err error, delay time.Duration) {
		l.telemetry.Metrics().RecordRetry(ctx, meta, attempt)
		log.Warn(ctx, "module load attempt failed",
			observe.Field{Key: "attempt", Value: attempt},
			observe.Field{Key: "retry_in_ms", Value: delay.Milliseconds()},
			observe.Field{Key: "error", Value: err},
		)
	})

	execOpts := []resilience.ExecutorOption{resilience.WithRetry(retry)}
	if l.breakers != nil {
		execOpts = append(execOpts, resilience.WithCircuitBreaker(l.breakers.Get(meta.Name)))
	}

	var (
		value    any
		attempts int
	)
	err := resilience.NewExecutor(execOpts...).Execute(ctx, func(ctx context.Context, attempt int) error {
		attempts = attempt
		v, expired, err := resilience.Race(ctx, o.timeout, producer)
		switch {
		case expired:
			return &TimeoutError{Name: meta.Name, Attempt: attempt, Timeout: o.timeout}
		case err == nil:
			value = v
			return nil
		default:
			return &ProducerError{Name: meta.Name, Attempt: attempt, Err: err}
		}
	})
	if err != nil {
		return nil, attempts, &ModuleLoadError{Name: meta.Name, Attempts: attempts, Err: err}
	}
	return value, attempts, nil
}

// Track registers a sub-cache owned by module name. It is cleared and
// forgotten when the module's cache is cleared.
func (l *Loader) Track(name string, c Clearer) {
	if c == nil {
		return
	}
	l.mu.Lock()
	l.subCaches[name] = append(l.subCaches[name], c)
	l.mu.Unlock()
}

// ClearCache forgets the cached result for name, clears its tracked
// sub-caches, and resets its failure state. In-flight chains are unaffected.
func (l *Loader) ClearCache(name string) {
	l.modules.Delete(name)

	l.mu.Lock()
	subs := l.subCaches[name]
	delete(l.subCaches, name)
	delete(l.failures, name)
	l.mu.Unlock()

	for _, c := range subs {
		c.Clear()
	}
	if l.breakers != nil {
		l.breakers.Reset(name)
	}
}

// ClearAll applies ClearCache to every module.
func (l *Loader) ClearAll() {
	names := l.modules.Keys()

	l.mu.Lock()
	for name := range l.subCaches {
		names = append(names, name)
	}
	for name := range l.failures {
		names = append(names, name)
	}
	l.mu.Unlock()

	for _, name := range names {
		l.ClearCache(name)
	}
}

// Status returns a snapshot for name. It has no side effects.
func (l *Loader) Status(name string) Status {
	_, loaded := l.modules.Get(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	_, loading := l.loading[name]
	return Status{
		Loaded:  loaded,
		Loading: loading,
		Cached:  len(l.subCaches[name]) > 0,
	}
}

// Names returns the sorted names of cached modules.
func (l *Loader) Names() []string {
	names := l.modules.Keys()
	sort.Strings(names)
	return names
}

// LoadedAt returns when name's cached result was stored.
func (l *Loader) LoadedAt(name string) (time.Time, bool) {
	e, ok := l.modules.Lookup(name)
	if !ok {
		return time.Time{}, false
	}
	return e.InsertedAt, true
}

// Failures returns the last load error of each module whose most recent
// chain failed.
func (l *Loader) Failures() map[string]error {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]error, len(l.failures))
	for k, v := range l.failures {
		out[k] = v
	}
	return out
}

// IsModuleLoadError reports whether err is a *ModuleLoadError.
func IsModuleLoadError(err error) bool {
	var mle *ModuleLoadError
	return errors.As(err, &mle)
}

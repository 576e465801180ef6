package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/capability"
	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/health"
	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/loader"
	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/observe"
	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/perf"
	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/resilience"
)

// App owns every long-lived component. Nothing in the module keeps
// process-wide state; code that needs a capability gets it from here.
type App struct {
	cfg    Config
	logger observe.Logger

	Observer     observe.Observer
	Loader       *loader.Loader
	Toolkit      *perf.Toolkit
	Capabilities *capability.Registry
	Health       *health.Aggregator

	background errgroup.Group

	mu       sync.Mutex
	expected map[string]struct{}
}

// New validates cfg and wires the application.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	obs, err := observe.NewObserver(ctx, cfg.observeConfig())
	if err != nil {
		return nil, err
	}
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, err
	}

	lcfg := loader.Config{
		Timeout:   cfg.LoaderTimeout,
		Retries:   cfg.LoaderRetries,
		GroupSize: cfg.GroupSize,
		Telemetry: mw,
	}
	if cfg.BreakerMaxFailures > 0 {
		lcfg.CircuitBreaker = &resilience.CircuitBreakerConfig{
			MaxFailures:  cfg.BreakerMaxFailures,
			ResetTimeout: cfg.BreakerResetTimeout,
		}
	}

	tk, err := perf.New(perf.Config{
		MemoCapacity: cfg.MemoCapacity,
		Meter:        obs.Meter(),
		Logger:       obs.Logger(),
	})
	if err != nil {
		return nil, fmt.Errorf("app: create toolkit: %w", err)
	}

	a := &App{
		cfg:          cfg,
		logger:       obs.Logger(),
		Observer:     obs,
		Loader:       loader.New(lcfg),
		Toolkit:      tk,
		Capabilities: capability.NewRegistry(),
		Health:       health.NewAggregator(health.AggregatorConfig{Timeout: cfg.HealthTimeout}),
		expected:     make(map[string]struct{}),
	}
	a.Health.Register("loader", a.Loader.HealthChecker())
	a.Health.Register("capabilities", health.NewCheckerFunc("capabilities", a.checkCapabilities))
	return a, nil
}

// Register adds a module to the loader catalog. Names listed in
// PreloadModules must be registered before Start.
func (a *App) Register(name string, producer loader.Producer) error {
	return a.Loader.Register(name, producer)
}

// Start preloads the configured catalog modules followed by extra, and
// registers every module that loaded as a capability. Modules that fail
// leave the application degraded, not failed; the returned error reports
// only configuration or registration problems.
func (a *App) Start(ctx context.Context, extra ...loader.Entry) (loader.PreloadResult, error) {
	entries, err := a.entries(extra)
	if err != nil {
		return loader.PreloadResult{}, err
	}
	res := a.Loader.Preload(ctx, entries)
	return res, a.register(ctx, res)
}

// StartInBackground is Start after the configured preload delay, without
// blocking. Shutdown waits for it.
func (a *App) StartInBackground(ctx context.Context, extra ...loader.Entry) error {
	entries, err := a.entries(extra)
	if err != nil {
		return err
	}

	ch := a.Loader.PreloadInBackground(ctx, entries, a.cfg.PreloadDelay)
	a.background.Go(func() error {
		return a.register(ctx, <-ch)
	})
	return nil
}

// Shutdown waits for background preloads, stops toolkit timers, drops
// cached modules, and flushes telemetry.
func (a *App) Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- a.background.Wait() }()

	var bgErr error
	select {
	case bgErr = <-done:
	case <-ctx.Done():
		bgErr = ctx.Err()
	}

	a.Toolkit.Cleanup()
	a.Loader.ClearAll()

	if err := a.Observer.Shutdown(ctx); err != nil {
		return err
	}
	return bgErr
}

func (a *App) entries(extra []loader.Entry) ([]loader.Entry, error) {
	entries := make([]loader.Entry, 0, len(a.cfg.PreloadModules)+len(extra))
	for _, name := range a.cfg.PreloadModules {
		if strings.TrimSpace(name) == "" {
			continue
		}
		e, ok := a.Loader.CatalogEntry(name)
		if !ok {
			return nil, fmt.Errorf("%w: preload module %q is not registered", loader.ErrUnknownModule, name)
		}
		entries = append(entries, e)
	}
	entries = append(entries, extra...)

	a.mu.Lock()
	for _, e := range entries {
		a.expected[e.Name] = struct{}{}
	}
	a.mu.Unlock()
	return entries, nil
}

func (a *App) register(ctx context.Context, res loader.PreloadResult) error {
	err := a.Capabilities.RegisterLoaded(res)

	failed := make([]string, 0, len(res.Errors))
	for name, lerr := range res.Errors {
		failed = append(failed, name)
		a.logger.Warn(ctx, "capability unavailable",
			observe.Field{Key: "module.name", Value: name},
			observe.Field{Key: "error", Value: lerr},
		)
	}
	sort.Strings(failed)

	a.logger.Info(ctx, "capabilities ready",
		observe.Field{Key: "available", Value: a.Capabilities.Names()},
		observe.Field{Key: "failed", Value: failed},
	)
	return err
}

func (a *App) checkCapabilities(context.Context) health.Result {
	a.mu.Lock()
	var missing []string
	for name := range a.expected {
		if !a.Capabilities.Available(name) {
			missing = append(missing, name)
		}
	}
	a.mu.Unlock()

	details := map[string]any{"available": a.Capabilities.Names()}
	if len(missing) == 0 {
		return health.Healthy("all capabilities available").WithDetails(details)
	}
	sort.Strings(missing)
	details["missing"] = missing
	return health.Degraded(fmt.Sprintf("%d capability(ies) missing", len(missing))).WithDetails(details)
}

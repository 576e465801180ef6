package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/observe"
)

// Entry is one module to preload.
type Entry struct {
	Name     string
	Producer Producer
	Options  []Option
}

// PreloadResult collects the outcome of a Preload run. Every entry lands in
// exactly one of the two maps.
type PreloadResult struct {
	Results map[string]any
	Errors  map[string]error
}

// Succeeded reports whether every entry loaded.
func (r PreloadResult) Succeeded() bool {
	return len(r.Errors) == 0
}

// PreloadOption adjusts a Preload run.
type PreloadOption func(*preloadOptions)

type preloadOptions struct {
	groupSize int
}

// WithGroupSize sets how many loads run at once. Default: the loader's
// configured group size.
func WithGroupSize(n int) PreloadOption {
	return func(o *preloadOptions) { o.groupSize = n }
}

// Preload loads entries in sequential groups. Loads within a group run
// concurrently and the next group starts once the current one settles.
// A failed entry is recorded in Errors and does not stop the others.
//
// When ctx is cancelled, entries of groups not yet started are recorded
// with ctx.Err(). Preload itself never fails.
func (l *Loader) Preload(ctx context.Context, entries []Entry, opts ...PreloadOption) PreloadResult {
	o := preloadOptions{groupSize: l.cfg.GroupSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.groupSize < 1 {
		o.groupSize = l.cfg.GroupSize
	}

	res := PreloadResult{
		Results: make(map[string]any, len(entries)),
		Errors:  make(map[string]error),
	}
	var mu sync.Mutex
	record := func(name string, v any, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			res.Errors[name] = err
			return
		}
		res.Results[name] = v
	}

	log := l.telemetry.Logger()
	for start, group := 0, 1; start < len(entries); start, group = start+o.groupSize, group+1 {
		end := min(start+o.groupSize, len(entries))
		batch := entries[start:end]

		if err := ctx.Err(); err != nil {
			for _, e := range batch {
				record(e.Name, nil, err)
			}
			continue
		}

		var wg conc.WaitGroup
		for _, e := range batch {
			wg.Go(func() {
				loadOpts := append(append([]Option(nil), e.Options...), withGroup(group))
				v, err := l.Load(ctx, e.Name, e.Producer, loadOpts...)
				record(e.Name, v, err)
			})
		}
		if r := wg.WaitAndRecover(); r != nil {
			log.Error(ctx, "preload group panicked",
				observe.Field{Key: "group", Value: group},
				observe.Field{Key: "panic", Value: fmt.Sprint(r.Value)},
			)
		}
	}

	log.Info(ctx, "preload finished",
		observe.Field{Key: "loaded", Value: len(res.Results)},
		observe.Field{Key: "failed", Value: len(res.Errors)},
	)
	return res
}

// PreloadInBackground waits delay and then runs Preload, delivering its
// result on the returned channel. The channel is buffered and closed after
// the single send. A negative delay starts at once.
//
// Cancelling ctx during the delay yields a result with every entry failed
// with ctx.Err().
func (l *Loader) PreloadInBackground(ctx context.Context, entries []Entry, delay time.Duration, opts ...PreloadOption) <-chan PreloadResult {
	out := make(chan PreloadResult, 1)

	go func() {
		defer close(out)

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
		out <- l.Preload(ctx, entries, opts...)
	}()

	return out
}

package loader

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/conc"
)

// Register adds producer to the catalog under name, replacing any previous
// entry. Catalog entries are loaded with LoadNamed and LoadBatch.
func (l *Loader) Register(name string, producer Producer) error {
	if strings.TrimSpace(name) == "" {
		return invalidArgf("module name is empty")
	}
	if producer == nil {
		return invalidArgf("producer for %q is nil", name)
	}

	l.mu.Lock()
	l.catalog[name] = producer
	l.mu.Unlock()
	return nil
}

// Registered returns the sorted catalog names.
func (l *Loader) Registered() []string {
	l.mu.Lock()
	names := make([]string, 0, len(l.catalog))
	for name := range l.catalog {
		names = append(names, name)
	}
	l.mu.Unlock()

	sort.Strings(names)
	return names
}

// LoadNamed loads a catalog entry. Unregistered names fail with
// ErrUnknownModule.
func (l *Loader) LoadNamed(ctx context.Context, name string, opts ...Option) (any, error) {
	l.mu.Lock()
	producer, ok := l.catalog[name]
	l.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, name)
	}
	return l.Load(ctx, name, producer, opts...)
}

// BatchResult is the outcome of one LoadBatch entry.
type BatchResult struct {
	Name  string
	Value any
	Err   error
}

// LoadBatch loads catalog entries, at most concurrency at a time, and
// returns one result per name in input order. concurrency below 1 uses the
// configured group size.
func (l *Loader) LoadBatch(ctx context.Context, names []string, concurrency int, opts ...Option) []BatchResult {
	if concurrency < 1 {
		concurrency = l.cfg.GroupSize
	}

	results := make([]BatchResult, len(names))
	for start := 0; start < len(names); start += concurrency {
		end := min(start+concurrency, len(names))

		var wg conc.WaitGroup
		for i := start; i < end; i++ {
			wg.Go(func() {
				v, err := l.LoadNamed(ctx, names[i], opts...)
				results[i] = BatchResult{Name: names[i], Value: v, Err: err}
			})
		}
		wg.Wait()
	}
	return results
}

// CatalogEntry returns a preload entry for a registered name.
func (l *Loader) CatalogEntry(name string, opts ...Option) (Entry, bool) {
	l.mu.Lock()
	producer, ok := l.catalog[name]
	l.mu.Unlock()

	if !ok {
		return Entry{}, false
	}
	return Entry{Name: name, Producer: producer, Options: opts}, true
}

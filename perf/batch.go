package perf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/Rishpraveen/Medical-Data-factchecker-for-youtube/observe"
)

// Batcher groups pushed items and hands them to a handler in batches. A
// batch is flushed once it reaches the maximum size, or delay after its
// first item arrived, whichever comes first. Handler calls never overlap.
type Batcher[T any] struct {
	handler func([]T)
	delay   time.Duration
	max     int
	logger  observe.Logger

	// handling serializes handler calls across the pushing goroutine and
	// timer goroutines.
	handling sync.Mutex

	mu      sync.Mutex
	buf     []T
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// BatcherOption configures a Batcher.
type BatcherOption func(*batcherOptions)

type batcherOptions struct {
	logger observe.Logger
}

// WithBatchLogger logs handler panics to l.
func WithBatchLogger(l observe.Logger) BatcherOption {
	return func(o *batcherOptions) { o.logger = l }
}

// NewBatcher creates a Batcher.
func NewBatcher[T any](handler func([]T), delay time.Duration, maxBatchSize int, opts ...BatcherOption) (*Batcher[T], error) {
	switch {
	case handler == nil:
		return nil, invalidArgf("batch handler is nil")
	case delay <= 0:
		return nil, invalidArgf("delay must be positive, got %v", delay)
	case maxBatchSize <= 0:
		return nil, invalidArgf("max batch size must be positive, got %d", maxBatchSize)
	}
	o := batcherOptions{logger: observe.NopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Batcher[T]{
		handler: handler,
		delay:   delay,
		max:     maxBatchSize,
		logger:  o.logger,
	}, nil
}

// Push appends item. A full batch is handled on the caller's goroutine
// before Push returns; a timed flush runs on its own goroutine.
func (b *Batcher[T]) Push(item T) error {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return ErrStopped
	}

	b.buf = append(b.buf, item)
	if len(b.buf) >= b.max {
		batch := b.takeLocked()
		b.mu.Unlock()
		b.handle(batch)
		return nil
	}

	if b.timer == nil {
		gen := b.gen
		b.timer = time.AfterFunc(b.delay, func() { b.flushGen(gen) })
	}
	b.mu.Unlock()
	return nil
}

// Flush hands any buffered items to the handler now.
func (b *Batcher[T]) Flush() {
	b.mu.Lock()
	batch := b.takeLocked()
	b.mu.Unlock()

	if len(batch) > 0 {
		b.handle(batch)
	}
}

// Stop flushes buffered items and rejects further pushes.
func (b *Batcher[T]) Stop() {
	b.mu.Lock()
	b.stopped = true
	b.mu.Unlock()

	b.Flush()
}

// Len reports the number of buffered items.
func (b *Batcher[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}

func (b *Batcher[T]) flushGen(gen uint64) {
	b.mu.Lock()
	if gen != b.gen {
		// the batch this timer was armed for has already gone
		b.mu.Unlock()
		return
	}
	batch := b.takeLocked()
	b.mu.Unlock()

	if len(batch) > 0 {
		b.handle(batch)
	}
}

// takeLocked swaps out the buffer and disarms the timer.
func (b *Batcher[T]) takeLocked() []T {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
	batch := b.buf
	b.buf = nil
	return batch
}

func (b *Batcher[T]) handle(batch []T) {
	b.handling.Lock()
	defer b.handling.Unlock()

	var c panics.Catcher
	c.Try(func() { b.handler(batch) })
	if r := c.Recovered(); r != nil {
		b.logger.Error(context.Background(), "batch handler panicked",
			observe.Field{Key: "batch_size", Value: len(batch)},
			observe.Field{Key: "panic", Value: fmt.Sprint(r.Value)},
		)
	}
}

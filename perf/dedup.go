package perf

import (
	"context"

	"github.com/sourcegraph/conc/panics"
)

// Deduplicate returns a function under which concurrent calls with the same
// key share one call to fn and its outcome. Once that call settles the key
// is free again; nothing is cached. The first caller's context is the one
// fn sees.
func Deduplicate[A, R any](t *Toolkit, fn func(context.Context, A) (R, error), keyFn func(A) string) (func(context.Context, A) (R, error), error) {
	if fn == nil {
		return nil, invalidArgf("deduplicated function is nil")
	}
	ns := t.namespace("dedup")

	return func(ctx context.Context, arg A) (R, error) {
		var key string
		if keyFn != nil {
			key = ns + ":" + keyFn(arg)
		} else {
			k, err := defaultKey(ns, arg)
			if err != nil {
				return fn(ctx, arg)
			}
			key = k
		}

		v, err, _ := t.flights.Do(key, func() (any, error) {
			t.setPending(key, true)
			defer t.setPending(key, false)

			var (
				r   R
				err error
				c   panics.Catcher
			)
			c.Try(func() { r, err = fn(ctx, arg) })
			if rec := c.Recovered(); rec != nil {
				return r, rec.AsError()
			}
			return r, err
		})
		r, _ := v.(R)
		return r, err
	}, nil
}

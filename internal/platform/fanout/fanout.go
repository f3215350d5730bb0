// Package fanout runs a function over a slice with bounded concurrency and
// returns the outcomes in input order. The health registry uses it so one
// slow dependency does not serialize the readiness check.
package fanout

import (
	"context"
	"sync"
)

// Outcome is the value or error produced for one item.
type Outcome[R any] struct {
	Value R
	Err   error
}

// Map calls fn for every item with at most limit calls in flight. A limit
// below one means one. Items still waiting for a slot when ctx is done are
// not processed and report ctx.Err().
func Map[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) []Outcome[R] {
	out := make([]Outcome[R], len(items))
	if len(items) == 0 {
		return out
	}
	limit = max(limit, 1)

	slots := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i, item := range items {
		wg.Go(func() {
			select {
			case slots <- struct{}{}:
				defer func() { <-slots }()
			case <-ctx.Done():
				out[i].Err = ctx.Err()
				return
			}
			out[i].Value, out[i].Err = fn(ctx, item)
		})
	}
	wg.Wait()
	return out
}

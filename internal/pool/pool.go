// Package pool runs a fixed number of independent tasks over a bounded set of
// goroutines and streams their outcomes back in completion order.
package pool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one task. Err is the task's own error; the pool
// never interprets it, the consumer decides whether it is fatal.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// Task computes the value for the i-th item.
type Task[T any] func(ctx context.Context, i int) (T, error)

// Start dispatches tasks 0..n-1 with at most workers running at once.
//
// The returned channel is buffered to n, so a consumer may stop reading at any
// time without blocking stragglers. It is closed once every dispatched task
// has delivered. No new task is dispatched after ctx is done.
func Start[T any](ctx context.Context, workers, n int, task Task[T]) <-chan Result[T] {
	if workers <= 0 {
		workers = 1
	}
	out := make(chan Result[T], n)

	go func() {
		defer close(out)

		var g errgroup.Group
		g.SetLimit(workers)
		for i := 0; i < n; i++ {
			if ctx.Err() != nil {
				break
			}
			i := i // per-iteration copy (Go <1.22 loop semantics)
			g.Go(func() error {
				v, err := task(ctx, i)
				out <- Result[T]{Index: i, Value: v, Err: err}
				return nil
			})
		}
		_ = g.Wait()
	}()

	return out
}

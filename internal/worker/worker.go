// Package worker provides small concurrency helpers: a bounded parallel
// map for read-only fan-out work and a rate gate for throttling.
package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Map runs fn over every item with at most concurrency workers and
// returns results in input order. fn is responsible for reporting its
// own errors inside R; Map never drops an item.
func Map[T, R any](ctx context.Context, concurrency int, items []T, fn func(context.Context, T) R) []R {
	if len(items) == 0 {
		return nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	results := make([]R, len(items))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = fn(ctx, items[i])
			}
		}()
	}

	for i := range items {
		select {
		case <-ctx.Done():
			// Stop feeding; workers drain what was already queued.
			close(indexes)
			wg.Wait()
			return results
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()
	return results
}

// Gate throttles an operation to a fixed rate. A nil Gate admits
// everything, so callers can leave throttling unconfigured.
type Gate struct {
	limiter *rate.Limiter
}

// NewGate creates a gate admitting perSecond operations with the given
// burst. perSecond <= 0 returns a nil (unlimited) gate.
func NewGate(perSecond float64, burst int) *Gate {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &Gate{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until the gate admits one operation or the context ends
func (g *Gate) Wait(ctx context.Context) error {
	if g == nil || g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}

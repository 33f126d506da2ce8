package tmdb

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultGateLimit caps concurrent provider calls process-wide. The bound is
// shared across all requests being served, not per request.
const DefaultGateLimit = 40

// Gate bounds how many provider calls are in flight at once. It is an
// explicitly constructed value injected into the services that need it, so
// tests can run independent gates. The gate imposes no timeout of its own;
// the wrapped call's context governs how long a queued task waits.
type Gate struct {
	sem *semaphore.Weighted
}

// NewGate builds a gate allowing up to limit concurrent calls. A non-positive
// limit falls back to DefaultGateLimit.
func NewGate(limit int64) *Gate {
	if limit <= 0 {
		limit = DefaultGateLimit
	}
	return &Gate{sem: semaphore.NewWeighted(limit)}
}

// Do runs fn once a slot is free, propagating fn's result unchanged. Waiters
// are served in FIFO order. If ctx is done before a slot frees, the context
// error is returned and fn never runs.
func (g *Gate) Do(ctx context.Context, fn func() error) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer g.sem.Release(1)
	return fn()
}

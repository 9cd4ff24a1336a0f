// Package pool bounds the number of store operations in flight. The gate sits
// in front of database/sql so that the behaviour at capacity is explicit:
// queue for a bounded time, or fail immediately.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/store"
	"golang.org/x/sync/semaphore"
)

// ErrExhausted is returned when no slot could be acquired, either because
// the gate is in fail-fast mode or because the acquire timeout elapsed.
var ErrExhausted = fmt.Errorf("%w: connection pool exhausted", store.ErrUnavailable)

// Gate is a counting semaphore sized to the connection pool.
type Gate struct {
	sem            *semaphore.Weighted
	capacity       int
	failFast       bool
	acquireTimeout time.Duration
}

// NewGate creates a gate with the given capacity. mode is one of
// config.PoolModeQueue or config.PoolModeFailFast.
func NewGate(capacity int, mode string, acquireTimeout time.Duration) *Gate {
	if capacity <= 0 {
		// ALLOW-PANIC: Constructor enforcing a usable pool size
		panic("pool capacity must be positive")
	}
	return &Gate{
		sem:            semaphore.NewWeighted(int64(capacity)),
		capacity:       capacity,
		failFast:       mode == config.PoolModeFailFast,
		acquireTimeout: acquireTimeout,
	}
}

// NewGateFromConfig creates a gate from the database settings.
func NewGateFromConfig(cfg config.DatabaseConfig) *Gate {
	return NewGate(cfg.MaxConns, cfg.PoolMode, cfg.AcquireTimeout)
}

// Capacity reports the number of slots.
func (g *Gate) Capacity() int {
	return g.capacity
}

// FailFast reports whether Acquire refuses to wait.
func (g *Gate) FailFast() bool {
	return g.failFast
}

// Acquire takes one slot. The returned release func must be called exactly
// once; extra calls are ignored. If ctx is cancelled while waiting, ctx's
// error is returned instead of ErrExhausted.
func (g *Gate) Acquire(ctx context.Context) (func(), error) {
	if g.failFast {
		if !g.sem.TryAcquire(1) {
			return nil, ErrExhausted
		}
		return g.releaser(), nil
	}

	waitCtx := ctx
	if g.acquireTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, g.acquireTimeout)
		defer cancel()
	}

	if err := g.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrExhausted, g.acquireTimeout)
		}
		return nil, err
	}
	return g.releaser(), nil
}

func (g *Gate) releaser() func() {
	var once sync.Once
	return func() {
		once.Do(func() { g.sem.Release(1) })
	}
}

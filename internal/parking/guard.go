package parking

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// LotGuard owns one mutual exclusion lock per lot. Waiters on the same lot
// are granted the lock in arrival order; different lots never contend.
type LotGuard struct {
	mu    sync.Mutex
	locks map[string]*semaphore.Weighted
}

func NewLotGuard() *LotGuard {
	return &LotGuard{locks: make(map[string]*semaphore.Weighted)}
}

// Register creates the lock for a lot ahead of first use.
func (g *LotGuard) Register(lotID string) {
	g.lockFor(lotID)
}

func (g *LotGuard) lockFor(lotID string) *semaphore.Weighted {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.locks[lotID]
	if !ok {
		l = semaphore.NewWeighted(1)
		g.locks[lotID] = l
	}
	return l
}

// Lock blocks until the lot's lock is held or ctx is done. The returned
// release func is safe to call more than once.
func (g *LotGuard) Lock(ctx context.Context, lotID string) (func(), error) {
	l := g.lockFor(lotID)
	if err := l.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() { l.Release(1) })
	}, nil
}

// WithLock runs fn while holding the lot's lock.
func (g *LotGuard) WithLock(ctx context.Context, lotID string, fn func() error) error {
	release, err := g.Lock(ctx, lotID)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

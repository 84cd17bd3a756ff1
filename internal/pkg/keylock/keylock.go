// Package keylock serializes work per key with a bounded wait.
package keylock

import (
	"context"
	"sync"
	"time"

	"shopping/internal/pkg/errs"
)

// DefaultTimeout is used when New is given a non-positive timeout.
const DefaultTimeout = 3 * time.Second

type entry struct {
	ch   chan struct{}
	refs int
}

// Locker hands out one exclusive lock per key. Unused keys are released so the
// map does not grow with the number of orders ever seen.
type Locker struct {
	mu      sync.Mutex
	entries map[string]*entry
	timeout time.Duration
}

// New creates a Locker that waits at most timeout for a key.
func New(timeout time.Duration) *Locker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Locker{
		entries: make(map[string]*entry),
		timeout: timeout,
	}
}

// Lock acquires the lock for key. It returns a ContentionError if the lock is not
// free within the configured timeout, or the context error if ctx ends first.
// On success the returned function releases the lock and must be called exactly once.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	e := l.acquire(key)

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case e.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.ch
				l.release(key)
			})
		}, nil
	case <-timer.C:
		l.release(key)
		return nil, errs.NewContentionError(key)
	case <-ctx.Done():
		l.release(key)
		return nil, errs.NewContentionErrorWithCause(key, ctx.Err())
	}
}

// WithLock runs fn while holding the lock for key.
func (l *Locker) WithLock(ctx context.Context, key string, fn func() error) error {
	unlock, err := l.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

func (l *Locker) acquire(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entries[key]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// size is used by tests.
func (l *Locker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

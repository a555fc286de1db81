// Package locks serializes work per key. Each key gets a lazily created
// exclusive lock; work on different keys never blocks.
package locks

import (
	"context"
	"sync"
)

// Manager hands out exclusive per-key locks. The zero value is not usable;
// construct with New.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// entry is a one-slot semaphore so waiters can give up on context cancellation.
// refs counts holders and waiters; the entry is dropped from the map at zero.
type entry struct {
	sem  chan struct{}
	refs int
}

// New creates an empty lock manager.
func New() *Manager {
	return &Manager{entries: make(map[string]*entry)}
}

// With acquires the lock for key, runs fn, and releases the lock on every
// exit path. Cancelling ctx while waiting returns ctx.Err() without running
// fn. Once acquired, fn receives a context detached from cancellation so the
// operation finishes or fails cleanly under the lock.
func (m *Manager) With(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	e := m.acquire(key)
	defer m.release(key, e)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-e.sem }()

	return fn(context.WithoutCancel(ctx))
}

// Len reports the number of keys with a holder or waiter.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Manager) acquire(key string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	return e
}

func (m *Manager) release(key string, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
}

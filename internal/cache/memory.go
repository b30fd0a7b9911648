package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[V any] struct {
	expiresAt time.Time
	value     V
}

func (e memoryEntry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process cache. Expired entries are removed lazily on
// access and periodically by a background sweep.
type Memory[V any] struct {
	items      map[string]memoryEntry[V]
	done       chan struct{}
	defaultTTL time.Duration
	mu         sync.Mutex
	closed     bool
}

// NewMemory creates a memory cache. defaultTTL applies to Set calls with a
// zero TTL; sweep is the cleanup interval (0 disables the sweeper).
func NewMemory[V any](defaultTTL, sweep time.Duration) *Memory[V] {
	m := &Memory[V]{
		items:      make(map[string]memoryEntry[V]),
		done:       make(chan struct{}),
		defaultTTL: defaultTTL,
	}
	if sweep > 0 {
		go m.sweep(sweep)
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok || e.expired(time.Now()) {
		delete(m.items, key)
		var zero V
		return zero, ErrNotFound
	}
	return e.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if ttl == 0 {
		ttl = m.defaultTTL
	}

	e := memoryEntry[V]{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.items[key] = e
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.items, key)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// swept.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the sweeper. Further writes return ErrClosed.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *Memory[V]) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for k, e := range m.items {
				if e.expired(now) {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		}
	}
}

var _ Cache[any] = (*Memory[any])(nil)

// Package cache provides a small in-memory TTL cache. The gateway uses it
// for the public property listings every anonymous visitor requests; admin
// actions that change what the public sees (verify, advertise, delete)
// invalidate the cached listing rather than waiting out the TTL.
package cache

import (
	"sync"
	"time"
)

type item[T any] struct {
	value   T
	staleAt time.Time
}

// InMemory is a thread-safe TTL cache. Expired items are unreadable
// immediately and reaped by a background sweep.
type InMemory[T any] struct {
	mu    sync.RWMutex
	items map[string]item[T]
	ttl   time.Duration
}

// New creates a cache whose entries live for ttl. The sweep goroutine runs
// for the life of the process.
func New[T any](ttl time.Duration) *InMemory[T] {
	c := &InMemory[T]{
		items: make(map[string]item[T]),
		ttl:   ttl,
	}
	go c.sweep()
	return c
}

// Get returns the cached value, or false when absent or stale.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok || time.Now().After(it.staleAt) {
		var zero T
		return zero, false
	}
	return it.value, true
}

// Set stores a value under key for the configured TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item[T]{
		value:   value,
		staleAt: time.Now().Add(c.ttl),
	}
}

// Delete invalidates key. Used when a mutation makes the cached view wrong
// before its TTL runs out.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// sweep reaps stale items once per TTL so the map does not grow with keys
// nobody reads again.
func (c *InMemory[T]) sweep() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for k, it := range c.items {
			if now.After(it.staleAt) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}

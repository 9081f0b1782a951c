// Package cache provides a TTL cache with single-flight deduplication of
// concurrent fetches for the same key.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry is one cached value with its lifecycle timestamps.
type Entry[V any] struct {
	Value     V
	StoredAt  time.Time
	ExpiresAt time.Time
}

// Cache is a concurrency-safe TTL map with single-flight fetch coordination.
// Within one key at most one upstream fetch is ever active; concurrent
// callers share its result. Replacement of a value is atomic, never partial.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]

	ttl     time.Duration
	group   singleflight.Group
	now     func() time.Time
	onStore func(key string, value V)
}

// New creates a Cache with the given TTL.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]Entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// OnStore registers a hook invoked after each successful cache write, with
// the stored value. It runs on the fetching goroutine, after the entry is
// visible to readers. Must be set before the cache is used.
func (c *Cache[V]) OnStore(fn func(key string, value V)) {
	c.onStore = fn
}

// GetOrFetch returns the value for key, deduplicating concurrent fetches:
//   - a live entry is returned as-is;
//   - otherwise one fetch runs while all concurrent callers for the same key
//     await its result;
//   - a failed fetch falls back to an existing entry even when expired
//     (stale serving), and only propagates the error when no entry exists.
//
// The single-flight registration is dropped unconditionally when the fetch
// completes, success or failure.
func (c *Cache[V]) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (V, error)) (V, error) {
	v, err, _ := c.group.Do(key, func() (any, error) {
		if e, ok := c.lookup(key); ok && c.now().Before(e.ExpiresAt) {
			return e.Value, nil
		}

		value, err := fetch(ctx)
		if err != nil {
			if e, ok := c.lookup(key); ok {
				return e.Value, nil
			}
			return nil, err
		}

		c.store(key, value)
		if c.onStore != nil {
			c.onStore(key, value)
		}
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Peek returns the entry for key regardless of expiry.
func (c *Cache[V]) Peek(key string) (Entry[V], bool) {
	return c.lookup(key)
}

// Len returns the number of stored entries, expired included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Invalidate removes the entry for key, if any.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache[V]) lookup(key string) (Entry[V], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache[V]) store(key string, value V) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry[V]{
		Value:     value,
		StoredAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}
}

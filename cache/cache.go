// Package cache is a small in-memory TTL cache.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	val T
	exp time.Time
}

type Cache[T any] struct {
	mu     sync.RWMutex
	m      map[string]entry[T]
	ttl    time.Duration
	now    func() time.Time
	hits   int
	misses int
}

// New returns a cache whose entries expire ttl after being set.
// A non-positive ttl disables caching: Get always misses.
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{m: make(map[string]entry[T]), ttl: ttl, now: time.Now}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok || !c.now().Before(e.exp) {
		if ok {
			delete(c.m, key)
		}
		c.misses++
		return zero, false
	}
	c.hits++
	return e.val, true
}

func (c *Cache[T]) Set(key string, v T) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.m {
		if !now.Before(e.exp) {
			delete(c.m, k)
		}
	}
	c.m[key] = entry[T]{val: v, exp: now.Add(c.ttl)}
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Stats returns hit and miss counts.
func (c *Cache[T]) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

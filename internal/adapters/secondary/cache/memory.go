// Package cache provides a small in-memory LRU cache with optional expiry.
package cache

import (
	"sync"
	"time"
)

// Stats describes cache usage
type Stats struct {
	Size    int
	MaxSize int
	Hits    int64
	Misses  int64
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
	lastHit   time.Time
}

// MemoryCache keeps up to maxSize values, evicting the least recently used.
// A zero ttl never expires entries; a zero maxSize is unbounded.
type MemoryCache[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
	maxSize int
	ttl     time.Duration
	hits    int64
	misses  int64
	now     func() time.Time
}

// NewMemoryCache creates a cache
func NewMemoryCache[V any](maxSize int, ttl time.Duration) *MemoryCache[V] {
	return &MemoryCache[V]{
		entries: make(map[string]*entry[V]),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the value for key if present and not expired
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return zero, false
	}

	now := c.now()
	if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
		delete(c.entries, key)
		c.misses++
		return zero, false
	}

	e.lastHit = now
	c.hits++
	return e.value, true
}

// Set stores value under key
func (c *MemoryCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictLRU()
	}

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = now.Add(c.ttl)
	}

	c.entries[key] = &entry[V]{
		value:     value,
		expiresAt: expiresAt,
		lastHit:   now,
	}
}

// Remove drops key
func (c *MemoryCache[V]) Remove(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear drops every entry
func (c *MemoryCache[V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry[V])
	c.mu.Unlock()
}

// Stats returns usage counters
func (c *MemoryCache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:    len(c.entries),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// evictLRU removes the least recently used entry; callers hold mu
func (c *MemoryCache[V]) evictLRU() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)

	for key, e := range c.entries {
		if !found || e.lastHit.Before(oldest) {
			oldestKey, oldest, found = key, e.lastHit, true
		}
	}

	if found {
		delete(c.entries, oldestKey)
	}
}

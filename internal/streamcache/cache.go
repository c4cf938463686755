// Package streamcache holds resolved stream locations for the lifetime of
// the process. Entries expire on a fixed TTL chosen to stay safely under
// the upstream locator's own expiry; the map is capacity-bounded with
// insertion-order eviction. Manifest-backed entries are stored but never
// served: their backing artifact is not guaranteed to survive, so a lookup
// always recomputes them.
package streamcache

import (
	"sync"
	"time"
)

const (
	// DefaultTTL stays under the ~6h expiry of upstream locators.
	DefaultTTL = 5 * time.Hour
	// DefaultCapacity bounds the process-wide entry count.
	DefaultCapacity = 100
)

type entry struct {
	url        string
	isManifest bool
	expiresAt  time.Time
}

// Cache is a TTL- and capacity-bounded map from resolution key to resolved
// location. Explicitly constructed and injected; starts empty, never
// persisted.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]entry
	order    []string // insertion order, oldest first
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

func New(ttl time.Duration, capacity int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		entries:  make(map[string]entry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Get returns the cached URL for key. Expired entries and manifest-backed
// entries count as misses and are evicted eagerly.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if e.isManifest || c.now().After(e.expiresAt) {
		c.removeLocked(key)
		return "", false
	}
	return e.url, true
}

// Put stores url under key with a fresh TTL. When the capacity is exceeded
// the single oldest-inserted entry is evicted.
func (c *Cache) Put(key, url string) {
	c.put(key, url, false)
}

// PutManifest stores a manifest-artifact reference. It occupies a slot but
// is never returned by Get.
func (c *Cache) PutManifest(key, ref string) {
	c.put(key, ref, true)
}

func (c *Cache) put(key, url string, isManifest bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.removeLocked(key)
	}
	c.entries[key] = entry{
		url:        url,
		isManifest: isManifest,
		expiresAt:  c.now().Add(c.ttl),
	}
	c.order = append(c.order, key)

	for len(c.entries) > c.capacity {
		oldest := c.order[0]
		c.removeLocked(oldest)
	}
}

// Len reports the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

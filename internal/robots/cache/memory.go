package cache

import (
	"container/list"
	"sync"
	"time"
)

// MemoryCache is a bounded in-memory implementation of the Cache interface
// with per-entry TTL and least-recently-used eviction.
//
// Entries expire ttl after insertion; reads do not refresh the deadline.
// When the cache holds capacity entries, inserting a new key evicts the
// least recently used one. Expired entries are dropped lazily on access.
//
// All operations are safe for concurrent use.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*list.Element
	order    *list.List // front = most recently used

	// now is swappable for expiry tests
	now func() time.Time
}

type memoryEntry struct {
	key       string
	value     string
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory cache bounded to capacity
// entries, each living for ttl after insertion. capacity must be positive.
func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryCache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		now:      time.Now,
	}
}

// Get retrieves a value from the cache by key.
// A hit marks the entry as recently used but does not reset its TTL.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.entries[key]
	if !exists {
		return "", false
	}
	entry := elem.Value.(*memoryEntry)
	if c.now().After(entry.expiresAt) {
		c.order.Remove(elem)
		delete(c.entries, key)
		return "", false
	}
	c.order.MoveToFront(elem)
	return entry.value, true
}

// Put stores a key-value pair in the cache.
// An existing key is overwritten wholesale and its TTL restarts.
func (c *MemoryCache) Put(key string, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)

	if elem, exists := c.entries[key]; exists {
		entry := elem.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	if len(c.entries) >= c.capacity {
		c.evictOldest()
	}

	elem := c.order.PushFront(&memoryEntry{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	})
	c.entries[key] = elem
}

// evictOldest removes the least recently used entry, preferring any
// already-expired entry so live keys survive a full cache.
// Caller must hold c.mu.
func (c *MemoryCache) evictOldest() {
	now := c.now()
	for elem := c.order.Back(); elem != nil; elem = elem.Prev() {
		entry := elem.Value.(*memoryEntry)
		if now.After(entry.expiresAt) {
			c.order.Remove(elem)
			delete(c.entries, entry.key)
			return
		}
	}
	if elem := c.order.Back(); elem != nil {
		entry := elem.Value.(*memoryEntry)
		c.order.Remove(elem)
		delete(c.entries, entry.key)
	}
}

// Clear removes all entries from the cache.
// This method is primarily useful for testing.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Size returns the number of entries in the cache, including entries that
// have expired but not yet been dropped.
// This method is primarily useful for testing and diagnostics.
func (c *MemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// SetClockForTest replaces the cache's clock. Test use only.
func (c *MemoryCache) SetClockForTest(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
}

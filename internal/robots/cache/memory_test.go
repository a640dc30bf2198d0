package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestNewMemoryCache(t *testing.T) {
	c := NewMemoryCache(10, time.Minute)
	if c == nil {
		t.Fatal("NewMemoryCache returned nil")
	}
	if c.Size() != 0 {
		t.Errorf("expected empty cache, got size %d", c.Size())
	}
}

func TestMemoryCache_PutAndGet(t *testing.T) {
	c := NewMemoryCache(10, time.Minute)

	c.Put("key1", "value1")

	value, found := c.Get("key1")
	if !found {
		t.Error("expected to find key1")
	}
	if value != "value1" {
		t.Errorf("expected value1, got %s", value)
	}

	if c.Size() != 1 {
		t.Errorf("expected size 1, got %d", c.Size())
	}
}

func TestMemoryCache_Get_NotFound(t *testing.T) {
	c := NewMemoryCache(10, time.Minute)

	value, found := c.Get("nonexistent")
	if found {
		t.Error("expected not to find nonexistent key")
	}
	if value != "" {
		t.Errorf("expected empty string for not found, got %s", value)
	}
}

func TestMemoryCache_Put_Overwrite(t *testing.T) {
	c := NewMemoryCache(10, time.Minute)

	c.Put("key1", "value1")
	c.Put("key1", "value2") // Overwrite

	value, found := c.Get("key1")
	if !found {
		t.Error("expected to find key1")
	}
	if value != "value2" {
		t.Errorf("expected value2 after overwrite, got %s", value)
	}

	if c.Size() != 1 {
		t.Errorf("expected size 1 after overwrite, got %d", c.Size())
	}
}

func TestMemoryCache_TTL_Expiry(t *testing.T) {
	c := NewMemoryCache(10, time.Minute)

	now := time.Now()
	c.SetClockForTest(func() time.Time { return now })

	c.Put("key1", "value1")

	// Still live just before the deadline
	now = now.Add(59 * time.Second)
	if _, found := c.Get("key1"); !found {
		t.Error("entry expired before its TTL elapsed")
	}

	// Dead after it
	now = now.Add(2 * time.Second)
	if _, found := c.Get("key1"); found {
		t.Error("expected entry to be expired")
	}
}

func TestMemoryCache_TTL_NotRefreshedOnRead(t *testing.T) {
	c := NewMemoryCache(10, time.Minute)

	now := time.Now()
	c.SetClockForTest(func() time.Time { return now })

	c.Put("key1", "value1")

	// Repeated reads must not extend the deadline
	for i := 0; i < 5; i++ {
		now = now.Add(30 * time.Second)
		c.Get("key1")
	}

	if _, found := c.Get("key1"); found {
		t.Error("reads refreshed the TTL; the deadline is fixed at insertion")
	}
}

func TestMemoryCache_TTL_ResetOnOverwrite(t *testing.T) {
	c := NewMemoryCache(10, time.Minute)

	now := time.Now()
	c.SetClockForTest(func() time.Time { return now })

	c.Put("key1", "value1")
	now = now.Add(45 * time.Second)
	c.Put("key1", "value2")

	// 45s + 30s is beyond the original deadline but within the new one
	now = now.Add(30 * time.Second)
	value, found := c.Get("key1")
	if !found {
		t.Fatal("overwrite did not reset the TTL")
	}
	if value != "value2" {
		t.Errorf("expected value2, got %s", value)
	}
}

func TestMemoryCache_LRU_EvictsOldestOnOverflow(t *testing.T) {
	c := NewMemoryCache(3, time.Minute)

	c.Put("a", "1")
	c.Put("b", "2")
	c.Put("c", "3")

	// Touch "a" so "b" becomes the least recently used
	c.Get("a")

	c.Put("d", "4")

	if _, found := c.Get("b"); found {
		t.Error("expected b to be evicted as least recently used")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := c.Get(key); !found {
			t.Errorf("expected %s to survive eviction", key)
		}
	}
	if c.Size() != 3 {
		t.Errorf("expected size 3, got %d", c.Size())
	}
}

func TestMemoryCache_LRU_PrefersExpiredEntries(t *testing.T) {
	c := NewMemoryCache(2, time.Minute)

	now := time.Now()
	c.SetClockForTest(func() time.Time { return now })

	c.Put("stale", "1")
	now = now.Add(2 * time.Minute) // "stale" is now expired
	c.Put("live", "2")

	// Insert into a full cache: the expired entry must be the one to go
	c.Put("fresh", "3")

	if _, found := c.Get("live"); !found {
		t.Error("live entry was evicted while an expired one existed")
	}
	if _, found := c.Get("fresh"); !found {
		t.Error("expected fresh entry to be present")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(10, time.Minute)

	c.Put("key1", "value1")
	c.Put("key2", "value2")

	if c.Size() != 2 {
		t.Errorf("expected size 2, got %d", c.Size())
	}

	c.Clear()

	if c.Size() != 0 {
		t.Errorf("expected size 0 after clear, got %d", c.Size())
	}

	_, found := c.Get("key1")
	if found {
		t.Error("expected key1 to be cleared")
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(100, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Put(fmt.Sprintf("key-%d", j%20), "value")
			}
		}(i)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Get(fmt.Sprintf("key-%d", j%20))
			}
		}(i)
	}
	wg.Wait()

	// Cache should still be in a valid state
	value, found := c.Get("key-0")
	if !found {
		t.Error("expected to find key-0 after concurrent access")
	}
	if value != "value" {
		t.Errorf("expected value, got %s", value)
	}
}

func TestMemoryCache_CapacityFloor(t *testing.T) {
	c := NewMemoryCache(0, time.Minute)

	c.Put("only", "1")
	if _, found := c.Get("only"); !found {
		t.Error("cache with clamped capacity must still hold one entry")
	}

	c.Put("next", "2")
	if c.Size() != 1 {
		t.Errorf("expected size 1, got %d", c.Size())
	}
}

package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed implementation of the Cache interface, for
// deployments that share one robots cache across crawler processes.
//
// TTL is enforced server-side via key expiry set at insertion. The entry
// bound is delegated to the Redis server's maxmemory policy rather than
// tracked client-side; configure the server with an LRU eviction policy
// (allkeys-lru) to match the in-memory adapter's behavior.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	opTimeout time.Duration
}

// NewRedisCache creates a cache backed by the given Redis client.
// keyPrefix namespaces this tier's keys so the success and error tiers
// can share one Redis instance without colliding.
func NewRedisCache(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		opTimeout: 2 * time.Second,
	}
}

// Get retrieves a value from the cache by key.
// Redis unavailability is reported as a miss; the resolver then falls back
// to fetching, which is the same degradation path as an expired entry.
func (c *RedisCache) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	value, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

// Put stores a key-value pair with the tier's TTL.
// Write failures are dropped: a cache write must never fail a resolution.
func (c *RedisCache) Put(key string, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	c.client.Set(ctx, c.keyPrefix+key, value, c.ttl)
}

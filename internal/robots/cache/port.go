package cache

// Cache defines the port interface for robots.txt resolution caching.
// This interface follows the port-adapter pattern, allowing different
// cache implementations to be swapped without changing the resolver logic.
//
// The cache uses simple key-value storage (strings only) to ensure
// flexibility and avoid tight coupling to specific data structures.
// Callers are responsible for serialization/deserialization.
//
// The resolver owns two independent instances of this port: one for
// successful resolutions and one for failed ones, each with its own
// capacity and TTL configuration.
//
// Implementations must be safe for concurrent Get/Put from multiple
// goroutines without external locking.
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached value and true if found and not expired,
	// or empty string and false otherwise.
	// Get must not extend the entry's lifetime: the TTL is fixed at
	// insertion and is never refreshed on read.
	Get(key string) (string, bool)

	// Put stores a key-value pair in the cache.
	// If the key already exists, the value is overwritten and its TTL
	// restarts. Inserting into a full cache evicts the least recently
	// used entry.
	Put(key string, value string)
}

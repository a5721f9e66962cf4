// Package cache stores upstream API responses keyed by request URL.
package cache

// EvictCallback is called when an entry is evicted from the cache.
// Providers that delegate expiry to an external server never call it.
type EvictCallback func(key string, value []byte)

// Logger receives errors that a provider cannot return to its caller.
type Logger interface {
	Error(msg string, err error)
}

// Cache is a byte-oriented response cache.
type Cache interface {
	// Get returns the cached value and true, or nil and false on a miss.
	Get(key string) ([]byte, bool)

	// Set stores value under key, replacing any previous entry.
	Set(key string, value []byte)

	// Delete removes key if present.
	Delete(key string)

	// Contains reports whether key is cached without refreshing its recency.
	Contains(key string) bool

	// Len returns the number of cached entries.
	Len() int

	// Close releases connections held by the provider.
	Close() error
}

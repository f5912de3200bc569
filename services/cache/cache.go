// Package cache provides the block-window store used by site adapters to
// back off from a source after a rate-limit response.
package cache

import "time"

// CacheService defines the interface for cache operations
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

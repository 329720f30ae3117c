// ABOUTME: Cache interface for optional caching of resolved images and page metadata
// ABOUTME: Implementations live under infrastructure/cache (memory, redis, sqlite)

package interfaces

import (
	"context"
	"time"
)

// Cache defines the interface for cache operations. All values are opaque
// byte slices; serialization is the caller's concern.
type Cache interface {
	// Get retrieves a value by key. Returns an error on miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A zero TTL stores indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Package cache provides pluggable byte caches for HTTP response data.
//
// Four backends implement the same interface: FileCache for CLI usage,
// MemoryCache for library embedding and tests, RedisCache for CI runners
// that share one cache across jobs, and NullCache to disable caching.
//
// Keys are opaque strings; callers namespace them with a prefix
// (e.g. "crates:serde"). Values are raw bytes with a per-entry TTL.
package cache

import (
	"context"
	"time"
)

// TTL values for the data classes the attribution pipeline caches.
const (
	// TTLRegistry is how long registry API responses are cached.
	TTLRegistry = 24 * time.Hour

	// TTLLicenseText is how long canonical license texts are cached.
	// SPDX texts change rarely; a week keeps re-runs cheap.
	TTLLicenseText = 7 * 24 * time.Hour
)

// Cache is the interface implemented by all cache backends.
//
// Get returns (nil, false, nil) on a miss; an error indicates a backend
// failure, not a miss. A ttl of zero means the entry never expires.
type Cache interface {
	// Get retrieves a value. The second return value reports whether
	// the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. Zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

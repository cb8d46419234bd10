// Package cache stores rendered artifacts and generated grammars.
//
// All backends implement [Cache]. [NullCache] disables caching, [FileCache]
// keeps entries on local disk for the CLI, and [RedisCache] shares them
// between instances of the HTTP service. Keys are built by a [Keyer] so that
// every caller derives identical keys for identical inputs.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the cached value and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// TTLs for cached entries.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLGrammar  = 30 * 24 * time.Hour
)

// Package cache provides pluggable byte caches.
//
// mibscope uses a cache to memoize parsed MIB modules across corpus
// reloads: the key is derived from the source file's content checksum, so
// an unchanged file never has to be re-parsed. Backends: a file cache for
// normal operation, a redis cache for shared deployments, and a null cache
// for tests or when caching is disabled.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores opaque byte values under string keys with an optional TTL.
// A TTL of zero means the entry never expires.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and fresh; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// keyType extracts the namespace prefix of a cache key ("mib:<hash>" has
// type "mib") for observability hooks. Keys without a prefix report "raw".
func keyType(key string) string {
	if prefix, _, ok := strings.Cut(key, ":"); ok && prefix != "" {
		return prefix
	}
	return "raw"
}

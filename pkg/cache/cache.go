// Package cache stores built pipeline configurations between runs.
//
// Building a pipeline is cheap for small catalogs, but catalogs loaded from
// directories of unit files can grow large and the CLI is invoked repeatedly
// with the same inputs. A cache entry is keyed by a hash over every input
// that influences the build, so any change to the catalog, the run mode,
// the project or the library usage yields a new key.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a cache directory
//   - [NullCache]: never stores anything; used when caching is disabled
//
// # Keys
//
// [Key] hashes arbitrary JSON-encodable parts under a prefix:
//
//	key := cache.Key("pipeline", defs, mode.String(), maxPasses, project)
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiration.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired and
	// unreadable entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

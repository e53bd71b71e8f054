// Package cache stores computed routes so repeated queries skip the search.
//
// Routes are pure functions of the graph and the routing policy, so keys are
// built from a hash of the graph plus the query and policy (see [Keyer]).
// Publishing a new graph changes the hash and old entries simply stop being
// addressed; nothing needs explicit invalidation.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for several server instances
//   - [NullCache]: caching disabled
//
// Only successful results are ever stored. Query outcomes such as an unknown
// room or a missing path are cheap to recompute and depend on user input.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is used when the configuration does not set one.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

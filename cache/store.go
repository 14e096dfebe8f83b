package cache

import (
	"context"
	"time"
)

// Store is a byte-level key-value cache with per-entry TTLs.
//
// Implementations must be safe for concurrent use. Get and Exists treat
// expired entries as absent. A ttl of zero or less means the entry never
// expires.
type Store interface {
	// Get returns the value stored under key. The second return value
	// reports whether a live entry was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the entry under key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every entry whose key starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Exists reports whether a live entry is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases the store's resources.
	Close() error
}

package interfaces

import (
	"context"
	"time"
)

// Cache keys, one per logical backend resource
const (
	CacheKeyDocuments = "documents"
	CacheKeyStats     = "stats"
	CacheKeyHealth    = "health"
)

// FetchFunc loads a fresh value for a cache key
type FetchFunc func(ctx context.Context) (interface{}, error)

// CacheService holds the latest successful result per resource key.
// Values are only written by Do, so a fetch that started before an Invalidate never stores fresh data.
// Writes replace the whole value; concurrent fetches of one key share a single request.
type CacheService interface {
	// Do returns the cached value when fresh, otherwise fetches, stores and returns it.
	// force skips the freshness check. A failed fetch leaves the stored value untouched.
	Do(ctx context.Context, key string, force bool, fetch FetchFunc) (interface{}, error)

	// Load returns the stored value and when it was stored
	Load(key string) (value interface{}, storedAt time.Time, ok bool)

	// Invalidate marks keys stale so the next Do refetches. Stored values remain readable via Load.
	Invalidate(keys ...string)
}

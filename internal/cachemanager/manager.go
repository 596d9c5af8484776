// Package cachemanager provides a TTL cache used to memoize expensive render
// output. Interaction state (hit results, tool activation) is never cached
// here: the dispatcher's contract requires those to be re-queried fresh on
// every event.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is the caching contract consumed by the render path.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}

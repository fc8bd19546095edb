package repositorycache

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-productivity/cache"
)

// Loader is a read-through cache front. Concurrent misses on the same key share
// a single fetch. A fetch that overlaps a write recorded with Written returns its
// value but does not cache it, so a stale read cannot outlive the invalidation.
// The guard is local to the process.
type Loader struct {
	client *cache.Client
	flight singleflight.Group
	writes atomic.Uint64
}

// NewLoader returns a Loader over client. A nil client disables caching.
func NewLoader(client *cache.Client) *Loader {
	return &Loader{client: client}
}

// Client returns the underlying cache client.
func (l *Loader) Client() *cache.Client { return l.client }

// Written records a write. Call it before dropping the affected keys.
func (l *Loader) Written() { l.writes.Add(1) }

// Fill caches value under key unless a write was recorded after seq was taken.
func (l *Loader) Fill(ctx context.Context, seq uint64, key string, value any, ttl time.Duration) bool {
	if l.writes.Load() != seq {
		return false
	}
	cache.Store(ctx, l.client, key, value, ttl)
	return true
}

// Seq returns the current write sequence for a later Fill.
func (l *Loader) Seq() uint64 { return l.writes.Load() }

// Remember returns the value cached under key, or fetches and caches it for ttl.
// Fetch errors are returned and never cached.
func Remember[V any](ctx context.Context, l *Loader, key string, ttl time.Duration, fetch cache.FetchFn[V]) (V, error) {
	if !cacheBypassed(ctx) {
		if value, ok := cache.Lookup[V](ctx, l.client, key); ok {
			return value, nil
		}
	}

	shared, err, _ := l.flight.Do(key, func() (any, error) {
		seq := l.Seq()
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		l.Fill(ctx, seq, key, value, ttl)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return shared.(V), nil
}

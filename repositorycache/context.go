package repositorycache

import (
	"context"
)

type cacheBypassContextKey struct{}

// WithCacheBypass marks ctx so repository reads skip cached values. Results
// fetched from the store are still written back, refreshing the cache.
func WithCacheBypass(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, cacheBypassContextKey{}, true)
}

func cacheBypassed(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	bypass, _ := ctx.Value(cacheBypassContextKey{}).(bool)
	return bypass
}

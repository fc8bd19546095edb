package repositorycache

import (
	"context"

	"github.com/goliatone/go-productivity/cache"
)

// invalidateOwner drops every cached list and statistic of owner, across entity types.
func (r *Repository[T, S]) invalidateOwner(ctx context.Context, owner string) {
	r.loader.Written()
	r.shared.Cache.Invalidate(ctx,
		cache.OwnerPattern(owner),
		cache.OwnerStatsPattern(owner),
	)
}

// invalidateRecords drops the item keys of ids plus owner's lists of this entity
// type and owner's statistics.
func (r *Repository[T, S]) invalidateRecords(ctx context.Context, owner string, ids ...string) {
	r.loader.Written()
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cache.ItemKey(r.cfg.Entity, id)
	}
	r.shared.Cache.Forget(ctx, keys...)
	r.shared.Cache.Invalidate(ctx,
		cache.OwnerListPattern(r.cfg.Entity, owner),
		cache.OwnerStatsPattern(owner),
	)
}

// InvalidateLists drops owner's cached lists of this entity type and owner's
// statistics. Domain repositories call it after writes made outside the engine.
func (r *Repository[T, S]) InvalidateLists(ctx context.Context, owner string) {
	r.invalidateRecords(ctx, owner)
}

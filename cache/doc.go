// Package cache provides the key-value cache used in front of the record stores.
//
// # Overview
//
// The package exports:
//
//   - Service: byte oriented get/set/delete with per-key TTL and glob invalidation
//   - Client: a Service plus codec and logger, used by the typed helpers
//   - GetOrFetch, Lookup and Store: typed read-through helpers
//   - KeySerializer and ParamsDigest: stable digests of query parameters
//   - Key builders for the shared key space
//
// # Key Space
//
// Every repository writes into the same namespace so invalidation can be done by pattern:
//
//	{entity}:{owner}:{operation}:{digest}   list and query results (TTLShort)
//	{entity}:{id}                           single records (TTLMedium)
//	stats:{owner}:{entity}                  aggregated statistics (TTLMedium)
//
// After a write the repositories delete the item key and invalidate
// OwnerListPattern and OwnerStatsPattern. Creates invalidate OwnerPattern,
// which covers every entity type of the owner.
//
// # Failure Semantics
//
// The stores are the source of truth. Client never returns cache errors: failed reads
// and undecodable entries are misses, failed writes and deletes are logged and ignored.
// Running with a disabled cache (Config.Enabled = false) is always correct, only slower.
//
// # Basic Usage
//
//	service, err := cache.NewCacheService(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	client := cache.NewClient(service, logger)
//
//	key := cache.ListKey("todo", ownerID, "getAll", cache.ParamsDigest(pagination, search))
//	page, err := cache.GetOrFetch(ctx, client, key, cache.TTLShort, func(ctx context.Context) (Page, error) {
//		return loadPage(ctx)
//	})
package cache

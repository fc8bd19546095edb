// Package repositorycache provides the generic, ownership scoped repository engine
// that the todo, note, event and category repositories configure.
//
// # Overview
//
// Repository[T, S] wraps a store.Store[T] and adds:
//
//   - owner resolution through an auth.Resolver on every call
//   - read-through caching of single records, listings and statistics
//   - pattern based invalidation after every write
//   - best effort audit records in activity_logs
//   - pagination, sorting, filtering and text search over configured columns
//   - batched bulk operations
//
// A domain repository supplies a Config with its search columns, the columns
// callers may sort and filter on, a statistics reducer and optional Prepare and
// Validate hooks:
//
//	repo := repositorycache.New(todoStore, repositorycache.Config[*Todo, Stats]{
//		Entity:        "todo",
//		SearchColumns: []string{"title", "description"},
//		Sortable:      []string{"title", "due_date", "priority"},
//		Filterable:    []string{"status", "priority", "category_id"},
//		Stats:         computeStats,
//		Prepare:       normalize,
//		Validate:      validate,
//	}, shared)
//
// # Cached vs Uncached Operations
//
// Cached:
//   - GetByID (item key, TTL medium)
//   - GetAll and List (list key per operation and parameter digest, TTL short)
//   - GetStats (stats key, TTL medium)
//
// Uncached:
//   - Find, FindAcrossOwners and Count
//   - every write
//
// WithCacheBypass forces cached reads to go to the store; their results still
// refresh the cache.
//
// # Invalidation
//
// Create and BulkCreate drop every list and statistic of the owner. Update,
// Delete and the bulk variants drop the affected item keys, the owner's lists of
// the entity type and the owner's statistics. Cache failures never fail an
// operation.
//
// # Errors
//
// Operations return go-errors values: CategoryAuth without a principal,
// CategoryNotFound when the id does not belong to the caller, CategoryValidation
// for rejected input, CategoryConflict for constraint violations and
// CategoryExternal for any other store failure. The cause of a store failure is
// logged, not returned.
//
// # Concurrency
//
// Updates are read-modify-write without version checks: concurrent writers to the
// same record race and the last write wins. BulkUpdate runs batches of
// BulkBatchSize updates concurrently and stops after the first failed batch.
package repositorycache

package repositorycache

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-productivity/audit"
	"github.com/goliatone/go-productivity/store"
)

// BulkBatchSize bounds the number of concurrent updates issued by BulkUpdate.
const BulkBatchSize = 10

// Change is one element of a BulkUpdate.
type Change[T any] struct {
	ID     string
	Mutate func(T) error
}

// BulkCreate stamps, validates and inserts records in one store call. Nothing is
// inserted when any record fails validation.
func (r *Repository[T, S]) BulkCreate(ctx context.Context, records []T) ([]T, error) {
	owner, err := r.Owner(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []T{}, nil
	}

	now := r.Now()
	for _, record := range records {
		r.stamp(record, owner, now)
		if err := r.prepare(record, now); err != nil {
			return nil, err
		}
	}

	created, err := r.store.InsertMany(ctx, records)
	if err != nil {
		return nil, r.failure("bulk create", "", owner, err)
	}

	r.invalidateOwner(ctx, owner)
	for _, record := range created {
		r.audit(ctx, owner, record.Meta().ID, audit.ActionCreate, nil, record)
	}
	return created, nil
}

// BulkUpdate applies changes in sequential batches of BulkBatchSize, updating the
// items of a batch concurrently. It stops at the first failed batch; items already
// updated stay updated and are returned alongside the error, in input order.
func (r *Repository[T, S]) BulkUpdate(ctx context.Context, changes []Change[T]) ([]T, error) {
	owner, err := r.Owner(ctx)
	if err != nil {
		return nil, err
	}
	return r.bulkUpdate(ctx, owner, changes)
}

func (r *Repository[T, S]) bulkUpdate(ctx context.Context, owner string, changes []Change[T]) ([]T, error) {
	results := make([]T, len(changes))
	done := make([]bool, len(changes))

	var firstErr error
	for start := 0; start < len(changes) && firstErr == nil; start += BulkBatchSize {
		end := min(start+BulkBatchSize, len(changes))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				updated, err := r.update(ctx, owner, changes[i].ID, changes[i].Mutate)
				if err != nil {
					return err
				}
				results[i] = updated
				done[i] = true
				return nil
			})
		}
		firstErr = g.Wait()
	}

	out := make([]T, 0, len(changes))
	for i, ok := range done {
		if ok {
			out = append(out, results[i])
		}
	}
	return out, firstErr
}

// BulkDelete deletes the caller's records with the given ids and returns how many were removed.
func (r *Repository[T, S]) BulkDelete(ctx context.Context, ids []string) (int, error) {
	owner, err := r.Owner(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	existing, _, err := r.store.Select(ctx, store.Query{Owner: owner, IDs: ids})
	if err != nil {
		return 0, r.failure("bulk delete", "", owner, err)
	}
	if len(existing) == 0 {
		return 0, nil
	}

	found := make([]string, len(existing))
	for i, record := range existing {
		found[i] = record.Meta().ID
	}

	deleted, err := r.store.DeleteMany(ctx, found, owner)
	if err != nil {
		return 0, r.failure("bulk delete", "", owner, err)
	}

	r.invalidateRecords(ctx, owner, found...)
	for _, record := range existing {
		r.audit(ctx, owner, record.Meta().ID, audit.ActionDelete, record, nil)
	}
	return deleted, nil
}

// UpdateMatching applies mutate to every record of the caller matching c and
// returns the number of updated records.
func (r *Repository[T, S]) UpdateMatching(ctx context.Context, c Criteria, mutate func(T) error) (int, error) {
	owner, err := r.Owner(ctx)
	if err != nil {
		return 0, err
	}

	matches, err := r.find(ctx, owner, c, nil, 0)
	if err != nil {
		return 0, err
	}

	changes := make([]Change[T], len(matches))
	for i, record := range matches {
		changes[i] = Change[T]{ID: record.Meta().ID, Mutate: mutate}
	}
	updated, err := r.bulkUpdate(ctx, owner, changes)
	return len(updated), err
}

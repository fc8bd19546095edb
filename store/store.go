package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no row matches the id and owner.
	ErrNotFound = errors.New("store: record not found")
	// ErrConflict is returned for duplicate keys and broken references.
	ErrConflict = errors.New("store: conflict")
)

// Store is the table oriented boundary the repositories depend on.
// Every write is scoped to an owner; reads are scoped through Query.Owner.
type Store[T any] interface {
	// Table returns the table name, also used as the audit entity type.
	Table() string
	Insert(ctx context.Context, record T) (T, error)
	InsertMany(ctx context.Context, records []T) ([]T, error)
	// Select returns the matching page and the total number of matches ignoring Limit and Offset.
	Select(ctx context.Context, q Query) ([]T, int, error)
	Count(ctx context.Context, q Query) (int, error)
	// Update replaces every mutable column of the row with record's id owned by owner.
	Update(ctx context.Context, record T, owner string) (T, error)
	Delete(ctx context.Context, id, owner string) error
	DeleteMany(ctx context.Context, ids []string, owner string) (int, error)
}

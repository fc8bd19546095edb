package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-productivity/store"
)

// FlakyStore wraps a store.Store and returns a configured error from chosen operations.
type FlakyStore[T any] struct {
	store.Store[T]

	mu     sync.Mutex
	errs   map[string]error
	counts map[string]int
}

// NewFlakyStore wraps inner. Operation names are the store.Store method names.
func NewFlakyStore[T any](inner store.Store[T]) *FlakyStore[T] {
	return &FlakyStore[T]{
		Store:  inner,
		errs:   make(map[string]error),
		counts: make(map[string]int),
	}
}

// FailOn makes op return err. A nil err restores normal behavior.
func (f *FlakyStore[T]) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// Calls returns how many times op was invoked.
func (f *FlakyStore[T]) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[op]
}

func (f *FlakyStore[T]) check(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[op]++
	return f.errs[op]
}

func (f *FlakyStore[T]) Insert(ctx context.Context, record T) (T, error) {
	if err := f.check("Insert"); err != nil {
		var zero T
		return zero, err
	}
	return f.Store.Insert(ctx, record)
}

func (f *FlakyStore[T]) InsertMany(ctx context.Context, records []T) ([]T, error) {
	if err := f.check("InsertMany"); err != nil {
		return nil, err
	}
	return f.Store.InsertMany(ctx, records)
}

func (f *FlakyStore[T]) Select(ctx context.Context, q store.Query) ([]T, int, error) {
	if err := f.check("Select"); err != nil {
		return nil, 0, err
	}
	return f.Store.Select(ctx, q)
}

func (f *FlakyStore[T]) Count(ctx context.Context, q store.Query) (int, error) {
	if err := f.check("Count"); err != nil {
		return 0, err
	}
	return f.Store.Count(ctx, q)
}

func (f *FlakyStore[T]) Update(ctx context.Context, record T, owner string) (T, error) {
	if err := f.check("Update"); err != nil {
		var zero T
		return zero, err
	}
	return f.Store.Update(ctx, record, owner)
}

func (f *FlakyStore[T]) Delete(ctx context.Context, id, owner string) error {
	if err := f.check("Delete"); err != nil {
		return err
	}
	return f.Store.Delete(ctx, id, owner)
}

func (f *FlakyStore[T]) DeleteMany(ctx context.Context, ids []string, owner string) (int, error) {
	if err := f.check("DeleteMany"); err != nil {
		return 0, err
	}
	return f.Store.DeleteMany(ctx, ids, owner)
}

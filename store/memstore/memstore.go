// Package memstore keeps records in process. It backs the "memory" store
// driver and the repository tests.
package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/goliatone/go-productivity/model"
	"github.com/goliatone/go-productivity/store"
)

// Store is an in-memory store.Store. Records are deep copied on the way in
// and out so callers never share state with the table.
type Store[T model.Entity] struct {
	table string
	rows  *xsync.MapOf[string, T]
}

var _ store.Store[model.Entity] = (*Store[model.Entity])(nil)

// New creates an empty table.
func New[T model.Entity](table string) *Store[T] {
	return &Store[T]{
		table: table,
		rows:  xsync.NewMapOf[string, T](),
	}
}

func (s *Store[T]) Table() string { return s.table }

func (s *Store[T]) Insert(_ context.Context, record T) (T, error) {
	stored, err := clone(record)
	if err != nil {
		var zero T
		return zero, err
	}

	id := record.Meta().ID
	if _, loaded := s.rows.LoadOrStore(id, stored); loaded {
		var zero T
		return zero, fmt.Errorf("%w: duplicate id %s in %s", store.ErrConflict, id, s.table)
	}
	return clone(stored)
}

func (s *Store[T]) InsertMany(ctx context.Context, records []T) ([]T, error) {
	for _, record := range records {
		if _, ok := s.rows.Load(record.Meta().ID); ok {
			return nil, fmt.Errorf("%w: duplicate id %s in %s", store.ErrConflict, record.Meta().ID, s.table)
		}
	}

	out := make([]T, 0, len(records))
	for _, record := range records {
		created, err := s.Insert(ctx, record)
		if err != nil {
			return out, err
		}
		out = append(out, created)
	}
	return out, nil
}

func (s *Store[T]) Select(_ context.Context, q store.Query) ([]T, int, error) {
	matched, err := s.match(q)
	if err != nil {
		return nil, 0, err
	}

	sortRecords(matched, q.Order)

	total := len(matched)
	start := min(q.Offset, total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}

	page := make([]T, 0, end-start)
	for _, record := range matched[start:end] {
		c, err := clone(record)
		if err != nil {
			return nil, 0, err
		}
		page = append(page, c)
	}
	return page, total, nil
}

func (s *Store[T]) Count(_ context.Context, q store.Query) (int, error) {
	matched, err := s.match(q)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (s *Store[T]) Update(_ context.Context, record T, owner string) (T, error) {
	var zero T
	id := record.Meta().ID

	stored, err := clone(record)
	if err != nil {
		return zero, err
	}

	var found bool
	s.rows.Compute(id, func(current T, loaded bool) (T, bool) {
		if !loaded || current.Meta().CreatedBy != owner {
			return current, !loaded
		}
		found = true
		meta := stored.Meta()
		meta.CreatedBy = current.Meta().CreatedBy
		meta.CreatedAt = current.Meta().CreatedAt
		return stored, false
	})
	if !found {
		return zero, store.ErrNotFound
	}
	return clone(stored)
}

func (s *Store[T]) Delete(_ context.Context, id, owner string) error {
	var found bool
	s.rows.Compute(id, func(current T, loaded bool) (T, bool) {
		if !loaded {
			return current, true
		}
		if current.Meta().CreatedBy != owner {
			return current, false
		}
		found = true
		return current, true
	})
	if !found {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store[T]) DeleteMany(ctx context.Context, ids []string, owner string) (int, error) {
	deleted := 0
	for _, id := range ids {
		if err := s.Delete(ctx, id, owner); err == nil {
			deleted++
		}
	}
	return deleted, nil
}

func (s *Store[T]) match(q store.Query) ([]T, error) {
	var ids map[string]bool
	if q.IDs != nil {
		ids = make(map[string]bool, len(q.IDs))
		for _, id := range q.IDs {
			ids[id] = true
		}
	}

	var (
		matched []T
		err     error
	)
	s.rows.Range(func(id string, record T) bool {
		if ids != nil && !ids[id] {
			return true
		}
		if q.Owner != "" && record.Meta().CreatedBy != q.Owner {
			return true
		}
		var ok bool
		ok, err = matches(record, q)
		if err != nil {
			return false
		}
		if ok {
			matched = append(matched, record)
		}
		return true
	})
	return matched, err
}

func matches(record any, q store.Query) (bool, error) {
	for _, f := range q.Where {
		ok, err := evaluate(record, f)
		if err != nil || !ok {
			return false, err
		}
	}
	if len(q.AnyOf) == 0 {
		return true, nil
	}
	for _, group := range q.AnyOf {
		all := true
		for _, f := range group {
			ok, err := evaluate(record, f)
			if err != nil {
				return false, err
			}
			if !ok {
				all = false
				break
			}
		}
		if all {
			return true, nil
		}
	}
	return false, nil
}

func sortRecords[T model.Entity](records []T, order []store.Order) {
	sort.SliceStable(records, func(i, j int) bool {
		for _, o := range order {
			a, _ := columnValue(records[i], o.Column)
			b, _ := columnValue(records[j], o.Column)
			c := compareNullable(a, b)
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return records[i].Meta().ID < records[j].Meta().ID
	})
}

func clone[T any](record T) (T, error) {
	var out T
	raw, err := msgpack.Marshal(record)
	if err != nil {
		return out, err
	}
	err = msgpack.Unmarshal(raw, &out)
	return out, err
}

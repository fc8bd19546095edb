// Package bunstore implements store.Store on top of go-repository-bun and bun.
//
// Reads, inserts and bulk deletes go through the generic repository.Repository[T];
// single-row updates and deletes use bun directly so every mutable column is
// written and the affected row count can be checked against the owner scope.
package bunstore

import (
	"context"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-productivity/model"
	"github.com/goliatone/go-productivity/store"
)

// immutableColumns are never rewritten by Update.
var immutableColumns = []string{"id", "created_at", "created_by"}

// Store maps store.Query onto SQL for one table.
type Store[T model.Entity] struct {
	db        *bun.DB
	repo      repository.Repository[T]
	table     string
	newRecord func() T
	dialect   sqlDialect
}

var _ store.Store[model.Entity] = (*Store[model.Entity])(nil)

// New binds a table to db. newRecord must return a fresh zero record.
func New[T model.Entity](db *bun.DB, table string, newRecord func() T) *Store[T] {
	handlers := repository.ModelHandlers[T]{
		NewRecord: newRecord,
		GetID: func(record T) uuid.UUID {
			id, err := uuid.Parse(record.Meta().ID)
			if err != nil {
				return uuid.Nil
			}
			return id
		},
		SetID: func(record T, id uuid.UUID) {
			record.Meta().ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
	}

	return &Store[T]{
		db:        db,
		repo:      repository.NewRepository[T](db, handlers),
		table:     table,
		newRecord: newRecord,
		dialect:   dialectOf(db),
	}
}

func (s *Store[T]) Table() string { return s.table }

func (s *Store[T]) Insert(ctx context.Context, record T) (T, error) {
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		var zero T
		return zero, classify(err)
	}
	return created, nil
}

func (s *Store[T]) InsertMany(ctx context.Context, records []T) ([]T, error) {
	if len(records) == 0 {
		return nil, nil
	}
	created, err := s.repo.CreateMany(ctx, records)
	if err != nil {
		return nil, classify(err)
	}
	return created, nil
}

func (s *Store[T]) Select(ctx context.Context, q store.Query) ([]T, int, error) {
	criteria, err := s.selectCriteria(q, true)
	if err != nil {
		return nil, 0, err
	}
	records, total, err := s.repo.List(ctx, criteria)
	if err != nil {
		return nil, 0, classify(err)
	}
	return records, total, nil
}

func (s *Store[T]) Count(ctx context.Context, q store.Query) (int, error) {
	criteria, err := s.selectCriteria(q, false)
	if err != nil {
		return 0, err
	}
	total, err := s.repo.Count(ctx, criteria)
	if err != nil {
		return 0, classify(err)
	}
	return total, nil
}

func (s *Store[T]) Update(ctx context.Context, record T, owner string) (T, error) {
	var zero T
	res, err := s.db.NewUpdate().
		Model(record).
		ExcludeColumn(immutableColumns...).
		Where("id = ?", record.Meta().ID).
		Where("created_by = ?", owner).
		Exec(ctx)
	if err != nil {
		return zero, classify(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return zero, store.ErrNotFound
	}
	return record, nil
}

func (s *Store[T]) Delete(ctx context.Context, id, owner string) error {
	res, err := s.db.NewDelete().
		Model(s.newRecord()).
		Where("id = ?", id).
		Where("created_by = ?", owner).
		Exec(ctx)
	if err != nil {
		return classify(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store[T]) DeleteMany(ctx context.Context, ids []string, owner string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	count, err := s.Count(ctx, store.Query{Owner: owner, IDs: ids})
	if err != nil {
		return 0, err
	}

	var criteria repository.DeleteCriteria = func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.Where("id IN (?)", bun.In(ids)).Where("created_by = ?", owner)
	}
	if err := s.repo.DeleteWhere(ctx, criteria); err != nil {
		return 0, classify(err)
	}
	return count, nil
}

func (s *Store[T]) selectCriteria(q store.Query, paginate bool) (repository.SelectCriteria, error) {
	where, err := s.dialect.predicates(q)
	if err != nil {
		return nil, err
	}

	return func(sq *bun.SelectQuery) *bun.SelectQuery {
		for _, p := range where {
			sq = sq.Where(p.expr, p.args...)
		}
		if !paginate {
			return sq
		}
		for _, o := range q.Order {
			direction := "ASC"
			if o.Desc {
				direction = "DESC"
			}
			sq = sq.OrderExpr(fmt.Sprintf("? %s", direction), bun.Ident(o.Column))
		}
		sq = sq.OrderExpr("? ASC", bun.Ident("id"))
		// List applies a default page of 25; Limit(0) clears it.
		if q.Limit > 0 {
			sq = sq.Limit(q.Limit)
		} else {
			sq = sq.Limit(0)
		}
		if q.Offset > 0 {
			sq = sq.Offset(q.Offset)
		}
		return sq
	}, nil
}

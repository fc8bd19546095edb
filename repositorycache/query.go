package repositorycache

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-productivity/cache"
	"github.com/goliatone/go-productivity/store"
)

// Defaults applied to zero pagination fields.
const (
	DefaultPage      = 1
	DefaultLimit     = 20
	DefaultSortBy    = "created_at"
	DefaultSortOrder = "desc"
)

// Pagination selects one page of a listing. Zero fields take the defaults.
type Pagination struct {
	Page      int    `json:"page" form:"page"`
	Limit     int    `json:"limit" form:"limit"`
	SortBy    string `json:"sortBy,omitempty" form:"sortBy"`
	SortOrder string `json:"sortOrder,omitempty" form:"sortOrder"`
}

// Offset is the number of rows skipped before the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Search is the caller supplied part of a listing.
type Search struct {
	Query   string         `json:"query,omitempty"`
	Filters map[string]any `json:"filters,omitempty"`
}

// Page is one page of results. HasMore is true when rows exist past the page.
type Page[T any] struct {
	Data    []T  `json:"data"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// Criteria narrows an owner scoped query. Search and Filters come from callers
// and are validated against Config; Where and AnyOf are trusted domain predicates.
type Criteria struct {
	Search  string
	Filters map[string]any
	Where   []store.Filter
	AnyOf   []store.Group
}

// GetAll lists the caller's records. The result is cached per parameter set.
func (r *Repository[T, S]) GetAll(ctx context.Context, p Pagination, s Search) (Page[T], error) {
	return r.List(ctx, "getAll", p, Criteria{Search: s.Query, Filters: s.Filters})
}

// List runs a cached, paginated, owner scoped query. op names the listing in the
// cache key so different domain views never share entries.
func (r *Repository[T, S]) List(ctx context.Context, op string, p Pagination, c Criteria) (Page[T], error) {
	owner, err := r.Owner(ctx)
	if err != nil {
		return Page[T]{}, err
	}

	p, order, err := r.paginate(p)
	if err != nil {
		return Page[T]{}, err
	}
	q, err := r.query(owner, c)
	if err != nil {
		return Page[T]{}, err
	}
	q.Order = order
	q.Limit = p.Limit
	q.Offset = p.Offset()

	key := cache.ListKey(r.cfg.Entity, owner, op, cache.ParamsDigest(p, c))
	page, err := Remember(ctx, r.loader, key, r.shared.TTL.Short, func(ctx context.Context) (Page[T], error) {
		records, total, err := r.store.Select(ctx, q)
		if err != nil {
			return Page[T]{}, r.failure(op, "", owner, err)
		}
		return Page[T]{
			Data:    records,
			Total:   total,
			HasMore: total > q.Offset+q.Limit,
		}, nil
	})
	if err != nil {
		return Page[T]{}, err
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return page, nil
}

// Find runs an uncached owner scoped query. A zero limit returns every match.
func (r *Repository[T, S]) Find(ctx context.Context, c Criteria, order []store.Order, limit int) ([]T, error) {
	owner, err := r.Owner(ctx)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, owner, c, order, limit)
}

func (r *Repository[T, S]) find(ctx context.Context, owner string, c Criteria, order []store.Order, limit int) ([]T, error) {
	q, err := r.query(owner, c)
	if err != nil {
		return nil, err
	}
	q.Order = order
	q.Limit = limit

	records, _, err := r.store.Select(ctx, q)
	if err != nil {
		return nil, r.failure("find", "", owner, err)
	}
	return records, nil
}

// FindAcrossOwners runs an uncached query that is not restricted to the caller's
// rows. The caller must still be authenticated; q.Owner is ignored.
func (r *Repository[T, S]) FindAcrossOwners(ctx context.Context, q store.Query) ([]T, error) {
	owner, err := r.Owner(ctx)
	if err != nil {
		return nil, err
	}
	q.Owner = ""

	records, _, err := r.store.Select(ctx, q)
	if err != nil {
		return nil, r.failure("find", "", owner, err)
	}
	return records, nil
}

// Count returns the number of the caller's records matching c.
func (r *Repository[T, S]) Count(ctx context.Context, c Criteria) (int, error) {
	owner, err := r.Owner(ctx)
	if err != nil {
		return 0, err
	}
	q, err := r.query(owner, c)
	if err != nil {
		return 0, err
	}

	n, err := r.store.Count(ctx, q)
	if err != nil {
		return 0, r.failure("count", "", owner, err)
	}
	return n, nil
}

func (r *Repository[T, S]) paginate(p Pagination) (Pagination, []store.Order, error) {
	switch {
	case p.Page < 0:
		return p, nil, Invalid("page", "must be greater than zero")
	case p.Limit < 0:
		return p, nil, Invalid("limit", "must be greater than zero")
	}
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}

	p.SortBy = toSnake(p.SortBy)
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if !r.sortable(p.SortBy) {
		return p, nil, Invalid("sortBy", fmt.Sprintf("cannot sort by %q", p.SortBy))
	}

	p.SortOrder = strings.ToLower(p.SortOrder)
	switch p.SortOrder {
	case "":
		p.SortOrder = DefaultSortOrder
	case "asc", "desc":
	default:
		return p, nil, Invalid("sortOrder", "must be asc or desc")
	}

	return p, []store.Order{{Column: p.SortBy, Desc: p.SortOrder == "desc"}}, nil
}

func (r *Repository[T, S]) sortable(column string) bool {
	return column == "created_at" || column == "updated_at" || slices.Contains(r.cfg.Sortable, column)
}

func (r *Repository[T, S]) query(owner string, c Criteria) (store.Query, error) {
	q := store.Query{
		Owner: owner,
		Where: slices.Clone(c.Where),
		AnyOf: c.AnyOf,
	}

	keys := make([]string, 0, len(c.Filters))
	for key := range c.Filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := c.Filters[key]
		if value == nil {
			continue
		}
		column := toSnake(key)
		if !slices.Contains(r.cfg.Filterable, column) {
			return q, Invalid("filters."+key, "unknown filter")
		}
		q.Where = append(q.Where, store.Eq(column, value))
	}

	if term := strings.TrimSpace(c.Search); term != "" && len(r.cfg.SearchColumns) > 0 {
		search := make([]store.Group, 0, len(r.cfg.SearchColumns))
		for _, column := range r.cfg.SearchColumns {
			search = append(search, store.Group{store.ILike(column, term)})
		}
		q.AnyOf = conjoin(q.AnyOf, search)
	}
	return q, nil
}

// conjoin returns groups equivalent to (any of a) AND (any of b).
func conjoin(a, b []store.Group) []store.Group {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]store.Group, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			group := make(store.Group, 0, len(x)+len(y))
			group = append(group, x...)
			group = append(group, y...)
			out = append(out, group)
		}
	}
	return out
}

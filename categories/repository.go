package categories

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-productivity/repositorycache"
	"github.com/goliatone/go-productivity/store"
)

type (
	Page       = repositorycache.Page[*Category]
	Pagination = repositorycache.Pagination
	Search     = repositorycache.Search
)

// Referrer is implemented by the repositories whose records point at a category.
type Referrer interface {
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	// ReassignCategory moves the caller's references from one category to
	// another, or clears them when to is nil.
	ReassignCategory(ctx context.Context, from string, to *string) (int, error)
}

// Referrers groups the repositories consulted before a category is deleted.
// A nil Referrer never references anything.
type Referrers struct {
	Todos  Referrer
	Notes  Referrer
	Events Referrer
}

// Usage counts the caller's records referencing one category.
type Usage struct {
	Todos  int `json:"todos"`
	Notes  int `json:"notes"`
	Events int `json:"events"`
}

func (u Usage) Total() int { return u.Todos + u.Notes + u.Events }

type CategoryUsage struct {
	Category *Category `json:"category"`
	Usage    Usage     `json:"usage"`
}

type Deletability struct {
	CanDelete bool  `json:"canDelete"`
	Usage     Usage `json:"usage"`
}

type Repository struct {
	base *repositorycache.Repository[*Category, Stats]
	refs Referrers
}

func NewRepository(s store.Store[*Category], refs Referrers, shared repositorycache.Shared) *Repository {
	return &Repository{
		base: repositorycache.New(s, repositorycache.Config[*Category, Stats]{
			Entity:        Entity,
			SearchColumns: []string{"name", "description"},
			Sortable:      []string{"name", "color"},
			Filterable:    []string{"color"},
			Stats:         computeStats,
			Prepare:       prepare,
			Validate:      validate,
		}, shared),
		refs: refs,
	}
}

func (r *Repository) Create(ctx context.Context, in CreateInput) (*Category, error) {
	return r.base.Create(ctx, in.category())
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Category, error) {
	return r.base.GetByID(ctx, id)
}

func (r *Repository) GetAll(ctx context.Context, p Pagination, s Search) (Page, error) {
	return r.base.GetAll(ctx, p, s)
}

func (r *Repository) Update(ctx context.Context, id string, in UpdateInput) (*Category, error) {
	return r.base.Update(ctx, id, func(c *Category) error {
		in.apply(c)
		return nil
	})
}

func (r *Repository) GetStats(ctx context.Context) (Stats, error) {
	return r.base.GetStats(ctx)
}

func (r *Repository) BulkCreate(ctx context.Context, inputs []CreateInput) ([]*Category, error) {
	records := make([]*Category, len(inputs))
	for i, in := range inputs {
		records[i] = in.category()
	}
	return r.base.BulkCreate(ctx, records)
}

func (r *Repository) BulkUpdate(ctx context.Context, changes []Change) ([]*Category, error) {
	batch := make([]repositorycache.Change[*Category], len(changes))
	for i, c := range changes {
		in := c.Data
		batch[i] = repositorycache.Change[*Category]{
			ID: c.ID,
			Mutate: func(c *Category) error {
				in.apply(c)
				return nil
			},
		}
	}
	return r.base.BulkUpdate(ctx, batch)
}

// Delete removes an unreferenced category. It fails with a conflict while any
// todo, note or event of the caller still points at it.
func (r *Repository) Delete(ctx context.Context, id string) error {
	check, err := r.CanDelete(ctx, id)
	if err != nil {
		return err
	}
	if !check.CanDelete {
		return stillReferenced(id, check.Usage)
	}
	return r.base.Delete(ctx, id)
}

// BulkDelete deletes the unreferenced categories among ids. Nothing is deleted
// when any of them is still referenced.
func (r *Repository) BulkDelete(ctx context.Context, ids []string) (int, error) {
	for _, id := range ids {
		usage, err := r.usageOf(ctx, id)
		if err != nil {
			return 0, err
		}
		if usage.Total() > 0 {
			return 0, stillReferenced(id, usage)
		}
	}
	return r.base.BulkDelete(ctx, ids)
}

// Usage reports the reference counts of every category of the caller, by name.
func (r *Repository) Usage(ctx context.Context) ([]CategoryUsage, error) {
	all, err := r.base.Find(ctx, repositorycache.Criteria{}, []store.Order{store.Asc("name")}, 0)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryUsage, len(all))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range all {
		g.Go(func() error {
			usage, err := r.usageOf(gctx, c.ID)
			if err != nil {
				return err
			}
			out[i] = CategoryUsage{Category: c, Usage: usage}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// CanDelete reports whether the caller's category id has no references.
func (r *Repository) CanDelete(ctx context.Context, id string) (Deletability, error) {
	if _, err := r.base.GetByID(ctx, id); err != nil {
		return Deletability{}, err
	}
	usage, err := r.usageOf(ctx, id)
	if err != nil {
		return Deletability{}, err
	}
	return Deletability{CanDelete: usage.Total() == 0, Usage: usage}, nil
}

// DeleteWithReassignment points every reference to id at target, or clears the
// references when target is nil, then deletes id. target must be another
// category of the caller.
func (r *Repository) DeleteWithReassignment(ctx context.Context, id string, target *string) error {
	if _, err := r.base.GetByID(ctx, id); err != nil {
		return err
	}
	if target != nil && *target != "" {
		if *target == id {
			return repositorycache.Conflict("cannot reassign a category to itself", map[string]any{"id": id})
		}
		if _, err := r.base.GetByID(ctx, *target); err != nil {
			return err
		}
	} else {
		target = nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, ref := range r.referrers() {
		g.Go(func() error {
			_, err := ref.ReassignCategory(gctx, id, target)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return r.base.Delete(ctx, id)
}

func (r *Repository) usageOf(ctx context.Context, id string) (Usage, error) {
	var usage Usage
	g, gctx := errgroup.WithContext(ctx)
	count := func(ref Referrer, dst *int) {
		if ref == nil {
			return
		}
		g.Go(func() error {
			n, err := ref.CountByCategory(gctx, id)
			*dst = n
			return err
		})
	}
	count(r.refs.Todos, &usage.Todos)
	count(r.refs.Notes, &usage.Notes)
	count(r.refs.Events, &usage.Events)
	if err := g.Wait(); err != nil {
		return Usage{}, err
	}
	return usage, nil
}

func (r *Repository) referrers() []Referrer {
	refs := make([]Referrer, 0, 3)
	for _, ref := range []Referrer{r.refs.Todos, r.refs.Notes, r.refs.Events} {
		if ref != nil {
			refs = append(refs, ref)
		}
	}
	return refs
}

func stillReferenced(id string, usage Usage) error {
	return repositorycache.Conflict("category is still in use", map[string]any{
		"id":     id,
		"todos":  usage.Todos,
		"notes":  usage.Notes,
		"events": usage.Events,
	})
}

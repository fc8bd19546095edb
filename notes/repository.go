package notes

import (
	"context"
	"slices"

	"github.com/goliatone/go-productivity/model"
	"github.com/goliatone/go-productivity/repositorycache"
	"github.com/goliatone/go-productivity/store"
)

type (
	Page       = repositorycache.Page[*Note]
	Pagination = repositorycache.Pagination
	Search     = repositorycache.Search
)

// DefaultRecentLimit is used by Recent when limit is not positive.
const DefaultRecentLimit = 10

var newestFirst = []store.Order{store.Desc("updated_at")}

type Repository struct {
	base *repositorycache.Repository[*Note, Stats]
}

func NewRepository(s store.Store[*Note], shared repositorycache.Shared) *Repository {
	return &Repository{
		base: repositorycache.New(s, repositorycache.Config[*Note, Stats]{
			Entity:        Entity,
			SearchColumns: []string{"title", "content"},
			Sortable:      []string{"title", "word_count", "reading_time", "is_pinned"},
			Filterable:    []string{"category_id", "is_archived", "is_pinned"},
			Stats:         computeStats,
			Prepare:       prepare,
			Validate:      validate,
		}, shared),
	}
}

func (r *Repository) Create(ctx context.Context, in CreateInput) (*Note, error) {
	return r.base.Create(ctx, in.note())
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Note, error) {
	return r.base.GetByID(ctx, id)
}

func (r *Repository) GetAll(ctx context.Context, p Pagination, s Search) (Page, error) {
	return r.base.GetAll(ctx, p, s)
}

func (r *Repository) Update(ctx context.Context, id string, in UpdateInput) (*Note, error) {
	return r.base.Update(ctx, id, func(n *Note) error {
		in.apply(n)
		return nil
	})
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.base.Delete(ctx, id)
}

func (r *Repository) GetStats(ctx context.Context) (Stats, error) {
	return r.base.GetStats(ctx)
}

func (r *Repository) BulkCreate(ctx context.Context, inputs []CreateInput) ([]*Note, error) {
	records := make([]*Note, len(inputs))
	for i, in := range inputs {
		records[i] = in.note()
	}
	return r.base.BulkCreate(ctx, records)
}

func (r *Repository) BulkUpdate(ctx context.Context, changes []Change) ([]*Note, error) {
	batch := make([]repositorycache.Change[*Note], len(changes))
	for i, c := range changes {
		in := c.Data
		batch[i] = repositorycache.Change[*Note]{
			ID: c.ID,
			Mutate: func(n *Note) error {
				in.apply(n)
				return nil
			},
		}
	}
	return r.base.BulkUpdate(ctx, batch)
}

func (r *Repository) BulkDelete(ctx context.Context, ids []string) (int, error) {
	return r.base.BulkDelete(ctx, ids)
}

// GetWithFilters lists notes matching f and the optional search term.
func (r *Repository) GetWithFilters(ctx context.Context, f Filters, p Pagination, query string) (Page, error) {
	return r.base.List(ctx, "getWithFilters", p, repositorycache.Criteria{
		Search: query,
		Where:  f.where(),
	})
}

// Search lists non-archived notes whose title or content contains query,
// most recently updated first unless p sorts otherwise.
func (r *Repository) Search(ctx context.Context, query string, p Pagination) (Page, error) {
	if p.SortBy == "" {
		p.SortBy = "updated_at"
	}
	return r.base.List(ctx, "search", p, repositorycache.Criteria{
		Search: query,
		Where:  []store.Filter{store.Eq("is_archived", false)},
	})
}

func (r *Repository) Pinned(ctx context.Context) ([]*Note, error) {
	return r.base.Find(ctx, repositorycache.Criteria{
		Where: []store.Filter{
			store.Eq("is_pinned", true),
			store.Eq("is_archived", false),
		},
	}, newestFirst, 0)
}

// Recent returns the limit most recently updated non-archived notes.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*Note, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return r.base.Find(ctx, repositorycache.Criteria{
		Where: []store.Filter{store.Eq("is_archived", false)},
	}, newestFirst, limit)
}

func (r *Repository) ByCategory(ctx context.Context, categoryID string) ([]*Note, error) {
	page, err := r.GetWithFilters(ctx, Filters{CategoryID: &categoryID}, Pagination{}, "")
	return page.Data, err
}

// ByTags returns non-archived notes carrying any of tags.
func (r *Repository) ByTags(ctx context.Context, tags []string) ([]*Note, error) {
	if len(tags) == 0 {
		return []*Note{}, nil
	}
	return r.base.Find(ctx, repositorycache.Criteria{
		Where: []store.Filter{
			store.Overlaps("tags", tags),
			store.Eq("is_archived", false),
		},
	}, newestFirst, 0)
}

// AllTags returns the sorted distinct tags of the caller's non-archived notes.
func (r *Repository) AllTags(ctx context.Context) ([]string, error) {
	notes, err := r.base.Find(ctx, repositorycache.Criteria{
		Where: []store.Filter{store.Eq("is_archived", false)},
	}, nil, 0)
	if err != nil {
		return nil, err
	}

	tags := []string{}
	for _, n := range notes {
		tags = append(tags, n.Tags...)
	}
	slices.Sort(tags)
	return slices.Compact(tags), nil
}

func (r *Repository) TogglePin(ctx context.Context, id string) (*Note, error) {
	return r.base.Update(ctx, id, func(n *Note) error {
		n.IsPinned = !n.IsPinned
		return nil
	})
}

func (r *Repository) ToggleArchive(ctx context.Context, id string) (*Note, error) {
	return r.base.Update(ctx, id, func(n *Note) error {
		n.IsArchived = !n.IsArchived
		return nil
	})
}

// Share grants read access to userIDs. Users already in the list are kept once.
func (r *Repository) Share(ctx context.Context, id string, userIDs []string) (*Note, error) {
	return r.base.Update(ctx, id, func(n *Note) error {
		for _, user := range userIDs {
			if !slices.Contains(n.SharedWith, user) {
				n.SharedWith = append(n.SharedWith, user)
			}
		}
		return nil
	})
}

func (r *Repository) Unshare(ctx context.Context, id string, userIDs []string) (*Note, error) {
	return r.base.Update(ctx, id, func(n *Note) error {
		n.SharedWith = slices.DeleteFunc(n.SharedWith, func(user string) bool {
			return slices.Contains(userIDs, user)
		})
		return nil
	})
}

// SharedWithMe returns non-archived notes of any owner shared with the caller.
func (r *Repository) SharedWithMe(ctx context.Context) ([]*Note, error) {
	me, err := r.base.Owner(ctx)
	if err != nil {
		return nil, err
	}
	return r.base.FindAcrossOwners(ctx, store.Query{
		Where: []store.Filter{
			store.Contains("shared_with", me),
			store.Eq("is_archived", false),
		},
		Order: newestFirst,
	})
}

// Duplicate copies a note as "<title> (Copy)". The copy keeps content, category,
// tags and formatting; it is unpinned, unarchived, unshared and has no attachments.
func (r *Repository) Duplicate(ctx context.Context, id string) (*Note, error) {
	src, err := r.base.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.Create(ctx, CreateInput{
		Title:      src.Title + " (Copy)",
		Content:    src.Content,
		CategoryID: src.CategoryID,
		Tags:       slices.Clone(src.Tags),
		Formatting: slices.Clone(src.Formatting),
	})
}

func (r *Repository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	return r.base.Count(ctx, repositorycache.Criteria{
		Where: []store.Filter{store.Eq("category_id", categoryID)},
	})
}

func (r *Repository) ReassignCategory(ctx context.Context, from string, to *string) (int, error) {
	return r.base.UpdateMatching(ctx, repositorycache.Criteria{
		Where: []store.Filter{store.Eq("category_id", from)},
	}, func(n *Note) error {
		n.CategoryID = model.NonEmpty(to)
		return nil
	})
}

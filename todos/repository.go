package todos

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/goliatone/go-productivity/model"
	"github.com/goliatone/go-productivity/repositorycache"
	"github.com/goliatone/go-productivity/store"
)

type (
	Page       = repositorycache.Page[*Todo]
	Pagination = repositorycache.Pagination
	Search     = repositorycache.Search
)

// Repository is the todo repository. Every operation is scoped to the caller.
type Repository struct {
	base *repositorycache.Repository[*Todo, Stats]
}

// NewRepository binds the todo configuration to s.
func NewRepository(s store.Store[*Todo], shared repositorycache.Shared) *Repository {
	return &Repository{
		base: repositorycache.New(s, repositorycache.Config[*Todo, Stats]{
			Entity:        Entity,
			SearchColumns: []string{"title", "description"},
			Sortable:      []string{"title", "due_date", "priority", "status", "completed_at"},
			Filterable:    []string{"status", "priority", "category_id", "is_archived", "assigned_to"},
			Stats:         computeStats,
			Prepare:       prepare,
			Validate:      validate,
		}, shared),
	}
}

func (r *Repository) Create(ctx context.Context, in CreateInput) (*Todo, error) {
	return r.base.Create(ctx, in.todo(r.base.Now(), uuid.NewString))
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Todo, error) {
	return r.base.GetByID(ctx, id)
}

func (r *Repository) GetAll(ctx context.Context, p Pagination, s Search) (Page, error) {
	return r.base.GetAll(ctx, p, s)
}

func (r *Repository) Update(ctx context.Context, id string, in UpdateInput) (*Todo, error) {
	return r.base.Update(ctx, id, func(t *Todo) error {
		in.apply(t)
		return nil
	})
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.base.Delete(ctx, id)
}

func (r *Repository) GetStats(ctx context.Context) (Stats, error) {
	return r.base.GetStats(ctx)
}

func (r *Repository) BulkCreate(ctx context.Context, inputs []CreateInput) ([]*Todo, error) {
	now := r.base.Now()
	records := make([]*Todo, len(inputs))
	for i, in := range inputs {
		records[i] = in.todo(now, uuid.NewString)
	}
	return r.base.BulkCreate(ctx, records)
}

func (r *Repository) BulkUpdate(ctx context.Context, changes []Change) ([]*Todo, error) {
	batch := make([]repositorycache.Change[*Todo], len(changes))
	for i, c := range changes {
		in := c.Data
		batch[i] = repositorycache.Change[*Todo]{
			ID: c.ID,
			Mutate: func(t *Todo) error {
				in.apply(t)
				return nil
			},
		}
	}
	return r.base.BulkUpdate(ctx, batch)
}

func (r *Repository) BulkDelete(ctx context.Context, ids []string) (int, error) {
	return r.base.BulkDelete(ctx, ids)
}

// GetWithFilters lists todos matching f and the optional search term.
// Archived todos are excluded unless f.IsArchived is set.
func (r *Repository) GetWithFilters(ctx context.Context, f Filters, p Pagination, query string) (Page, error) {
	return r.base.List(ctx, "getWithFilters", p, repositorycache.Criteria{
		Search: query,
		Where:  f.where(),
	})
}

// ByStatus returns the first page of non-archived todos with status.
func (r *Repository) ByStatus(ctx context.Context, status Status) ([]*Todo, error) {
	page, err := r.GetWithFilters(ctx, Filters{Status: &status}, Pagination{}, "")
	return page.Data, err
}

// ByCategory returns the first page of non-archived todos in a category.
func (r *Repository) ByCategory(ctx context.Context, categoryID string) ([]*Todo, error) {
	page, err := r.GetWithFilters(ctx, Filters{CategoryID: &categoryID}, Pagination{}, "")
	return page.Data, err
}

// Overdue returns open todos whose due date has passed, earliest first.
func (r *Repository) Overdue(ctx context.Context) ([]*Todo, error) {
	return r.base.Find(ctx, repositorycache.Criteria{
		Where: []store.Filter{
			store.Lt("due_date", r.base.Now()),
			store.Neq("status", string(StatusCompleted)),
			store.Eq("is_archived", false),
		},
	}, []store.Order{store.Asc("due_date")}, 0)
}

// DueToday returns todos due on the current UTC day that are not completed.
func (r *Repository) DueToday(ctx context.Context) ([]*Todo, error) {
	start := model.StartOfDay(r.base.Now())
	return r.base.Find(ctx, repositorycache.Criteria{
		Where: []store.Filter{
			store.Gte("due_date", start),
			store.Lt("due_date", start.AddDate(0, 0, 1)),
			store.Neq("status", string(StatusCompleted)),
			store.Eq("is_archived", false),
		},
	}, []store.Order{store.Asc("due_date")}, 0)
}

// Assigned returns non-archived todos assigned to the caller by any owner.
func (r *Repository) Assigned(ctx context.Context) ([]*Todo, error) {
	me, err := r.base.Owner(ctx)
	if err != nil {
		return nil, err
	}
	return r.base.FindAcrossOwners(ctx, store.Query{
		Where: []store.Filter{
			store.Eq("assigned_to", me),
			store.Eq("is_archived", false),
		},
		Order: []store.Order{store.Asc("due_date")},
	})
}

// UpdateStatus moves a todo to status. completed_at follows the status.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status) (*Todo, error) {
	return r.base.Update(ctx, id, func(t *Todo) error {
		t.Status = status
		return nil
	})
}

func (r *Repository) Complete(ctx context.Context, id string) (*Todo, error) {
	return r.UpdateStatus(ctx, id, StatusCompleted)
}

func (r *Repository) ToggleArchive(ctx context.Context, id string) (*Todo, error) {
	return r.base.Update(ctx, id, func(t *Todo) error {
		t.IsArchived = !t.IsArchived
		return nil
	})
}

func (r *Repository) AddSubtask(ctx context.Context, id, title string) (*Todo, error) {
	now := r.base.Now()
	return r.base.Update(ctx, id, func(t *Todo) error {
		t.Subtasks = append(t.Subtasks, Subtask{
			ID:        uuid.NewString(),
			Title:     title,
			CreatedAt: now,
		})
		return nil
	})
}

func (r *Repository) UpdateSubtask(ctx context.Context, id, subtaskID string, patch SubtaskPatch) (*Todo, error) {
	now := r.base.Now()
	return r.base.Update(ctx, id, func(t *Todo) error {
		i := slices.IndexFunc(t.Subtasks, func(s Subtask) bool { return s.ID == subtaskID })
		if i < 0 {
			return repositorycache.NotFound("subtask", subtaskID)
		}
		s := &t.Subtasks[i]
		model.Patch(&s.Title, patch.Title)
		model.Patch(&s.Completed, patch.Completed)
		s.UpdatedAt = &now
		return nil
	})
}

func (r *Repository) RemoveSubtask(ctx context.Context, id, subtaskID string) (*Todo, error) {
	return r.base.Update(ctx, id, func(t *Todo) error {
		t.Subtasks = slices.DeleteFunc(t.Subtasks, func(s Subtask) bool { return s.ID == subtaskID })
		return nil
	})
}

// Duplicate copies a todo as a new open todo titled "<title> (Copy)". Subtasks
// are copied unchecked with new ids.
func (r *Repository) Duplicate(ctx context.Context, id string) (*Todo, error) {
	src, err := r.base.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in := CreateInput{
		Title:             src.Title + " (Copy)",
		Description:       src.Description,
		CategoryID:        src.CategoryID,
		DueDate:           src.DueDate,
		Priority:          src.Priority,
		EstimatedDuration: src.EstimatedDuration,
		Tags:              slices.Clone(src.Tags),
		Attachments:       slices.Clone(src.Attachments),
		AssignedTo:        src.AssignedTo,
	}
	for _, s := range src.Subtasks {
		in.Subtasks = append(in.Subtasks, SubtaskInput{Title: s.Title})
	}
	return r.Create(ctx, in)
}

// CountByCategory counts the caller's todos that reference categoryID.
func (r *Repository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	return r.base.Count(ctx, repositorycache.Criteria{
		Where: []store.Filter{store.Eq("category_id", categoryID)},
	})
}

// ReassignCategory points every todo of the caller in category from at to, or
// clears the reference when to is nil.
func (r *Repository) ReassignCategory(ctx context.Context, from string, to *string) (int, error) {
	return r.base.UpdateMatching(ctx, repositorycache.Criteria{
		Where: []store.Filter{store.Eq("category_id", from)},
	}, func(t *Todo) error {
		t.CategoryID = model.NonEmpty(to)
		return nil
	})
}

package api

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-productivity/todos"
)

type TodoAPI struct {
	repo   *todos.Repository
	logger zerolog.Logger
}

func (a *TodoAPI) fail(op, message string, err error) error {
	return fail(a.logger, "todo."+op, message, err)
}

func (a *TodoAPI) Create(ctx context.Context, in todos.CreateInput) (*todos.Todo, error) {
	t, err := a.repo.Create(ctx, in)
	return t, a.fail("create", "Failed to create todo", err)
}

func (a *TodoAPI) GetByID(ctx context.Context, id string) (*todos.Todo, error) {
	t, err := a.repo.GetByID(ctx, id)
	return t, a.fail("getById", "Failed to fetch todo", err)
}

func (a *TodoAPI) GetAll(ctx context.Context, p todos.Pagination, s todos.Search) (todos.Page, error) {
	page, err := a.repo.GetAll(ctx, p, s)
	return page, a.fail("getAll", "Failed to fetch todos", err)
}

func (a *TodoAPI) GetWithFilters(ctx context.Context, f todos.Filters, p todos.Pagination, query string) (todos.Page, error) {
	page, err := a.repo.GetWithFilters(ctx, f, p, query)
	return page, a.fail("getWithFilters", "Failed to fetch filtered todos", err)
}

func (a *TodoAPI) ByStatus(ctx context.Context, status todos.Status) ([]*todos.Todo, error) {
	list, err := a.repo.ByStatus(ctx, status)
	return list, a.fail("byStatus", "Failed to fetch todos by status", err)
}

func (a *TodoAPI) ByCategory(ctx context.Context, categoryID string) ([]*todos.Todo, error) {
	list, err := a.repo.ByCategory(ctx, categoryID)
	return list, a.fail("byCategory", "Failed to fetch todos by category", err)
}

func (a *TodoAPI) Overdue(ctx context.Context) ([]*todos.Todo, error) {
	list, err := a.repo.Overdue(ctx)
	return list, a.fail("overdue", "Failed to fetch overdue todos", err)
}

func (a *TodoAPI) DueToday(ctx context.Context) ([]*todos.Todo, error) {
	list, err := a.repo.DueToday(ctx)
	return list, a.fail("dueToday", "Failed to fetch todos due today", err)
}

func (a *TodoAPI) Assigned(ctx context.Context) ([]*todos.Todo, error) {
	list, err := a.repo.Assigned(ctx)
	return list, a.fail("assigned", "Failed to fetch assigned todos", err)
}

func (a *TodoAPI) GetStats(ctx context.Context) (todos.Stats, error) {
	stats, err := a.repo.GetStats(ctx)
	return stats, a.fail("stats", "Failed to fetch todo statistics", err)
}

func (a *TodoAPI) Update(ctx context.Context, id string, in todos.UpdateInput) (*todos.Todo, error) {
	t, err := a.repo.Update(ctx, id, in)
	return t, a.fail("update", "Failed to update todo", err)
}

func (a *TodoAPI) UpdateStatus(ctx context.Context, id string, status todos.Status) (*todos.Todo, error) {
	t, err := a.repo.UpdateStatus(ctx, id, status)
	return t, a.fail("updateStatus", "Failed to update todo status", err)
}

func (a *TodoAPI) Complete(ctx context.Context, id string) (*todos.Todo, error) {
	t, err := a.repo.Complete(ctx, id)
	return t, a.fail("complete", "Failed to complete todo", err)
}

func (a *TodoAPI) ToggleArchive(ctx context.Context, id string) (*todos.Todo, error) {
	t, err := a.repo.ToggleArchive(ctx, id)
	return t, a.fail("toggleArchive", "Failed to toggle todo archive", err)
}

func (a *TodoAPI) AddSubtask(ctx context.Context, id, title string) (*todos.Todo, error) {
	t, err := a.repo.AddSubtask(ctx, id, title)
	return t, a.fail("addSubtask", "Failed to add subtask", err)
}

func (a *TodoAPI) UpdateSubtask(ctx context.Context, id, subtaskID string, patch todos.SubtaskPatch) (*todos.Todo, error) {
	t, err := a.repo.UpdateSubtask(ctx, id, subtaskID, patch)
	return t, a.fail("updateSubtask", "Failed to update subtask", err)
}

func (a *TodoAPI) RemoveSubtask(ctx context.Context, id, subtaskID string) (*todos.Todo, error) {
	t, err := a.repo.RemoveSubtask(ctx, id, subtaskID)
	return t, a.fail("removeSubtask", "Failed to remove subtask", err)
}

func (a *TodoAPI) Duplicate(ctx context.Context, id string) (*todos.Todo, error) {
	t, err := a.repo.Duplicate(ctx, id)
	return t, a.fail("duplicate", "Failed to duplicate todo", err)
}

func (a *TodoAPI) Delete(ctx context.Context, id string) error {
	return a.fail("delete", "Failed to delete todo", a.repo.Delete(ctx, id))
}

func (a *TodoAPI) BulkCreate(ctx context.Context, inputs []todos.CreateInput) ([]*todos.Todo, error) {
	list, err := a.repo.BulkCreate(ctx, inputs)
	return list, a.fail("bulkCreate", "Failed to create todos", err)
}

func (a *TodoAPI) BulkUpdate(ctx context.Context, changes []todos.Change) ([]*todos.Todo, error) {
	list, err := a.repo.BulkUpdate(ctx, changes)
	return list, a.fail("bulkUpdate", "Failed to update todos", err)
}

func (a *TodoAPI) BulkDelete(ctx context.Context, ids []string) (int, error) {
	n, err := a.repo.BulkDelete(ctx, ids)
	return n, a.fail("bulkDelete", "Failed to delete todos", err)
}

package api

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-productivity/categories"
)

type CategoryAPI struct {
	repo   *categories.Repository
	logger zerolog.Logger
}

func (a *CategoryAPI) fail(op, message string, err error) error {
	return fail(a.logger, "category."+op, message, err)
}

func (a *CategoryAPI) Create(ctx context.Context, in categories.CreateInput) (*categories.Category, error) {
	c, err := a.repo.Create(ctx, in)
	return c, a.fail("create", "Failed to create category", err)
}

func (a *CategoryAPI) GetByID(ctx context.Context, id string) (*categories.Category, error) {
	c, err := a.repo.GetByID(ctx, id)
	return c, a.fail("getById", "Failed to fetch category", err)
}

func (a *CategoryAPI) GetAll(ctx context.Context, p categories.Pagination, s categories.Search) (categories.Page, error) {
	page, err := a.repo.GetAll(ctx, p, s)
	return page, a.fail("getAll", "Failed to fetch categories", err)
}

func (a *CategoryAPI) GetStats(ctx context.Context) (categories.Stats, error) {
	stats, err := a.repo.GetStats(ctx)
	return stats, a.fail("stats", "Failed to fetch category statistics", err)
}

func (a *CategoryAPI) Usage(ctx context.Context) ([]categories.CategoryUsage, error) {
	usage, err := a.repo.Usage(ctx)
	return usage, a.fail("usage", "Failed to fetch category usage", err)
}

func (a *CategoryAPI) CanDelete(ctx context.Context, id string) (categories.Deletability, error) {
	check, err := a.repo.CanDelete(ctx, id)
	return check, a.fail("canDelete", "Failed to check category deletion", err)
}

func (a *CategoryAPI) Update(ctx context.Context, id string, in categories.UpdateInput) (*categories.Category, error) {
	c, err := a.repo.Update(ctx, id, in)
	return c, a.fail("update", "Failed to update category", err)
}

func (a *CategoryAPI) Delete(ctx context.Context, id string) error {
	return a.fail("delete", "Failed to delete category", a.repo.Delete(ctx, id))
}

func (a *CategoryAPI) DeleteWithReassignment(ctx context.Context, id string, target *string) error {
	err := a.repo.DeleteWithReassignment(ctx, id, target)
	return a.fail("deleteWithReassignment", "Failed to delete category", err)
}

func (a *CategoryAPI) BulkCreate(ctx context.Context, inputs []categories.CreateInput) ([]*categories.Category, error) {
	list, err := a.repo.BulkCreate(ctx, inputs)
	return list, a.fail("bulkCreate", "Failed to create categories", err)
}

func (a *CategoryAPI) BulkUpdate(ctx context.Context, changes []categories.Change) ([]*categories.Category, error) {
	list, err := a.repo.BulkUpdate(ctx, changes)
	return list, a.fail("bulkUpdate", "Failed to update categories", err)
}

func (a *CategoryAPI) BulkDelete(ctx context.Context, ids []string) (int, error) {
	n, err := a.repo.BulkDelete(ctx, ids)
	return n, a.fail("bulkDelete", "Failed to delete categories", err)
}

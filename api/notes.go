package api

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-productivity/notes"
)

type NoteAPI struct {
	repo   *notes.Repository
	logger zerolog.Logger
}

func (a *NoteAPI) fail(op, message string, err error) error {
	return fail(a.logger, "note."+op, message, err)
}

func (a *NoteAPI) Create(ctx context.Context, in notes.CreateInput) (*notes.Note, error) {
	n, err := a.repo.Create(ctx, in)
	return n, a.fail("create", "Failed to create note", err)
}

func (a *NoteAPI) GetByID(ctx context.Context, id string) (*notes.Note, error) {
	n, err := a.repo.GetByID(ctx, id)
	return n, a.fail("getById", "Failed to fetch note", err)
}

func (a *NoteAPI) GetAll(ctx context.Context, p notes.Pagination, s notes.Search) (notes.Page, error) {
	page, err := a.repo.GetAll(ctx, p, s)
	return page, a.fail("getAll", "Failed to fetch notes", err)
}

func (a *NoteAPI) GetWithFilters(ctx context.Context, f notes.Filters, p notes.Pagination, query string) (notes.Page, error) {
	page, err := a.repo.GetWithFilters(ctx, f, p, query)
	return page, a.fail("getWithFilters", "Failed to fetch filtered notes", err)
}

func (a *NoteAPI) Search(ctx context.Context, query string, p notes.Pagination) (notes.Page, error) {
	page, err := a.repo.Search(ctx, query, p)
	return page, a.fail("search", "Failed to search notes", err)
}

func (a *NoteAPI) Pinned(ctx context.Context) ([]*notes.Note, error) {
	list, err := a.repo.Pinned(ctx)
	return list, a.fail("pinned", "Failed to fetch pinned notes", err)
}

func (a *NoteAPI) Recent(ctx context.Context, limit int) ([]*notes.Note, error) {
	list, err := a.repo.Recent(ctx, limit)
	return list, a.fail("recent", "Failed to fetch recent notes", err)
}

func (a *NoteAPI) ByCategory(ctx context.Context, categoryID string) ([]*notes.Note, error) {
	list, err := a.repo.ByCategory(ctx, categoryID)
	return list, a.fail("byCategory", "Failed to fetch notes by category", err)
}

func (a *NoteAPI) ByTags(ctx context.Context, tags []string) ([]*notes.Note, error) {
	list, err := a.repo.ByTags(ctx, tags)
	return list, a.fail("byTags", "Failed to fetch notes by tags", err)
}

func (a *NoteAPI) AllTags(ctx context.Context) ([]string, error) {
	tags, err := a.repo.AllTags(ctx)
	return tags, a.fail("allTags", "Failed to fetch note tags", err)
}

func (a *NoteAPI) SharedWithMe(ctx context.Context) ([]*notes.Note, error) {
	list, err := a.repo.SharedWithMe(ctx)
	return list, a.fail("sharedWithMe", "Failed to fetch shared notes", err)
}

func (a *NoteAPI) GetStats(ctx context.Context) (notes.Stats, error) {
	stats, err := a.repo.GetStats(ctx)
	return stats, a.fail("stats", "Failed to fetch note statistics", err)
}

func (a *NoteAPI) Update(ctx context.Context, id string, in notes.UpdateInput) (*notes.Note, error) {
	n, err := a.repo.Update(ctx, id, in)
	return n, a.fail("update", "Failed to update note", err)
}

func (a *NoteAPI) TogglePin(ctx context.Context, id string) (*notes.Note, error) {
	n, err := a.repo.TogglePin(ctx, id)
	return n, a.fail("togglePin", "Failed to toggle note pin", err)
}

func (a *NoteAPI) ToggleArchive(ctx context.Context, id string) (*notes.Note, error) {
	n, err := a.repo.ToggleArchive(ctx, id)
	return n, a.fail("toggleArchive", "Failed to toggle note archive", err)
}

func (a *NoteAPI) Share(ctx context.Context, id string, userIDs []string) (*notes.Note, error) {
	n, err := a.repo.Share(ctx, id, userIDs)
	return n, a.fail("share", "Failed to share note", err)
}

func (a *NoteAPI) Unshare(ctx context.Context, id string, userIDs []string) (*notes.Note, error) {
	n, err := a.repo.Unshare(ctx, id, userIDs)
	return n, a.fail("unshare", "Failed to unshare note", err)
}

func (a *NoteAPI) Duplicate(ctx context.Context, id string) (*notes.Note, error) {
	n, err := a.repo.Duplicate(ctx, id)
	return n, a.fail("duplicate", "Failed to duplicate note", err)
}

func (a *NoteAPI) Delete(ctx context.Context, id string) error {
	return a.fail("delete", "Failed to delete note", a.repo.Delete(ctx, id))
}

func (a *NoteAPI) BulkCreate(ctx context.Context, inputs []notes.CreateInput) ([]*notes.Note, error) {
	list, err := a.repo.BulkCreate(ctx, inputs)
	return list, a.fail("bulkCreate", "Failed to create notes", err)
}

func (a *NoteAPI) BulkUpdate(ctx context.Context, changes []notes.Change) ([]*notes.Note, error) {
	list, err := a.repo.BulkUpdate(ctx, changes)
	return list, a.fail("bulkUpdate", "Failed to update notes", err)
}

func (a *NoteAPI) BulkDelete(ctx context.Context, ids []string) (int, error) {
	n, err := a.repo.BulkDelete(ctx, ids)
	return n, a.fail("bulkDelete", "Failed to delete notes", err)
}

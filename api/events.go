package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-productivity/events"
)

type EventAPI struct {
	repo   *events.Repository
	logger zerolog.Logger
}

func (a *EventAPI) fail(op, message string, err error) error {
	return fail(a.logger, "event."+op, message, err)
}

func (a *EventAPI) Create(ctx context.Context, in events.CreateInput) (*events.Event, error) {
	e, err := a.repo.Create(ctx, in)
	return e, a.fail("create", "Failed to create event", err)
}

func (a *EventAPI) GetByID(ctx context.Context, id string) (*events.Event, error) {
	e, err := a.repo.GetByID(ctx, id)
	return e, a.fail("getById", "Failed to fetch event", err)
}

func (a *EventAPI) GetAll(ctx context.Context, p events.Pagination, s events.Search) (events.Page, error) {
	page, err := a.repo.GetAll(ctx, p, s)
	return page, a.fail("getAll", "Failed to fetch events", err)
}

func (a *EventAPI) GetWithFilters(ctx context.Context, f events.Filters, p events.Pagination, query string) (events.Page, error) {
	page, err := a.repo.GetWithFilters(ctx, f, p, query)
	return page, a.fail("getWithFilters", "Failed to fetch filtered events", err)
}

func (a *EventAPI) ByDateRange(ctx context.Context, from, to time.Time, p events.Pagination) (events.Page, error) {
	page, err := a.repo.ByDateRange(ctx, from, to, p)
	return page, a.fail("byDateRange", "Failed to fetch events by date range", err)
}

func (a *EventAPI) Today(ctx context.Context) ([]*events.Event, error) {
	list, err := a.repo.Today(ctx)
	return list, a.fail("today", "Failed to fetch today's events", err)
}

func (a *EventAPI) ThisWeek(ctx context.Context) ([]*events.Event, error) {
	list, err := a.repo.ThisWeek(ctx)
	return list, a.fail("thisWeek", "Failed to fetch this week's events", err)
}

func (a *EventAPI) Upcoming(ctx context.Context, limit int) ([]*events.Event, error) {
	list, err := a.repo.Upcoming(ctx, limit)
	return list, a.fail("upcoming", "Failed to fetch upcoming events", err)
}

func (a *EventAPI) ByCategory(ctx context.Context, categoryID string) ([]*events.Event, error) {
	list, err := a.repo.ByCategory(ctx, categoryID)
	return list, a.fail("byCategory", "Failed to fetch events by category", err)
}

func (a *EventAPI) Conflicting(ctx context.Context, start, end time.Time, excludeID string) ([]*events.Event, error) {
	list, err := a.repo.Conflicting(ctx, start, end, excludeID)
	return list, a.fail("conflicting", "Failed to check event conflicts", err)
}

func (a *EventAPI) Occurrences(ctx context.Context, from, to time.Time) ([]events.Occurrence, error) {
	list, err := a.repo.Occurrences(ctx, from, to)
	return list, a.fail("occurrences", "Failed to expand event occurrences", err)
}

func (a *EventAPI) GetStats(ctx context.Context) (events.Stats, error) {
	stats, err := a.repo.GetStats(ctx)
	return stats, a.fail("stats", "Failed to fetch event statistics", err)
}

func (a *EventAPI) Update(ctx context.Context, id string, in events.UpdateInput) (*events.Event, error) {
	e, err := a.repo.Update(ctx, id, in)
	return e, a.fail("update", "Failed to update event", err)
}

func (a *EventAPI) Cancel(ctx context.Context, id string) (*events.Event, error) {
	e, err := a.repo.Cancel(ctx, id)
	return e, a.fail("cancel", "Failed to cancel event", err)
}

func (a *EventAPI) Restore(ctx context.Context, id string) (*events.Event, error) {
	e, err := a.repo.Restore(ctx, id)
	return e, a.fail("restore", "Failed to restore event", err)
}

func (a *EventAPI) AddAttendee(ctx context.Context, id string, in events.AttendeeInput) (*events.Event, error) {
	e, err := a.repo.AddAttendee(ctx, id, in)
	return e, a.fail("addAttendee", "Failed to add attendee", err)
}

func (a *EventAPI) RemoveAttendee(ctx context.Context, id, attendeeID string) (*events.Event, error) {
	e, err := a.repo.RemoveAttendee(ctx, id, attendeeID)
	return e, a.fail("removeAttendee", "Failed to remove attendee", err)
}

func (a *EventAPI) UpdateAttendeeStatus(ctx context.Context, id, attendeeID string, status events.AttendeeStatus) (*events.Event, error) {
	e, err := a.repo.UpdateAttendeeStatus(ctx, id, attendeeID, status)
	return e, a.fail("updateAttendeeStatus", "Failed to update attendee status", err)
}

func (a *EventAPI) AddReminder(ctx context.Context, id string, in events.ReminderInput) (*events.Event, error) {
	e, err := a.repo.AddReminder(ctx, id, in)
	return e, a.fail("addReminder", "Failed to add reminder", err)
}

func (a *EventAPI) RemoveReminder(ctx context.Context, id, reminderID string) (*events.Event, error) {
	e, err := a.repo.RemoveReminder(ctx, id, reminderID)
	return e, a.fail("removeReminder", "Failed to remove reminder", err)
}

func (a *EventAPI) Duplicate(ctx context.Context, id string, newStart *time.Time) (*events.Event, error) {
	e, err := a.repo.Duplicate(ctx, id, newStart)
	return e, a.fail("duplicate", "Failed to duplicate event", err)
}

func (a *EventAPI) Delete(ctx context.Context, id string) error {
	return a.fail("delete", "Failed to delete event", a.repo.Delete(ctx, id))
}

func (a *EventAPI) BulkCreate(ctx context.Context, inputs []events.CreateInput) ([]*events.Event, error) {
	list, err := a.repo.BulkCreate(ctx, inputs)
	return list, a.fail("bulkCreate", "Failed to create events", err)
}

func (a *EventAPI) BulkUpdate(ctx context.Context, changes []events.Change) ([]*events.Event, error) {
	list, err := a.repo.BulkUpdate(ctx, changes)
	return list, a.fail("bulkUpdate", "Failed to update events", err)
}

func (a *EventAPI) BulkDelete(ctx context.Context, ids []string) (int, error) {
	n, err := a.repo.BulkDelete(ctx, ids)
	return n, a.fail("bulkDelete", "Failed to delete events", err)
}

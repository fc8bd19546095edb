package events

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-productivity/model"
	"github.com/goliatone/go-productivity/repositorycache"
	"github.com/goliatone/go-productivity/store"
)

type (
	Page       = repositorycache.Page[*Event]
	Pagination = repositorycache.Pagination
	Search     = repositorycache.Search
)

const (
	// DefaultRangeLimit is the page size of date range listings.
	DefaultRangeLimit = 100
	// DefaultUpcomingLimit is used by Upcoming when limit is not positive.
	DefaultUpcomingLimit = 10
	// DuplicateOffset shifts a duplicated event when no new start is given.
	DuplicateOffset = 7 * 24 * time.Hour
)

var chronological = []store.Order{store.Asc("start_time")}

type Repository struct {
	base *repositorycache.Repository[*Event, Stats]
}

func NewRepository(s store.Store[*Event], shared repositorycache.Shared) *Repository {
	return &Repository{
		base: repositorycache.New(s, repositorycache.Config[*Event, Stats]{
			Entity:        Entity,
			SearchColumns: []string{"title", "description", "location"},
			Sortable:      []string{"title", "start_time", "end_time", "target_date"},
			Filterable:    []string{"category_id", "is_all_day", "is_cancelled", "recurrence"},
			Stats:         computeStats,
			Prepare:       prepare,
			Validate:      validate,
		}, shared),
	}
}

func (r *Repository) Create(ctx context.Context, in CreateInput) (*Event, error) {
	return r.base.Create(ctx, in.event(r.base.Now(), uuid.NewString))
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Event, error) {
	return r.base.GetByID(ctx, id)
}

func (r *Repository) GetAll(ctx context.Context, p Pagination, s Search) (Page, error) {
	return r.base.GetAll(ctx, p, s)
}

// Update applies in. The end time must stay after the start time.
func (r *Repository) Update(ctx context.Context, id string, in UpdateInput) (*Event, error) {
	return r.base.Update(ctx, id, func(e *Event) error {
		in.apply(e)
		return nil
	})
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.base.Delete(ctx, id)
}

func (r *Repository) GetStats(ctx context.Context) (Stats, error) {
	return r.base.GetStats(ctx)
}

func (r *Repository) BulkCreate(ctx context.Context, inputs []CreateInput) ([]*Event, error) {
	now := r.base.Now()
	records := make([]*Event, len(inputs))
	for i, in := range inputs {
		records[i] = in.event(now, uuid.NewString)
	}
	return r.base.BulkCreate(ctx, records)
}

func (r *Repository) BulkUpdate(ctx context.Context, changes []Change) ([]*Event, error) {
	batch := make([]repositorycache.Change[*Event], len(changes))
	for i, c := range changes {
		in := c.Data
		batch[i] = repositorycache.Change[*Event]{
			ID: c.ID,
			Mutate: func(e *Event) error {
				in.apply(e)
				return nil
			},
		}
	}
	return r.base.BulkUpdate(ctx, batch)
}

func (r *Repository) BulkDelete(ctx context.Context, ids []string) (int, error) {
	return r.base.BulkDelete(ctx, ids)
}

// GetWithFilters lists events matching f and the optional search term.
// Cancelled events are excluded unless f.IsCancelled is set.
func (r *Repository) GetWithFilters(ctx context.Context, f Filters, p Pagination, query string) (Page, error) {
	return r.base.List(ctx, "getWithFilters", p, repositorycache.Criteria{
		Search: query,
		Where:  f.where(),
	})
}

// ByDateRange lists active events starting within [from, to], earliest first.
func (r *Repository) ByDateRange(ctx context.Context, from, to time.Time, p Pagination) (Page, error) {
	return r.window(ctx, "byDateRange", p,
		store.Gte("start_time", from.UTC()),
		store.Lte("start_time", to.UTC()),
	)
}

// Today returns active events starting on the current UTC day.
func (r *Repository) Today(ctx context.Context) ([]*Event, error) {
	start := model.StartOfDay(r.base.Now())
	page, err := r.window(ctx, "today", Pagination{},
		store.Gte("start_time", start),
		store.Lt("start_time", start.AddDate(0, 0, 1)),
	)
	return page.Data, err
}

// ThisWeek returns active events starting in the current week, Sunday to Saturday UTC.
func (r *Repository) ThisWeek(ctx context.Context) ([]*Event, error) {
	start := model.StartOfWeek(r.base.Now())
	page, err := r.window(ctx, "thisWeek", Pagination{},
		store.Gte("start_time", start),
		store.Lt("start_time", start.AddDate(0, 0, 7)),
	)
	return page.Data, err
}

func (r *Repository) window(ctx context.Context, op string, p Pagination, bounds ...store.Filter) (Page, error) {
	if p.Limit == 0 {
		p.Limit = DefaultRangeLimit
	}
	if p.SortBy == "" {
		p.SortBy, p.SortOrder = "start_time", "asc"
	}
	return r.base.List(ctx, op, p, repositorycache.Criteria{
		Where: append(bounds, store.Eq("is_cancelled", false)),
	})
}

// Upcoming returns the next limit active events starting from now.
func (r *Repository) Upcoming(ctx context.Context, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	return r.base.Find(ctx, repositorycache.Criteria{
		Where: []store.Filter{
			store.Gte("start_time", r.base.Now()),
			store.Eq("is_cancelled", false),
		},
	}, chronological, limit)
}

func (r *Repository) ByCategory(ctx context.Context, categoryID string) ([]*Event, error) {
	page, err := r.GetWithFilters(ctx, Filters{CategoryID: &categoryID}, Pagination{}, "")
	return page.Data, err
}

func (r *Repository) Cancel(ctx context.Context, id string) (*Event, error) {
	return r.setCancelled(ctx, id, true)
}

func (r *Repository) Restore(ctx context.Context, id string) (*Event, error) {
	return r.setCancelled(ctx, id, false)
}

func (r *Repository) setCancelled(ctx context.Context, id string, cancelled bool) (*Event, error) {
	return r.base.Update(ctx, id, func(e *Event) error {
		e.IsCancelled = cancelled
		return nil
	})
}

func (r *Repository) AddAttendee(ctx context.Context, id string, in AttendeeInput) (*Event, error) {
	now := r.base.Now()
	return r.base.Update(ctx, id, func(e *Event) error {
		e.Attendees = append(e.Attendees, in.attendee(now, uuid.NewString))
		return nil
	})
}

func (r *Repository) RemoveAttendee(ctx context.Context, id, attendeeID string) (*Event, error) {
	return r.base.Update(ctx, id, func(e *Event) error {
		e.Attendees = slices.DeleteFunc(e.Attendees, func(a Attendee) bool { return a.ID == attendeeID })
		return nil
	})
}

func (r *Repository) UpdateAttendeeStatus(ctx context.Context, id, attendeeID string, status AttendeeStatus) (*Event, error) {
	now := r.base.Now()
	return r.base.Update(ctx, id, func(e *Event) error {
		i := slices.IndexFunc(e.Attendees, func(a Attendee) bool { return a.ID == attendeeID })
		if i < 0 {
			return repositorycache.NotFound("attendee", attendeeID)
		}
		e.Attendees[i].Status = status
		e.Attendees[i].UpdatedAt = &now
		return nil
	})
}

func (r *Repository) AddReminder(ctx context.Context, id string, in ReminderInput) (*Event, error) {
	now := r.base.Now()
	return r.base.Update(ctx, id, func(e *Event) error {
		e.Reminders = append(e.Reminders, in.reminder(now, uuid.NewString))
		return nil
	})
}

func (r *Repository) RemoveReminder(ctx context.Context, id, reminderID string) (*Event, error) {
	return r.base.Update(ctx, id, func(e *Event) error {
		e.Reminders = slices.DeleteFunc(e.Reminders, func(rm Reminder) bool { return rm.ID == reminderID })
		return nil
	})
}

// Conflicting returns the caller's active events overlapping [start, end).
// excludeID, when set, leaves one event out so an edit can be checked.
func (r *Repository) Conflicting(ctx context.Context, start, end time.Time, excludeID string) ([]*Event, error) {
	if !end.After(start) {
		return nil, repositorycache.Invalid("end_time", "must be after start_time")
	}
	where := []store.Filter{
		store.Lt("start_time", end.UTC()),
		store.Gt("end_time", start.UTC()),
		store.Eq("is_cancelled", false),
	}
	if excludeID != "" {
		where = append(where, store.Neq("id", excludeID))
	}
	return r.base.Find(ctx, repositorycache.Criteria{Where: where}, chronological, 0)
}

// Duplicate copies an event as "<title> (Copy)" starting at newStart, or one
// week after the source when newStart is nil. The copy keeps the duration, shifts
// the recurrence end date by the same offset and is never cancelled.
func (r *Repository) Duplicate(ctx context.Context, id string, newStart *time.Time) (*Event, error) {
	src, err := r.base.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start := src.StartTime.Add(DuplicateOffset)
	target := src.TargetDate
	if newStart != nil {
		start = newStart.UTC()
		target = start
	}

	now := r.base.Now()
	dup := &Event{
		Title:              src.Title + " (Copy)",
		Description:        src.Description,
		CategoryID:         src.CategoryID,
		StartTime:          start,
		EndTime:            start.Add(src.Duration()),
		TargetDate:         target,
		Location:           src.Location,
		IsAllDay:           src.IsAllDay,
		Recurrence:         src.Recurrence,
		RecurrenceInterval: src.RecurrenceInterval,
		MeetingURL:         src.MeetingURL,
	}
	if src.RecurrenceEndDate != nil {
		until := src.RecurrenceEndDate.Add(start.Sub(src.StartTime))
		dup.RecurrenceEndDate = &until
	}
	for _, a := range src.Attendees {
		dup.Attendees = append(dup.Attendees, AttendeeInput{Email: a.Email, Name: a.Name, Status: a.Status}.attendee(now, uuid.NewString))
	}
	for _, rm := range src.Reminders {
		dup.Reminders = append(dup.Reminders, ReminderInput{Type: rm.Type, MinutesBefore: rm.MinutesBefore, Message: rm.Message}.reminder(now, uuid.NewString))
	}
	return r.base.Create(ctx, dup)
}

// Occurrences expands the caller's active events, recurring ones included,
// into the instances intersecting [from, to), ordered by start.
func (r *Repository) Occurrences(ctx context.Context, from, to time.Time) ([]Occurrence, error) {
	if !to.After(from) {
		return nil, repositorycache.Invalid("to", "must be after from")
	}
	from, to = from.UTC(), to.UTC()

	candidates, err := r.base.Find(ctx, repositorycache.Criteria{
		Where: []store.Filter{
			store.Lt("start_time", to),
			store.Eq("is_cancelled", false),
		},
		AnyOf: []store.Group{
			{store.Neq("recurrence", string(RecurrenceNone))},
			{store.Gt("end_time", from)},
		},
	}, chronological, 0)
	if err != nil {
		return nil, err
	}

	out := []Occurrence{}
	for _, e := range candidates {
		out = append(out, Expand(e, from, to)...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (r *Repository) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	return r.base.Count(ctx, repositorycache.Criteria{
		Where: []store.Filter{store.Eq("category_id", categoryID)},
	})
}

func (r *Repository) ReassignCategory(ctx context.Context, from string, to *string) (int, error) {
	return r.base.UpdateMatching(ctx, repositorycache.Criteria{
		Where: []store.Filter{store.Eq("category_id", from)},
	}, func(e *Event) error {
		e.CategoryID = model.NonEmpty(to)
		return nil
	})
}

// Package events stores calendar events with attendees, reminders and recurrence.
package events

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-productivity/model"
	"github.com/goliatone/go-productivity/store"
)

const (
	Entity = "event"
	Table  = "events"
)

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

type AttendeeStatus string

const (
	AttendeePending   AttendeeStatus = "pending"
	AttendeeAccepted  AttendeeStatus = "accepted"
	AttendeeDeclined  AttendeeStatus = "declined"
	AttendeeTentative AttendeeStatus = "tentative"
)

// Event is a row of the events table. EndTime is always after StartTime.
type Event struct {
	bun.BaseModel `bun:"table:events" json:"-"`
	model.Base

	Title              string     `bun:"title,notnull" json:"title"`
	Description        *string    `bun:"description" json:"description,omitempty"`
	CategoryID         *string    `bun:"category_id" json:"category_id,omitempty"`
	StartTime          time.Time  `bun:"start_time,notnull" json:"start_time"`
	EndTime            time.Time  `bun:"end_time,notnull" json:"end_time"`
	TargetDate         time.Time  `bun:"target_date,notnull" json:"target_date"`
	Location           *string    `bun:"location" json:"location,omitempty"`
	IsAllDay           bool       `bun:"is_all_day,notnull" json:"is_all_day"`
	Recurrence         Recurrence `bun:"recurrence,notnull" json:"recurrence"`
	RecurrenceEndDate  *time.Time `bun:"recurrence_end_date" json:"recurrence_end_date,omitempty"`
	RecurrenceInterval int        `bun:"recurrence_interval,notnull" json:"recurrence_interval"`
	Attendees          []Attendee `bun:"attendees,type:jsonb" json:"attendees"`
	Reminders          []Reminder `bun:"reminders,type:jsonb" json:"reminders"`
	MeetingURL         *string    `bun:"meeting_url" json:"meeting_url,omitempty"`
	IsCancelled        bool       `bun:"is_cancelled,notnull" json:"is_cancelled"`
}

// Duration is the length of one occurrence.
func (e *Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

type Attendee struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Status    AttendeeStatus `json:"status"`
	AddedAt   time.Time      `json:"added_at"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

func (a Attendee) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.Email, validation.Required, is.EmailFormat),
		validation.Field(&a.Status, validation.Required,
			validation.In(AttendeePending, AttendeeAccepted, AttendeeDeclined, AttendeeTentative)),
	)
}

type Reminder struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	MinutesBefore int       `json:"minutes_before"`
	Message       *string   `json:"message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r Reminder) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Type, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.MinutesBefore, validation.Min(0)),
	)
}

type AttendeeInput struct {
	Email  string         `json:"email"`
	Name   string         `json:"name"`
	Status AttendeeStatus `json:"status,omitempty"`
}

type ReminderInput struct {
	Type          string  `json:"type"`
	MinutesBefore int     `json:"minutes_before"`
	Message       *string `json:"message,omitempty"`
}

// CreateInput is the caller supplied part of a new event. TargetDate defaults to
// StartTime and Recurrence to none.
type CreateInput struct {
	Title              string          `json:"title"`
	Description        *string         `json:"description,omitempty"`
	CategoryID         *string         `json:"category_id,omitempty"`
	StartTime          time.Time       `json:"start_time"`
	EndTime            time.Time       `json:"end_time"`
	TargetDate         *time.Time      `json:"target_date,omitempty"`
	Location           *string         `json:"location,omitempty"`
	IsAllDay           bool            `json:"is_all_day,omitempty"`
	Recurrence         Recurrence      `json:"recurrence,omitempty"`
	RecurrenceEndDate  *time.Time      `json:"recurrence_end_date,omitempty"`
	RecurrenceInterval int             `json:"recurrence_interval,omitempty"`
	Attendees          []AttendeeInput `json:"attendees,omitempty"`
	Reminders          []ReminderInput `json:"reminders,omitempty"`
	MeetingURL         *string         `json:"meeting_url,omitempty"`
	IsCancelled        bool            `json:"is_cancelled,omitempty"`
}

// UpdateInput changes the set fields of an event. Empty strings clear optional
// text fields and a zero RecurrenceEndDate clears it.
type UpdateInput struct {
	Title              *string     `json:"title,omitempty"`
	Description        *string     `json:"description,omitempty"`
	CategoryID         *string     `json:"category_id,omitempty"`
	StartTime          *time.Time  `json:"start_time,omitempty"`
	EndTime            *time.Time  `json:"end_time,omitempty"`
	TargetDate         *time.Time  `json:"target_date,omitempty"`
	Location           *string     `json:"location,omitempty"`
	IsAllDay           *bool       `json:"is_all_day,omitempty"`
	Recurrence         *Recurrence `json:"recurrence,omitempty"`
	RecurrenceEndDate  *time.Time  `json:"recurrence_end_date,omitempty"`
	RecurrenceInterval *int        `json:"recurrence_interval,omitempty"`
	MeetingURL         *string     `json:"meeting_url,omitempty"`
	IsCancelled        *bool       `json:"is_cancelled,omitempty"`
}

type Change struct {
	ID   string      `json:"id"`
	Data UpdateInput `json:"data"`
}

// Filters narrow GetWithFilters. IsCancelled defaults to false; StartDate and
// EndDate bound start_time inclusively.
type Filters struct {
	CategoryID  *string     `json:"category_id,omitempty" form:"category_id"`
	IsAllDay    *bool       `json:"is_all_day,omitempty" form:"is_all_day"`
	IsCancelled *bool       `json:"is_cancelled,omitempty" form:"is_cancelled"`
	StartDate   *time.Time  `json:"start_date,omitempty" form:"start_date"`
	EndDate     *time.Time  `json:"end_date,omitempty" form:"end_date"`
	Recurrence  *Recurrence `json:"recurrence,omitempty" form:"recurrence"`
}

func (f Filters) where() []store.Filter {
	cancelled := false
	if f.IsCancelled != nil {
		cancelled = *f.IsCancelled
	}
	where := []store.Filter{store.Eq("is_cancelled", cancelled)}

	if f.CategoryID != nil {
		where = append(where, store.Eq("category_id", *f.CategoryID))
	}
	if f.IsAllDay != nil {
		where = append(where, store.Eq("is_all_day", *f.IsAllDay))
	}
	if f.StartDate != nil {
		where = append(where, store.Gte("start_time", f.StartDate.UTC()))
	}
	if f.EndDate != nil {
		where = append(where, store.Lte("start_time", f.EndDate.UTC()))
	}
	if f.Recurrence != nil {
		where = append(where, store.Eq("recurrence", string(*f.Recurrence)))
	}
	return where
}

func (in CreateInput) event(now time.Time, newID func() string) *Event {
	e := &Event{
		Title:              in.Title,
		Description:        model.NonEmpty(in.Description),
		CategoryID:         model.NonEmpty(in.CategoryID),
		StartTime:          in.StartTime.UTC(),
		EndTime:            in.EndTime.UTC(),
		Location:           model.NonEmpty(in.Location),
		IsAllDay:           in.IsAllDay,
		Recurrence:         in.Recurrence,
		RecurrenceEndDate:  model.UTC(in.RecurrenceEndDate),
		RecurrenceInterval: in.RecurrenceInterval,
		MeetingURL:         model.NonEmpty(in.MeetingURL),
		IsCancelled:        in.IsCancelled,
	}
	if in.TargetDate != nil && !in.TargetDate.IsZero() {
		e.TargetDate = in.TargetDate.UTC()
	}
	for _, a := range in.Attendees {
		e.Attendees = append(e.Attendees, a.attendee(now, newID))
	}
	for _, r := range in.Reminders {
		e.Reminders = append(e.Reminders, r.reminder(now, newID))
	}
	return e
}

func (in AttendeeInput) attendee(now time.Time, newID func() string) Attendee {
	status := in.Status
	if status == "" {
		status = AttendeePending
	}
	return Attendee{ID: newID(), Email: in.Email, Name: in.Name, Status: status, AddedAt: now}
}

func (in ReminderInput) reminder(now time.Time, newID func() string) Reminder {
	return Reminder{
		ID:            newID(),
		Type:          in.Type,
		MinutesBefore: in.MinutesBefore,
		Message:       model.NonEmpty(in.Message),
		CreatedAt:     now,
	}
}

func (in UpdateInput) apply(e *Event) {
	model.Patch(&e.Title, in.Title)
	model.PatchString(&e.Description, in.Description)
	model.PatchString(&e.CategoryID, in.CategoryID)
	if in.StartTime != nil {
		e.StartTime = in.StartTime.UTC()
	}
	if in.EndTime != nil {
		e.EndTime = in.EndTime.UTC()
	}
	if in.TargetDate != nil {
		e.TargetDate = in.TargetDate.UTC()
	}
	model.PatchString(&e.Location, in.Location)
	model.Patch(&e.IsAllDay, in.IsAllDay)
	model.Patch(&e.Recurrence, in.Recurrence)
	model.PatchTime(&e.RecurrenceEndDate, in.RecurrenceEndDate)
	model.Patch(&e.RecurrenceInterval, in.RecurrenceInterval)
	model.PatchString(&e.MeetingURL, in.MeetingURL)
	model.Patch(&e.IsCancelled, in.IsCancelled)
}

func prepare(e *Event, _ time.Time) {
	if e.TargetDate.IsZero() {
		e.TargetDate = e.StartTime
	}
	if e.Recurrence == "" {
		e.Recurrence = RecurrenceNone
	}
	if e.RecurrenceInterval == 0 {
		e.RecurrenceInterval = 1
	}
	if e.Attendees == nil {
		e.Attendees = []Attendee{}
	}
	if e.Reminders == nil {
		e.Reminders = []Reminder{}
	}
}

func validate(e *Event) error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&e.StartTime, validation.Required),
		validation.Field(&e.EndTime, validation.Required,
			validation.Min(e.StartTime).Exclusive().Error("must be after start_time")),
		validation.Field(&e.Recurrence, validation.Required,
			validation.In(RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly)),
		validation.Field(&e.RecurrenceInterval, validation.Min(1)),
		validation.Field(&e.RecurrenceEndDate,
			validation.When(e.RecurrenceEndDate != nil, validation.Min(e.StartTime).Error("must not be before start_time"))),
		validation.Field(&e.MeetingURL, is.URL),
		validation.Field(&e.Attendees),
		validation.Field(&e.Reminders),
	)
}

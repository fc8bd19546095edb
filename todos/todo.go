// Package todos stores tasks with status, priority, due dates and subtasks.
package todos

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-productivity/model"
	"github.com/goliatone/go-productivity/store"
)

const (
	Entity = "todo"
	Table  = "todos"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Todo is a row of the todos table.
type Todo struct {
	bun.BaseModel `bun:"table:todos" json:"-"`
	model.Base

	Title             string            `bun:"title,notnull" json:"title"`
	Description       *string           `bun:"description" json:"description,omitempty"`
	CategoryID        *string           `bun:"category_id" json:"category_id,omitempty"`
	DueDate           *time.Time        `bun:"due_date" json:"due_date,omitempty"`
	Status            Status            `bun:"status,notnull" json:"status"`
	Priority          Priority          `bun:"priority,notnull" json:"priority"`
	IsArchived        bool              `bun:"is_archived,notnull" json:"is_archived"`
	CompletedAt       *time.Time        `bun:"completed_at" json:"completed_at,omitempty"`
	EstimatedDuration *int              `bun:"estimated_duration" json:"estimated_duration,omitempty"`
	ActualDuration    *int              `bun:"actual_duration" json:"actual_duration,omitempty"`
	Tags              []string          `bun:"tags,type:jsonb" json:"tags"`
	Attachments       []json.RawMessage `bun:"attachments,type:jsonb" json:"attachments"`
	Subtasks          []Subtask         `bun:"subtasks,type:jsonb" json:"subtasks"`
	AssignedTo        *string           `bun:"assigned_to" json:"assigned_to,omitempty"`
}

// Subtask is an item of Todo.Subtasks.
type Subtask struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (s Subtask) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required),
		validation.Field(&s.Title, validation.Required, validation.Length(1, 500)),
	)
}

// CreateInput is the caller supplied part of a new todo.
type CreateInput struct {
	Title             string            `json:"title"`
	Description       *string           `json:"description,omitempty"`
	CategoryID        *string           `json:"category_id,omitempty"`
	DueDate           *time.Time        `json:"due_date,omitempty"`
	Status            Status            `json:"status,omitempty"`
	Priority          Priority          `json:"priority,omitempty"`
	IsArchived        bool              `json:"is_archived,omitempty"`
	EstimatedDuration *int              `json:"estimated_duration,omitempty"`
	ActualDuration    *int              `json:"actual_duration,omitempty"`
	Tags              []string          `json:"tags,omitempty"`
	Attachments       []json.RawMessage `json:"attachments,omitempty"`
	Subtasks          []SubtaskInput    `json:"subtasks,omitempty"`
	AssignedTo        *string           `json:"assigned_to,omitempty"`
}

type SubtaskInput struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed,omitempty"`
}

// SubtaskPatch changes the set fields of one subtask.
type SubtaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// UpdateInput changes the set fields of a todo. An empty string clears an
// optional text field and a zero due date clears the due date.
type UpdateInput struct {
	Title             *string           `json:"title,omitempty"`
	Description       *string           `json:"description,omitempty"`
	CategoryID        *string           `json:"category_id,omitempty"`
	DueDate           *time.Time        `json:"due_date,omitempty"`
	Status            *Status           `json:"status,omitempty"`
	Priority          *Priority         `json:"priority,omitempty"`
	IsArchived        *bool             `json:"is_archived,omitempty"`
	EstimatedDuration *int              `json:"estimated_duration,omitempty"`
	ActualDuration    *int              `json:"actual_duration,omitempty"`
	Tags              []string          `json:"tags,omitempty"`
	Attachments       []json.RawMessage `json:"attachments,omitempty"`
	AssignedTo        *string           `json:"assigned_to,omitempty"`
}

// Change is one element of a bulk update.
type Change struct {
	ID   string      `json:"id"`
	Data UpdateInput `json:"data"`
}

// Filters narrow GetWithFilters. IsArchived defaults to false.
type Filters struct {
	Status      *Status    `json:"status,omitempty" form:"status"`
	Priority    *Priority  `json:"priority,omitempty" form:"priority"`
	CategoryID  *string    `json:"category_id,omitempty" form:"category_id"`
	IsArchived  *bool      `json:"is_archived,omitempty" form:"is_archived"`
	DueDateFrom *time.Time `json:"due_date_from,omitempty" form:"due_date_from"`
	DueDateTo   *time.Time `json:"due_date_to,omitempty" form:"due_date_to"`
	AssignedTo  *string    `json:"assigned_to,omitempty" form:"assigned_to"`
}

func (f Filters) where() []store.Filter {
	archived := false
	if f.IsArchived != nil {
		archived = *f.IsArchived
	}
	where := []store.Filter{store.Eq("is_archived", archived)}

	if f.Status != nil {
		where = append(where, store.Eq("status", string(*f.Status)))
	}
	if f.Priority != nil {
		where = append(where, store.Eq("priority", string(*f.Priority)))
	}
	if f.CategoryID != nil {
		where = append(where, store.Eq("category_id", *f.CategoryID))
	}
	if f.DueDateFrom != nil {
		where = append(where, store.Gte("due_date", f.DueDateFrom.UTC()))
	}
	if f.DueDateTo != nil {
		where = append(where, store.Lte("due_date", f.DueDateTo.UTC()))
	}
	if f.AssignedTo != nil {
		where = append(where, store.Eq("assigned_to", *f.AssignedTo))
	}
	return where
}

func (in CreateInput) todo(now time.Time, newID func() string) *Todo {
	t := &Todo{
		Title:             in.Title,
		Description:       model.NonEmpty(in.Description),
		CategoryID:        model.NonEmpty(in.CategoryID),
		DueDate:           model.UTC(in.DueDate),
		Status:            in.Status,
		Priority:          in.Priority,
		IsArchived:        in.IsArchived,
		EstimatedDuration: in.EstimatedDuration,
		ActualDuration:    in.ActualDuration,
		Tags:              in.Tags,
		Attachments:       in.Attachments,
		AssignedTo:        model.NonEmpty(in.AssignedTo),
	}
	for _, s := range in.Subtasks {
		t.Subtasks = append(t.Subtasks, Subtask{
			ID:        newID(),
			Title:     s.Title,
			Completed: s.Completed,
			CreatedAt: now,
		})
	}
	return t
}

func (in UpdateInput) apply(t *Todo) {
	model.Patch(&t.Title, in.Title)
	model.PatchString(&t.Description, in.Description)
	model.PatchString(&t.CategoryID, in.CategoryID)
	model.PatchTime(&t.DueDate, in.DueDate)
	model.Patch(&t.Status, in.Status)
	model.Patch(&t.Priority, in.Priority)
	model.Patch(&t.IsArchived, in.IsArchived)
	if in.EstimatedDuration != nil {
		t.EstimatedDuration = in.EstimatedDuration
	}
	if in.ActualDuration != nil {
		t.ActualDuration = in.ActualDuration
	}
	if in.Tags != nil {
		t.Tags = in.Tags
	}
	if in.Attachments != nil {
		t.Attachments = in.Attachments
	}
	model.PatchString(&t.AssignedTo, in.AssignedTo)
}

// prepare fills defaults and keeps completed_at in step with the status.
func prepare(t *Todo, now time.Time) {
	if t.Status == "" {
		t.Status = StatusOpen
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == StatusCompleted {
		if t.CompletedAt == nil {
			t.CompletedAt = &now
		}
	} else {
		t.CompletedAt = nil
	}

	t.Tags = model.Strings(t.Tags)
	if t.Attachments == nil {
		t.Attachments = []json.RawMessage{}
	}
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
}

func validate(t *Todo) error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&t.Status, validation.Required,
			validation.In(StatusOpen, StatusInProgress, StatusCompleted, StatusBlocked)),
		validation.Field(&t.Priority, validation.Required,
			validation.In(PriorityHigh, PriorityMedium, PriorityLow)),
		validation.Field(&t.EstimatedDuration, validation.Min(0)),
		validation.Field(&t.ActualDuration, validation.Min(0)),
		validation.Field(&t.Subtasks),
	)
}

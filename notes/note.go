// Package notes stores free text notes with tags, pinning and read sharing.
package notes

import (
	"encoding/json"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-productivity/model"
	"github.com/goliatone/go-productivity/store"
)

const (
	Entity = "note"
	Table  = "notes"

	// WordsPerMinute sets the reading speed behind ReadingTime.
	WordsPerMinute = 200
)

// Note is a row of the notes table. WordCount and ReadingTime are derived from
// Content on every write.
type Note struct {
	bun.BaseModel `bun:"table:notes" json:"-"`
	model.Base

	Title       string            `bun:"title,notnull" json:"title"`
	Content     string            `bun:"content,notnull" json:"content"`
	CategoryID  *string           `bun:"category_id" json:"category_id,omitempty"`
	IsArchived  bool              `bun:"is_archived,notnull" json:"is_archived"`
	IsPinned    bool              `bun:"is_pinned,notnull" json:"is_pinned"`
	Tags        []string          `bun:"tags,type:jsonb" json:"tags"`
	Attachments []json.RawMessage `bun:"attachments,type:jsonb" json:"attachments"`
	Formatting  json.RawMessage   `bun:"formatting,type:jsonb" json:"formatting,omitempty"`
	WordCount   int               `bun:"word_count,notnull" json:"word_count"`
	ReadingTime int               `bun:"reading_time,notnull" json:"reading_time"`
	SharedWith  []string          `bun:"shared_with,type:jsonb" json:"shared_with"`
}

type CreateInput struct {
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	CategoryID  *string           `json:"category_id,omitempty"`
	IsArchived  bool              `json:"is_archived,omitempty"`
	IsPinned    bool              `json:"is_pinned,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Attachments []json.RawMessage `json:"attachments,omitempty"`
	Formatting  json.RawMessage   `json:"formatting,omitempty"`
	SharedWith  []string          `json:"shared_with,omitempty"`
}

// UpdateInput changes the set fields of a note. An empty CategoryID clears it.
type UpdateInput struct {
	Title       *string           `json:"title,omitempty"`
	Content     *string           `json:"content,omitempty"`
	CategoryID  *string           `json:"category_id,omitempty"`
	IsArchived  *bool             `json:"is_archived,omitempty"`
	IsPinned    *bool             `json:"is_pinned,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Attachments []json.RawMessage `json:"attachments,omitempty"`
	Formatting  json.RawMessage   `json:"formatting,omitempty"`
	SharedWith  []string          `json:"shared_with,omitempty"`
}

type Change struct {
	ID   string      `json:"id"`
	Data UpdateInput `json:"data"`
}

// Filters narrow GetWithFilters. IsArchived defaults to false. Shared selects
// notes with (true) or without (false) a share list.
type Filters struct {
	CategoryID *string `json:"category_id,omitempty" form:"category_id"`
	IsArchived *bool   `json:"is_archived,omitempty" form:"is_archived"`
	IsPinned   *bool   `json:"is_pinned,omitempty" form:"is_pinned"`
	Shared     *bool   `json:"shared,omitempty" form:"shared"`
}

func (f Filters) where() []store.Filter {
	archived := false
	if f.IsArchived != nil {
		archived = *f.IsArchived
	}
	where := []store.Filter{store.Eq("is_archived", archived)}

	if f.CategoryID != nil {
		where = append(where, store.Eq("category_id", *f.CategoryID))
	}
	if f.IsPinned != nil {
		where = append(where, store.Eq("is_pinned", *f.IsPinned))
	}
	if f.Shared != nil {
		if *f.Shared {
			where = append(where, store.NotEmpty("shared_with"))
		} else {
			where = append(where, store.Empty("shared_with"))
		}
	}
	return where
}

func (in CreateInput) note() *Note {
	return &Note{
		Title:       in.Title,
		Content:     in.Content,
		CategoryID:  model.NonEmpty(in.CategoryID),
		IsArchived:  in.IsArchived,
		IsPinned:    in.IsPinned,
		Tags:        in.Tags,
		Attachments: in.Attachments,
		Formatting:  in.Formatting,
		SharedWith:  in.SharedWith,
	}
}

func (in UpdateInput) apply(n *Note) {
	model.Patch(&n.Title, in.Title)
	model.Patch(&n.Content, in.Content)
	model.PatchString(&n.CategoryID, in.CategoryID)
	model.Patch(&n.IsArchived, in.IsArchived)
	model.Patch(&n.IsPinned, in.IsPinned)
	if in.Tags != nil {
		n.Tags = in.Tags
	}
	if in.Attachments != nil {
		n.Attachments = in.Attachments
	}
	if in.Formatting != nil {
		n.Formatting = in.Formatting
	}
	if in.SharedWith != nil {
		n.SharedWith = in.SharedWith
	}
}

// WordCount counts whitespace separated words.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// ReadingTime is the number of minutes needed to read words, rounded up.
func ReadingTime(words int) int {
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

func prepare(n *Note, _ time.Time) {
	n.WordCount = WordCount(n.Content)
	n.ReadingTime = ReadingTime(n.WordCount)
	n.Tags = model.Strings(n.Tags)
	n.SharedWith = model.Strings(n.SharedWith)
	if n.Attachments == nil {
		n.Attachments = []json.RawMessage{}
	}
}

func validate(n *Note) error {
	return validation.ValidateStruct(n,
		validation.Field(&n.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&n.Tags, validation.Each(validation.Required)),
		validation.Field(&n.SharedWith, validation.Each(validation.Required)),
	)
}

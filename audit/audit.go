// Package audit records who changed which record, and how, in the activity_logs table.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-productivity/model"
	"github.com/goliatone/go-productivity/store"
)

// Table is the audit table name.
const Table = "activity_logs"

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ActivityLog is one audit row. CreatedBy is the acting user.
type ActivityLog struct {
	bun.BaseModel `bun:"table:activity_logs"`
	model.Base
	EntityType string          `bun:"entity_type,notnull" json:"entity_type"`
	EntityID   string          `bun:"entity_id,notnull" json:"entity_id"`
	Action     Action          `bun:"action,notnull" json:"action"`
	OldValues  json.RawMessage `bun:"old_values,type:jsonb" json:"old_values,omitempty"`
	NewValues  json.RawMessage `bun:"new_values,type:jsonb" json:"new_values,omitempty"`
}

// Entry describes a change. Old and New are any JSON encodable snapshot, nil when absent.
type Entry struct {
	UserID     string
	EntityType string
	EntityID   string
	Action     Action
	Old        any
	New        any
}

// Recorder persists entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

// Log writes entries into an activity_logs store.
type Log struct {
	store  store.Store[*ActivityLog]
	now    func() time.Time
	logger zerolog.Logger
}

// NewLog returns a Log over s. now defaults to time.Now.
func NewLog(s store.Store[*ActivityLog], now func() time.Time, logger zerolog.Logger) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{store: s, now: now, logger: logger.With().Str("component", "audit").Logger()}
}

func (l *Log) Record(ctx context.Context, entry Entry) error {
	oldValues, err := snapshot(entry.Old)
	if err != nil {
		return err
	}
	newValues, err := snapshot(entry.New)
	if err != nil {
		return err
	}

	now := l.now().UTC()
	row := &ActivityLog{
		Base: model.Base{
			ID:        uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
			CreatedBy: entry.UserID,
		},
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		OldValues:  oldValues,
		NewValues:  newValues,
	}

	if _, err := l.store.Insert(ctx, row); err != nil {
		return err
	}

	l.logger.Debug().
		Str("user_id", entry.UserID).
		Str("entity_type", entry.EntityType).
		Str("entity_id", entry.EntityID).
		Str("action", string(entry.Action)).
		Msg("activity recorded")
	return nil
}

// History returns the most recent entries of userID, newest first. entityType and
// entityID narrow the result when non-empty.
func (l *Log) History(ctx context.Context, userID, entityType, entityID string, limit int) ([]*ActivityLog, error) {
	q := store.Query{
		Owner: userID,
		Order: []store.Order{store.Desc("created_at")},
		Limit: limit,
	}
	if entityType != "" {
		q.Where = append(q.Where, store.Eq("entity_type", entityType))
	}
	if entityID != "" {
		q.Where = append(q.Where, store.Eq("entity_id", entityID))
	}

	rows, _, err := l.store.Select(ctx, q)
	return rows, err
}

func snapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(v)
}

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-productivity/store/memstore"
)

type tickingClock struct{ t time.Time }

func (c *tickingClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func TestLog_RecordAndHistory(t *testing.T) {
	ctx := context.Background()
	clock := &tickingClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	log := NewLog(memstore.New[*ActivityLog](Table), clock.now, zerolog.Nop())

	entries := []Entry{
		{UserID: "u1", EntityType: "todo", EntityID: "t1", Action: ActionCreate, New: map[string]any{"title": "a"}},
		{UserID: "u1", EntityType: "todo", EntityID: "t1", Action: ActionUpdate, Old: map[string]any{"title": "a"}, New: map[string]any{"title": "b"}},
		{UserID: "u1", EntityType: "note", EntityID: "n1", Action: ActionDelete, Old: json.RawMessage(`{"title":"n"}`)},
		{UserID: "u2", EntityType: "todo", EntityID: "t9", Action: ActionCreate},
	}
	for _, e := range entries {
		if err := log.Record(ctx, e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	tests := []struct {
		name       string
		entityType string
		entityID   string
		want       []Action
	}{
		{name: "all for user newest first", want: []Action{ActionDelete, ActionUpdate, ActionCreate}},
		{name: "by entity type", entityType: "todo", want: []Action{ActionUpdate, ActionCreate}},
		{name: "by entity", entityType: "note", entityID: "n1", want: []Action{ActionDelete}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := log.History(ctx, "u1", tt.entityType, tt.entityID, 10)
			if err != nil {
				t.Fatalf("history: %v", err)
			}
			if len(rows) != len(tt.want) {
				t.Fatalf("expected %d rows, got %d", len(tt.want), len(rows))
			}
			for i, row := range rows {
				if row.Action != tt.want[i] {
					t.Errorf("row %d: expected %s, got %s", i, tt.want[i], row.Action)
				}
			}
		})
	}

	rows, _ := log.History(ctx, "u1", "todo", "t1", 1)
	if len(rows) != 1 {
		t.Fatalf("expected limit to apply, got %d rows", len(rows))
	}
	if string(rows[0].OldValues) != `{"title":"a"}` || string(rows[0].NewValues) != `{"title":"b"}` {
		t.Errorf("unexpected snapshots: old=%s new=%s", rows[0].OldValues, rows[0].NewValues)
	}
}

func TestNop(t *testing.T) {
	if err := (Nop{}).Record(context.Background(), Entry{}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

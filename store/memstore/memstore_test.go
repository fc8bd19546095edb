package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-productivity/model"
	"github.com/goliatone/go-productivity/store"
)

type widget struct {
	model.Base
	Name   string     `bun:"name"`
	Rank   int        `bun:"rank"`
	Tags   []string   `bun:"tags,type:jsonb"`
	DoneAt *time.Time `bun:"done_at"`
}

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newWidget(id, owner, name string, rank int, tags ...string) *widget {
	return &widget{
		Base: model.Base{
			ID:        id,
			CreatedBy: owner,
			CreatedAt: epoch.Add(time.Duration(rank) * time.Minute),
			UpdatedAt: epoch,
		},
		Name: name,
		Rank: rank,
		Tags: tags,
	}
}

func seeded(t *testing.T) *Store[*widget] {
	t.Helper()
	s := New[*widget]("widgets")
	_, err := s.InsertMany(context.Background(), []*widget{
		newWidget("a", "alice", "Alpha", 3, "work", "urgent"),
		newWidget("b", "alice", "bravo", 1, "home"),
		newWidget("c", "alice", "Charlie", 2),
		newWidget("d", "bob", "delta", 4, "work"),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func ids(records []*widget) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStore_InsertDuplicate(t *testing.T) {
	s := seeded(t)
	_, err := s.Insert(context.Background(), newWidget("a", "alice", "again", 9))
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestStore_InsertCopiesRecord(t *testing.T) {
	s := New[*widget]("widgets")
	w := newWidget("x", "alice", "original", 1, "one")
	if _, err := s.Insert(context.Background(), w); err != nil {
		t.Fatalf("insert: %v", err)
	}
	w.Name = "mutated"
	w.Tags[0] = "changed"

	got, _, err := s.Select(context.Background(), store.Query{IDs: []string{"x"}})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got[0].Name != "original" || got[0].Tags[0] != "one" {
		t.Errorf("stored record shares state with caller: %+v", got[0])
	}
}

func TestStore_Select(t *testing.T) {
	tests := []struct {
		name      string
		query     store.Query
		want      []string
		wantTotal int
	}{
		{
			name:      "owner scope ordered by id",
			query:     store.Query{Owner: "alice"},
			want:      []string{"a", "b", "c"},
			wantTotal: 3,
		},
		{
			name:      "order by rank desc",
			query:     store.Query{Owner: "alice", Order: []store.Order{store.Desc("rank")}},
			want:      []string{"a", "c", "b"},
			wantTotal: 3,
		},
		{
			name:      "pagination keeps total",
			query:     store.Query{Owner: "alice", Order: []store.Order{store.Asc("rank")}, Limit: 2, Offset: 1},
			want:      []string{"c", "a"},
			wantTotal: 3,
		},
		{
			name:      "offset past the end",
			query:     store.Query{Owner: "alice", Offset: 10},
			want:      []string{},
			wantTotal: 3,
		},
		{
			name:      "ilike is case insensitive",
			query:     store.Query{Where: []store.Filter{store.ILike("name", "ALPH")}},
			want:      []string{"a"},
			wantTotal: 1,
		},
		{
			name:      "contains on array column",
			query:     store.Query{Where: []store.Filter{store.Contains("tags", "work")}},
			want:      []string{"a", "d"},
			wantTotal: 2,
		},
		{
			name:      "overlaps on array column",
			query:     store.Query{Where: []store.Filter{store.Overlaps("tags", []string{"home", "urgent"})}},
			want:      []string{"a", "b"},
			wantTotal: 2,
		},
		{
			name:      "empty array column",
			query:     store.Query{Where: []store.Filter{store.Empty("tags")}},
			want:      []string{"c"},
			wantTotal: 1,
		},
		{
			name:      "range filters",
			query:     store.Query{Where: []store.Filter{store.Gte("rank", 2), store.Lt("rank", 4)}},
			want:      []string{"a", "c"},
			wantTotal: 2,
		},
		{
			name:      "in filter",
			query:     store.Query{Where: []store.Filter{store.In("name", []string{"bravo", "delta"})}},
			want:      []string{"b", "d"},
			wantTotal: 2,
		},
		{
			name: "any of groups",
			query: store.Query{
				Owner: "alice",
				AnyOf: []store.Group{
					{store.Eq("rank", 1)},
					{store.ILike("name", "char"), store.Empty("tags")},
				},
			},
			want:      []string{"b", "c"},
			wantTotal: 2,
		},
		{
			name:      "ids restrict the scan",
			query:     store.Query{IDs: []string{"a", "d", "zzz"}},
			want:      []string{"a", "d"},
			wantTotal: 2,
		},
		{
			name:      "null column",
			query:     store.Query{Where: []store.Filter{store.IsNull("done_at")}},
			want:      []string{"a", "b", "c", "d"},
			wantTotal: 4,
		},
	}

	s := seeded(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := s.Select(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("expected %v, got %v", tt.want, ids(got))
			}
			if total != tt.wantTotal {
				t.Errorf("expected total %d, got %d", tt.wantTotal, total)
			}
		})
	}
}

func TestStore_SelectUnknownColumn(t *testing.T) {
	s := seeded(t)
	_, _, err := s.Select(context.Background(), store.Query{Where: []store.Filter{store.Eq("nope", 1)}})
	if err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestStore_NullsSortLast(t *testing.T) {
	s := seeded(t)
	done := epoch.Add(time.Hour)
	w := newWidget("c", "alice", "Charlie", 2)
	w.DoneAt = &done
	if _, err := s.Update(context.Background(), w, "alice"); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _, err := s.Select(context.Background(), store.Query{Owner: "alice", Order: []store.Order{store.Asc("done_at")}})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got[0].ID != "c" {
		t.Errorf("expected record with a value first, got %v", ids(got))
	}
}

func TestStore_Count(t *testing.T) {
	s := seeded(t)
	n, err := s.Count(context.Background(), store.Query{Owner: "alice", Where: []store.Filter{store.NotEmpty("tags")}})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}

func TestStore_UpdateOwnerScoped(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	w := newWidget("a", "alice", "renamed", 3)
	w.CreatedBy = "mallory"
	w.CreatedAt = epoch.Add(48 * time.Hour)

	if _, err := s.Update(ctx, w, "bob"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}

	updated, err := s.Update(ctx, w, "alice")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "renamed" {
		t.Errorf("expected name to change, got %q", updated.Name)
	}
	if updated.CreatedBy != "alice" {
		t.Errorf("expected owner to be preserved, got %q", updated.CreatedBy)
	}
	if !updated.CreatedAt.Equal(epoch.Add(3 * time.Minute)) {
		t.Errorf("expected created_at to be preserved, got %v", updated.CreatedAt)
	}

	if _, err := s.Update(ctx, newWidget("missing", "alice", "x", 1), "alice"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	if err := s.Delete(ctx, "a", "bob"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign owner, got %v", err)
	}
	if err := s.Delete(ctx, "a", "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "a", "alice"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	n, err := s.DeleteMany(ctx, []string{"b", "c", "d"}, "alice")
	if err != nil {
		t.Fatalf("delete many: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}
	if total, _ := s.Count(ctx, store.Query{}); total != 1 {
		t.Errorf("expected only bob's record to remain, got %d", total)
	}
}

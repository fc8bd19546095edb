package di

import (
	"context"
	"fmt"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-productivity/audit"
	"github.com/goliatone/go-productivity/auth"
	"github.com/goliatone/go-productivity/cache"
	"github.com/goliatone/go-productivity/categories"
	"github.com/goliatone/go-productivity/internal/migrations"
	"github.com/goliatone/go-productivity/notes"
	"github.com/goliatone/go-productivity/pkg/testsupport"
	"github.com/goliatone/go-productivity/store/bunstore"
	"github.com/goliatone/go-productivity/todos"
)

var epoch = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

// newSQLiteContainer wires a container over an in-memory SQLite database.
// service replaces the cache when not nil.
func newSQLiteContainer(t *testing.T, service cache.Service) *Container {
	t.Helper()
	ctx := context.Background()

	db, err := bunstore.Open(ctx, bunstore.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := migrations.CreateSchema(ctx, db); err != nil {
		t.Fatalf("schema: %v", err)
	}

	container, err := NewContainer(Options{
		Cache:        cache.Config{Enabled: false},
		CacheService: service,
		DB:           db,
		Logger:       zerolog.Nop(),
		Clock:        testsupport.NewClock(epoch).Now,
	})
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func TestEndToEnd_SQLite(t *testing.T) {
	c := newSQLiteContainer(t, nil)
	a := c.API()
	alice := auth.WithUser(context.Background(), "alice")
	bob := auth.WithUser(context.Background(), "bob")

	work, err := a.Categories.Create(alice, categories.CreateInput{Name: "Work", Color: "#00ff00"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	home, err := a.Categories.Create(alice, categories.CreateInput{Name: "Home"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	todo, err := a.Todos.Create(alice, todos.CreateInput{
		Title:      "ship it",
		CategoryID: &work.ID,
		Tags:       []string{"release"},
	})
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	if _, err := a.Todos.AddSubtask(alice, todo.ID, "write notes"); err != nil {
		t.Fatalf("add subtask: %v", err)
	}
	note, err := a.Notes.Create(alice, notes.CreateInput{Title: "plan", Content: "one two three", CategoryID: &work.ID})
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	if _, err := a.Todos.GetByID(bob, todo.ID); !goerrors.IsNotFound(err) {
		t.Fatalf("expected bob not to see alice's todo, got %v", err)
	}

	completed, err := a.Todos.Complete(alice, todo.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.CompletedAt == nil || len(completed.Subtasks) != 1 {
		t.Errorf("unexpected completed todo %+v", completed)
	}

	if err := a.Categories.Delete(alice, work.ID); !goerrors.IsCategory(err, goerrors.CategoryConflict) {
		t.Fatalf("expected conflict while referenced, got %v", err)
	}
	if err := a.Categories.DeleteWithReassignment(alice, work.ID, &home.ID); err != nil {
		t.Fatalf("reassign: %v", err)
	}

	moved, err := a.Notes.GetByID(alice, note.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if moved.CategoryID == nil || *moved.CategoryID != home.ID || moved.WordCount != 3 {
		t.Errorf("unexpected note after reassignment %+v", moved)
	}

	stats, err := a.Todos.GetStats(alice)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 1 || stats.Completed != 1 || stats.CompletionRate != 100 {
		t.Errorf("unexpected stats %+v", stats)
	}

	history, err := c.Activity().History(alice, "alice", todos.Table, todo.ID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	actions := make(map[audit.Action]int)
	for _, row := range history {
		actions[row.Action]++
	}
	// create, then add subtask, complete and the category reassignment
	if actions[audit.ActionCreate] != 1 || actions[audit.ActionUpdate] != 3 {
		t.Errorf("unexpected history %v", actions)
	}
}

func TestEndToEnd_SQLiteLargeOwnerSet(t *testing.T) {
	c := newSQLiteContainer(t, nil)
	a := c.API()
	ctx := auth.WithUser(context.Background(), "alice")

	from, err := a.Categories.Create(ctx, categories.CreateInput{Name: "From"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	to, err := a.Categories.Create(ctx, categories.CreateInput{Name: "To"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	const n = 30
	inputs := make([]todos.CreateInput, n)
	for i := range inputs {
		inputs[i] = todos.CreateInput{Title: fmt.Sprintf("todo %d", i), CategoryID: &from.ID}
	}
	created, err := a.Todos.BulkCreate(ctx, inputs)
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}

	stats, err := a.Todos.GetStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	all, err := a.Todos.GetAll(ctx, todos.Pagination{Limit: 100}, todos.Search{})
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if stats.Total != n || all.Total != n {
		t.Errorf("expected %d from stats and listing, got stats %d listing %d", n, stats.Total, all.Total)
	}

	if err := a.Categories.DeleteWithReassignment(ctx, from.ID, &to.ID); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	moved, err := a.Todos.GetWithFilters(ctx, todos.Filters{CategoryID: &to.ID}, todos.Pagination{Limit: 100}, "")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if moved.Total != n || len(moved.Data) != n {
		t.Errorf("expected all %d todos moved, got total %d rows %d", n, moved.Total, len(moved.Data))
	}

	ids := make([]string, len(created))
	for i, todo := range created {
		ids[i] = todo.ID
	}
	deleted, err := a.Todos.BulkDelete(ctx, ids)
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if deleted != n {
		t.Errorf("expected %d deleted, got %d", n, deleted)
	}
}

func TestEndToEnd_CachedReads(t *testing.T) {
	service := testsupport.NewMemoryCache()
	c := newSQLiteContainer(t, service)
	a := c.API()
	ctx := auth.WithUser(context.Background(), "alice")

	created, err := a.Todos.Create(ctx, todos.CreateInput{Title: "cached"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := a.Todos.GetByID(ctx, created.ID); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	if service.Hits < 2 {
		t.Errorf("expected repeated reads to hit the cache, got %d hits", service.Hits)
	}

	if _, err := a.Todos.Update(ctx, created.ID, todos.UpdateInput{Title: ptr("renamed")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := a.Todos.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Title != "renamed" {
		t.Errorf("expected the updated title after invalidation, got %q", got.Title)
	}
}

func ptr[T any](v T) *T { return &v }

type ownerFixture struct {
	Owners []struct {
		ID    string   `json:"id"`
		Todos []string `json:"todos"`
	} `json:"owners"`
}

func TestEndToEnd_OwnerIsolation(t *testing.T) {
	var fixture ownerFixture
	testsupport.LoadFixtureJSON(t, testsupport.FixturePath("owners.json"), &fixture)

	c := newSQLiteContainer(t, testsupport.NewMemoryCache())
	a := c.API()

	owned := make(map[string][]string)
	for _, owner := range fixture.Owners {
		ctx := auth.WithUser(context.Background(), owner.ID)
		inputs := make([]todos.CreateInput, len(owner.Todos))
		for i, title := range owner.Todos {
			inputs[i] = todos.CreateInput{Title: title}
		}
		created, err := a.Todos.BulkCreate(ctx, inputs)
		if err != nil {
			t.Fatalf("seed %s: %v", owner.ID, err)
		}
		for _, todo := range created {
			owned[owner.ID] = append(owned[owner.ID], todo.ID)
		}
	}

	for _, owner := range fixture.Owners {
		t.Run(owner.ID, func(t *testing.T) {
			ctx := auth.WithUser(context.Background(), owner.ID)

			page, err := a.Todos.GetAll(ctx, todos.Pagination{Limit: 100}, todos.Search{})
			if err != nil {
				t.Fatalf("get all: %v", err)
			}
			if page.Total != len(owner.Todos) {
				t.Errorf("expected %d todos, got %d", len(owner.Todos), page.Total)
			}
			for _, todo := range page.Data {
				if todo.CreatedBy != owner.ID {
					t.Errorf("expected only %s's todos, got one by %s", owner.ID, todo.CreatedBy)
				}
			}

			for other, ids := range owned {
				if other == owner.ID {
					continue
				}
				for _, id := range ids {
					if _, err := a.Todos.GetByID(ctx, id); !goerrors.IsNotFound(err) {
						t.Errorf("expected %s's todo to be hidden, got %v", other, err)
					}
					if err := a.Todos.Delete(ctx, id); !goerrors.IsNotFound(err) {
						t.Errorf("expected deleting %s's todo to fail, got %v", other, err)
					}
				}
			}
		})
	}
}

package api

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-productivity/auth"
	"github.com/goliatone/go-productivity/cache"
	"github.com/goliatone/go-productivity/categories"
	"github.com/goliatone/go-productivity/events"
	"github.com/goliatone/go-productivity/notes"
	"github.com/goliatone/go-productivity/pkg/testsupport"
	"github.com/goliatone/go-productivity/repositorycache"
	"github.com/goliatone/go-productivity/store/memstore"
	"github.com/goliatone/go-productivity/todos"
)

var monday = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

type fixture struct {
	api        *API
	todoStore  *testsupport.FlakyStore[*todos.Todo]
	eventStore *testsupport.FlakyStore[*events.Event]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := testsupport.NewClock(monday)
	shared := repositorycache.Shared{
		Cache:    cache.NewClient(testsupport.NewMemoryCache(), zerolog.Nop()),
		Identity: auth.ContextResolver{},
		Logger:   zerolog.Nop(),
		Clock:    clock.Now,
	}

	f := &fixture{
		todoStore:  testsupport.NewFlakyStore(memstore.New[*todos.Todo](todos.Table)),
		eventStore: testsupport.NewFlakyStore(memstore.New[*events.Event](events.Table)),
	}
	todoRepo := todos.NewRepository(f.todoStore, shared)
	noteRepo := notes.NewRepository(memstore.New[*notes.Note](notes.Table), shared)
	eventRepo := events.NewRepository(f.eventStore, shared)
	categoryRepo := categories.NewRepository(memstore.New[*categories.Category](categories.Table), categories.Referrers{
		Todos:  todoRepo,
		Notes:  noteRepo,
		Events: eventRepo,
	}, shared)

	f.api = New(Repositories{
		Todos:      todoRepo,
		Notes:      noteRepo,
		Events:     eventRepo,
		Categories: categoryRepo,
	}, zerolog.Nop())
	return f
}

func as(user string) context.Context {
	return auth.WithUser(context.Background(), user)
}

func ptr[T any](v T) *T { return &v }

func TestFacade_ErrorsCarryFixedMessages(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")

	tests := []struct {
		name     string
		call     func() error
		message  string
		category goerrors.Category
	}{
		{
			name: "validation",
			call: func() error {
				_, err := f.api.Todos.Create(ctx, todos.CreateInput{})
				return err
			},
			message:  "Failed to create todo",
			category: goerrors.CategoryValidation,
		},
		{
			name: "not found",
			call: func() error {
				_, err := f.api.Notes.GetByID(ctx, "missing")
				return err
			},
			message:  "Failed to fetch note",
			category: goerrors.CategoryNotFound,
		},
		{
			name: "unauthenticated",
			call: func() error {
				_, err := f.api.Events.GetStats(context.Background())
				return err
			},
			message:  "Failed to fetch event statistics",
			category: goerrors.CategoryAuth,
		},
		{
			name: "conflict",
			call: func() error {
				c, err := f.api.Categories.Create(ctx, categories.CreateInput{Name: "Work"})
				if err != nil {
					return err
				}
				if _, err := f.api.Todos.Create(ctx, todos.CreateInput{Title: "t", CategoryID: &c.ID}); err != nil {
					return err
				}
				return f.api.Categories.Delete(ctx, c.ID)
			},
			message:  "Failed to delete category",
			category: goerrors.CategoryConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var e *goerrors.Error
			if !goerrors.As(err, &e) {
				t.Fatalf("expected *goerrors.Error, got %T %v", err, err)
			}
			if e.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, e.Message)
			}
			if e.Category != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, e.Category)
			}
			if e.Source == nil {
				t.Error("expected the underlying error as source")
			}
		})
	}
}

func TestFacade_KeepsValidationDetails(t *testing.T) {
	f := newFixture(t)
	_, err := f.api.Categories.Create(as("alice"), categories.CreateInput{Name: "x", Color: "red"})

	var e *goerrors.Error
	if !goerrors.As(err, &e) {
		t.Fatalf("expected *goerrors.Error, got %v", err)
	}
	if e.TextCode != repositorycache.TextCodeValidation {
		t.Errorf("expected text code %s, got %s", repositorycache.TextCodeValidation, e.TextCode)
	}
	if len(e.ValidationErrors) == 0 {
		t.Error("expected field errors to survive the facade")
	}
}

func TestFacade_PlainErrorsBecomeInternal(t *testing.T) {
	err := fail(zerolog.Nop(), "op", "Failed to do it", errors.New("boom"))
	if !goerrors.IsCategory(err, goerrors.CategoryInternal) {
		t.Fatalf("expected internal category, got %v", err)
	}
	if fail(zerolog.Nop(), "op", "unused", nil) != nil {
		t.Error("expected nil for a nil error")
	}
}

func TestDashboard_GetDashboardData(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")

	work, err := f.api.Categories.Create(ctx, categories.CreateInput{Name: "Work"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	todoInputs := []todos.CreateInput{
		{Title: "late", DueDate: ptr(monday.Add(-24 * time.Hour)), CategoryID: &work.ID},
		{Title: "today", DueDate: ptr(monday.Add(3 * time.Hour))},
		{Title: "done", Status: todos.StatusCompleted},
	}
	if _, err := f.api.Todos.BulkCreate(ctx, todoInputs); err != nil {
		t.Fatalf("create todos: %v", err)
	}
	if _, err := f.api.Notes.Create(ctx, notes.CreateInput{Title: "pinned", IsPinned: true, Tags: []string{"go"}}); err != nil {
		t.Fatalf("create note: %v", err)
	}
	if _, err := f.api.Events.Create(ctx, events.CreateInput{
		Title:     "standup",
		StartTime: monday.Add(time.Hour),
		EndTime:   monday.Add(90 * time.Minute),
	}); err != nil {
		t.Fatalf("create event: %v", err)
	}
	// someone else's data never shows up
	if _, err := f.api.Todos.Create(as("bob"), todos.CreateInput{Title: "bob's"}); err != nil {
		t.Fatalf("create todo for bob: %v", err)
	}

	data, err := f.api.Dashboard.GetDashboardData(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if data.Todos.Stats.Total != 3 || len(data.Todos.Recent) != 3 {
		t.Errorf("unexpected todos summary %+v", data.Todos)
	}
	if len(data.Todos.Overdue) != 1 || data.Todos.Overdue[0].Title != "late" {
		t.Errorf("unexpected overdue %v", data.Todos.Overdue)
	}
	if len(data.Todos.DueToday) != 1 || data.Todos.DueToday[0].Title != "today" {
		t.Errorf("unexpected due today %v", data.Todos.DueToday)
	}
	if len(data.Notes.Pinned) != 1 || len(data.Notes.Tags) != 1 || data.Notes.Tags[0] != "go" {
		t.Errorf("unexpected notes summary %+v", data.Notes)
	}
	if len(data.Events.Upcoming) != 1 || len(data.Events.Today) != 1 || len(data.Events.ThisWeek) != 1 {
		t.Errorf("unexpected events summary %+v", data.Events)
	}
	if len(data.Categories.Usage) != 1 || data.Categories.Usage[0].Usage.Todos != 1 {
		t.Errorf("unexpected category usage %+v", data.Categories.Usage)
	}
}

func TestDashboard_GetQuickStats(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")

	if _, err := f.api.Todos.BulkCreate(ctx, []todos.CreateInput{
		{Title: "late", DueDate: ptr(monday.Add(-time.Hour))},
		{Title: "done", Status: todos.StatusCompleted},
	}); err != nil {
		t.Fatalf("create todos: %v", err)
	}
	if _, err := f.api.Events.Create(ctx, events.CreateInput{
		Title:     "review",
		StartTime: monday.Add(48 * time.Hour),
		EndTime:   monday.Add(49 * time.Hour),
	}); err != nil {
		t.Fatalf("create event: %v", err)
	}

	stats, err := f.api.Dashboard.GetQuickStats(ctx)
	if err != nil {
		t.Fatalf("quick stats: %v", err)
	}
	want := QuickStats{
		TotalTodos:     2,
		CompletedTodos: 1,
		TotalEvents:    1,
		UpcomingEvents: 1,
		OverdueTodos:   1,
	}
	if *stats != want {
		t.Errorf("expected %+v, got %+v", want, *stats)
	}
}

func TestDashboard_FailsWhenAnyReadFails(t *testing.T) {
	f := newFixture(t)
	ctx := as("alice")
	f.eventStore.FailOn("Select", errors.New("connection reset"))

	tests := []struct {
		name    string
		call    func() error
		message string
	}{
		{
			name: "dashboard data",
			call: func() error {
				_, err := f.api.Dashboard.GetDashboardData(ctx)
				return err
			},
			message: "Failed to fetch dashboard data",
		},
		{
			name: "quick stats",
			call: func() error {
				_, err := f.api.Dashboard.GetQuickStats(ctx)
				return err
			},
			message: "Failed to fetch quick stats",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e *goerrors.Error
			if err := tt.call(); !goerrors.As(err, &e) {
				t.Fatalf("expected *goerrors.Error, got %v", err)
			}
			if e.Message != tt.message {
				t.Errorf("expected %q, got %q", tt.message, e.Message)
			}
			if e.Category != goerrors.CategoryExternal {
				t.Errorf("expected store failure category, got %s", e.Category)
			}
		})
	}
}

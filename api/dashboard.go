package api

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-productivity/categories"
	"github.com/goliatone/go-productivity/events"
	"github.com/goliatone/go-productivity/notes"
	"github.com/goliatone/go-productivity/todos"
)

// DashboardLimit bounds the recent and upcoming lists of the dashboard.
const DashboardLimit = 5

type TodoSummary struct {
	Stats    todos.Stats   `json:"stats"`
	Overdue  []*todos.Todo `json:"overdue"`
	DueToday []*todos.Todo `json:"dueToday"`
	Recent   []*todos.Todo `json:"recent"`
}

type NoteSummary struct {
	Stats  notes.Stats   `json:"stats"`
	Pinned []*notes.Note `json:"pinned"`
	Recent []*notes.Note `json:"recent"`
	Tags   []string      `json:"tags"`
}

type EventSummary struct {
	Stats    events.Stats    `json:"stats"`
	Upcoming []*events.Event `json:"upcoming"`
	Today    []*events.Event `json:"today"`
	ThisWeek []*events.Event `json:"thisWeek"`
}

type CategorySummary struct {
	Stats categories.Stats           `json:"stats"`
	Usage []categories.CategoryUsage `json:"usage"`
}

type DashboardData struct {
	Todos      TodoSummary     `json:"todos"`
	Notes      NoteSummary     `json:"notes"`
	Events     EventSummary    `json:"events"`
	Categories CategorySummary `json:"categories"`
}

type QuickStats struct {
	TotalTodos     int `json:"totalTodos"`
	CompletedTodos int `json:"completedTodos"`
	TotalNotes     int `json:"totalNotes"`
	TotalEvents    int `json:"totalEvents"`
	UpcomingEvents int `json:"upcomingEvents"`
	OverdueTodos   int `json:"overdueTodos"`
}

// Dashboard aggregates the caller's data across every domain. All reads of one
// call run concurrently and the first failure fails the whole call.
type Dashboard struct {
	todos      *TodoAPI
	notes      *NoteAPI
	events     *EventAPI
	categories *CategoryAPI
	logger     zerolog.Logger
}

func (d *Dashboard) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	var data DashboardData
	g, gctx := errgroup.WithContext(ctx)

	run(g, &data.Todos.Stats, func() (todos.Stats, error) { return d.todos.GetStats(gctx) })
	run(g, &data.Todos.Overdue, func() ([]*todos.Todo, error) { return d.todos.Overdue(gctx) })
	run(g, &data.Todos.DueToday, func() ([]*todos.Todo, error) { return d.todos.DueToday(gctx) })
	run(g, &data.Todos.Recent, func() ([]*todos.Todo, error) {
		page, err := d.todos.GetWithFilters(gctx, todos.Filters{}, todos.Pagination{
			Page:      1,
			Limit:     DashboardLimit,
			SortBy:    "updated_at",
			SortOrder: "desc",
		}, "")
		return page.Data, err
	})

	run(g, &data.Notes.Stats, func() (notes.Stats, error) { return d.notes.GetStats(gctx) })
	run(g, &data.Notes.Pinned, func() ([]*notes.Note, error) { return d.notes.Pinned(gctx) })
	run(g, &data.Notes.Recent, func() ([]*notes.Note, error) { return d.notes.Recent(gctx, DashboardLimit) })
	run(g, &data.Notes.Tags, func() ([]string, error) { return d.notes.AllTags(gctx) })

	run(g, &data.Events.Stats, func() (events.Stats, error) { return d.events.GetStats(gctx) })
	run(g, &data.Events.Upcoming, func() ([]*events.Event, error) { return d.events.Upcoming(gctx, DashboardLimit) })
	run(g, &data.Events.Today, func() ([]*events.Event, error) { return d.events.Today(gctx) })
	run(g, &data.Events.ThisWeek, func() ([]*events.Event, error) { return d.events.ThisWeek(gctx) })

	run(g, &data.Categories.Stats, func() (categories.Stats, error) { return d.categories.GetStats(gctx) })
	run(g, &data.Categories.Usage, func() ([]categories.CategoryUsage, error) { return d.categories.Usage(gctx) })

	if err := g.Wait(); err != nil {
		return nil, fail(d.logger, "dashboard.data", "Failed to fetch dashboard data", err)
	}
	return &data, nil
}

func (d *Dashboard) GetQuickStats(ctx context.Context) (*QuickStats, error) {
	var (
		todoStats  todos.Stats
		noteStats  notes.Stats
		eventStats events.Stats
		overdue    []*todos.Todo
	)
	g, gctx := errgroup.WithContext(ctx)
	run(g, &todoStats, func() (todos.Stats, error) { return d.todos.GetStats(gctx) })
	run(g, &noteStats, func() (notes.Stats, error) { return d.notes.GetStats(gctx) })
	run(g, &eventStats, func() (events.Stats, error) { return d.events.GetStats(gctx) })
	run(g, &overdue, func() ([]*todos.Todo, error) { return d.todos.Overdue(gctx) })

	if err := g.Wait(); err != nil {
		return nil, fail(d.logger, "dashboard.quickStats", "Failed to fetch quick stats", err)
	}
	return &QuickStats{
		TotalTodos:     todoStats.Total,
		CompletedTodos: todoStats.Completed,
		TotalNotes:     noteStats.Total,
		TotalEvents:    eventStats.Total,
		UpcomingEvents: eventStats.Upcoming,
		OverdueTodos:   len(overdue),
	}, nil
}

func run[T any](g *errgroup.Group, dst *T, read func() (T, error)) {
	g.Go(func() error {
		v, err := read()
		if err != nil {
			return err
		}
		*dst = v
		return nil
	})
}

// Package api is the single entry point over the domain repositories. Every
// method logs a failing call and returns an error carrying a fixed message per
// operation, the category of the underlying error, and that error as Source.
package api

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-productivity/categories"
	"github.com/goliatone/go-productivity/events"
	"github.com/goliatone/go-productivity/notes"
	"github.com/goliatone/go-productivity/todos"
)

// Repositories are the domain repositories behind the facade.
type Repositories struct {
	Todos      *todos.Repository
	Notes      *notes.Repository
	Events     *events.Repository
	Categories *categories.Repository
}

type API struct {
	Todos      *TodoAPI
	Notes      *NoteAPI
	Events     *EventAPI
	Categories *CategoryAPI
	Dashboard  *Dashboard
}

func New(repos Repositories, logger zerolog.Logger) *API {
	logger = logger.With().Str("component", "api").Logger()
	a := &API{
		Todos:      &TodoAPI{repo: repos.Todos, logger: logger.With().Str("domain", "todo").Logger()},
		Notes:      &NoteAPI{repo: repos.Notes, logger: logger.With().Str("domain", "note").Logger()},
		Events:     &EventAPI{repo: repos.Events, logger: logger.With().Str("domain", "event").Logger()},
		Categories: &CategoryAPI{repo: repos.Categories, logger: logger.With().Str("domain", "category").Logger()},
	}
	a.Dashboard = &Dashboard{
		todos:      a.Todos,
		notes:      a.Notes,
		events:     a.Events,
		categories: a.Categories,
		logger:     logger.With().Str("domain", "dashboard").Logger(),
	}
	return a
}

// fail replaces the message of err with message. Errors from the repositories
// keep their category, text code, validation errors and metadata.
func fail(logger zerolog.Logger, op, message string, err error) error {
	if err == nil {
		return nil
	}
	logger.Error().Err(err).Str("op", op).Msg(message)

	var e *goerrors.Error
	if goerrors.As(err, &e) {
		out := e.Clone()
		out.Message = message
		out.Source = err
		return out
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, message)
}

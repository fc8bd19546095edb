// Package migrations holds the Postgres schema and applies it with
// golang-migrate. SQLite databases are bootstrapped from the bun models.
package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-productivity/audit"
	"github.com/goliatone/go-productivity/categories"
	"github.com/goliatone/go-productivity/events"
	"github.com/goliatone/go-productivity/notes"
	"github.com/goliatone/go-productivity/store/bunstore"
	"github.com/goliatone/go-productivity/todos"
)

//go:embed sql/*.sql
var files embed.FS

// Runner applies the embedded migrations to one Postgres database.
type Runner struct {
	m *migrate.Migrate
}

// NewRunner opens a migration session for dsn, a postgres:// or postgresql:// URL.
func NewRunner(dsn string, logger zerolog.Logger) (*Runner, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("open migration target: %w", err)
	}
	m.Log = migrateLogger{logger: logger.With().Str("component", "migrations").Logger()}
	return &Runner{m: m}, nil
}

// Up applies every pending migration. An up to date schema is not an error.
func (r *Runner) Up() error {
	if err := r.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Down reverts steps migrations, or all of them when steps is not positive.
func (r *Runner) Down(steps int) error {
	var err error
	if steps > 0 {
		err = r.m.Steps(-steps)
	} else {
		err = r.m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Version reports the applied version, zero when nothing was applied.
func (r *Runner) Version() (uint, bool, error) {
	v, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}

// CreateSchema creates every table from the bun models. It is meant for
// SQLite, which the SQL migrations do not target.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	return bunstore.CreateSchema(ctx, db,
		(*categories.Category)(nil),
		(*todos.Todo)(nil),
		(*notes.Note)(nil),
		(*events.Event)(nil),
		(*audit.ActivityLog)(nil),
	)
}

func databaseURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

type migrateLogger struct {
	logger zerolog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool {
	return l.logger.GetLevel() <= zerolog.DebugLevel
}

package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-productivity/internal/config"
	"github.com/goliatone/go-productivity/internal/migrations"
	"github.com/goliatone/go-productivity/store/bunstore"
)

var downSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the Postgres schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		if cfg.Store.Driver == config.DriverSQLite {
			db, err := bunstore.Open(cmd.Context(), cfg.Store.Driver, cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer db.Close()
			return migrations.CreateSchema(cmd.Context(), db)
		}
		if err := requirePostgres(cfg); err != nil {
			return err
		}
		return migrateUp(cfg.Store.DSN, logger)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		if err := requirePostgres(cfg); err != nil {
			return err
		}
		return withRunner(cfg.Store.DSN, logger, func(r *migrations.Runner) error {
			return r.Down(downSteps)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		if err := requirePostgres(cfg); err != nil {
			return err
		}
		return withRunner(cfg.Store.DSN, logger, func(r *migrations.Runner) error {
			v, dirty, err := r.Version()
			if err != nil {
				return err
			}
			cmd.Printf("version %d (dirty: %t)\n", v, dirty)
			return nil
		})
	},
}

func init() {
	migrateDownCmd.Flags().IntVarP(&downSteps, "steps", "n", 1, "number of migrations to roll back, 0 for all")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}

func requirePostgres(cfg *config.Config) error {
	if cfg.Store.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations need the %s driver, got %q", config.DriverPostgres, cfg.Store.Driver)
	}
	return nil
}

func migrateUp(dsn string, logger zerolog.Logger) error {
	return withRunner(dsn, logger, func(r *migrations.Runner) error {
		return r.Up()
	})
}

func withRunner(dsn string, logger zerolog.Logger, fn func(*migrations.Runner) error) (err error) {
	runner, err := migrations.NewRunner(dsn, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := runner.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(runner)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-productivity/auth"
	"github.com/goliatone/go-productivity/internal/config"
	"github.com/goliatone/go-productivity/internal/httpapi"
	"github.com/goliatone/go-productivity/internal/migrations"
	"github.com/goliatone/go-productivity/pkg/di"
	"github.com/goliatone/go-productivity/store/bunstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

func serve(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	db, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}

	container, err := di.NewContainer(di.Options{
		Cache:  cfg.Cache.ToCache(),
		DB:     db,
		Logger: logger,
	})
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return err
	}
	defer container.Close()

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.Options{
		API:      container.API(),
		Tokens:   tokens,
		Activity: container.Activity(),
		Logger:   logger,
		Release:  cfg.Env == config.EnvProd,
	})
	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.HTTP.Addr).
			Str("store", cfg.Store.Driver).
			Bool("cache", cfg.Cache.Enabled).
			Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("shut down http server")
	return nil
}

// openStore returns nil for the memory driver. With auto_migrate set, Postgres
// runs the embedded migrations and SQLite creates missing tables.
func openStore(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (*bun.DB, error) {
	if cfg.Driver == config.DriverMemory {
		return nil, nil
	}

	db, err := bunstore.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if !cfg.AutoMigrate {
		return db, nil
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		err = migrateUp(cfg.DSN, logger)
	case config.DriverSQLite:
		err = migrations.CreateSchema(ctx, db)
	}
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

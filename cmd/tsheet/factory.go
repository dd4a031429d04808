package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"timesheet-tracker/internal/api"
	"timesheet-tracker/internal/cache"
	"timesheet-tracker/internal/cli"
	"timesheet-tracker/internal/config"
	"timesheet-tracker/internal/httpserver"
	"timesheet-tracker/internal/logging"
	"timesheet-tracker/internal/notification"
	"timesheet-tracker/internal/repository"
	"timesheet-tracker/internal/repository/postgres"
	"timesheet-tracker/internal/services"
	"timesheet-tracker/internal/validation"
)

// AppFactory creates the CLI application for the configured storage driver
type AppFactory struct {
	log zerolog.Logger
}

// NewAppFactory creates a new application factory
func NewAppFactory() *AppFactory {
	return &AppFactory{}
}

// Build opens storage and the optional redis connection, then wires the
// services, both API facades and the HTTP server. The returned function
// closes everything that was opened.
func (f *AppFactory) Build(ctx context.Context, cfg *config.Config) (*cli.App, func() error, error) {
	f.log = logging.Get()
	var closers []func() error
	closeAll := func() error {
		var first error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
	checks := map[string]httpserver.HealthCheck{}

	store, pool, err := f.openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, store.Close)
	if pool != nil {
		checks["postgres"] = pool.Ping
	}

	deps := services.Dependencies{
		Store:    store,
		Config:   cfg,
		Logger:   f.log,
		Notifier: notification.NopNotifier{},
	}

	var client *redis.Client
	if cfg.Redis.Enabled {
		client, err = cache.Connect(ctx, cfg.Redis)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, client.Close)
		deps.Cache = cache.NewReportCache(client, cfg.Redis.CacheTTL)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	if cfg.Notification.Enabled {
		var notifier notification.Notifier = notification.NewRetryNotifier(
			notification.NewLogNotifier(f.log), cfg.Notification.MaxAttempts, cfg.Notification.InitialDelay)
		if client != nil {
			notifier = notification.NewDedupNotifier(notifier, client, cfg.Redis.DedupTTL)
		}
		deps.Notifier = notifier
	}

	svc, err := services.New(deps)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	apiInstance := api.New(svc, loc, validation.NewTimeEntryValidatorWithConfig(cfg))
	businessAPI := api.NewBusinessAPI(svc, loc)

	server := httpserver.New(httpserver.Options{
		API:      apiInstance,
		Business: businessAPI,
		Config:   cfg.Server,
		Logger:   f.log,
		Checks:   checks,
	})

	app := cli.NewApp(apiInstance, businessAPI, cfg).WithServer(server.Run)
	return app, closeAll, nil
}

// openStore opens the configured storage. The pool is returned for postgres
// so readiness can ping it.
func (f *AppFactory) openStore(ctx context.Context, cfg *config.Config) (repository.Store, *pgxpool.Pool, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		f.log.Debug().Msg("using postgres storage")
		return postgres.NewStore(pool), pool, nil
	default:
		if err := os.MkdirAll(cfg.Database.Dir, fs.FileMode(cfg.Database.DirPermissions)); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		path := cfg.GetDatabasePath()
		store, err := repository.OpenSQLite(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database %s: %w", path, err)
		}
		f.log.Debug().Str("path", path).Msg("using sqlite storage")
		return store, nil, nil
	}
}

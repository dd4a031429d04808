package cli

import (
	"context"
	"io"
	"os"
	"time"

	"timesheet-tracker/internal/api"
	"timesheet-tracker/internal/config"
)

// App represents the main CLI application
type App struct {
	api         api.API
	businessAPI api.BusinessAPI
	config      *config.Config
	out         io.Writer
	serve       func(ctx context.Context) error
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(apiInstance api.API, businessAPI api.BusinessAPI, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{
		api:         apiInstance,
		businessAPI: businessAPI,
		config:      cfg,
		out:         os.Stdout,
	}
}

// SetOutput redirects command output
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// WithServer sets the function `tsheet serve` runs until its context ends
func (a *App) WithServer(run func(ctx context.Context) error) *App {
	a.serve = run
	return a
}

// AppFactory builds the App for a resolved configuration. The returned
// function releases whatever the App holds open.
type AppFactory func(ctx context.Context, cfg *config.Config) (*App, func() error, error)

func (a *App) printer() *printer {
	return newPrinter(a.out, a.config.Application.OutputFormat)
}

func (a *App) location() *time.Location {
	loc, err := a.config.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"timesheet-tracker/internal/config"
	"timesheet-tracker/internal/logging"
	"timesheet-tracker/internal/repository/postgres"
)

// Migrator applies a schema migration action to the database at dsn
type Migrator func(action, dsn string) (postgres.MigrationStatus, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd      *cobra.Command
	loader   *config.Loader
	factory  AppFactory
	migrate  Migrator
	config   *config.Config
	app      *App
	closeApp func() error

	configFile string
}

// NewRootCommand creates the root cobra command with global flags. The App
// is built by factory once flags and configuration are resolved.
func NewRootCommand(loader *config.Loader, factory AppFactory) *RootCommand {
	root := &RootCommand{
		loader:  loader,
		factory: factory,
		migrate: postgres.Migrate,
	}

	root.cmd = &cobra.Command{
		Use:   "tsheet",
		Short: "Employee timesheet tracking",
		Long: `tsheet records employee time entries, runs weekly timesheets through
submission and approval, and produces weekly, department and payroll reports.

EXAMPLES:
  tsheet employee add --id EMP001 --first-name John --last-name Doe \
      --email john.doe@company.com --department Engineering --role Developer \
      --rate 75 --start-date 2020-01-15
  tsheet project add --id PROJ001 --name "Website Redesign" --start-date 2024-01-01
  tsheet entry add --employee EMP001 --project PROJ001 \
      --start 2024-01-15T09:00 --end 2024-01-15T17:00
  tsheet timesheet submit --employee EMP001 --week 2024-01-20
  tsheet timesheet approve --employee EMP001 --week 2024-01-20 --approver MGR001
  tsheet report payroll --employee EMP001 --start 2024-01-01 --end 2024-01-31 --xlsx jan.xlsx
  tsheet serve --addr :8080

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > YAML file (--config or TS_CONFIG) > defaults

    TS_DB_DRIVER, TS_DB_DIR, TS_DB_FILENAME, TS_DB_DSN
    TS_PAYROLL_TIMEZONE, TS_PAYROLL_OVERTIME_THRESHOLD, TS_PAYROLL_TAX_RATE
    TS_REDIS_ENABLED, TS_REDIS_ADDR, TS_SERVER_ADDR
    TS_LOG_LEVEL, TS_APP_TIMEOUT, TS_OUTPUT_FORMAT, TS_DEBUG`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig(cmd.Context())
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command and releases the App afterwards
func (r *RootCommand) Execute(ctx context.Context, args []string) error {
	r.cmd.SetArgs(args)
	err := r.cmd.ExecuteContext(ctx)
	if r.closeApp != nil {
		if closeErr := r.closeApp(); closeErr != nil && err == nil {
			err = closeErr
		}
		r.closeApp = nil
	}
	return err
}

// Command exposes the cobra command, mainly for output redirection in tests
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.configFile, "config", "", "YAML configuration file (overrides TS_CONFIG)")

	// Database configuration
	flags.String("db-driver", "", "Storage driver, sqlite or postgres (overrides TS_DB_DRIVER)")
	flags.String("db-dir", "", "SQLite database directory (overrides TS_DB_DIR)")
	flags.String("db-filename", "", "SQLite database filename (overrides TS_DB_FILENAME)")
	flags.String("dsn", "", "Postgres connection string (overrides TS_DB_DSN)")

	flags.String("timezone", "", "Timezone for week boundaries (overrides TS_PAYROLL_TIMEZONE)")

	flags.Bool("redis", false, "Enable the redis report cache (overrides TS_REDIS_ENABLED)")
	flags.String("redis-addr", "", "Redis address (overrides TS_REDIS_ADDR)")

	flags.String("addr", "", "HTTP listen address for serve (overrides TS_SERVER_ADDR)")
	flags.String("log-level", "", "Log level (overrides TS_LOG_LEVEL)")

	// Application configuration
	flags.Duration("timeout", 0, "Command timeout (overrides TS_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TS_APP_VERBOSE)")
	flags.StringP("output", "o", "", "Output format, table or json (overrides TS_OUTPUT_FORMAT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		newEmployeeCommand(r),
		newProjectCommand(r),
		newEntryCommand(r),
		newTimesheetCommand(r),
		newReportCommand(r),
		newHoursCommand(r),
		newServeCommand(r),
		newMigrateCommand(r),
	)
}

// overrides collects the global flags the user actually set
func (r *RootCommand) overrides() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	o := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	boolean := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}

	o.DBDriver = str("db-driver")
	o.DBDir = str("db-dir")
	o.DBFilename = str("db-filename")
	o.DSN = str("dsn")
	o.Timezone = str("timezone")
	o.RedisEnabled = boolean("redis")
	o.RedisAddr = str("redis-addr")
	o.ServerAddr = str("addr")
	o.LogLevel = str("log-level")
	o.Verbose = boolean("verbose")
	o.OutputFormat = str("output")
	if flags.Changed("timeout") {
		v, _ := flags.GetDuration("timeout")
		o.Timeout = &v
	}
	return o
}

// loadConfig resolves the configuration before any command runs
func (r *RootCommand) loadConfig(ctx context.Context) error {
	cfg, err := r.loader.WithFile(r.configFile).LoadWithOverrides(ctx, r.overrides())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	r.config = cfg

	level := cfg.Logging.Level
	if cfg.Application.Verbose {
		level = "debug"
	}
	logging.Init(logging.Options{Level: level, Pretty: cfg.Logging.Pretty})
	return nil
}

// ensureApp builds the App on first use
func (r *RootCommand) ensureApp(ctx context.Context) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	app, closeFn, err := r.factory(ctx, r.config)
	if err != nil {
		return nil, err
	}
	r.app, r.closeApp = app, closeFn
	return app, nil
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// run wraps a command body with App construction, the command timeout and
// user-facing error messages
func (r *RootCommand) run(operation string, body func(ctx context.Context, app *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := r.ensureApp(cmd.Context())
		if err != nil {
			return err
		}
		app.SetOutput(cmd.OutOrStdout())

		ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
		defer cancel()
		return NewErrorHandler().Handle(operation, body(ctx, app, args))
	}
}

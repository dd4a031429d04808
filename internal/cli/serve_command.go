package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"timesheet-tracker/internal/config"
	"timesheet-tracker/internal/errors"
	"timesheet-tracker/internal/logging"
	"timesheet-tracker/internal/repository/postgres"
)

func newServeCommand(root *RootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := root.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			if app.serve == nil {
				return fmt.Errorf("no HTTP server configured")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log := logging.Get()
			log.Info().Str("addr", app.config.Server.Addr).Msg("serving HTTP API")
			return app.serve(ctx)
		},
	}
}

func newMigrateCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}

	action := func(name, short string) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if root.config.Database.Driver != config.DriverPostgres {
					return errors.NewInvalidInputError("db-driver", root.config.Database.Driver,
						"migrations apply to the postgres driver only")
				}
				status, err := root.migrate(name, root.config.Database.DSN)
				if err != nil {
					return fmt.Errorf("failed to migrate %s: %w", name, err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Schema %s\n", status)
				return err
			},
		}
	}

	cmd.AddCommand(
		action(postgres.MigrateUp, "Apply all pending migrations"),
		action(postgres.MigrateDown, "Roll back all migrations"),
		action(postgres.MigrateVersion, "Print the current schema version"),
	)
	return cmd
}

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"timesheet-tracker/internal/api"
)

// ProjectCommand handles the project subcommands
type ProjectCommand struct {
	api api.API
	out *printer
}

// NewProjectCommand creates a new project command handler
func NewProjectCommand(app *App) *ProjectCommand {
	return &ProjectCommand{api: app.api, out: app.printer()}
}

// Add registers a new project
func (c *ProjectCommand) Add(ctx context.Context, in api.ProjectInput) error {
	project, err := c.api.CreateProject(ctx, in)
	if err != nil {
		return err
	}
	return c.out.message(project, "Added project %s (%s)", project.ID, project.Name)
}

// List prints every project with its recorded hours
func (c *ProjectCommand) List(ctx context.Context) error {
	projects, err := c.api.ListProjects(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{p.ID, p.Name, p.Client, p.Status, p.StartDate, p.EndDate, money(p.Budget), hours(p.TotalHours)})
	}
	return c.out.print(projects, []string{"ID", "Name", "Client", "Status", "Start", "End", "Budget", "Hours"}, rows)
}

func newProjectCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	var in api.ProjectInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a project",
		Args:  cobra.NoArgs,
		RunE: root.run("add project", func(ctx context.Context, app *App, _ []string) error {
			return NewProjectCommand(app).Add(ctx, in)
		}),
	}
	flags := add.Flags()
	flags.StringVar(&in.ID, "id", "", "Project ID, e.g. PROJ001")
	flags.StringVar(&in.Name, "name", "", "Project name")
	flags.StringVar(&in.Client, "client", "", "Client name")
	flags.Float64Var(&in.Budget, "budget", 0, "Budget")
	flags.StringVar(&in.StartDate, "start-date", "", "Start date (YYYY-MM-DD)")
	flags.StringVar(&in.EndDate, "end-date", "", "End date (YYYY-MM-DD)")
	flags.StringVar(&in.Status, "status", "", "Project status (default active)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: root.run("list projects", func(ctx context.Context, app *App, _ []string) error {
			return NewProjectCommand(app).List(ctx)
		}),
	}

	cmd.AddCommand(add, list)
	return cmd
}

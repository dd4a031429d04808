package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"timesheet-tracker/internal/api"
	"timesheet-tracker/internal/services"
)

// EmployeeCommand handles the employee subcommands
type EmployeeCommand struct {
	api api.API
	out *printer
}

// NewEmployeeCommand creates a new employee command handler
func NewEmployeeCommand(app *App) *EmployeeCommand {
	return &EmployeeCommand{api: app.api, out: app.printer()}
}

// Add registers a new employee
func (c *EmployeeCommand) Add(ctx context.Context, in api.EmployeeInput) error {
	employee, err := c.api.CreateEmployee(ctx, in)
	if err != nil {
		return err
	}
	return c.out.message(employee, "Added employee %s (%s)", employee.ID, employee.FullName)
}

// List prints every employee
func (c *EmployeeCommand) List(ctx context.Context) error {
	employees, err := c.api.ListEmployees(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []string{e.ID, e.FullName, e.Department, e.Role, money(e.HourlyRate), strconv.FormatBool(e.Active)})
	}
	return c.out.print(employees, []string{"ID", "Name", "Department", "Role", "Rate", "Active"}, rows)
}

// Show prints one employee
func (c *EmployeeCommand) Show(ctx context.Context, id string) error {
	employee, err := c.api.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	return c.out.printFields(employee, employeeFields(employee))
}

// Deactivate marks an employee inactive
func (c *EmployeeCommand) Deactivate(ctx context.Context, id string) error {
	employee, err := c.api.DeactivateEmployee(ctx, id)
	if err != nil {
		return err
	}
	return c.out.message(employee, "Deactivated employee %s", employee.ID)
}

func employeeFields(e *services.EmployeeResponse) [][2]string {
	return [][2]string{
		{"ID", e.ID},
		{"Name", e.FullName},
		{"Email", e.Email},
		{"Department", e.Department},
		{"Role", e.Role},
		{"Hourly Rate", money(e.HourlyRate)},
		{"Manager", e.ManagerID},
		{"Start Date", e.StartDate},
		{"Vacation Days", strconv.Itoa(e.VacationDays)},
		{"Sick Days", strconv.Itoa(e.SickDays)},
		{"Active", strconv.FormatBool(e.Active)},
	}
}

func newEmployeeCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage employees",
	}

	var in api.EmployeeInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		Args:  cobra.NoArgs,
		RunE: root.run("add employee", func(ctx context.Context, app *App, _ []string) error {
			return NewEmployeeCommand(app).Add(ctx, in)
		}),
	}
	flags := add.Flags()
	flags.StringVar(&in.ID, "id", "", "Employee ID, e.g. EMP001")
	flags.StringVar(&in.FirstName, "first-name", "", "First name")
	flags.StringVar(&in.LastName, "last-name", "", "Last name")
	flags.StringVar(&in.Email, "email", "", "Email address")
	flags.StringVar(&in.Department, "department", "", "Department")
	flags.StringVar(&in.Role, "role", "", "Role")
	flags.Float64Var(&in.HourlyRate, "rate", 0, "Hourly rate")
	flags.StringVar(&in.ManagerID, "manager", "", "Manager employee ID")
	flags.StringVar(&in.StartDate, "start-date", "", "Start date (YYYY-MM-DD)")
	flags.IntVar(&in.VacationDays, "vacation-days", 0, "Vacation days")
	flags.IntVar(&in.SickDays, "sick-days", 0, "Sick days")

	list := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: root.run("list employees", func(ctx context.Context, app *App, _ []string) error {
			return NewEmployeeCommand(app).List(ctx)
		}),
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an employee",
		Args:  cobra.ExactArgs(1),
		RunE: root.run("show employee", func(ctx context.Context, app *App, args []string) error {
			return NewEmployeeCommand(app).Show(ctx, args[0])
		}),
	}

	deactivate := &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate an employee",
		Args:  cobra.ExactArgs(1),
		RunE: root.run("deactivate employee", func(ctx context.Context, app *App, args []string) error {
			return NewEmployeeCommand(app).Deactivate(ctx, args[0])
		}),
	}

	cmd.AddCommand(add, list, show, deactivate)
	return cmd
}

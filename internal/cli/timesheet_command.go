package cli

import (
	"context"

	"github.com/spf13/cobra"

	"timesheet-tracker/internal/api"
	"timesheet-tracker/internal/services"
)

// TimesheetCommand handles the weekly timesheet subcommands
type TimesheetCommand struct {
	businessAPI api.BusinessAPI
	out         *printer
}

// NewTimesheetCommand creates a new timesheet command handler
func NewTimesheetCommand(app *App) *TimesheetCommand {
	return &TimesheetCommand{businessAPI: app.businessAPI, out: app.printer()}
}

// Submit submits every draft and rejected entry in the week
func (c *TimesheetCommand) Submit(ctx context.Context, employeeID, week string) error {
	result, err := c.businessAPI.SubmitTimesheet(ctx, employeeID, week)
	return c.done("Submitted", result, err)
}

// Approve approves a fully submitted week
func (c *TimesheetCommand) Approve(ctx context.Context, employeeID, week, approverID string) error {
	result, err := c.businessAPI.ApproveTimesheet(ctx, employeeID, week, approverID)
	return c.done("Approved", result, err)
}

// Reject rejects a fully submitted week
func (c *TimesheetCommand) Reject(ctx context.Context, employeeID, week, approverID, reason string) error {
	result, err := c.businessAPI.RejectTimesheet(ctx, employeeID, week, approverID, reason)
	return c.done("Rejected", result, err)
}

func (c *TimesheetCommand) done(verb string, result *services.TimesheetResult, err error) error {
	if err != nil {
		return err
	}
	return c.out.message(result, "%s %d entries for %s, week of %s (%s)",
		verb, result.Updated, result.EmployeeID, result.WeekStart, result.Status)
}

func newTimesheetCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timesheet",
		Short: "Submit and review weekly timesheets",
	}

	var employeeID, week, approverID, reason string
	weekFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&employeeID, "employee", "", "Employee ID")
		c.Flags().StringVar(&week, "week", "", "Week ending date, or any date in the week")
	}

	submit := &cobra.Command{
		Use:   "submit",
		Short: "Submit a week",
		Args:  cobra.NoArgs,
		RunE: root.run("submit timesheet", func(ctx context.Context, app *App, _ []string) error {
			return NewTimesheetCommand(app).Submit(ctx, employeeID, week)
		}),
	}
	weekFlags(submit)

	approve := &cobra.Command{
		Use:   "approve",
		Short: "Approve a submitted week",
		Args:  cobra.NoArgs,
		RunE: root.run("approve timesheet", func(ctx context.Context, app *App, _ []string) error {
			return NewTimesheetCommand(app).Approve(ctx, employeeID, week, approverID)
		}),
	}
	weekFlags(approve)
	approve.Flags().StringVar(&approverID, "approver", "", "Approving manager ID")

	reject := &cobra.Command{
		Use:   "reject",
		Short: "Reject a submitted week",
		Args:  cobra.NoArgs,
		RunE: root.run("reject timesheet", func(ctx context.Context, app *App, _ []string) error {
			return NewTimesheetCommand(app).Reject(ctx, employeeID, week, approverID, reason)
		}),
	}
	weekFlags(reject)
	reject.Flags().StringVar(&approverID, "approver", "", "Rejecting manager ID")
	reject.Flags().StringVar(&reason, "reason", "", "Rejection reason")

	cmd.AddCommand(submit, approve, reject)
	return cmd
}

package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"timesheet-tracker/internal/api"
	"timesheet-tracker/internal/errors"
	"timesheet-tracker/internal/services"
)

// EntryCommand handles the time entry subcommands
type EntryCommand struct {
	api         api.API
	businessAPI api.BusinessAPI
	out         *printer
}

// NewEntryCommand creates a new entry command handler
func NewEntryCommand(app *App) *EntryCommand {
	return &EntryCommand{api: app.api, businessAPI: app.businessAPI, out: app.printer()}
}

// Add records a new draft entry
func (c *EntryCommand) Add(ctx context.Context, in api.TimeEntryInput) error {
	entry, err := c.api.CreateTimeEntry(ctx, in)
	if err != nil {
		return err
	}
	return c.out.message(entry, "Added entry %d for %s: %s hours on %s", entry.ID, entry.EmployeeID, hours(entry.BillableHours), entry.ProjectID)
}

// Update changes the fields that were supplied and re-validates the entry
func (c *EntryCommand) Update(ctx context.Context, id int64, in api.TimeEntryUpdate) error {
	entry, err := c.api.UpdateTimeEntry(ctx, id, in)
	if err != nil {
		return err
	}
	return c.out.message(entry, "Updated entry %d (%s)", entry.ID, entry.Status)
}

// Show prints one entry
func (c *EntryCommand) Show(ctx context.Context, id int64) error {
	entry, err := c.api.GetTimeEntry(ctx, id)
	if err != nil {
		return err
	}
	return c.out.printFields(entry, [][2]string{
		{"ID", strconv.FormatInt(entry.ID, 10)},
		{"Employee", entry.EmployeeID},
		{"Project", entry.ProjectID},
		{"Start", entry.StartTime},
		{"End", entry.EndTime},
		{"Description", entry.Description},
		{"Elapsed Hours", hours(entry.ElapsedHours)},
		{"Billable Hours", hours(entry.BillableHours)},
		{"Status", entry.Status},
		{"Last Modified", entry.LastModified},
	})
}

// List prints an employee's entries, optionally limited to one week
func (c *EntryCommand) List(ctx context.Context, employeeID, weekOf string) error {
	entries, err := c.api.ListTimeEntries(ctx, employeeID, weekOf)
	if err != nil {
		return err
	}
	return c.out.print(entries, entryHeaders, entryRows(entries))
}

// Delete removes an entry
func (c *EntryCommand) Delete(ctx context.Context, id int64) error {
	if err := c.api.DeleteTimeEntry(ctx, id); err != nil {
		return err
	}
	return c.out.message(map[string]int64{"deleted": id}, "Deleted entry %d", id)
}

// Validate checks an entry without storing it. Failures are printed and
// returned as a validation error.
func (c *EntryCommand) Validate(in api.TimeEntryInput) error {
	result := c.api.ValidateTimeEntry(in)
	if result.IsValid {
		return c.out.message(result, "Entry is valid")
	}
	rows := make([][]string, len(result.Errors))
	for i, msg := range result.Errors {
		rows[i] = []string{msg}
	}
	if err := c.out.print(result, []string{"Error"}, rows); err != nil {
		return err
	}
	return result.Err("time entry is invalid")
}

// Submit moves an entry to submitted
func (c *EntryCommand) Submit(ctx context.Context, id int64) error {
	return c.transitioned(c.businessAPI.SubmitTimeEntry(ctx, id))
}

// Approve moves a submitted entry to approved
func (c *EntryCommand) Approve(ctx context.Context, id int64) error {
	return c.transitioned(c.businessAPI.ApproveTimeEntry(ctx, id))
}

// Reject moves a submitted entry to rejected
func (c *EntryCommand) Reject(ctx context.Context, id int64, reason string) error {
	return c.transitioned(c.businessAPI.RejectTimeEntry(ctx, id, reason))
}

func (c *EntryCommand) transitioned(entry *services.TimeEntryResponse, err error) error {
	if err != nil {
		return err
	}
	return c.out.message(entry, "Entry %d is now %s", entry.ID, entry.Status)
}

var entryHeaders = []string{"ID", "Project", "Start", "End", "Hours", "Billable", "Status", "Description"}

func entryRows(entries []*services.TimeEntryResponse) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.ProjectID,
			e.StartTime,
			e.EndTime,
			hours(e.ElapsedHours),
			hours(e.BillableHours),
			e.Status,
			e.Description,
		})
	}
	return rows
}

// parseEntryID reads an entry ID argument
func parseEntryID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, errors.NewInvalidInputError("entry_id", arg, "must be a positive number")
	}
	return id, nil
}

// entryFlags binds the flags shared by add, update and validate
type entryFlags struct {
	employeeID  string
	projectID   string
	start       string
	end         string
	description string
	billable    float64
}

func (f *entryFlags) register(flags *pflag.FlagSet, withEmployee bool) {
	if withEmployee {
		flags.StringVar(&f.employeeID, "employee", "", "Employee ID")
	}
	flags.StringVar(&f.projectID, "project", "", "Project ID")
	flags.StringVar(&f.start, "start", "", "Start time (ISO-8601)")
	flags.StringVar(&f.end, "end", "", "End time (ISO-8601)")
	flags.StringVar(&f.description, "description", "", "Work description")
	flags.Float64Var(&f.billable, "billable", 0, "Billable hours (computed from the time range when omitted)")
}

func (f *entryFlags) input(flags *pflag.FlagSet) api.TimeEntryInput {
	in := api.TimeEntryInput{
		EmployeeID:  f.employeeID,
		ProjectID:   f.projectID,
		StartTime:   f.start,
		EndTime:     f.end,
		Description: f.description,
	}
	if flags.Changed("billable") {
		billable := f.billable
		in.BillableHours = &billable
	}
	return in
}

// update keeps only the flags that were set
func (f *entryFlags) update(flags *pflag.FlagSet) api.TimeEntryUpdate {
	var in api.TimeEntryUpdate
	str := func(name string, v string) *string {
		if !flags.Changed(name) {
			return nil
		}
		return &v
	}
	in.ProjectID = str("project", f.projectID)
	in.StartTime = str("start", f.start)
	in.EndTime = str("end", f.end)
	in.Description = str("description", f.description)
	if flags.Changed("billable") {
		billable := f.billable
		in.BillableHours = &billable
	}
	return in
}

func newEntryCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record and review time entries",
	}

	var addFlags entryFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a time entry",
		Args:  cobra.NoArgs,
	}
	add.RunE = root.run("add entry", func(ctx context.Context, app *App, _ []string) error {
		return NewEntryCommand(app).Add(ctx, addFlags.input(add.Flags()))
	})
	addFlags.register(add.Flags(), true)

	var updateFlags entryFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a time entry",
		Args:  cobra.ExactArgs(1),
	}
	update.RunE = root.run("update entry", func(ctx context.Context, app *App, args []string) error {
		id, err := parseEntryID(args[0])
		if err != nil {
			return err
		}
		return NewEntryCommand(app).Update(ctx, id, updateFlags.update(update.Flags()))
	})
	updateFlags.register(update.Flags(), false)

	var validateFlags entryFlags
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check a time entry without recording it",
		Args:  cobra.NoArgs,
	}
	validate.RunE = root.run("validate entry", func(_ context.Context, app *App, _ []string) error {
		return NewEntryCommand(app).Validate(validateFlags.input(validate.Flags()))
	})
	validateFlags.register(validate.Flags(), true)

	var employeeID, weekOf string
	list := &cobra.Command{
		Use:   "list",
		Short: "List an employee's entries",
		Args:  cobra.NoArgs,
		RunE: root.run("list entries", func(ctx context.Context, app *App, _ []string) error {
			return NewEntryCommand(app).List(ctx, employeeID, weekOf)
		}),
	}
	list.Flags().StringVar(&employeeID, "employee", "", "Employee ID")
	list.Flags().StringVar(&weekOf, "week", "", "Any date in the week to list")

	byID := func(use, short, operation string, fn func(*EntryCommand, context.Context, int64) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: root.run(operation, func(ctx context.Context, app *App, args []string) error {
				id, err := parseEntryID(args[0])
				if err != nil {
					return err
				}
				return fn(NewEntryCommand(app), ctx, id)
			}),
		}
	}

	show := byID("show", "Show an entry", "show entry", (*EntryCommand).Show)
	del := byID("delete", "Delete a time entry", "delete entry", (*EntryCommand).Delete)
	submit := byID("submit", "Submit an entry", "submit entry", (*EntryCommand).Submit)
	approve := byID("approve", "Approve a submitted entry", "approve entry", (*EntryCommand).Approve)

	var reason string
	reject := byID("reject", "Reject a submitted entry", "reject entry", func(c *EntryCommand, ctx context.Context, id int64) error {
		return c.Reject(ctx, id, reason)
	})
	reject.Flags().StringVar(&reason, "reason", "", "Rejection reason")

	cmd.AddCommand(add, update, show, list, del, validate, submit, approve, reject)
	return cmd
}

func newHoursCommand(root *RootCommand) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Calculate elapsed and billable hours for a time range",
		Args:  cobra.NoArgs,
		RunE: root.run("calculate hours", func(_ context.Context, app *App, _ []string) error {
			h, err := app.businessAPI.CalculateHours(start, end)
			if err != nil {
				return err
			}
			return app.printer().printFields(h, [][2]string{
				{"Start", h.Start},
				{"End", h.End},
				{"Elapsed Hours", hours(h.Elapsed)},
				{"Billable Hours", hours(h.Billable)},
			})
		}),
	}
	cmd.Flags().StringVar(&start, "start", "", "Start time (ISO-8601)")
	cmd.Flags().StringVar(&end, "end", "", "End time (ISO-8601)")
	return cmd
}

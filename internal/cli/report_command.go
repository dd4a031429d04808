package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"timesheet-tracker/internal/api"
	"timesheet-tracker/internal/export"
	"timesheet-tracker/internal/services"
)

// ReportCommand handles the report subcommands
type ReportCommand struct {
	businessAPI api.BusinessAPI
	out         *printer
}

// NewReportCommand creates a new report command handler
func NewReportCommand(app *App) *ReportCommand {
	return &ReportCommand{businessAPI: app.businessAPI, out: app.printer()}
}

// Weekly prints an employee's week by project. A non-empty xlsx path
// writes a workbook instead.
func (c *ReportCommand) Weekly(ctx context.Context, employeeID, weekOf, xlsx string) error {
	report, err := c.businessAPI.WeeklyReport(ctx, employeeID, weekOf)
	if err != nil {
		return err
	}
	if xlsx != "" {
		return c.writeWorkbook(report, xlsx, func(f *os.File) error {
			return export.WriteWeeklyWorkbook(f, []*services.WeeklyReport{report})
		})
	}

	projects := make([]string, 0, len(report.Projects))
	for id := range report.Projects {
		projects = append(projects, id)
	}
	sort.Strings(projects)
	rows := make([][]string, 0, len(projects))
	for _, id := range projects {
		rows = append(rows, []string{id, hours(report.Projects[id])})
	}

	if c.out.format == formatJSON {
		return c.out.print(report, nil, nil)
	}
	if err := c.out.printFields(report, [][2]string{
		{"Employee", report.EmployeeName + " (" + report.EmployeeID + ")"},
		{"Week", report.Week},
		{"Total Hours", hours(report.TotalHours)},
		{"Billable Hours", hours(report.BillableHours)},
		{"Overtime", hours(report.Overtime)},
		{"Gross Pay", money(report.GrossPay)},
	}); err != nil {
		return err
	}
	return c.out.print(report, []string{"Project", "Hours"}, rows)
}

// Summary prints an employee's week totals and unified status
func (c *ReportCommand) Summary(ctx context.Context, employeeID, weekOf string) error {
	summary, err := c.businessAPI.TimesheetSummary(ctx, employeeID, weekOf)
	if err != nil {
		return err
	}
	return c.out.print(summary, summaryHeaders, summaryRows([]*services.TimesheetSummary{summary}))
}

// Department prints the week summary of every active employee in a department
func (c *ReportCommand) Department(ctx context.Context, department, weekOf string) error {
	summaries, err := c.businessAPI.DepartmentReport(ctx, department, weekOf)
	if err != nil {
		return err
	}
	return c.out.print(summaries, summaryHeaders, summaryRows(summaries))
}

// Payroll prints approved hours and pay for a period. A non-empty xlsx
// path writes a workbook instead.
func (c *ReportCommand) Payroll(ctx context.Context, employeeID, start, end, xlsx string) error {
	report, err := c.businessAPI.PayrollReport(ctx, employeeID, start, end)
	if err != nil {
		return err
	}
	if xlsx != "" {
		return c.writeWorkbook(report, xlsx, func(f *os.File) error {
			return export.WritePayrollWorkbook(f, []*services.PayrollReport{report})
		})
	}
	return c.out.printFields(report, [][2]string{
		{"Employee", report.EmployeeName + " (" + report.EmployeeID + ")"},
		{"Period", report.Period.Start + " to " + report.Period.End},
		{"Total Hours", hours(report.TotalHours)},
		{"Billable Hours", hours(report.BillableHours)},
		{"Hourly Rate", money(report.HourlyRate)},
		{"Gross Pay", money(report.GrossPay)},
		{"Tax", money(report.TaxAmount)},
		{"Net Pay", money(report.NetPay)},
	})
}

func (c *ReportCommand) writeWorkbook(report any, path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return c.out.message(report, "Wrote %s", path)
}

var summaryHeaders = []string{"Employee", "Name", "Week", "Hours", "Billable", "Entries", "Status"}

func summaryRows(summaries []*services.TimesheetSummary) [][]string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.EmployeeID,
			s.EmployeeName,
			s.WeekStart,
			hours(s.TotalHours),
			hours(s.TotalBillableHours),
			strconv.Itoa(s.EntryCount),
			strings.ToUpper(string(s.Status)),
		})
	}
	return rows
}

func newReportCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Weekly, department and payroll reports",
	}

	var employeeID, weekOf, department, start, end, xlsx string

	weekly := &cobra.Command{
		Use:   "weekly",
		Short: "Hours by project for one employee's week",
		Args:  cobra.NoArgs,
		RunE: root.run("generate weekly report", func(ctx context.Context, app *App, _ []string) error {
			return NewReportCommand(app).Weekly(ctx, employeeID, weekOf, xlsx)
		}),
	}
	weekly.Flags().StringVar(&employeeID, "employee", "", "Employee ID")
	weekly.Flags().StringVar(&weekOf, "week", "", "Any date in the week")
	weekly.Flags().StringVar(&xlsx, "xlsx", "", "Write an Excel workbook to this file")

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Week totals and status for one employee",
		Args:  cobra.NoArgs,
		RunE: root.run("generate timesheet summary", func(ctx context.Context, app *App, _ []string) error {
			return NewReportCommand(app).Summary(ctx, employeeID, weekOf)
		}),
	}
	summary.Flags().StringVar(&employeeID, "employee", "", "Employee ID")
	summary.Flags().StringVar(&weekOf, "week", "", "Any date in the week")

	dept := &cobra.Command{
		Use:   "department",
		Short: "Week summaries for a department",
		Args:  cobra.NoArgs,
		RunE: root.run("generate department report", func(ctx context.Context, app *App, _ []string) error {
			return NewReportCommand(app).Department(ctx, department, weekOf)
		}),
	}
	dept.Flags().StringVar(&department, "department", "", "Department name")
	dept.Flags().StringVar(&weekOf, "week", "", "Any date in the week")

	payroll := &cobra.Command{
		Use:   "payroll",
		Short: "Approved hours and pay for a period",
		Args:  cobra.NoArgs,
		RunE: root.run("generate payroll report", func(ctx context.Context, app *App, _ []string) error {
			return NewReportCommand(app).Payroll(ctx, employeeID, start, end, xlsx)
		}),
	}
	payroll.Flags().StringVar(&employeeID, "employee", "", "Employee ID")
	payroll.Flags().StringVar(&start, "start", "", "Period start date")
	payroll.Flags().StringVar(&end, "end", "", "Period end date (inclusive)")
	payroll.Flags().StringVar(&xlsx, "xlsx", "", "Write an Excel workbook to this file")

	cmd.AddCommand(weekly, summary, dept, payroll)
	return cmd
}

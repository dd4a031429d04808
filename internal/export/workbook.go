// Package export renders reports as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"timesheet-tracker/internal/services"
)

const (
	PayrollSheet = "Payroll"
	WeeklySheet  = "Weekly"
)

var payrollHeader = []interface{}{
	"Employee ID", "Employee", "Period Start", "Period End",
	"Total Hours", "Billable Hours", "Hourly Rate", "Gross Pay", "Tax", "Net Pay",
}

var weeklyHeader = []interface{}{
	"Employee ID", "Employee", "Week", "Total Hours",
	"Billable Hours", "Overtime", "Gross Pay", "Projects",
}

// WritePayrollWorkbook writes one row per payroll report.
func WritePayrollWorkbook(w io.Writer, reports []*services.PayrollReport) error {
	rows := make([][]interface{}, len(reports))
	for i, r := range reports {
		rows[i] = []interface{}{
			r.EmployeeID, r.EmployeeName, r.Period.Start, r.Period.End,
			r.TotalHours, r.BillableHours, r.HourlyRate, r.GrossPay, r.TaxAmount, r.NetPay,
		}
	}
	return writeSheet(w, PayrollSheet, payrollHeader, rows)
}

// WriteWeeklyWorkbook writes one row per weekly report. Project hours are
// flattened into "ID=hours" pairs sorted by project.
func WriteWeeklyWorkbook(w io.Writer, reports []*services.WeeklyReport) error {
	rows := make([][]interface{}, len(reports))
	for i, r := range reports {
		rows[i] = []interface{}{
			r.EmployeeID, r.EmployeeName, r.Week, r.TotalHours,
			r.BillableHours, r.Overtime, r.GrossPay, projectColumn(r.Projects),
		}
	}
	return writeSheet(w, WeeklySheet, weeklyHeader, rows)
}

func writeSheet(w io.Writer, sheet string, header []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func projectColumn(projects map[string]float64) string {
	ids := make([]string, 0, len(projects))
	for id := range projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s=%g", id, projects[id])
	}
	return strings.Join(parts, "; ")
}

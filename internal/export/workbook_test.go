package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"timesheet-tracker/internal/services"
)

func readRows(t *testing.T, buf *bytes.Buffer, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheet}, f.GetSheetList())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestWritePayrollWorkbook(t *testing.T) {
	var buf bytes.Buffer
	err := WritePayrollWorkbook(&buf, []*services.PayrollReport{{
		EmployeeID:   "EMP001",
		EmployeeName: "John Doe",
		Period:       services.PayrollPeriod{Start: "2024-01-01T00:00:00.000Z", End: "2024-01-31T23:59:59.999Z"},
		TotalHours:    12,
		BillableHours: 10.5,
		HourlyRate:    75,
		GrossPay:      900,
		TaxAmount:     225,
		NetPay:        675,
	}})
	require.NoError(t, err)

	rows := readRows(t, &buf, PayrollSheet)
	require.Len(t, rows, 2)
	assert.Equal(t, "Employee ID", rows[0][0])
	assert.Equal(t, "Net Pay", rows[0][9])
	assert.Equal(t, []string{
		"EMP001", "John Doe", "2024-01-01T00:00:00.000Z", "2024-01-31T23:59:59.999Z",
		"12", "10.5", "75", "900", "225", "675",
	}, rows[1])
}

func TestWriteWeeklyWorkbook(t *testing.T) {
	tests := []struct {
		name     string
		reports  []*services.WeeklyReport
		expected [][]string
	}{
		{
			name:    "header only",
			reports: nil,
		},
		{
			name: "projects flattened in order",
			reports: []*services.WeeklyReport{{
				EmployeeID:    "EMP001",
				EmployeeName:  "John Doe",
				Week:          "2024-01-14",
				TotalHours:    42,
				BillableHours: 12,
				Projects:      map[string]float64{"PROJ002": 30, "PROJ001": 12},
				Overtime:      2,
				GrossPay:      900,
			}},
			expected: [][]string{
				{"EMP001", "John Doe", "2024-01-14", "42", "12", "2", "900", "PROJ001=12; PROJ002=30"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteWeeklyWorkbook(&buf, tt.reports))

			rows := readRows(t, &buf, WeeklySheet)
			require.Len(t, rows, 1+len(tt.expected))
			assert.Equal(t, "Projects", rows[0][7])
			for i, row := range tt.expected {
				assert.Equal(t, row, rows[i+1])
			}
		})
	}
}

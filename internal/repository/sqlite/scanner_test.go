package sqlite

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanner implements the Scanner interface for testing
type TestScanner struct {
	data []interface{}
	err  error
}

func (ts *TestScanner) Scan(dest ...interface{}) error {
	if ts.err != nil {
		return ts.err
	}

	if len(dest) != len(ts.data) {
		return errors.New("mismatch in number of destinations")
	}

	for i, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = ts.data[i].(int64)
		case *int:
			*v = ts.data[i].(int)
		case *float64:
			*v = ts.data[i].(float64)
		case *string:
			*v = ts.data[i].(string)
		case *sql.NullString:
			*v = ts.data[i].(sql.NullString)
		case *sql.NullBool:
			*v = ts.data[i].(sql.NullBool)
		}
	}

	return nil
}

// TestRows implements the Rows interface over a list of scanners
type TestRows struct {
	rows []*TestScanner
	pos  int
	err  error
}

func (tr *TestRows) Next() bool {
	if tr.pos >= len(tr.rows) {
		return false
	}
	tr.pos++
	return true
}

func (tr *TestRows) Scan(dest ...interface{}) error {
	return tr.rows[tr.pos-1].Scan(dest...)
}

func (tr *TestRows) Err() error {
	return tr.err
}

func ns(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func timeEntryRow(id int64, status string) *TestScanner {
	return &TestScanner{data: []interface{}{
		id, "E1", "P1",
		"2024-01-15T09:00:00.000Z", "2024-01-15T17:00:00.000Z",
		ns("Feature work"), 8.0, ns(status),
		"2024-01-15T08:00:00.000Z", "2024-01-15T18:00:00.000Z",
	}}
}

func TestScanTimeEntry(t *testing.T) {
	entry, err := ScanTimeEntry(timeEntryRow(1, "submitted"))

	require.NoError(t, err)
	assert.Equal(t, &TimeEntry{
		ID:            1,
		EmployeeID:    "E1",
		ProjectID:     "P1",
		StartTime:     time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC),
		Description:   "Feature work",
		BillableHours: 8,
		Status:        "submitted",
		CreatedAt:     time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
		LastModified:  time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC),
	}, entry)
}

func TestScanTimeEntry_Errors(t *testing.T) {
	_, err := ScanTimeEntry(&TestScanner{err: sql.ErrNoRows})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	bad := timeEntryRow(1, "draft")
	bad.data[3] = "not a time"
	_, err = ScanTimeEntry(bad)
	assert.Error(t, err)
}

func TestScanTimeEntries(t *testing.T) {
	rows := &TestRows{rows: []*TestScanner{timeEntryRow(1, "draft"), timeEntryRow(2, "approved")}}

	entries, err := ScanTimeEntries(rows)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[1].ID)
	assert.Equal(t, "approved", entries[1].Status)

	_, err = ScanTimeEntries(&TestRows{err: errors.New("cursor failed")})
	assert.EqualError(t, err, "cursor failed")
}

func TestScanEmployee(t *testing.T) {
	tests := []struct {
		name       string
		active     sql.NullBool
		managerID  sql.NullString
		wantActive bool
		wantMgr    *string
	}{
		{"active with manager", sql.NullBool{Bool: true, Valid: true}, ns("E2"), true, strPtr("E2")},
		{"inactive without manager", sql.NullBool{Bool: false, Valid: true}, sql.NullString{}, false, nil},
		{"null active defaults to active", sql.NullBool{}, ns(""), true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := &TestScanner{data: []interface{}{
				"E1", "Ada", "Lovelace", ns("ada@example.com"), ns("engineering"), ns("developer"),
				75.0, tt.active, tt.managerID, ns("2020-01-15"), 20, 5,
			}}

			employee, err := ScanEmployee(scanner)

			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, employee.IsActive)
			assert.Equal(t, tt.wantMgr, employee.ManagerID)
			assert.Equal(t, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), employee.StartDate)
			assert.Equal(t, 20, employee.VacationDays)
		})
	}
}

func TestScanProject(t *testing.T) {
	scanner := &TestScanner{data: []interface{}{
		"P1", "Website Redesign", ns("Acme Corp"), 50000.0,
		ns("2024-01-01"), sql.NullString{}, ns("active"), 0.0,
	}}

	project, err := ScanProject(scanner)

	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", project.Client)
	assert.Nil(t, project.EndDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), project.StartDate)
}

func strPtr(s string) *string {
	return &s
}

package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"timesheet-tracker/internal/domain"
	apperrors "timesheet-tracker/internal/errors"
)

var entryColumnNames = []string{"id", "employee_id", "project_id", "start_time", "end_time", "description",
	"billable_hours", "status", "created_at", "last_modified"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mock.Close()
	})
	return mock
}

func TestTranslatePgError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantType apperrors.ErrorType
		wantCode string
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrorTypeNotFound, apperrors.CodeNotFound},
		{"unique", &pgconn.PgError{Code: uniqueViolationCode}, apperrors.ErrorTypeConflict, apperrors.CodeDuplicate},
		{"foreign key", &pgconn.PgError{Code: foreignKeyViolationCode}, apperrors.ErrorTypeValidation, apperrors.CodeValidationFailed},
		{"check", &pgconn.PgError{Code: checkViolationCode, ConstraintName: "time_entries_status_check"}, apperrors.ErrorTypeValidation, apperrors.CodeValidationFailed},
		{"other", errors.New("connection reset"), apperrors.ErrorTypeDatabase, apperrors.CodeDatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translatePgError(tt.err, "op", "time entry", "7")
			appErr, ok := apperrors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.Type != tt.wantType || appErr.Code != tt.wantCode {
				t.Fatalf("got %v/%s, want %v/%s", appErr.Type, appErr.Code, tt.wantType, tt.wantCode)
			}
		})
	}

	if translatePgError(nil, "op", "x", "y") != nil {
		t.Fatalf("nil error should stay nil")
	}
}

func TestEmployeeRepository_FindByID(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewEmployeeRepository(mock)

	start := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "first_name", "last_name", "email", "department", "role",
		"hourly_rate", "is_active", "manager_id", "start_date", "vacation_days", "sick_days"}).
		AddRow("EMP001", "John", "Doe", "john.doe@company.com",
			"Engineering", "Senior Developer",
			75.0, true, "EMP002", start, 10, 2)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM employees WHERE id = $1`)).
		WithArgs("EMP001").
		WillReturnRows(rows)

	employee, err := repo.FindByID(context.Background(), "EMP001")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if employee.FullName() != "John Doe" || employee.ManagerID != "EMP002" || !employee.Active {
		t.Fatalf("unexpected employee %+v", employee)
	}
	if !employee.StartDate.Equal(start) {
		t.Fatalf("start date = %v, want %v", employee.StartDate, start)
	}
}

func TestEmployeeRepository_FindByID_NotFound(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM employees WHERE id = $1`)).
		WithArgs("EMP404").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "EMP404")
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEmployeeRepository_Update_NoRows(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewEmployeeRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE employees`)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), domain.Employee{ID: "EMP404"})
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTimeEntryRepository_SaveNew(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewTimeEntryRepository(mock)

	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	entry := domain.NewTimeEntry("EMP001", "PROJ001", start, start.Add(8*time.Hour), start)
	entry.Status = ""

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO time_entries`)).
		WithArgs("EMP001", "PROJ001", entry.StartTime, entry.EndTime, "", 0.0, "draft", start, start).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(41)))

	saved, err := repo.Save(context.Background(), entry)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.ID != 41 || saved.Status != domain.StatusDraft {
		t.Fatalf("unexpected saved entry %+v", saved)
	}
}

func TestTimeEntryRepository_SaveExisting(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewTimeEntryRepository(mock)

	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	entry := domain.NewTimeEntry("EMP001", "PROJ001", start, start.Add(8*time.Hour), start)
	entry.ID = 41
	entry.Status = domain.StatusSubmitted

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE time_entries`)).
		WithArgs("EMP001", "PROJ001", entry.StartTime, entry.EndTime, "", 0.0, "submitted", start, int64(41)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if _, err := repo.Save(context.Background(), entry); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
}

func TestTimeEntryRepository_FindByEmployee_Week(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewTimeEntryRepository(mock)

	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	week := domain.WeekRange(start, time.UTC)

	rows := pgxmock.NewRows(entryColumnNames).
		AddRow(int64(1), "EMP001", "PROJ001", start, start.Add(8*time.Hour),
			"Feature work", 8.0, "submitted", start, start).
		AddRow(int64(2), "EMP001", "PROJ002", start.Add(24*time.Hour), start.Add(28*time.Hour),
			nil, 4.0, "draft", start, start)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE employee_id = $1 AND start_time >= $2 AND start_time <= $3`)).
		WithArgs("EMP001", week.Start, week.End).
		WillReturnRows(rows)

	entries, err := repo.FindByEmployee(context.Background(), "EMP001", &week)
	if err != nil {
		t.Fatalf("FindByEmployee returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Status != domain.StatusSubmitted || entries[0].Description != "Feature work" {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].Description != "" || entries[1].ElapsedHours() != 4 {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
}

func TestTimeEntryRepository_Delete_NotFound(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewTimeEntryRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM time_entries WHERE id = $1`)).
		WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 9)
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTimeEntryRepository_SumBillableHours(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewTimeEntryRepository(mock)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(billable_hours), 0)`)).
		WithArgs("EMP001", "approved", from, to).
		WillReturnRows(pgxmock.NewRows([]string{"total"}).AddRow(12.5))

	total, err := repo.SumBillableHours(context.Background(), "EMP001", domain.StatusApproved, from, to)
	if err != nil {
		t.Fatalf("SumBillableHours returned error: %v", err)
	}
	if total != 12.5 {
		t.Fatalf("total = %v, want 12.5", total)
	}
}

func TestProjectRepository_FindAll(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	repo := NewProjectRepository(mock)

	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "name", "client", "budget", "start_date", "end_date", "status", "total_hours"}).
		AddRow("PROJ002", "Mobile App Development", "Beta Industries", 75000.0,
			nil, end, "active", 0.0)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM projects ORDER BY name ASC`)).WillReturnRows(rows)

	projects, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(projects) != 1 || projects[0].EndDate == nil || !projects[0].EndDate.Equal(end) {
		t.Fatalf("unexpected projects %+v", projects)
	}
	if !projects[0].StartDate.IsZero() {
		t.Fatalf("expected zero start date, got %v", projects[0].StartDate)
	}
}

func TestMigrate_UnsupportedAction(t *testing.T) {
	t.Parallel()

	if _, err := Migrate("sideways", "postgres://invalid"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMigrationStatus_String(t *testing.T) {
	t.Parallel()

	if got := (MigrationStatus{None: true}).String(); got != "no migration applied" {
		t.Fatalf("got %q", got)
	}
	if got := (MigrationStatus{Version: 3}).String(); got != "version=3 dirty=false" {
		t.Fatalf("got %q", got)
	}
}

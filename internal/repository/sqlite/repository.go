package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"timesheet-tracker/internal/errors"
	"timesheet-tracker/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the interface for database operations
type Repository interface {
	// Employees
	CreateEmployee(ctx context.Context, employee *Employee) error
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	UpdateEmployee(ctx context.Context, employee *Employee) error

	// Projects
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	UpdateProject(ctx context.Context, project *Project) error

	// Time entries
	CreateTimeEntry(ctx context.Context, entry *TimeEntry) error
	GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error)
	ListTimeEntries(ctx context.Context, filter EntryFilter) ([]*TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error
	DeleteTimeEntry(ctx context.Context, id int64) error
	SumBillableHours(ctx context.Context, employeeID, status string, from, to time.Time) (float64, error)

	// WithinTx runs fn in a transaction carried by ctx. Nested calls join the
	// outer transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance. dbPath may be ":memory:".
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// One connection: SQLite has a single writer and every :memory:
	// connection is its own database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("enable foreign keys", err)
	}

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// DB exposes the underlying handle, mainly for migration tooling
func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) conn(ctx context.Context) DBTX {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return r.db
}

// WithinTx runs fn inside a transaction, committing when fn returns nil
func (r *SQLiteRepository) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit transaction", err)
	}
	return nil
}

// CreateEmployee inserts a new employee
func (r *SQLiteRepository) CreateEmployee(ctx context.Context, employee *Employee) error {
	query := `
	INSERT INTO employees (` + employeeColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.conn(ctx).ExecContext(ctx, query,
		employee.ID, employee.FirstName, employee.LastName, employee.Email,
		employee.Department, employee.Role, employee.HourlyRate, employee.IsActive,
		employee.ManagerID, FormatDateForDB(employee.StartDate),
		employee.VacationDays, employee.SickDays)
	if err != nil {
		return HandleWriteError("create employee", err, "employee", employee.ID)
	}
	return nil
}

// GetEmployee retrieves an employee by ID
func (r *SQLiteRepository) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`
	return QuerySingle(ctx, r.conn(ctx), query, ScanEmployee, "employee", id, id)
}

// ListEmployees retrieves all employees, active or not, in insertion order
func (r *SQLiteRepository) ListEmployees(ctx context.Context) ([]*Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY rowid ASC`
	return QueryMultiple(ctx, r.conn(ctx), query, ScanEmployees, "employees")
}

// UpdateEmployee updates an existing employee
func (r *SQLiteRepository) UpdateEmployee(ctx context.Context, employee *Employee) error {
	query := `
	UPDATE employees
	SET first_name = ?, last_name = ?, email = ?, department = ?, role = ?, hourly_rate = ?,
		is_active = ?, manager_id = ?, start_date = ?, vacation_days = ?, sick_days = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, r.conn(ctx), query, "employee", employee.ID,
		employee.FirstName, employee.LastName, employee.Email, employee.Department,
		employee.Role, employee.HourlyRate, employee.IsActive, employee.ManagerID,
		FormatDateForDB(employee.StartDate), employee.VacationDays, employee.SickDays,
		employee.ID)
}

// CreateProject inserts a new project
func (r *SQLiteRepository) CreateProject(ctx context.Context, project *Project) error {
	query := `
	INSERT INTO projects (` + projectColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var endDate interface{}
	if project.EndDate != nil {
		endDate = FormatDateForDB(*project.EndDate)
	}

	_, err := r.conn(ctx).ExecContext(ctx, query,
		project.ID, project.Name, project.Client, project.Budget,
		FormatDateForDB(project.StartDate), endDate, project.Status, project.TotalHours)
	if err != nil {
		return HandleWriteError("create project", err, "project", project.ID)
	}
	return nil
}

// GetProject retrieves a project by ID
func (r *SQLiteRepository) GetProject(ctx context.Context, id string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	return QuerySingle(ctx, r.conn(ctx), query, ScanProject, "project", id, id)
}

// ListProjects retrieves all projects ordered by name
func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY name ASC`
	return QueryMultiple(ctx, r.conn(ctx), query, ScanProjects, "projects")
}

// UpdateProject updates an existing project
func (r *SQLiteRepository) UpdateProject(ctx context.Context, project *Project) error {
	query := `
	UPDATE projects
	SET name = ?, client = ?, budget = ?, start_date = ?, end_date = ?, status = ?, total_hours = ?
	WHERE id = ?`

	var endDate interface{}
	if project.EndDate != nil {
		endDate = FormatDateForDB(*project.EndDate)
	}

	return ExecuteWithRowsAffected(ctx, r.conn(ctx), query, "project", project.ID,
		project.Name, project.Client, project.Budget, FormatDateForDB(project.StartDate),
		endDate, project.Status, project.TotalHours, project.ID)
}

// CreateTimeEntry creates a new time entry and assigns its ID
func (r *SQLiteRepository) CreateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	query := `
	INSERT INTO time_entries (employee_id, project_id, start_time, end_time, description,
		billable_hours, status, created_at, last_modified)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.conn(ctx), query,
		entry.EmployeeID, entry.ProjectID,
		FormatTimeForDB(entry.StartTime), FormatTimeForDB(entry.EndTime),
		entry.Description, entry.BillableHours, entry.Status,
		FormatTimeForDB(entry.CreatedAt), FormatTimeForDB(entry.LastModified))
	if err != nil {
		return err
	}

	entry.ID = id
	return nil
}

// GetTimeEntry retrieves a time entry by ID
func (r *SQLiteRepository) GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = ?`
	return QuerySingle(ctx, r.conn(ctx), query, ScanTimeEntry, "time entry", fmt.Sprintf("%d", id), id)
}

// ListTimeEntries retrieves time entries matching the filter, ordered by start time
func (r *SQLiteRepository) ListTimeEntries(ctx context.Context, filter EntryFilter) ([]*TimeEntry, error) {
	var conditions []string
	var args []interface{}

	if filter.EmployeeID != "" {
		conditions = append(conditions, "employee_id = ?")
		args = append(args, filter.EmployeeID)
	}
	if filter.From != nil {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, FormatTimeForDB(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "start_time <= ?")
		args = append(args, FormatTimeForDB(*filter.To))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}

	query := `SELECT ` + timeEntryColumns + ` FROM time_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time ASC, id ASC"

	return QueryMultiple(ctx, r.conn(ctx), query, ScanTimeEntries, "time entries", args...)
}

// UpdateTimeEntry updates an existing time entry
func (r *SQLiteRepository) UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error {
	query := `
	UPDATE time_entries
	SET employee_id = ?, project_id = ?, start_time = ?, end_time = ?, description = ?,
		billable_hours = ?, status = ?, last_modified = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, r.conn(ctx), query, "time entry", fmt.Sprintf("%d", entry.ID),
		entry.EmployeeID, entry.ProjectID,
		FormatTimeForDB(entry.StartTime), FormatTimeForDB(entry.EndTime),
		entry.Description, entry.BillableHours, entry.Status,
		FormatTimeForDB(entry.LastModified), entry.ID)
}

// DeleteTimeEntry deletes a time entry by ID
func (r *SQLiteRepository) DeleteTimeEntry(ctx context.Context, id int64) error {
	query := `DELETE FROM time_entries WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.conn(ctx), query, "time entry", fmt.Sprintf("%d", id), id)
}

// SumBillableHours totals billable hours of entries in status that start at
// or after from and end at or before to
func (r *SQLiteRepository) SumBillableHours(ctx context.Context, employeeID, status string, from, to time.Time) (float64, error) {
	query := `
	SELECT COALESCE(SUM(billable_hours), 0)
	FROM time_entries
	WHERE employee_id = ? AND status = ? AND start_time >= ? AND end_time <= ?`

	var total float64
	err := r.conn(ctx).QueryRowContext(ctx, query, employeeID, status, FormatTimeForDB(from), FormatTimeForDB(to)).Scan(&total)
	if err != nil {
		return 0, errors.NewDatabaseError("sum billable hours", err).WithContext("employee_id", employeeID)
	}
	return total, nil
}

var _ Repository = (*SQLiteRepository)(nil)

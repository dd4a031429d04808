package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"

	"timesheet-tracker/internal/domain"
)

const employeeColumns = `id, first_name, last_name, email, department, role, hourly_rate,
               is_active, manager_id, start_date, vacation_days, sick_days`

// EmployeeRepository stores employees in PostgreSQL.
type EmployeeRepository struct {
	pool Queryer
}

// NewEmployeeRepository creates an EmployeeRepository.
func NewEmployeeRepository(pool Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// FindByID loads one employee.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (domain.Employee, error) {
	exec := QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)

	found, err := scanEmployee(row)
	if err != nil {
		return domain.Employee{}, translatePgError(err, "find employee", "employee", id)
	}
	return found, nil
}

// FindAll lists every employee in creation order.
func (r *EmployeeRepository) FindAll(ctx context.Context) ([]domain.Employee, error) {
	exec := QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_seq ASC`)
	if err != nil {
		return nil, translatePgError(err, "list employees", "employees", "")
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, translatePgError(err, "scan employee", "employees", "")
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err, "list employees", "employees", "")
	}
	return employees, nil
}

// Create inserts an employee.
func (r *EmployeeRepository) Create(ctx context.Context, e domain.Employee) error {
	exec := QueryerFromContext(ctx, r.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO employees (`+employeeColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `,
		e.ID, e.FirstName, e.LastName, e.Email, e.Department, e.Role, e.HourlyRate,
		e.Active, nullableString(e.ManagerID), nullableTime(e.StartDate), e.VacationDays, e.SickDays,
	)
	return translatePgError(err, "create employee", "employee", e.ID)
}

// Update rewrites an employee.
func (r *EmployeeRepository) Update(ctx context.Context, e domain.Employee) error {
	exec := QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE employees
           SET first_name = $1, last_name = $2, email = $3, department = $4, role = $5,
               hourly_rate = $6, is_active = $7, manager_id = $8, start_date = $9,
               vacation_days = $10, sick_days = $11
         WHERE id = $12
    `,
		e.FirstName, e.LastName, e.Email, e.Department, e.Role, e.HourlyRate, e.Active,
		nullableString(e.ManagerID), nullableTime(e.StartDate), e.VacationDays, e.SickDays, e.ID,
	)
	if err != nil {
		return translatePgError(err, "update employee", "employee", e.ID)
	}
	if tag.RowsAffected() == 0 {
		return translatePgError(pgx.ErrNoRows, "update employee", "employee", e.ID)
	}
	return nil
}

func scanEmployee(row pgx.Row) (domain.Employee, error) {
	var (
		e          domain.Employee
		email      sql.NullString
		department sql.NullString
		role       sql.NullString
		managerID  sql.NullString
		startDate  sql.NullTime
	)

	if err := row.Scan(
		&e.ID,
		&e.FirstName,
		&e.LastName,
		&email,
		&department,
		&role,
		&e.HourlyRate,
		&e.Active,
		&managerID,
		&startDate,
		&e.VacationDays,
		&e.SickDays,
	); err != nil {
		return domain.Employee{}, err
	}

	e.Email = email.String
	e.Department = department.String
	e.Role = role.String
	e.ManagerID = managerID.String
	if startDate.Valid {
		e.StartDate = startDate.Time.UTC()
	}
	return e, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value
}

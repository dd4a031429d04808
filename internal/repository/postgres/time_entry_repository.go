package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"timesheet-tracker/internal/domain"
)

const timeEntryColumns = `id, employee_id, project_id, start_time, end_time, description,
               billable_hours, status, created_at, last_modified`

// TimeEntryRepository stores time entries in PostgreSQL.
type TimeEntryRepository struct {
	pool Queryer
}

// NewTimeEntryRepository creates a TimeEntryRepository.
func NewTimeEntryRepository(pool Queryer) *TimeEntryRepository {
	return &TimeEntryRepository{pool: pool}
}

// Save inserts new entries and updates existing ones.
func (r *TimeEntryRepository) Save(ctx context.Context, e domain.TimeEntry) (domain.TimeEntry, error) {
	exec := QueryerFromContext(ctx, r.pool)
	e.Status = e.Status.OrDraft()

	if e.IsNew() {
		row := exec.QueryRow(ctx, `
        INSERT INTO time_entries (employee_id, project_id, start_time, end_time, description,
                                  billable_hours, status, created_at, last_modified)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `,
			e.EmployeeID, e.ProjectID, e.StartTime, e.EndTime, e.Description,
			e.BillableHours, string(e.Status), e.CreatedAt, e.LastModified,
		)
		if err := row.Scan(&e.ID); err != nil {
			return e, translatePgError(err, "create time entry", "time entry", "")
		}
		return e, nil
	}

	id := strconv.FormatInt(e.ID, 10)
	tag, err := exec.Exec(ctx, `
        UPDATE time_entries
           SET employee_id = $1, project_id = $2, start_time = $3, end_time = $4,
               description = $5, billable_hours = $6, status = $7, last_modified = $8
         WHERE id = $9
    `,
		e.EmployeeID, e.ProjectID, e.StartTime, e.EndTime, e.Description,
		e.BillableHours, string(e.Status), e.LastModified, e.ID,
	)
	if err != nil {
		return e, translatePgError(err, "update time entry", "time entry", id)
	}
	if tag.RowsAffected() == 0 {
		return e, translatePgError(pgx.ErrNoRows, "update time entry", "time entry", id)
	}
	return e, nil
}

func (r *TimeEntryRepository) FindByID(ctx context.Context, id int64) (domain.TimeEntry, error) {
	exec := QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+timeEntryColumns+` FROM time_entries WHERE id = $1`, id)

	found, err := scanTimeEntry(row)
	if err != nil {
		return domain.TimeEntry{}, translatePgError(err, "find time entry", "time entry", strconv.FormatInt(id, 10))
	}
	return found, nil
}

// FindByEmployee lists an employee's entries, optionally limited to one week.
func (r *TimeEntryRepository) FindByEmployee(ctx context.Context, employeeID string, week *domain.TimeRange) ([]domain.TimeEntry, error) {
	exec := QueryerFromContext(ctx, r.pool)

	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE employee_id = $1`
	args := []any{employeeID}
	if week != nil {
		query += ` AND start_time >= $2 AND start_time <= $3`
		args = append(args, week.Start, week.End)
	}
	query += ` ORDER BY start_time ASC, id ASC`

	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translatePgError(err, "list time entries", "time entries", employeeID)
	}
	defer rows.Close()

	var entries []domain.TimeEntry
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, translatePgError(err, "scan time entry", "time entries", employeeID)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err, "list time entries", "time entries", employeeID)
	}
	return entries, nil
}

func (r *TimeEntryRepository) Delete(ctx context.Context, id int64) error {
	exec := QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return translatePgError(err, "delete time entry", "time entry", strconv.FormatInt(id, 10))
	}
	if tag.RowsAffected() == 0 {
		return translatePgError(pgx.ErrNoRows, "delete time entry", "time entry", strconv.FormatInt(id, 10))
	}
	return nil
}

// SumBillableHours totals billable hours of entries in status inside [from, to].
func (r *TimeEntryRepository) SumBillableHours(ctx context.Context, employeeID string, status domain.Status, from, to time.Time) (float64, error) {
	exec := QueryerFromContext(ctx, r.pool)
	var total float64
	err := exec.QueryRow(ctx, `
        SELECT COALESCE(SUM(billable_hours), 0)
          FROM time_entries
         WHERE employee_id = $1 AND status = $2 AND start_time >= $3 AND end_time <= $4
    `, employeeID, string(status), from, to).Scan(&total)
	if err != nil {
		return 0, translatePgError(err, "sum billable hours", "time entries", employeeID)
	}
	return total, nil
}

func scanTimeEntry(row pgx.Row) (domain.TimeEntry, error) {
	var (
		e           domain.TimeEntry
		description sql.NullString
		status      string
	)

	if err := row.Scan(
		&e.ID,
		&e.EmployeeID,
		&e.ProjectID,
		&e.StartTime,
		&e.EndTime,
		&description,
		&e.BillableHours,
		&status,
		&e.CreatedAt,
		&e.LastModified,
	); err != nil {
		return domain.TimeEntry{}, err
	}

	e.Description = description.String
	e.Status = domain.Status(status)
	e.StartTime = e.StartTime.UTC()
	e.EndTime = e.EndTime.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.LastModified = e.LastModified.UTC()
	return e, nil
}

package sqlite

import "database/sql"

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

const employeeColumns = `id, first_name, last_name, email, department, role, hourly_rate,
	is_active, manager_id, start_date, vacation_days, sick_days`

const projectColumns = `id, name, client, budget, start_date, end_date, status, total_hours`

const timeEntryColumns = `id, employee_id, project_id, start_time, end_time, description,
	billable_hours, status, created_at, last_modified`

// ScanEmployee scans a single employee from a database row
func ScanEmployee(scanner Scanner) (*Employee, error) {
	employee := &Employee{}
	var email, department, role, managerID, startDate sql.NullString
	var active sql.NullBool

	err := scanner.Scan(
		&employee.ID,
		&employee.FirstName,
		&employee.LastName,
		&email,
		&department,
		&role,
		&employee.HourlyRate,
		&active,
		&managerID,
		&startDate,
		&employee.VacationDays,
		&employee.SickDays,
	)
	if err != nil {
		return nil, err
	}

	employee.Email = email.String
	employee.Department = department.String
	employee.Role = role.String
	employee.IsActive = !active.Valid || active.Bool
	if managerID.Valid && managerID.String != "" {
		id := managerID.String
		employee.ManagerID = &id
	}
	if employee.StartDate, err = parseNullTime(nullStringPtr(startDate)); err != nil {
		return nil, err
	}

	return employee, nil
}

// ScanEmployees scans multiple employees from database rows
func ScanEmployees(rows Rows) ([]*Employee, error) {
	return scanAll(rows, ScanEmployee)
}

// ScanProject scans a single project from a database row
func ScanProject(scanner Scanner) (*Project, error) {
	project := &Project{}
	var client, startDate, endDate, status sql.NullString

	err := scanner.Scan(
		&project.ID,
		&project.Name,
		&client,
		&project.Budget,
		&startDate,
		&endDate,
		&status,
		&project.TotalHours,
	)
	if err != nil {
		return nil, err
	}

	project.Client = client.String
	project.Status = status.String
	if project.StartDate, err = parseNullTime(nullStringPtr(startDate)); err != nil {
		return nil, err
	}
	if project.EndDate, err = parseNullTimePtr(nullStringPtr(endDate)); err != nil {
		return nil, err
	}

	return project, nil
}

// ScanProjects scans multiple projects from database rows
func ScanProjects(rows Rows) ([]*Project, error) {
	return scanAll(rows, ScanProject)
}

// ScanTimeEntry scans a single time entry from a database row
func ScanTimeEntry(scanner Scanner) (*TimeEntry, error) {
	entry := &TimeEntry{}
	var startTime, endTime, createdAt, lastModified string
	var description, status sql.NullString

	err := scanner.Scan(
		&entry.ID,
		&entry.EmployeeID,
		&entry.ProjectID,
		&startTime,
		&endTime,
		&description,
		&entry.BillableHours,
		&status,
		&createdAt,
		&lastModified,
	)
	if err != nil {
		return nil, err
	}

	entry.Description = description.String
	entry.Status = status.String
	if entry.StartTime, err = ParseTimeFromDB(startTime); err != nil {
		return nil, err
	}
	if entry.EndTime, err = ParseTimeFromDB(endTime); err != nil {
		return nil, err
	}
	if entry.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}
	if entry.LastModified, err = ParseTimeFromDB(lastModified); err != nil {
		return nil, err
	}

	return entry, nil
}

// ScanTimeEntries scans multiple time entries from database rows
func ScanTimeEntries(rows Rows) ([]*TimeEntry, error) {
	return scanAll(rows, ScanTimeEntry)
}

func scanAll[T any](rows Rows, scan func(Scanner) (*T, error)) ([]*T, error) {
	var results []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

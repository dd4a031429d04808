package domain

import (
	"timesheet-tracker/internal/repository/sqlite"
)

// EmployeeMapper handles conversion between domain and database Employee models.
type EmployeeMapper struct{}

// NewEmployeeMapper creates a new EmployeeMapper instance.
func NewEmployeeMapper() *EmployeeMapper {
	return &EmployeeMapper{}
}

// ToDatabase converts a domain Employee to a database Employee.
func (m *EmployeeMapper) ToDatabase(e Employee) sqlite.Employee {
	row := sqlite.Employee{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		Department:   e.Department,
		Role:         e.Role,
		HourlyRate:   e.HourlyRate,
		IsActive:     e.Active,
		StartDate:    e.StartDate,
		VacationDays: e.VacationDays,
		SickDays:     e.SickDays,
	}
	if e.ManagerID != "" {
		manager := e.ManagerID
		row.ManagerID = &manager
	}
	return row
}

// FromDatabase converts a database Employee to a domain Employee.
func (m *EmployeeMapper) FromDatabase(row sqlite.Employee) Employee {
	e := Employee{
		ID:           row.ID,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Email:        row.Email,
		Department:   row.Department,
		Role:         row.Role,
		HourlyRate:   row.HourlyRate,
		Active:       row.IsActive,
		StartDate:    row.StartDate,
		VacationDays: row.VacationDays,
		SickDays:     row.SickDays,
	}
	if row.ManagerID != nil {
		e.ManagerID = *row.ManagerID
	}
	return e
}

// FromDatabaseSlice converts database Employees to domain Employees.
func (m *EmployeeMapper) FromDatabaseSlice(rows []sqlite.Employee) []Employee {
	employees := make([]Employee, len(rows))
	for i, row := range rows {
		employees[i] = m.FromDatabase(row)
	}
	return employees
}

// ProjectMapper handles conversion between domain and database Project models.
type ProjectMapper struct{}

// NewProjectMapper creates a new ProjectMapper instance.
func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

func (m *ProjectMapper) ToDatabase(p Project) sqlite.Project {
	return sqlite.Project{
		ID:         p.ID,
		Name:       p.Name,
		Client:     p.Client,
		Budget:     p.Budget,
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		Status:     p.Status,
		TotalHours: p.TotalHours,
	}
}

func (m *ProjectMapper) FromDatabase(row sqlite.Project) Project {
	return Project{
		ID:         row.ID,
		Name:       row.Name,
		Client:     row.Client,
		Budget:     row.Budget,
		StartDate:  row.StartDate,
		EndDate:    row.EndDate,
		Status:     row.Status,
		TotalHours: row.TotalHours,
	}
}

func (m *ProjectMapper) FromDatabaseSlice(rows []sqlite.Project) []Project {
	projects := make([]Project, len(rows))
	for i, row := range rows {
		projects[i] = m.FromDatabase(row)
	}
	return projects
}

// TimeEntryMapper handles conversion between domain and database TimeEntry models.
type TimeEntryMapper struct{}

// NewTimeEntryMapper creates a new TimeEntryMapper instance.
func NewTimeEntryMapper() *TimeEntryMapper {
	return &TimeEntryMapper{}
}

// ToDatabase converts a domain TimeEntry to a database TimeEntry.
// An unset status is stored as draft.
func (m *TimeEntryMapper) ToDatabase(e TimeEntry) sqlite.TimeEntry {
	return sqlite.TimeEntry{
		ID:            e.ID,
		EmployeeID:    e.EmployeeID,
		ProjectID:     e.ProjectID,
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		Description:   e.Description,
		BillableHours: e.BillableHours,
		Status:        string(e.Status.OrDraft()),
		CreatedAt:     e.CreatedAt,
		LastModified:  e.LastModified,
	}
}

// FromDatabase converts a database TimeEntry to a domain TimeEntry.
func (m *TimeEntryMapper) FromDatabase(row sqlite.TimeEntry) TimeEntry {
	return TimeEntry{
		ID:            row.ID,
		EmployeeID:    row.EmployeeID,
		ProjectID:     row.ProjectID,
		StartTime:     row.StartTime,
		EndTime:       row.EndTime,
		Description:   row.Description,
		BillableHours: row.BillableHours,
		Status:        Status(row.Status),
		CreatedAt:     row.CreatedAt,
		LastModified:  row.LastModified,
	}
}

// FromDatabaseSlice converts a slice of database TimeEntries to domain TimeEntries.
func (m *TimeEntryMapper) FromDatabaseSlice(rows []sqlite.TimeEntry) []TimeEntry {
	entries := make([]TimeEntry, len(rows))
	for i, row := range rows {
		entries[i] = m.FromDatabase(row)
	}
	return entries
}

// EntryFilterMapper turns an employee and optional week into a database filter.
type EntryFilterMapper struct{}

// NewEntryFilterMapper creates a new EntryFilterMapper instance.
func NewEntryFilterMapper() *EntryFilterMapper {
	return &EntryFilterMapper{}
}

// ToDatabase builds the filter. A nil week means all entries of the employee.
func (m *EntryFilterMapper) ToDatabase(employeeID string, week *TimeRange) sqlite.EntryFilter {
	filter := sqlite.EntryFilter{EmployeeID: employeeID}
	if week != nil {
		from, to := week.Start, week.End
		filter.From = &from
		filter.To = &to
	}
	return filter
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Employee    *EmployeeMapper
	Project     *ProjectMapper
	TimeEntry   *TimeEntryMapper
	EntryFilter *EntryFilterMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Employee:    NewEmployeeMapper(),
		Project:     NewProjectMapper(),
		TimeEntry:   NewTimeEntryMapper(),
		EntryFilter: NewEntryFilterMapper(),
	}
}

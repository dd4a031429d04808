package api

import (
	"context"
	"strings"
	"time"

	"timesheet-tracker/internal/domain"
	"timesheet-tracker/internal/errors"
	"timesheet-tracker/internal/services"
	"timesheet-tracker/internal/validation"
)

// EmployeeInput holds a new employee as received from a caller
type EmployeeInput struct {
	ID           string  `json:"id"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Email        string  `json:"email"`
	Department   string  `json:"department"`
	Role         string  `json:"role"`
	HourlyRate   float64 `json:"hourlyRate"`
	ManagerID    string  `json:"managerId"`
	StartDate    string  `json:"startDate"`
	VacationDays int     `json:"vacationDays"`
	SickDays     int     `json:"sickDays"`
}

// ProjectInput holds a new project as received from a caller
type ProjectInput struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Client    string  `json:"client"`
	Budget    float64 `json:"budget"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Status    string  `json:"status"`
}

// TimeEntryInput holds a new entry. A nil BillableHours is computed from
// the time range.
type TimeEntryInput struct {
	EmployeeID    string   `json:"employeeId"`
	ProjectID     string   `json:"projectId"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	Description   string   `json:"description"`
	BillableHours *float64 `json:"billableHours"`
}

// TimeEntryUpdate holds a partial update. Nil fields are left unchanged.
type TimeEntryUpdate struct {
	ProjectID     *string  `json:"projectId"`
	StartTime     *string  `json:"startTime"`
	EndTime       *string  `json:"endTime"`
	Description   *string  `json:"description"`
	BillableHours *float64 `json:"billableHours"`
}

// API defines the record-keeping operations on employees, projects and time entries.
type API interface {
	// Employee operations
	CreateEmployee(ctx context.Context, in EmployeeInput) (*services.EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (*services.EmployeeResponse, error)
	ListEmployees(ctx context.Context) ([]*services.EmployeeResponse, error)
	DeactivateEmployee(ctx context.Context, id string) (*services.EmployeeResponse, error)

	// Project operations
	CreateProject(ctx context.Context, in ProjectInput) (*services.ProjectResponse, error)
	GetProject(ctx context.Context, id string) (*services.ProjectResponse, error)
	ListProjects(ctx context.Context) ([]*services.ProjectResponse, error)

	// Time entry operations
	CreateTimeEntry(ctx context.Context, in TimeEntryInput) (*services.TimeEntryResponse, error)
	UpdateTimeEntry(ctx context.Context, id int64, in TimeEntryUpdate) (*services.TimeEntryResponse, error)
	GetTimeEntry(ctx context.Context, id int64) (*services.TimeEntryResponse, error)
	// ListTimeEntries lists an employee's entries. An empty weekOf lists all of them.
	ListTimeEntries(ctx context.Context, employeeID, weekOf string) ([]*services.TimeEntryResponse, error)
	DeleteTimeEntry(ctx context.Context, id int64) error
	// ValidateTimeEntry checks an entry without storing it
	ValidateTimeEntry(in TimeEntryInput) validation.Result
}

type apiImpl struct {
	svc       *services.Services
	parser    *parser
	validator *validation.TimeEntryValidator
}

// New creates a new API instance. Timestamps without an offset are read in loc.
func New(svc *services.Services, loc *time.Location, validator *validation.TimeEntryValidator) API {
	if validator == nil {
		validator = validation.NewTimeEntryValidator()
	}
	return &apiImpl{svc: svc, parser: newParser(loc), validator: validator}
}

// Employee implementations
func (a *apiImpl) CreateEmployee(ctx context.Context, in EmployeeInput) (*services.EmployeeResponse, error) {
	req := services.CreateEmployeeRequest{
		ID:           in.ID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Department:   in.Department,
		Role:         in.Role,
		HourlyRate:   in.HourlyRate,
		ManagerID:    in.ManagerID,
		VacationDays: in.VacationDays,
		SickDays:     in.SickDays,
	}
	if strings.TrimSpace(in.StartDate) != "" {
		start, err := a.parser.timestamp("start_date", in.StartDate)
		if err != nil {
			return nil, err
		}
		req.StartDate = start
	}
	return a.svc.Employees.CreateEmployee(ctx, req)
}

func (a *apiImpl) GetEmployee(ctx context.Context, id string) (*services.EmployeeResponse, error) {
	if err := requireID("employee_id", id); err != nil {
		return nil, err
	}
	return a.svc.Employees.GetEmployee(ctx, id)
}

func (a *apiImpl) ListEmployees(ctx context.Context) ([]*services.EmployeeResponse, error) {
	return a.svc.Employees.ListEmployees(ctx)
}

func (a *apiImpl) DeactivateEmployee(ctx context.Context, id string) (*services.EmployeeResponse, error) {
	if err := requireID("employee_id", id); err != nil {
		return nil, err
	}
	return a.svc.Employees.DeactivateEmployee(ctx, id)
}

// Project implementations
func (a *apiImpl) CreateProject(ctx context.Context, in ProjectInput) (*services.ProjectResponse, error) {
	req := services.CreateProjectRequest{
		ID:     in.ID,
		Name:   in.Name,
		Client: in.Client,
		Budget: in.Budget,
		Status: in.Status,
	}
	if strings.TrimSpace(in.StartDate) != "" {
		start, err := a.parser.timestamp("start_date", in.StartDate)
		if err != nil {
			return nil, err
		}
		req.StartDate = start
	}
	if strings.TrimSpace(in.EndDate) != "" {
		end, err := a.parser.timestamp("end_date", in.EndDate)
		if err != nil {
			return nil, err
		}
		req.EndDate = &end
	}
	return a.svc.Projects.CreateProject(ctx, req)
}

func (a *apiImpl) GetProject(ctx context.Context, id string) (*services.ProjectResponse, error) {
	if err := requireID("project_id", id); err != nil {
		return nil, err
	}
	return a.svc.Projects.GetProject(ctx, id)
}

func (a *apiImpl) ListProjects(ctx context.Context) ([]*services.ProjectResponse, error) {
	return a.svc.Projects.ListProjects(ctx)
}

// TimeEntry implementations
func (a *apiImpl) CreateTimeEntry(ctx context.Context, in TimeEntryInput) (*services.TimeEntryResponse, error) {
	start, err := a.parser.optionalTimestamp("start_time", in.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := a.parser.optionalTimestamp("end_time", in.EndTime)
	if err != nil {
		return nil, err
	}

	return a.svc.TimeEntries.CreateEntry(ctx, services.CreateTimeEntryRequest{
		EmployeeID:    in.EmployeeID,
		ProjectID:     in.ProjectID,
		StartTime:     start,
		EndTime:       end,
		Description:   in.Description,
		BillableHours: in.BillableHours,
	})
}

func (a *apiImpl) UpdateTimeEntry(ctx context.Context, id int64, in TimeEntryUpdate) (*services.TimeEntryResponse, error) {
	if err := validateEntryID(id); err != nil {
		return nil, err
	}

	req := services.UpdateTimeEntryRequest{
		ProjectID:     in.ProjectID,
		Description:   in.Description,
		BillableHours: in.BillableHours,
	}
	if in.StartTime != nil {
		start, err := a.parser.timestamp("start_time", *in.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &start
	}
	if in.EndTime != nil {
		end, err := a.parser.timestamp("end_time", *in.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &end
	}
	return a.svc.TimeEntries.UpdateEntry(ctx, id, req)
}

func (a *apiImpl) GetTimeEntry(ctx context.Context, id int64) (*services.TimeEntryResponse, error) {
	if err := validateEntryID(id); err != nil {
		return nil, err
	}
	return a.svc.TimeEntries.GetEntry(ctx, id)
}

func (a *apiImpl) ListTimeEntries(ctx context.Context, employeeID, weekOf string) ([]*services.TimeEntryResponse, error) {
	if err := requireID("employee_id", employeeID); err != nil {
		return nil, err
	}

	var anchor *time.Time
	if strings.TrimSpace(weekOf) != "" {
		t, err := a.parser.timestamp("week_of", weekOf)
		if err != nil {
			return nil, err
		}
		anchor = &t
	}
	return a.svc.TimeEntries.ListEntries(ctx, employeeID, anchor)
}

func (a *apiImpl) DeleteTimeEntry(ctx context.Context, id int64) error {
	if err := validateEntryID(id); err != nil {
		return err
	}
	return a.svc.TimeEntries.DeleteEntry(ctx, id)
}

func (a *apiImpl) ValidateTimeEntry(in TimeEntryInput) validation.Result {
	raw := validation.TimeEntryInput{
		EmployeeID:  in.EmployeeID,
		ProjectID:   in.ProjectID,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Description: in.Description,
	}
	if in.BillableHours != nil {
		raw.BillableHours = *in.BillableHours
	}
	_, result := a.validator.ValidateInput(raw)
	return result
}

// parser reads caller-supplied timestamps in the payroll location.
type parser struct {
	loc *time.Location
}

func newParser(loc *time.Location) *parser {
	if loc == nil {
		loc = time.UTC
	}
	return &parser{loc: loc}
}

func (p *parser) timestamp(field, value string) (time.Time, error) {
	t, err := domain.ParseTimestampIn(value, p.loc)
	if err != nil {
		return time.Time{}, errors.NewInvalidInputError(field, value, "not a valid timestamp")
	}
	return t, nil
}

// optionalTimestamp returns the zero time for a blank value so the
// validator can report it as missing.
func (p *parser) optionalTimestamp(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	return p.timestamp(field, value)
}

// rangeEnd parses the end of an inclusive range. A bare date covers the
// whole day.
func (p *parser) rangeEnd(field, value string) (time.Time, error) {
	t, err := p.timestamp(field, value)
	if err != nil {
		return t, err
	}
	if _, dateErr := time.Parse("2006-01-02", strings.TrimSpace(value)); dateErr == nil {
		t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return t, nil
}

func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.NewInvalidInputError(field, id, "must not be empty")
	}
	return nil
}

func validateEntryID(id int64) error {
	if id <= 0 {
		return errors.NewInvalidInputError("entry_id", id, "must be a positive number")
	}
	return nil
}

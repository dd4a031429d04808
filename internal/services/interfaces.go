package services

import (
	"context"
	"time"

	"timesheet-tracker/internal/domain"
	"timesheet-tracker/internal/validation"
)

// TimeEntryResponse is a time entry as returned to callers
type TimeEntryResponse struct {
	ID            int64   `json:"id"`
	EmployeeID    string  `json:"employeeId"`
	ProjectID     string  `json:"projectId"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Description   string  `json:"description"`
	BillableHours float64 `json:"billableHours"`
	ElapsedHours  float64 `json:"elapsedHours"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
	LastModified  string  `json:"lastModified"`
}

// NewTimeEntryResponse renders an entry with ISO-8601 timestamps
func NewTimeEntryResponse(entry domain.TimeEntry) *TimeEntryResponse {
	return &TimeEntryResponse{
		ID:            entry.ID,
		EmployeeID:    entry.EmployeeID,
		ProjectID:     entry.ProjectID,
		StartTime:     domain.FormatTimestamp(entry.StartTime),
		EndTime:       domain.FormatTimestamp(entry.EndTime),
		Description:   entry.Description,
		BillableHours: entry.BillableHours,
		ElapsedHours:  entry.ElapsedHours(),
		Status:        entry.Status.OrDraft().String(),
		CreatedAt:     domain.FormatTimestamp(entry.CreatedAt),
		LastModified:  domain.FormatTimestamp(entry.LastModified),
	}
}

// NewTimeEntryResponses maps a slice of entries
func NewTimeEntryResponses(entries []domain.TimeEntry) []*TimeEntryResponse {
	responses := make([]*TimeEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = NewTimeEntryResponse(entry)
	}
	return responses
}

// EmployeeResponse is an employee as returned to callers
type EmployeeResponse struct {
	ID           string  `json:"id"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	Department   string  `json:"department"`
	Role         string  `json:"role"`
	HourlyRate   float64 `json:"hourlyRate"`
	Active       bool    `json:"active"`
	ManagerID    string  `json:"managerId,omitempty"`
	StartDate    string  `json:"startDate"`
	VacationDays int     `json:"vacationDays"`
	SickDays     int     `json:"sickDays"`
}

// NewEmployeeResponse renders an employee
func NewEmployeeResponse(e domain.Employee) *EmployeeResponse {
	return &EmployeeResponse{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		FullName:     e.FullName(),
		Email:        e.Email,
		Department:   e.Department,
		Role:         e.Role,
		HourlyRate:   e.HourlyRate,
		Active:       e.Active,
		ManagerID:    e.ManagerID,
		StartDate:    e.StartDate.Format("2006-01-02"),
		VacationDays: e.VacationDays,
		SickDays:     e.SickDays,
	}
}

// ProjectResponse is a project as returned to callers
type ProjectResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Client     string  `json:"client"`
	Budget     float64 `json:"budget"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate,omitempty"`
	Status     string  `json:"status"`
	TotalHours float64 `json:"totalHours"`
}

// NewProjectResponse renders a project
func NewProjectResponse(p domain.Project) *ProjectResponse {
	resp := &ProjectResponse{
		ID:         p.ID,
		Name:       p.Name,
		Client:     p.Client,
		Budget:     p.Budget,
		StartDate:  p.StartDate.Format("2006-01-02"),
		Status:     p.Status,
		TotalHours: p.TotalHours,
	}
	if p.EndDate != nil {
		resp.EndDate = p.EndDate.Format("2006-01-02")
	}
	return resp
}

// TimesheetSummary aggregates one employee's week
type TimesheetSummary struct {
	EmployeeID         string        `json:"employeeId"`
	EmployeeName       string        `json:"employeeName"`
	WeekStart          string        `json:"weekStart"`
	TotalHours         float64       `json:"totalHours"`
	TotalBillableHours float64       `json:"totalBillableHours"`
	EntryCount         int           `json:"entriesCount"`
	Status             domain.Status `json:"status"`
}

// WeeklyReport breaks one employee's week down by project
type WeeklyReport struct {
	EmployeeID    string             `json:"employeeId"`
	EmployeeName  string             `json:"employeeName"`
	Week          string             `json:"week"`
	TotalHours    float64            `json:"totalHours"`
	BillableHours float64            `json:"billableHours"`
	Projects      map[string]float64 `json:"projects"`
	Overtime      float64            `json:"overtime"`
	GrossPay      float64            `json:"grossPay"`
}

// PayrollPeriod is the inclusive range a payroll report covers
type PayrollPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PayrollReport approximates pay for approved time in a period
type PayrollReport struct {
	EmployeeID   string        `json:"employeeId"`
	EmployeeName string        `json:"employeeName"`
	Period       PayrollPeriod `json:"period"`
	TotalHours   float64       `json:"totalHours"`
	// BillableHours totals the approved entries' billable hours. Pay is
	// computed from TotalHours.
	BillableHours float64 `json:"billableHours"`
	HourlyRate    float64 `json:"hourlyRate"`
	GrossPay      float64 `json:"grossPay"`
	TaxAmount     float64 `json:"taxAmount"`
	NetPay        float64 `json:"netPay"`
}

// TimesheetResult describes a completed week-level operation
type TimesheetResult struct {
	EmployeeID string        `json:"employeeId"`
	WeekStart  string        `json:"weekStart"`
	Updated    int           `json:"updated"`
	Status     domain.Status `json:"status"`
}

// CreateTimeEntryRequest holds the fields of a new entry. A nil
// BillableHours is computed from the time range.
type CreateTimeEntryRequest struct {
	EmployeeID    string
	ProjectID     string
	StartTime     time.Time
	EndTime       time.Time
	Description   string
	BillableHours *float64
}

// UpdateTimeEntryRequest holds a partial update. Nil fields are left unchanged.
type UpdateTimeEntryRequest struct {
	ProjectID     *string
	StartTime     *time.Time
	EndTime       *time.Time
	Description   *string
	BillableHours *float64
}

// CreateEmployeeRequest holds the fields of a new employee. An empty ID is generated.
type CreateEmployeeRequest struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Department   string
	Role         string
	HourlyRate   float64
	ManagerID    string
	StartDate    time.Time
	VacationDays int
	SickDays     int
}

// CreateProjectRequest holds the fields of a new project. An empty ID is generated.
type CreateProjectRequest struct {
	ID        string
	Name      string
	Client    string
	Budget    float64
	StartDate time.Time
	EndDate   *time.Time
	Status    string
}

// TimeEntryService handles entry CRUD and validation
type TimeEntryService interface {
	CreateEntry(ctx context.Context, req CreateTimeEntryRequest) (*TimeEntryResponse, error)
	UpdateEntry(ctx context.Context, id int64, req UpdateTimeEntryRequest) (*TimeEntryResponse, error)
	GetEntry(ctx context.Context, id int64) (*TimeEntryResponse, error)
	// ListEntries returns an employee's entries. A nil weekOf lists all of them.
	ListEntries(ctx context.Context, employeeID string, weekOf *time.Time) ([]*TimeEntryResponse, error)
	DeleteEntry(ctx context.Context, id int64) error
	ValidateEntry(entry domain.TimeEntry) validation.Result
}

// LifecycleService moves single entries through the status machine
type LifecycleService interface {
	SubmitEntry(ctx context.Context, id int64) (*TimeEntryResponse, error)
	ApproveEntry(ctx context.Context, id int64) (*TimeEntryResponse, error)
	RejectEntry(ctx context.Context, id int64, reason string) (*TimeEntryResponse, error)
}

// TimesheetService submits, approves and rejects whole weeks
type TimesheetService interface {
	SubmitTimesheet(ctx context.Context, employeeID string, weekEnding time.Time) (*TimesheetResult, error)
	ApproveTimesheet(ctx context.Context, employeeID string, weekEnding time.Time, approverID string) (*TimesheetResult, error)
	RejectTimesheet(ctx context.Context, employeeID string, weekEnding time.Time, approverID, reason string) (*TimesheetResult, error)
}

// ReportingService builds read-only reports
type ReportingService interface {
	WeeklyReport(ctx context.Context, employeeID string, weekOf time.Time) (*WeeklyReport, error)
	TimesheetSummary(ctx context.Context, employeeID string, weekOf time.Time) (*TimesheetSummary, error)
	DepartmentReport(ctx context.Context, department string, weekOf time.Time) ([]*TimesheetSummary, error)
	PayrollReport(ctx context.Context, employeeID string, start, end time.Time) (*PayrollReport, error)
}

// EmployeeService manages employees
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (*EmployeeResponse, error)
	ListEmployees(ctx context.Context) ([]*EmployeeResponse, error)
	DeactivateEmployee(ctx context.Context, id string) (*EmployeeResponse, error)
}

// ProjectService manages projects
type ProjectService interface {
	CreateProject(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error)
	GetProject(ctx context.Context, id string) (*ProjectResponse, error)
	ListProjects(ctx context.Context) ([]*ProjectResponse, error)
}

package validation

import (
	"fmt"
	"strings"
	"time"

	"timesheet-tracker/internal/config"
	"timesheet-tracker/internal/domain"
)

// TimeEntryInput is a time entry as received from a caller, with
// timestamps not yet parsed.
type TimeEntryInput struct {
	EmployeeID    string
	ProjectID     string
	StartTime     string
	EndTime       string
	Description   string
	BillableHours float64
	Status        string
}

// TimeEntryValidator checks time entries. Every check runs; all failures
// are reported.
type TimeEntryValidator struct {
	validator *Validator
}

// NewTimeEntryValidator creates a new time entry validator
func NewTimeEntryValidator() *TimeEntryValidator {
	return &TimeEntryValidator{validator: NewValidator()}
}

// NewTimeEntryValidatorWithConfig uses the configured limits
func NewTimeEntryValidatorWithConfig(cfg *config.Config) *TimeEntryValidator {
	return &TimeEntryValidator{validator: NewValidatorWithConfig(cfg)}
}

// entryFields is the common shape both entry points reduce to.
type entryFields struct {
	employeeID    string
	projectID     string
	start, end    time.Time
	hasStart      bool
	hasEnd        bool
	startParsed   bool
	endParsed     bool
	description   string
	status        string
	billableHours float64
}

// Validate checks a domain entry.
func (tev *TimeEntryValidator) Validate(entry domain.TimeEntry) Result {
	return tev.check(entryFields{
		employeeID:    entry.EmployeeID,
		projectID:     entry.ProjectID,
		start:         entry.StartTime,
		end:           entry.EndTime,
		hasStart:      !entry.StartTime.IsZero(),
		hasEnd:        !entry.EndTime.IsZero(),
		startParsed:   true,
		endParsed:     true,
		description:   entry.Description,
		status:        string(entry.Status),
		billableHours: entry.BillableHours,
	}).Result()
}

// ValidateInput parses and checks raw input. The returned entry holds
// whatever could be parsed and is only meaningful when the result is valid.
func (tev *TimeEntryValidator) ValidateInput(in TimeEntryInput) (domain.TimeEntry, Result) {
	f := entryFields{
		employeeID:    in.EmployeeID,
		projectID:     in.ProjectID,
		hasStart:      tev.validator.IsNonEmptyString(in.StartTime),
		hasEnd:        tev.validator.IsNonEmptyString(in.EndTime),
		description:   in.Description,
		status:        in.Status,
		billableHours: in.BillableHours,
	}
	if f.hasStart {
		t, err := domain.ParseTimestamp(in.StartTime)
		f.start, f.startParsed = t, err == nil
	}
	if f.hasEnd {
		t, err := domain.ParseTimestamp(in.EndTime)
		f.end, f.endParsed = t, err == nil
	}

	entry := domain.TimeEntry{
		EmployeeID:    in.EmployeeID,
		ProjectID:     in.ProjectID,
		StartTime:     f.start,
		EndTime:       f.end,
		Description:   in.Description,
		BillableHours: in.BillableHours,
		Status:        domain.Status(in.Status),
	}
	return entry, tev.check(f).Result()
}

func (tev *TimeEntryValidator) check(f entryFields) *ValidationError {
	ve := NewValidationError()
	v := tev.validator

	if !v.IsNonEmptyString(f.employeeID) {
		ve.AddRequired("employee_id", "Employee ID is required")
	}
	if !v.IsNonEmptyString(f.projectID) {
		ve.AddRequired("project_id", "Project ID is required")
	}
	if !f.hasStart {
		ve.AddRequired("start_time", "Start time is required")
	}
	if !f.hasEnd {
		ve.AddRequired("end_time", "End time is required")
	}

	bothTimes := f.hasStart && f.hasEnd && f.startParsed && f.endParsed
	if bothTimes && !v.IsValidTimeRange(f.start, f.end) {
		ve.AddInvalidRange("end_time", f.end, "End time must be after start time")
	}
	if f.hasStart && !f.startParsed {
		ve.AddInvalidFormat("start_time", nil, "Start time is not a valid date")
	}
	if f.hasEnd && !f.endParsed {
		ve.AddInvalidFormat("end_time", nil, "End time is not a valid date")
	}
	if bothTimes && v.IsValidTimeRange(f.start, f.end) && !v.IsWithinMaxDuration(f.end.Sub(f.start)) {
		ve.AddInvalidRange("duration", f.end.Sub(f.start),
			fmt.Sprintf("Time entry cannot exceed %g hours", v.MaxEntryDuration().Hours()))
	}

	if !v.IsValidDescriptionLength(f.description) {
		ve.AddInvalidLength("description", len(f.description),
			fmt.Sprintf("Description cannot exceed %d characters", v.MaxDescriptionLength()))
	}

	if f.status != "" && !domain.Status(f.status).IsValid() {
		names := make([]string, len(domain.Statuses))
		for i, s := range domain.Statuses {
			names[i] = string(s)
		}
		ve.AddInvalidValue("status", f.status, "Status must be one of: "+strings.Join(names, ", "))
	}

	if f.billableHours < 0 {
		ve.AddInvalidValue("billable_hours", f.billableHours, "Billable hours cannot be negative")
	}

	return ve
}

var _ EntityValidator[domain.TimeEntry] = (*TimeEntryValidator)(nil)

package api

import (
	"context"
	"strings"
	"time"

	"timesheet-tracker/internal/domain"
	"timesheet-tracker/internal/errors"
	"timesheet-tracker/internal/services"
)

// Hours holds both readings of a time range
type Hours struct {
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Elapsed  float64 `json:"elapsedHours"`
	Billable float64 `json:"billableHours"`
}

// BusinessAPI defines the timesheet workflows and reports
type BusinessAPI interface {
	// ========== Entry Lifecycle ==========

	SubmitTimeEntry(ctx context.Context, id int64) (*services.TimeEntryResponse, error)
	ApproveTimeEntry(ctx context.Context, id int64) (*services.TimeEntryResponse, error)
	RejectTimeEntry(ctx context.Context, id int64, reason string) (*services.TimeEntryResponse, error)

	// ========== Weekly Timesheets ==========

	// SubmitTimesheet submits the week containing weekEnding
	SubmitTimesheet(ctx context.Context, employeeID, weekEnding string) (*services.TimesheetResult, error)
	ApproveTimesheet(ctx context.Context, employeeID, weekEnding, approverID string) (*services.TimesheetResult, error)
	RejectTimesheet(ctx context.Context, employeeID, weekEnding, approverID, reason string) (*services.TimesheetResult, error)

	// ========== Reports ==========

	WeeklyReport(ctx context.Context, employeeID, weekOf string) (*services.WeeklyReport, error)
	TimesheetSummary(ctx context.Context, employeeID, weekOf string) (*services.TimesheetSummary, error)
	DepartmentReport(ctx context.Context, department, weekOf string) ([]*services.TimesheetSummary, error)
	// PayrollReport covers [start, end]. A bare end date includes that whole day.
	PayrollReport(ctx context.Context, employeeID, start, end string) (*services.PayrollReport, error)

	// ========== Hours ==========

	// CalculateHours returns lenient elapsed hours and strict billable hours.
	// A backwards range fails with NegativeDuration.
	CalculateHours(start, end string) (*Hours, error)
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	svc    *services.Services
	parser *parser
}

// NewBusinessAPI creates a new BusinessAPI instance
func NewBusinessAPI(svc *services.Services, loc *time.Location) BusinessAPI {
	return &businessAPIImpl{svc: svc, parser: newParser(loc)}
}

// ========== Entry Lifecycle ==========

func (b *businessAPIImpl) SubmitTimeEntry(ctx context.Context, id int64) (*services.TimeEntryResponse, error) {
	if err := validateEntryID(id); err != nil {
		return nil, err
	}
	return b.svc.Lifecycle.SubmitEntry(ctx, id)
}

func (b *businessAPIImpl) ApproveTimeEntry(ctx context.Context, id int64) (*services.TimeEntryResponse, error) {
	if err := validateEntryID(id); err != nil {
		return nil, err
	}
	return b.svc.Lifecycle.ApproveEntry(ctx, id)
}

func (b *businessAPIImpl) RejectTimeEntry(ctx context.Context, id int64, reason string) (*services.TimeEntryResponse, error) {
	if err := validateEntryID(id); err != nil {
		return nil, err
	}
	if err := requireReason(reason); err != nil {
		return nil, err
	}
	return b.svc.Lifecycle.RejectEntry(ctx, id, reason)
}

// ========== Weekly Timesheets ==========

func (b *businessAPIImpl) SubmitTimesheet(ctx context.Context, employeeID, weekEnding string) (*services.TimesheetResult, error) {
	week, err := b.weekArgs(employeeID, weekEnding)
	if err != nil {
		return nil, err
	}
	return b.svc.Timesheets.SubmitTimesheet(ctx, employeeID, week)
}

func (b *businessAPIImpl) ApproveTimesheet(ctx context.Context, employeeID, weekEnding, approverID string) (*services.TimesheetResult, error) {
	week, err := b.weekArgs(employeeID, weekEnding)
	if err != nil {
		return nil, err
	}
	if err := requireID("approver_id", approverID); err != nil {
		return nil, err
	}
	return b.svc.Timesheets.ApproveTimesheet(ctx, employeeID, week, approverID)
}

func (b *businessAPIImpl) RejectTimesheet(ctx context.Context, employeeID, weekEnding, approverID, reason string) (*services.TimesheetResult, error) {
	week, err := b.weekArgs(employeeID, weekEnding)
	if err != nil {
		return nil, err
	}
	if err := requireID("approver_id", approverID); err != nil {
		return nil, err
	}
	if err := requireReason(reason); err != nil {
		return nil, err
	}
	return b.svc.Timesheets.RejectTimesheet(ctx, employeeID, week, approverID, reason)
}

// ========== Reports ==========

func (b *businessAPIImpl) WeeklyReport(ctx context.Context, employeeID, weekOf string) (*services.WeeklyReport, error) {
	week, err := b.weekArgs(employeeID, weekOf)
	if err != nil {
		return nil, err
	}
	return b.svc.Reports.WeeklyReport(ctx, employeeID, week)
}

func (b *businessAPIImpl) TimesheetSummary(ctx context.Context, employeeID, weekOf string) (*services.TimesheetSummary, error) {
	week, err := b.weekArgs(employeeID, weekOf)
	if err != nil {
		return nil, err
	}
	return b.svc.Reports.TimesheetSummary(ctx, employeeID, week)
}

func (b *businessAPIImpl) DepartmentReport(ctx context.Context, department, weekOf string) ([]*services.TimesheetSummary, error) {
	if err := requireID("department", department); err != nil {
		return nil, err
	}
	week, err := b.parser.timestamp("week_of", weekOf)
	if err != nil {
		return nil, err
	}
	return b.svc.Reports.DepartmentReport(ctx, department, week)
}

func (b *businessAPIImpl) PayrollReport(ctx context.Context, employeeID, start, end string) (*services.PayrollReport, error) {
	if err := requireID("employee_id", employeeID); err != nil {
		return nil, err
	}
	from, err := b.parser.timestamp("start_date", start)
	if err != nil {
		return nil, err
	}
	to, err := b.parser.rangeEnd("end_date", end)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, errors.NewInvalidInputError("end_date", end, "must not be before start_date")
	}
	return b.svc.Reports.PayrollReport(ctx, employeeID, from, to)
}

// ========== Hours ==========

func (b *businessAPIImpl) CalculateHours(start, end string) (*Hours, error) {
	from, err := b.parser.timestamp("start_time", start)
	if err != nil {
		return nil, err
	}
	to, err := b.parser.timestamp("end_time", end)
	if err != nil {
		return nil, err
	}

	billable, err := domain.StrictBillableHours(from, to)
	if err != nil {
		return nil, err
	}
	return &Hours{
		Start:    domain.FormatTimestamp(from),
		End:      domain.FormatTimestamp(to),
		Elapsed:  domain.LenientHours(from, to),
		Billable: billable,
	}, nil
}

func (b *businessAPIImpl) weekArgs(employeeID, anchor string) (time.Time, error) {
	if err := requireID("employee_id", employeeID); err != nil {
		return time.Time{}, err
	}
	return b.parser.timestamp("week", anchor)
}

func requireReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return errors.NewInvalidInputError("reason", reason, "a rejection reason is required")
	}
	return nil
}

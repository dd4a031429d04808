package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"timesheet-tracker/internal/domain"
	"timesheet-tracker/internal/errors"
	"timesheet-tracker/internal/lifecycle"
	"timesheet-tracker/internal/metrics"
	"timesheet-tracker/internal/notification"
)

// timesheetServiceImpl implements the TimesheetService interface
type timesheetServiceImpl struct {
	*core
}

// SubmitTimesheet submits every entry of the employee's week. All checks run
// before the first entry is written.
func (s *timesheetServiceImpl) SubmitTimesheet(ctx context.Context, employeeID string, weekEnding time.Time) (*TimesheetResult, error) {
	week := s.week(weekEnding)

	var (
		employee domain.Employee
		entries  []domain.TimeEntry
		updated  int
	)
	err := s.lockWeek(ctx, employeeID, week.Start, func(ctx context.Context) error {
		var err error
		employee, err = s.store.Employees().FindByID(ctx, employeeID)
		if err != nil {
			return err
		}
		if !employee.Active {
			return errors.NewInactiveEmployeeError(employeeID)
		}

		entries, err = s.weekEntries(ctx, employeeID, week)
		if err != nil {
			return err
		}

		if reasons := s.invalidEntries(entries); len(reasons) > 0 {
			return errors.NewValidationFailedError("Cannot submit timesheet with invalid entries", reasons)
		}

		pending := 0
		for _, e := range entries {
			if e.Status.OrDraft() != domain.StatusSubmitted {
				pending++
			}
		}
		if pending == 0 {
			return errors.NewAlreadySubmittedError("All entries have already been submitted")
		}

		s.checkOvertime(employeeID, week, entries)

		for i, e := range entries {
			if e.Status.OrDraft() == domain.StatusSubmitted {
				continue
			}
			next, err := s.lifecycle.Submit(e)
			if err != nil {
				return err
			}
			if entries[i], err = s.store.TimeEntries().Save(ctx, next); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	metrics.SubmissionsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("employee_id", employeeID).
		Str("week_start", week.WeekLabel()).
		Int("updated", updated).
		Msg("timesheet submitted")

	s.invalidate(ctx, employeeID, week.Start)
	s.notifySubmitted(ctx, employee, week, entries)

	return &TimesheetResult{
		EmployeeID: employeeID,
		WeekStart:  week.WeekLabel(),
		Updated:    updated,
		Status:     domain.UnifiedStatus(entries),
	}, nil
}

// ApproveTimesheet approves a fully submitted week.
func (s *timesheetServiceImpl) ApproveTimesheet(ctx context.Context, employeeID string, weekEnding time.Time, approverID string) (*TimesheetResult, error) {
	return s.review(ctx, employeeID, weekEnding, approverID, lifecycle.EventApprove, func(entries []domain.TimeEntry) error {
		pending := 0
		for _, e := range entries {
			if e.Status.OrDraft() != domain.StatusSubmitted {
				pending++
			}
		}
		if pending > 0 {
			return errors.NewNotAllSubmittedError(pending)
		}
		return nil
	}, s.lifecycle.Approve)
}

// RejectTimesheet rejects every entry of the week and records the reason on
// each. Only submitted entries can be rejected; a week holding any other
// status is left untouched.
func (s *timesheetServiceImpl) RejectTimesheet(ctx context.Context, employeeID string, weekEnding time.Time, approverID, reason string) (*TimesheetResult, error) {
	return s.review(ctx, employeeID, weekEnding, approverID, lifecycle.EventReject, func(entries []domain.TimeEntry) error {
		for _, e := range entries {
			if !lifecycle.CanTransition(e.Status, lifecycle.EventReject) {
				return errors.NewInvalidTransitionError(e.Status.OrDraft().String(), lifecycle.EventReject).
					WithContext("entry_id", e.ID)
			}
		}
		return nil
	}, func(entry domain.TimeEntry) (domain.TimeEntry, error) {
		return s.lifecycle.Reject(entry, reason)
	})
}

// review runs an approver decision over a week: resolve the approver, load
// the entries, gate them with check, then apply to each one.
func (s *timesheetServiceImpl) review(
	ctx context.Context,
	employeeID string,
	weekEnding time.Time,
	approverID string,
	event string,
	check func([]domain.TimeEntry) error,
	apply func(domain.TimeEntry) (domain.TimeEntry, error),
) (*TimesheetResult, error) {
	week := s.week(weekEnding)

	var entries []domain.TimeEntry
	err := s.lockWeek(ctx, employeeID, week.Start, func(ctx context.Context) error {
		if _, err := s.store.Employees().FindByID(ctx, approverID); err != nil {
			return err
		}

		var err error
		entries, err = s.weekEntries(ctx, employeeID, week)
		if err != nil {
			return err
		}
		if err := check(entries); err != nil {
			return err
		}

		for i, e := range entries {
			next, err := apply(e)
			if err != nil {
				return err
			}
			if entries[i], err = s.store.TimeEntries().Save(ctx, next); err != nil {
				return err
			}
		}
		return nil
	})
	metrics.TransitionsTotal.WithLabelValues(event, resultLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("employee_id", employeeID).
		Str("approver_id", approverID).
		Str("week_start", week.WeekLabel()).
		Str("event", event).
		Int("entries", len(entries)).
		Msg("timesheet reviewed")

	s.invalidate(ctx, employeeID, week.Start)

	return &TimesheetResult{
		EmployeeID: employeeID,
		WeekStart:  week.WeekLabel(),
		Updated:    len(entries),
		Status:     domain.UnifiedStatus(entries),
	}, nil
}

func (s *timesheetServiceImpl) weekEntries(ctx context.Context, employeeID string, week domain.TimeRange) ([]domain.TimeEntry, error) {
	entries, err := s.store.TimeEntries().FindByEmployee(ctx, employeeID, &week)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.NewNoEntriesError(employeeID, week.WeekLabel())
	}
	return entries, nil
}

// invalidEntries returns one message per failing entry.
func (s *timesheetServiceImpl) invalidEntries(entries []domain.TimeEntry) []string {
	var reasons []string
	for _, e := range entries {
		if result := s.entries.Validate(e); !result.IsValid {
			reasons = append(reasons, fmt.Sprintf("Entry %d: %s", e.ID, strings.Join(result.Errors, ", ")))
		}
	}
	return reasons
}

func (s *timesheetServiceImpl) checkOvertime(employeeID string, week domain.TimeRange, entries []domain.TimeEntry) {
	total := domain.TotalElapsedHours(entries)
	threshold := s.cfg.Payroll.OvertimeThresholdHours
	if total <= threshold {
		return
	}

	overtime := total - threshold
	metrics.OvertimeHours.Observe(overtime)
	s.log.Warn().
		Str("employee_id", employeeID).
		Str("week_start", week.WeekLabel()).
		Float64("total_hours", total).
		Float64("overtime_hours", overtime).
		Msg("overtime detected")
}

// notifySubmitted is best-effort; failures are logged and dropped.
func (s *timesheetServiceImpl) notifySubmitted(ctx context.Context, employee domain.Employee, week domain.TimeRange, entries []domain.TimeEntry) {
	err := s.notifier.NotifySubmitted(ctx, notification.Submission{
		EmployeeID:   employee.ID,
		EmployeeName: employee.FullName(),
		Email:        employee.Email,
		WeekStart:    week.Start,
		EntryCount:   len(entries),
		TotalHours:   domain.TotalElapsedHours(entries),
	})
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(metrics.ResultError).Inc()
		s.log.Warn().Err(err).
			Str("employee_id", employee.ID).
			Str("week_start", week.WeekLabel()).
			Msg("failed to send submission notification")
		return
	}
	metrics.NotificationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
}

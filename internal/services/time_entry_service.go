package services

import (
	"context"
	"time"

	"timesheet-tracker/internal/domain"
	"timesheet-tracker/internal/validation"
)

// timeEntryServiceImpl implements the TimeEntryService interface
type timeEntryServiceImpl struct {
	*core
}

// CreateEntry validates and stores a new draft entry
func (s *timeEntryServiceImpl) CreateEntry(ctx context.Context, req CreateTimeEntryRequest) (*TimeEntryResponse, error) {
	entry := domain.NewTimeEntry(req.EmployeeID, req.ProjectID, req.StartTime, req.EndTime, s.now())
	entry.Description = req.Description

	if req.BillableHours != nil {
		entry.BillableHours = *req.BillableHours
	} else if !req.StartTime.IsZero() && !req.EndTime.IsZero() {
		hours, err := domain.StrictBillableHours(req.StartTime, req.EndTime)
		if err != nil {
			return nil, err
		}
		entry.BillableHours = hours
	}

	if err := s.entries.Validate(entry).Err("Validation failed"); err != nil {
		return nil, err
	}

	var saved domain.TimeEntry
	week := s.week(entry.StartTime)
	err := s.lockWeek(ctx, entry.EmployeeID, week.Start, func(ctx context.Context) error {
		if err := s.checkReferences(ctx, entry.EmployeeID, entry.ProjectID); err != nil {
			return err
		}
		var err error
		saved, err = s.store.TimeEntries().Save(ctx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, saved.EmployeeID, week.Start)
	return NewTimeEntryResponse(saved), nil
}

// UpdateEntry applies a partial update. The status is never changed here.
// Moving the entry to another week holds both weeks' locks.
func (s *timeEntryServiceImpl) UpdateEntry(ctx context.Context, id int64, req UpdateTimeEntryRequest) (*TimeEntryResponse, error) {
	current, err := s.store.TimeEntries().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldWeek := s.week(current.StartTime)
	weeks := []time.Time{oldWeek.Start}
	if req.StartTime != nil {
		weeks = append(weeks, s.week(*req.StartTime).Start)
	}

	var saved domain.TimeEntry
	err = s.lockWeeks(ctx, current.EmployeeID, weeks, func(ctx context.Context) error {
		entry, err := s.store.TimeEntries().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if req.ProjectID != nil && *req.ProjectID != entry.ProjectID {
			if _, err := s.store.Projects().FindByID(ctx, *req.ProjectID); err != nil {
				return err
			}
			entry.ProjectID = *req.ProjectID
		}
		if req.StartTime != nil {
			entry.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			entry.EndTime = *req.EndTime
		}
		if req.Description != nil {
			entry.Description = *req.Description
		}
		if req.BillableHours != nil {
			entry.BillableHours = *req.BillableHours
		}

		if err := s.entries.Validate(entry).Err("Validation failed"); err != nil {
			return err
		}

		saved, err = s.store.TimeEntries().Save(ctx, entry.Touch(s.now()))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, saved.EmployeeID, oldWeek.Start)
	if newWeek := s.week(saved.StartTime); !newWeek.Start.Equal(oldWeek.Start) {
		s.invalidate(ctx, saved.EmployeeID, newWeek.Start)
	}
	return NewTimeEntryResponse(saved), nil
}

// GetEntry returns one entry
func (s *timeEntryServiceImpl) GetEntry(ctx context.Context, id int64) (*TimeEntryResponse, error) {
	entry, err := s.store.TimeEntries().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewTimeEntryResponse(entry), nil
}

// ListEntries returns an employee's entries, optionally limited to one week
func (s *timeEntryServiceImpl) ListEntries(ctx context.Context, employeeID string, weekOf *time.Time) ([]*TimeEntryResponse, error) {
	var week *domain.TimeRange
	if weekOf != nil {
		r := s.week(*weekOf)
		week = &r
	}

	entries, err := s.store.TimeEntries().FindByEmployee(ctx, employeeID, week)
	if err != nil {
		return nil, err
	}
	return NewTimeEntryResponses(entries), nil
}

// DeleteEntry removes an entry. It fails with NotFound when absent.
func (s *timeEntryServiceImpl) DeleteEntry(ctx context.Context, id int64) error {
	entry, err := s.store.TimeEntries().FindByID(ctx, id)
	if err != nil {
		return err
	}
	week := s.week(entry.StartTime)

	err = s.lockWeek(ctx, entry.EmployeeID, week.Start, func(ctx context.Context) error {
		return s.store.TimeEntries().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, entry.EmployeeID, week.Start)
	return nil
}

// ValidateEntry runs the entry validator without touching storage
func (s *timeEntryServiceImpl) ValidateEntry(entry domain.TimeEntry) validation.Result {
	return s.entries.Validate(entry)
}

func (s *timeEntryServiceImpl) checkReferences(ctx context.Context, employeeID, projectID string) error {
	if _, err := s.store.Employees().FindByID(ctx, employeeID); err != nil {
		return err
	}
	if _, err := s.store.Projects().FindByID(ctx, projectID); err != nil {
		return err
	}
	return nil
}

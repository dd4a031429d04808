package services

import (
	"context"

	"timesheet-tracker/internal/domain"
	"timesheet-tracker/internal/lifecycle"
	"timesheet-tracker/internal/metrics"
)

// lifecycleServiceImpl implements the LifecycleService interface
type lifecycleServiceImpl struct {
	*core
}

func (s *lifecycleServiceImpl) SubmitEntry(ctx context.Context, id int64) (*TimeEntryResponse, error) {
	return s.transition(ctx, id, lifecycle.EventSubmit, s.lifecycle.Submit)
}

func (s *lifecycleServiceImpl) ApproveEntry(ctx context.Context, id int64) (*TimeEntryResponse, error) {
	return s.transition(ctx, id, lifecycle.EventApprove, s.lifecycle.Approve)
}

func (s *lifecycleServiceImpl) RejectEntry(ctx context.Context, id int64, reason string) (*TimeEntryResponse, error) {
	return s.transition(ctx, id, lifecycle.EventReject, func(entry domain.TimeEntry) (domain.TimeEntry, error) {
		return s.lifecycle.Reject(entry, reason)
	})
}

// transition re-reads the entry under its week lock, applies apply to it and
// saves the result in the same transaction. Nothing is returned unless the
// save committed.
func (s *lifecycleServiceImpl) transition(ctx context.Context, id int64, event string, apply func(domain.TimeEntry) (domain.TimeEntry, error)) (*TimeEntryResponse, error) {
	entry, err := s.store.TimeEntries().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	week := s.week(entry.StartTime)

	var saved domain.TimeEntry
	err = s.lockWeek(ctx, entry.EmployeeID, week.Start, func(ctx context.Context) error {
		current, err := s.store.TimeEntries().FindByID(ctx, id)
		if err != nil {
			return err
		}
		next, err := apply(current)
		if err != nil {
			return err
		}
		saved, err = s.store.TimeEntries().Save(ctx, next)
		return err
	})
	metrics.TransitionsTotal.WithLabelValues(event, resultLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("entry_id", id).
		Str("event", event).
		Str("status", saved.Status.String()).
		Msg("time entry transitioned")

	s.invalidate(ctx, saved.EmployeeID, week.Start)
	return NewTimeEntryResponse(saved), nil
}

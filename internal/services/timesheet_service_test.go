package services

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet-tracker/internal/domain"
	"timesheet-tracker/internal/errors"
)

func TestTimesheetService_SubmitTimesheet(t *testing.T) {
	f := setupServicesWithData(t)
	ctx := context.Background()
	a := f.addEntry(t, "EMP001", "PROJ001", day(15, 9), 8, 8, domain.StatusDraft)
	b := f.addEntry(t, "EMP001", "PROJ002", day(16, 9), 4, 0, domain.StatusRejected)
	other := f.addEntry(t, "EMP001", "PROJ001", day(22, 9), 8, 8, domain.StatusDraft)

	result, err := f.svc.Timesheets.SubmitTimesheet(ctx, "EMP001", day(20, 23))
	require.NoError(t, err)

	assert.Equal(t, "2024-01-14", result.WeekStart)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, domain.StatusSubmitted, result.Status)

	for _, id := range []int64{a.ID, b.ID} {
		stored := f.entry(t, id)
		assert.Equal(t, domain.StatusSubmitted, stored.Status)
		assert.True(t, stored.LastModified.Equal(fixedNow))
	}
	assert.Equal(t, domain.StatusDraft, f.entry(t, other.ID).Status)

	require.Len(t, f.notifier.sent, 1)
	sent := f.notifier.sent[0]
	assert.Equal(t, "EMP001", sent.EmployeeID)
	assert.Equal(t, "john.doe@company.com", sent.Email)
	assert.Equal(t, 2, sent.EntryCount)
	assert.Equal(t, 12.0, sent.TotalHours)
	assert.True(t, sent.WeekStart.Equal(weekStart))

	assert.Contains(t, f.cache.invalidated, "EMP001@2024-01-14")
}

func TestTimesheetService_SubmitTimesheetFailures(t *testing.T) {
	tests := []struct {
		name       string
		employeeID string
		setup      func(t *testing.T, f *fixture)
		expected   error
		errorType  errors.ErrorType
	}{
		{
			name:       "unknown employee",
			employeeID: "EMP404",
			errorType:  errors.ErrorTypeNotFound,
		},
		{
			name:       "inactive employee",
			employeeID: "EMP003",
			setup: func(t *testing.T, f *fixture) {
				f.addEntry(t, "EMP003", "PROJ001", day(15, 9), 8, 8, domain.StatusDraft)
			},
			expected: errors.ErrInactiveEmployee,
		},
		{
			name:       "empty week",
			employeeID: "EMP001",
			setup: func(t *testing.T, f *fixture) {
				f.addEntry(t, "EMP001", "PROJ001", day(8, 9), 8, 8, domain.StatusDraft)
			},
			expected: errors.ErrNoEntries,
		},
		{
			name:       "every entry already submitted",
			employeeID: "EMP001",
			setup: func(t *testing.T, f *fixture) {
				f.addEntry(t, "EMP001", "PROJ001", day(15, 9), 8, 8, domain.StatusSubmitted)
				f.addEntry(t, "EMP001", "PROJ001", day(16, 9), 8, 8, domain.StatusSubmitted)
			},
			expected: errors.ErrAlreadySubmitted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupServicesWithData(t)
			if tt.setup != nil {
				tt.setup(t, f)
			}

			result, err := f.svc.Timesheets.SubmitTimesheet(context.Background(), tt.employeeID, day(17, 12))

			assert.Nil(t, result)
			require.Error(t, err)
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
			} else {
				assert.True(t, errors.IsErrorType(err, tt.errorType), "got %v", err)
			}
			assert.Empty(t, f.notifier.sent)
		})
	}
}

func TestTimesheetService_SubmitTimesheetInvalidEntriesBlockEverything(t *testing.T) {
	f := setupServicesWithData(t)
	good := f.addEntry(t, "EMP001", "PROJ001", day(15, 9), 8, 8, domain.StatusDraft)
	bad := f.addEntry(t, "EMP001", "PROJ001", day(16, 9), 8, -1, domain.StatusDraft)

	_, err := f.svc.Timesheets.SubmitTimesheet(context.Background(), "EMP001", day(17, 12))

	require.ErrorIs(t, err, errors.ErrValidationFailed)
	reasons := errors.Reasons(err)
	require.Len(t, reasons, 1)
	assert.True(t, strings.HasPrefix(reasons[0], "Entry "))
	assert.Contains(t, reasons[0], "Billable hours cannot be negative")

	assert.Equal(t, domain.StatusDraft, f.entry(t, good.ID).Status)
	assert.Equal(t, domain.StatusDraft, f.entry(t, bad.ID).Status)
	assert.Empty(t, f.cache.invalidated)
}

func TestTimesheetService_SubmitTimesheetWeekBoundaries(t *testing.T) {
	f := setupServicesWithData(t)
	lastMillisecond := weekStart.AddDate(0, 0, 7).Add(-time.Millisecond)

	first := f.addEntry(t, "EMP001", "PROJ001", weekStart, 1, 1, domain.StatusDraft)
	mid := f.addEntry(t, "EMP001", "PROJ001", day(17, 9), 8, 8, domain.StatusDraft)
	last := f.addEntry(t, "EMP001", "PROJ002", lastMillisecond, 0.5, 0.5, domain.StatusDraft)
	before := f.addEntry(t, "EMP001", "PROJ001", weekStart.Add(-time.Millisecond), 2, 2, domain.StatusDraft)
	next := f.addEntry(t, "EMP001", "PROJ001", weekStart.AddDate(0, 0, 7), 1, 1, domain.StatusDraft)

	result, err := f.svc.Timesheets.SubmitTimesheet(context.Background(), "EMP001", day(20, 23))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Updated)

	for _, id := range []int64{first.ID, mid.ID, last.ID} {
		assert.Equal(t, domain.StatusSubmitted, f.entry(t, id).Status)
	}
	assert.Equal(t, domain.StatusDraft, f.entry(t, before.ID).Status)
	assert.Equal(t, domain.StatusDraft, f.entry(t, next.ID).Status)
}

func TestTimesheetService_SubmitTimesheetTwice(t *testing.T) {
	f := setupServicesWithData(t)
	ctx := context.Background()
	entry := f.addEntry(t, "EMP001", "PROJ001", day(15, 9), 8, 8, domain.StatusDraft)

	_, err := f.svc.Timesheets.SubmitTimesheet(ctx, "EMP001", day(17, 12))
	require.NoError(t, err)
	first := f.entry(t, entry.ID)

	_, err = f.svc.Timesheets.SubmitTimesheet(ctx, "EMP001", day(17, 12))
	require.ErrorIs(t, err, errors.ErrAlreadySubmitted)

	assert.Equal(t, first, f.entry(t, entry.ID))
	assert.Len(t, f.notifier.sent, 1)
}

func TestTimesheetService_SubmitTimesheetNotificationFailureIsSwallowed(t *testing.T) {
	f := setupServicesWithData(t)
	f.notifier.fails = stderrors.New("smtp down")
	entry := f.addEntry(t, "EMP001", "PROJ001", day(15, 9), 8, 8, domain.StatusDraft)

	result, err := f.svc.Timesheets.SubmitTimesheet(context.Background(), "EMP001", day(17, 12))

	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, domain.StatusSubmitted, f.entry(t, entry.ID).Status)
	assert.Contains(t, f.logs.String(), "failed to send submission notification")
}

func TestTimesheetService_SubmitTimesheetLogsOvertime(t *testing.T) {
	f := setupServicesWithData(t)
	for d := 15; d <= 19; d++ {
		f.addEntry(t, "EMP001", "PROJ001", day(d, 8), 9, 9, domain.StatusDraft)
	}

	_, err := f.svc.Timesheets.SubmitTimesheet(context.Background(), "EMP001", day(17, 12))
	require.NoError(t, err)

	logs := f.logs.String()
	assert.Contains(t, logs, "overtime detected")
	assert.Contains(t, logs, `"total_hours":45`)
	assert.Contains(t, logs, `"overtime_hours":5`)
}

func TestTimesheetService_ConcurrentSubmissionsSubmitOnce(t *testing.T) {
	f := setupServicesWithData(t)
	f.addEntry(t, "EMP001", "PROJ001", day(15, 9), 8, 8, domain.StatusDraft)
	f.addEntry(t, "EMP001", "PROJ002", day(16, 9), 8, 8, domain.StatusDraft)

	const callers = 5
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Timesheets.SubmitTimesheet(context.Background(), "EMP001", day(17, 12))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, errors.ErrAlreadySubmitted)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.notifier.sent, 1)
}

func TestTimesheetService_ApproveTimesheet(t *testing.T) {
	tests := []struct {
		name       string
		approverID string
		statuses   []domain.Status
		expected   error
		errorType  errors.ErrorType
	}{
		{name: "all submitted", approverID: "MGR001", statuses: []domain.Status{domain.StatusSubmitted, domain.StatusSubmitted}},
		{name: "unknown approver", approverID: "MGR404", statuses: []domain.Status{domain.StatusSubmitted}, errorType: errors.ErrorTypeNotFound},
		{name: "empty week", approverID: "MGR001", expected: errors.ErrNoEntries},
		{name: "draft entry", approverID: "MGR001", statuses: []domain.Status{domain.StatusSubmitted, domain.StatusDraft}, expected: errors.ErrNotAllSubmitted},
		{name: "already approved", approverID: "MGR001", statuses: []domain.Status{domain.StatusApproved}, expected: errors.ErrNotAllSubmitted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupServicesWithData(t)
			var ids []int64
			for i, status := range tt.statuses {
				ids = append(ids, f.addEntry(t, "EMP001", "PROJ001", day(15+i, 9), 8, 8, status).ID)
			}

			result, err := f.svc.Timesheets.ApproveTimesheet(context.Background(), "EMP001", day(17, 12), tt.approverID)

			switch {
			case tt.expected != nil:
				assert.ErrorIs(t, err, tt.expected)
			case tt.errorType != errors.ErrorTypeValidation:
				assert.True(t, errors.IsErrorType(err, tt.errorType), "got %v", err)
			default:
				require.NoError(t, err)
				assert.Equal(t, len(ids), result.Updated)
				assert.Equal(t, domain.StatusApproved, result.Status)
				for _, id := range ids {
					assert.Equal(t, domain.StatusApproved, f.entry(t, id).Status)
				}
				return
			}

			for i, id := range ids {
				assert.Equal(t, tt.statuses[i], f.entry(t, id).Status, "entry %d must be unchanged", id)
			}
		})
	}
}

func TestTimesheetService_ApproveTimesheetReportsPendingCount(t *testing.T) {
	f := setupServicesWithData(t)
	f.addEntry(t, "EMP001", "PROJ001", day(15, 9), 8, 8, domain.StatusSubmitted)
	f.addEntry(t, "EMP001", "PROJ001", day(16, 9), 8, 8, domain.StatusDraft)
	f.addEntry(t, "EMP001", "PROJ001", day(17, 9), 8, 8, domain.StatusRejected)

	_, err := f.svc.Timesheets.ApproveTimesheet(context.Background(), "EMP001", day(17, 12), "MGR001")

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	pending, _ := appErr.GetContext("pending")
	assert.Equal(t, 2, pending)
}

func TestTimesheetService_RejectTimesheet(t *testing.T) {
	f := setupServicesWithData(t)
	a := f.addEntry(t, "EMP001", "PROJ001", day(15, 9), 8, 8, domain.StatusSubmitted)
	b := f.addEntry(t, "EMP001", "PROJ002", day(16, 9), 8, 8, domain.StatusSubmitted)

	result, err := f.svc.Timesheets.RejectTimesheet(context.Background(), "EMP001", day(17, 12), "MGR001", "Missing details")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, result.Status)
	assert.Equal(t, 2, result.Updated)

	for _, id := range []int64{a.ID, b.ID} {
		stored := f.entry(t, id)
		assert.Equal(t, domain.StatusRejected, stored.Status)
		assert.Equal(t, "Work\n[REJECTED: Missing details]", stored.Description)
	}
	assert.Contains(t, f.cache.invalidated, "EMP001@2024-01-14")
}

func TestTimesheetService_RejectTimesheetFailures(t *testing.T) {
	t.Run("unknown approver", func(t *testing.T) {
		f := setupServicesWithData(t)
		f.addEntry(t, "EMP001", "PROJ001", day(15, 9), 8, 8, domain.StatusSubmitted)

		_, err := f.svc.Timesheets.RejectTimesheet(context.Background(), "EMP001", day(17, 12), "MGR404", "No")
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	})

	t.Run("empty week", func(t *testing.T) {
		f := setupServicesWithData(t)

		_, err := f.svc.Timesheets.RejectTimesheet(context.Background(), "EMP001", day(17, 12), "MGR001", "No")
		assert.ErrorIs(t, err, errors.ErrNoEntries)
	})

	t.Run("draft entry leaves the week untouched", func(t *testing.T) {
		f := setupServicesWithData(t)
		submitted := f.addEntry(t, "EMP001", "PROJ001", day(15, 9), 8, 8, domain.StatusSubmitted)
		draft := f.addEntry(t, "EMP001", "PROJ001", day(16, 9), 8, 8, domain.StatusDraft)

		_, err := f.svc.Timesheets.RejectTimesheet(context.Background(), "EMP001", day(17, 12), "MGR001", "No")
		assert.ErrorIs(t, err, errors.ErrInvalidTransition)

		assert.Equal(t, submitted, f.entry(t, submitted.ID))
		assert.Equal(t, draft, f.entry(t, draft.ID))
	})
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet-tracker/internal/domain"
	apperrors "timesheet-tracker/internal/errors"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seed(t *testing.T, store *SQLiteStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Employees().Create(ctx, domain.Employee{
		ID: "EMP001", FirstName: "John", LastName: "Doe", Email: "john.doe@company.com",
		Department: "Engineering", Role: "Senior Developer", HourlyRate: 75, Active: true,
		StartDate: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.Projects().Create(ctx, domain.Project{
		ID: "PROJ001", Name: "Website Redesign", Client: "Acme Corp", Budget: 50000,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Status: domain.ProjectStatusActive,
	}))
}

func TestSQLiteStore_Employees(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	ctx := context.Background()

	employee, err := store.Employees().FindByID(ctx, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", employee.FullName())
	assert.False(t, employee.HasManager())

	require.NoError(t, store.Employees().Update(ctx, employee.Deactivate()))

	all, err := store.Employees().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)

	_, err = store.Employees().FindByID(ctx, "EMP404")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestSQLiteStore_Projects(t *testing.T) {
	store := setupStore(t)
	seed(t, store)

	projects, err := store.Projects().FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.True(t, projects[0].IsActive())
}

func TestSQLiteStore_TimeEntries(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	ctx := context.Background()

	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	entry := domain.NewTimeEntry("EMP001", "PROJ001", start, start.Add(8*time.Hour), start)
	entry.BillableHours = 8

	saved, err := store.TimeEntries().Save(ctx, entry)
	require.NoError(t, err)
	require.False(t, saved.IsNew())
	assert.Equal(t, domain.StatusDraft, saved.Status)

	saved.Status = domain.StatusSubmitted
	_, err = store.TimeEntries().Save(ctx, saved)
	require.NoError(t, err)

	got, err := store.TimeEntries().FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	week := domain.WeekRange(start, time.UTC)
	inWeek, err := store.TimeEntries().FindByEmployee(ctx, "EMP001", &week)
	require.NoError(t, err)
	assert.Len(t, inWeek, 1)

	nextWeek := domain.WeekRange(start.AddDate(0, 0, 7), time.UTC)
	none, err := store.TimeEntries().FindByEmployee(ctx, "EMP001", &nextWeek)
	require.NoError(t, err)
	assert.Empty(t, none)

	total, err := store.TimeEntries().SumBillableHours(ctx, "EMP001", domain.StatusSubmitted, week.Start, week.End)
	require.NoError(t, err)
	assert.Equal(t, 8.0, total)

	total, err = store.TimeEntries().SumBillableHours(ctx, "EMP001", domain.StatusApproved, week.Start, week.End)
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, store.TimeEntries().Delete(ctx, saved.ID))
	_, err = store.TimeEntries().FindByID(ctx, saved.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestSQLiteStore_SaveUnknownEntry(t *testing.T) {
	store := setupStore(t)

	_, err := store.TimeEntries().Save(context.Background(), domain.TimeEntry{ID: 42, Status: domain.StatusDraft})

	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestSQLiteStore_WithinTxRollsBack(t *testing.T) {
	store := setupStore(t)
	seed(t, store)
	ctx := context.Background()

	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		_, err := store.TimeEntries().Save(ctx, domain.NewTimeEntry("EMP001", "PROJ001", start, start.Add(time.Hour), start))
		require.NoError(t, err)
		return apperrors.NewNoEntriesError("EMP001", start)
	})
	require.Error(t, err)

	entries, err := store.TimeEntries().FindByEmployee(ctx, "EMP001", nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"timesheet-tracker/internal/config"
	"timesheet-tracker/internal/domain"
	"timesheet-tracker/internal/notification"
	"timesheet-tracker/internal/repository"
)

// fixedNow is a Tuesday inside the week of 2024-01-14.
var fixedNow = time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC)

var weekStart = time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Services
	store    *repository.SQLiteStore
	notifier *recordingNotifier
	cache    *memoryCache
	logs     *bytes.Buffer
}

func setupServices(t *testing.T) *fixture {
	t.Helper()
	store, err := repository.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		store:    store,
		notifier: &recordingNotifier{},
		cache:    newMemoryCache(),
		logs:     &bytes.Buffer{},
	}
	f.svc, err = New(Dependencies{
		Store:    store,
		Config:   config.NewConfig(),
		Logger:   zerolog.New(f.logs),
		Notifier: f.notifier,
		Cache:    f.cache,
		Now:      func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return f
}

// setupServicesWithData seeds employees and projects:
// EMP001 and EMP002 active in Engineering, EMP003 inactive in Engineering,
// EMP004 in Sales, MGR001 an approver; PROJ001 and PROJ002.
func setupServicesWithData(t *testing.T) *fixture {
	t.Helper()
	f := setupServices(t)
	ctx := context.Background()
	hired := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)

	employees := []domain.Employee{
		{ID: "EMP001", FirstName: "John", LastName: "Doe", Email: "john.doe@company.com", Department: "Engineering", Role: "Senior Developer", HourlyRate: 75, Active: true, StartDate: hired},
		{ID: "EMP002", FirstName: "Jane", LastName: "Smith", Email: "jane.smith@company.com", Department: "Engineering", Role: "Developer", HourlyRate: 85, Active: true, StartDate: hired},
		{ID: "EMP003", FirstName: "Bob", LastName: "Stone", Email: "bob.stone@company.com", Department: "Engineering", Role: "Tester", HourlyRate: 60, Active: false, StartDate: hired},
		{ID: "EMP004", FirstName: "Sue", LastName: "Park", Email: "sue.park@company.com", Department: "Sales", Role: "Account Manager", HourlyRate: 70, Active: true, StartDate: hired},
		{ID: "MGR001", FirstName: "Mary", LastName: "Major", Email: "mary.major@company.com", Department: "Engineering", Role: "Manager", HourlyRate: 100, Active: true, StartDate: hired},
	}
	for _, e := range employees {
		require.NoError(t, f.store.Employees().Create(ctx, e))
	}

	projectStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, p := range []domain.Project{
		{ID: "PROJ001", Name: "Website Redesign", Client: "Acme Corp", Budget: 50000, StartDate: projectStart, Status: domain.ProjectStatusActive},
		{ID: "PROJ002", Name: "Internal Tools", Client: "Internal", StartDate: projectStart, Status: domain.ProjectStatusActive},
	} {
		require.NoError(t, f.store.Projects().Create(ctx, p))
	}
	return f
}

// addEntry stores an entry directly, bypassing validation.
func (f *fixture) addEntry(t *testing.T, employeeID, projectID string, start time.Time, hours, billable float64, status domain.Status) domain.TimeEntry {
	t.Helper()
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	entry := domain.NewTimeEntry(employeeID, projectID, start, end, fixedNow.Add(-24*time.Hour))
	entry.Description = "Work"
	entry.BillableHours = billable
	entry.Status = status

	saved, err := f.store.TimeEntries().Save(context.Background(), entry)
	require.NoError(t, err)
	return saved
}

func (f *fixture) entry(t *testing.T, id int64) domain.TimeEntry {
	t.Helper()
	entry, err := f.store.TimeEntries().FindByID(context.Background(), id)
	require.NoError(t, err)
	return entry
}

func day(d, hour int) time.Time {
	return time.Date(2024, 1, d, hour, 0, 0, 0, time.UTC)
}

func floatPtr(v float64) *float64 {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []notification.Submission
	fails error
}

func (n *recordingNotifier) NotifySubmitted(_ context.Context, s notification.Submission) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fails != nil {
		return n.fails
	}
	n.sent = append(n.sent, s)
	return nil
}

// memoryCache is a ReportCache kept in a map.
type memoryCache struct {
	mu          sync.Mutex
	values      map[string][]byte
	hits        int
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *memoryCache) InvalidateWeek(_ context.Context, employeeID string, weekStart time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.values {
		delete(c.values, key)
	}
	c.invalidated = append(c.invalidated, employeeID+"@"+weekStart.Format("2006-01-02"))
	return nil
}

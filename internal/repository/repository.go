// Package repository declares the storage ports used by the services and the
// adapter that serves them from the SQLite repository.
package repository

import (
	"context"
	"time"

	"timesheet-tracker/internal/domain"
)

// EmployeeRepository stores employees. Lookups of absent ids fail with a
// NotFound AppError.
type EmployeeRepository interface {
	FindByID(ctx context.Context, id string) (domain.Employee, error)
	// FindAll returns active and inactive employees in a stable order.
	FindAll(ctx context.Context) ([]domain.Employee, error)
	Create(ctx context.Context, employee domain.Employee) error
	Update(ctx context.Context, employee domain.Employee) error
}

// ProjectRepository stores projects.
type ProjectRepository interface {
	FindByID(ctx context.Context, id string) (domain.Project, error)
	FindAll(ctx context.Context) ([]domain.Project, error)
	Create(ctx context.Context, project domain.Project) error
	Update(ctx context.Context, project domain.Project) error
}

// TimeEntryRepository stores time entries.
type TimeEntryRepository interface {
	// Save inserts new entries, assigning their id, and updates existing ones.
	Save(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error)
	FindByID(ctx context.Context, id int64) (domain.TimeEntry, error)
	// FindByEmployee lists an employee's entries by start time. A nil week
	// returns every entry.
	FindByEmployee(ctx context.Context, employeeID string, week *domain.TimeRange) ([]domain.TimeEntry, error)
	Delete(ctx context.Context, id int64) error
	// SumBillableHours totals billable hours of entries in status lying
	// entirely within [from, to].
	SumBillableHours(ctx context.Context, employeeID string, status domain.Status, from, to time.Time) (float64, error)
}

// Transactor runs fn atomically. Repository calls made with the ctx passed to
// fn join the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	// WithinReadOnly runs fn against one consistent view of the store.
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store bundles the repositories of one backend.
type Store interface {
	Transactor
	Employees() EmployeeRepository
	Projects() ProjectRepository
	TimeEntries() TimeEntryRepository
	Close() error
}

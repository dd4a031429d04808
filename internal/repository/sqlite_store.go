package repository

import (
	"context"
	"time"

	"timesheet-tracker/internal/domain"
	"timesheet-tracker/internal/repository/sqlite"
)

// SQLiteStore adapts sqlite.Repository rows to domain values.
type SQLiteStore struct {
	repo   sqlite.Repository
	mapper *domain.Mapper
}

// NewSQLiteStore wraps an open SQLite repository.
func NewSQLiteStore(repo sqlite.Repository) *SQLiteStore {
	return &SQLiteStore{repo: repo, mapper: domain.NewMapper()}
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	repo, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(repo), nil
}

func (s *SQLiteStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.repo.WithinTx(ctx, fn)
}

// WithinReadOnly runs fn in an ordinary transaction; SQLite serialises
// readers with writers already.
func (s *SQLiteStore) WithinReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.repo.WithinTx(ctx, fn)
}

func (s *SQLiteStore) Employees() EmployeeRepository { return sqliteEmployees{s} }
func (s *SQLiteStore) Projects() ProjectRepository { return sqliteProjects{s} }
func (s *SQLiteStore) TimeEntries() TimeEntryRepository { return sqliteTimeEntries{s} }

func (s *SQLiteStore) Close() error {
	return s.repo.Close()
}

type sqliteEmployees struct{ s *SQLiteStore }

func (r sqliteEmployees) FindByID(ctx context.Context, id string) (domain.Employee, error) {
	row, err := r.s.repo.GetEmployee(ctx, id)
	if err != nil {
		return domain.Employee{}, err
	}
	return r.s.mapper.Employee.FromDatabase(*row), nil
}

func (r sqliteEmployees) FindAll(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return r.s.mapper.Employee.FromDatabaseSlice(deref(rows)), nil
}

func (r sqliteEmployees) Create(ctx context.Context, employee domain.Employee) error {
	row := r.s.mapper.Employee.ToDatabase(employee)
	return r.s.repo.CreateEmployee(ctx, &row)
}

func (r sqliteEmployees) Update(ctx context.Context, employee domain.Employee) error {
	row := r.s.mapper.Employee.ToDatabase(employee)
	return r.s.repo.UpdateEmployee(ctx, &row)
}

type sqliteProjects struct{ s *SQLiteStore }

func (r sqliteProjects) FindByID(ctx context.Context, id string) (domain.Project, error) {
	row, err := r.s.repo.GetProject(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	return r.s.mapper.Project.FromDatabase(*row), nil
}

func (r sqliteProjects) FindAll(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.s.repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return r.s.mapper.Project.FromDatabaseSlice(deref(rows)), nil
}

func (r sqliteProjects) Create(ctx context.Context, project domain.Project) error {
	row := r.s.mapper.Project.ToDatabase(project)
	return r.s.repo.CreateProject(ctx, &row)
}

func (r sqliteProjects) Update(ctx context.Context, project domain.Project) error {
	row := r.s.mapper.Project.ToDatabase(project)
	return r.s.repo.UpdateProject(ctx, &row)
}

type sqliteTimeEntries struct{ s *SQLiteStore }

func (r sqliteTimeEntries) Save(ctx context.Context, entry domain.TimeEntry) (domain.TimeEntry, error) {
	row := r.s.mapper.TimeEntry.ToDatabase(entry)
	if entry.IsNew() {
		if err := r.s.repo.CreateTimeEntry(ctx, &row); err != nil {
			return entry, err
		}
		entry.ID = row.ID
		entry.Status = entry.Status.OrDraft()
		return entry, nil
	}
	if err := r.s.repo.UpdateTimeEntry(ctx, &row); err != nil {
		return entry, err
	}
	return entry, nil
}

func (r sqliteTimeEntries) FindByID(ctx context.Context, id int64) (domain.TimeEntry, error) {
	row, err := r.s.repo.GetTimeEntry(ctx, id)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	return r.s.mapper.TimeEntry.FromDatabase(*row), nil
}

func (r sqliteTimeEntries) FindByEmployee(ctx context.Context, employeeID string, week *domain.TimeRange) ([]domain.TimeEntry, error) {
	rows, err := r.s.repo.ListTimeEntries(ctx, r.s.mapper.EntryFilter.ToDatabase(employeeID, week))
	if err != nil {
		return nil, err
	}
	return r.s.mapper.TimeEntry.FromDatabaseSlice(deref(rows)), nil
}

func (r sqliteTimeEntries) Delete(ctx context.Context, id int64) error {
	return r.s.repo.DeleteTimeEntry(ctx, id)
}

func (r sqliteTimeEntries) SumBillableHours(ctx context.Context, employeeID string, status domain.Status, from, to time.Time) (float64, error) {
	return r.s.repo.SumBillableHours(ctx, employeeID, string(status), from, to)
}

func deref[T any](rows []*T) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out
}

var _ Store = (*SQLiteStore)(nil)

package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"timesheet-tracker/internal/repository"
)

// Store serves the repository ports from a pgx pool.
type Store struct {
	*TransactionManager
	pool        *pgxpool.Pool
	employees   *EmployeeRepository
	projects    *ProjectRepository
	timeEntries *TimeEntryRepository
}

// NewStore wires the repositories over pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		TransactionManager: NewTransactionManager(pool),
		pool:               pool,
		employees:          NewEmployeeRepository(pool),
		projects:           NewProjectRepository(pool),
		timeEntries:        NewTimeEntryRepository(pool),
	}
}

func (s *Store) Employees() repository.EmployeeRepository { return s.employees }
func (s *Store) Projects() repository.ProjectRepository { return s.projects }
func (s *Store) TimeEntries() repository.TimeEntryRepository { return s.timeEntries }

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

var _ repository.Store = (*Store)(nil)

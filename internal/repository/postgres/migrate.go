package postgres

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration actions accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateVersion = "version"
)

// MigrationStatus reports the schema version after a migration action.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	// None is set when no migration has been applied.
	None bool
}

func (s MigrationStatus) String() string {
	if s.None {
		return "no migration applied"
	}
	return fmt.Sprintf("version=%d dirty=%t", s.Version, s.Dirty)
}

// Migrate runs action against the database at dsn using the embedded migrations.
func Migrate(action, dsn string) (MigrationStatus, error) {
	switch action {
	case MigrateUp, MigrateDown, MigrateVersion:
	default:
		return MigrationStatus{}, fmt.Errorf("unsupported action %q", action)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case MigrateUp:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return MigrationStatus{}, err
		}
	case MigrateDown:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return MigrationStatus{}, err
		}
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return MigrationStatus{None: true}, nil
	}
	if err != nil {
		return MigrationStatus{}, err
	}
	return MigrationStatus{Version: version, Dirty: dirty}, nil
}

package postgres

import (
	stderrors "errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

// MigrationState is the schema version recorded by golang-migrate.
type MigrationState struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

// MigrateUp applies all pending migrations. No pending migration is not an
// error.
func MigrateUp(dsn, dir string) error {
	m, err := migrate.New(sourceURL(dir), dsn)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migrate instance")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to run migrations")
	}
	return nil
}

// MigrateDown rolls back steps migrations.
func MigrateDown(dsn, dir string, steps int) error {
	if steps <= 0 {
		return errors.NewValidationError("steps", "steps must be greater than 0")
	}
	m, err := migrate.New(sourceURL(dir), dsn)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migrate instance")
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			return errors.New(errors.ErrCodeConflict, "no migrations to roll back")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "rollback failed")
	}
	return nil
}

// MigrateStatus reports the applied version. A fresh database is version 0.
func MigrateStatus(dsn, dir string) (MigrationState, error) {
	m, err := migrate.New(sourceURL(dir), dsn)
	if err != nil {
		return MigrationState{}, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migrate instance")
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil {
		if stderrors.Is(err, migrate.ErrNilVersion) {
			return MigrationState{}, nil
		}
		return MigrationState{}, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read migration version")
	}
	return MigrationState{Version: version, Dirty: dirty}, nil
}

//Personal.AI order the ending

package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/NomadCrew/feedback-service/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies all pending migrations to the SQLite file at path.
// It opens its own connection so the caller's Manager is unaffected.
// Safe to call on every startup; already-applied migrations are skipped.
func RunMigrations(path string) error {
	log := logger.GetLogger()

	path = ResolvePath(path)
	if path == memoryPath {
		return fmt.Errorf("cannot migrate an in-memory database through a separate connection")
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, "sqlite3://"+path)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Infow("Fresh database, applying all migrations", "path", path)
	case err != nil:
		return fmt.Errorf("failed to read migration version: %w", err)
	case dirty:
		// A previous run failed partway. Statements are idempotent, so step
		// back one version and retry.
		log.Warnw("Dirty migration state detected, resetting to retry", "dirtyVersion", version)
		target := int(version) - 1
		if target < 1 {
			target = -1
		}
		if err := m.Force(target); err != nil {
			return fmt.Errorf("failed to reset dirty migration: %w", err)
		}
	default:
		log.Infow("Current migration version", "version", version)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database is up to date, no migrations to apply")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	version, _, err = m.Version()
	if err != nil {
		log.Infow("Migrations applied successfully")
	} else {
		log.Infow("Migrations applied successfully", "currentVersion", version)
	}
	return nil
}

package db

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// SetupTestDB creates a migrated database file inside dir and returns an
// opened Manager for it. Callers own Close.
func SetupTestDB(dir string) (*Manager, error) {
	path := filepath.Join(dir, "feedback_test.db")
	if err := RunMigrations(path); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	m := NewManager(Config{Path: path, BusyTimeout: time.Second})
	if _, err := m.Open(context.Background()); err != nil {
		return nil, err
	}
	return m, nil
}

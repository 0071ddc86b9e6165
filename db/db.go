// Package db owns the process's SQLite handle and the thin query helpers
// layered on top of it. Schema lives in migrations/ and is applied by
// RunMigrations; the helpers assume the tables already exist.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/NomadCrew/feedback-service/logger"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	driverName = "sqlite3"

	// DefaultBusyTimeout is how long a writer waits on a locked database before failing.
	DefaultBusyTimeout = 4000 * time.Millisecond

	memoryPath = ":memory:"
)

// Config describes where the store lives and how it behaves under contention.
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// Manager owns a single lazily opened handle to the on-disk store.
// All helpers share that handle; the pool is capped at one connection so
// writes serialize through SQLite's own locking.
type Manager struct {
	path        string
	busyTimeout time.Duration

	mu   sync.Mutex
	sql  *sql.DB
	gorm *gorm.DB
}

// NewManager creates a Manager. Nothing touches the filesystem until Open.
func NewManager(cfg Config) *Manager {
	timeout := cfg.BusyTimeout
	if timeout <= 0 {
		timeout = DefaultBusyTimeout
	}
	return &Manager{
		path:        ResolvePath(cfg.Path),
		busyTimeout: timeout,
	}
}

// ResolvePath turns a configured path into the file the manager opens.
// Empty falls back to data/feedback.db; relative paths resolve against the
// working directory.
func ResolvePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		p = filepath.Join("data", "feedback.db")
	}
	if p == memoryPath || strings.HasPrefix(p, "file:") || filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// Path returns the resolved database location.
func (m *Manager) Path() string {
	return m.path
}

// Open returns the shared handle, creating the backing file and its parent
// directory if needed. Repeated calls return the same handle.
func (m *Manager) Open(ctx context.Context) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.openLocked(ctx); err != nil {
		return nil, err
	}
	return m.sql, nil
}

func (m *Manager) openLocked(ctx context.Context) error {
	if m.sql != nil {
		return nil
	}

	if err := ensureDir(m.path); err != nil {
		return err
	}

	sqlDB, err := sql.Open(driverName, m.path)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", m.path, err)
	}

	// SQLite has one writer; a single pooled connection keeps pragmas and
	// locking behaviour consistent across helpers.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to connect to database %s: %w", m.path, err)
	}

	if err := applyPragmas(ctx, sqlDB, m.busyTimeout); err != nil {
		sqlDB.Close()
		return err
	}

	gormDB, err := gorm.Open(sqlite.Dialector{DriverName: driverName, Conn: sqlDB}, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to initialize query builder: %w", err)
	}

	m.sql = sqlDB
	m.gorm = gormDB

	logger.GetLogger().Infow("Database opened",
		"path", m.path,
		"busy_timeout_ms", m.busyTimeout.Milliseconds())
	return nil
}

// Close releases the handle. A later Open creates a fresh one.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sql == nil {
		return nil
	}
	err := m.sql.Close()
	m.sql = nil
	m.gorm = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Ping checks the connection and returns the SQLite library version.
func (m *Manager) Ping(ctx context.Context) (string, error) {
	row, ok, err := m.FetchOne(ctx, "SELECT 1 AS ok, sqlite_version() AS sqlite_version", nil)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("ping returned no rows")
	}
	version, _ := row["sqlite_version"].(string)
	return version, nil
}

// handles returns both views of the shared connection, opening it on first use.
func (m *Manager) handles(ctx context.Context) (*sql.DB, *gorm.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.openLocked(ctx); err != nil {
		return nil, nil, err
	}
	return m.sql, m.gorm, nil
}

// applyPragmas sets the durability and concurrency settings once per handle.
func applyPragmas(ctx context.Context, db *sql.DB, busyTimeout time.Duration) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout.Milliseconds()),
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func ensureDir(path string) error {
	if path == memoryPath || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}

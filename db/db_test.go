package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-service/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := SetupTestDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestManager_OpenCreatesDirectoryAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "app.db")
	m := NewManager(Config{Path: path})
	t.Cleanup(func() { _ = m.Close() })

	_, err := m.Open(context.Background())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestManager_OpenIsIdempotent(t *testing.T) {
	m := NewManager(Config{Path: filepath.Join(t.TempDir(), "app.db")})
	t.Cleanup(func() { _ = m.Close() })

	first, err := m.Open(context.Background())
	require.NoError(t, err)
	second, err := m.Open(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestManager_AppliesPragmas(t *testing.T) {
	m := NewManager(Config{Path: filepath.Join(t.TempDir(), "app.db")})
	t.Cleanup(func() { _ = m.Close() })

	sqlDB, err := m.Open(context.Background())
	require.NoError(t, err)

	tests := []struct {
		pragma   string
		expected string
	}{
		{pragma: "journal_mode", expected: "wal"},
		{pragma: "synchronous", expected: "1"},
		{pragma: "foreign_keys", expected: "1"},
		{pragma: "busy_timeout", expected: "4000"},
	}
	for _, tt := range tests {
		t.Run(tt.pragma, func(t *testing.T) {
			var value string
			require.NoError(t, sqlDB.QueryRow("PRAGMA "+tt.pragma).Scan(&value))
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestManager_CustomBusyTimeout(t *testing.T) {
	m := NewManager(Config{Path: filepath.Join(t.TempDir(), "app.db"), BusyTimeout: 250 * time.Millisecond})
	t.Cleanup(func() { _ = m.Close() })

	sqlDB, err := m.Open(context.Background())
	require.NoError(t, err)

	var value int
	require.NoError(t, sqlDB.QueryRow("PRAGMA busy_timeout").Scan(&value))
	assert.Equal(t, 250, value)
}

func TestManager_CloseResetsHandle(t *testing.T) {
	m := NewManager(Config{Path: filepath.Join(t.TempDir(), "app.db")})

	first, err := m.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "closing twice is a no-op")

	second, err := m.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	assert.NotSame(t, first, second)
	assert.NoError(t, second.Ping())
}

func TestManager_OpenFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	m := NewManager(Config{Path: filepath.Join(blocker, "app.db")})
	_, err := m.Open(context.Background())
	require.Error(t, err)

	_, err = m.Execute(context.Background(), "SELECT 1", nil)
	assert.Error(t, err, "helpers surface the open failure")
}

func TestManager_Ping(t *testing.T) {
	m := newTestManager(t)

	version, err := m.Ping(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, version)
}

func TestResolvePath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(wd, "data", "feedback.db"), ResolvePath(""))
	assert.Equal(t, filepath.Join(wd, "custom.db"), ResolvePath("custom.db"))
	assert.Equal(t, "/var/lib/feedback.db", ResolvePath("/var/lib/feedback.db"))
	assert.Equal(t, ":memory:", ResolvePath(":memory:"))
}

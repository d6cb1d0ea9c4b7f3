package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/orgchart/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory store that is closed with the test.
// It holds a single connection.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openDB(t, db.MemoryPath)
}

// NewFileTestDB opens a migrated store in a temp directory. Unlike
// NewTestDB every pooled connection shares it, so concurrent readers and
// writers can be exercised.
func NewFileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openDB(t, filepath.Join(t.TempDir(), "organization.sqlite3"))
}

func openDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err, "opening test store")
	t.Cleanup(func() { database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// Package testutil provides test utilities for database setup.
package testutil

import (
	"database/sql"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/require"

	"github.com/plotline-dev/plotline/internal/history"
)

// NewTestDB creates an in-memory SQLite database with the interaction
// history schema. The caller is responsible for closing the database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	_, err = db.Exec(history.Schema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Package testutil provides shared test helpers for key-value backends.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/jotpad/internal/storage"
)

// TempSQLite creates a temporary SQLite backend that is automatically cleaned up.
func TempSQLite(t *testing.T) *storage.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "jotpad-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := storage.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TempFS creates a file backend rooted in a temporary directory.
func TempFS(t *testing.T) *storage.FS {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

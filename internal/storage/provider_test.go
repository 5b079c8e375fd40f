package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/starford/jotpad/internal/apperr"
)

// exerciseProvider runs the behaviour every backend must share.
func exerciseProvider(t *testing.T, p Provider) {
	t.Helper()
	ctx := context.Background()

	if _, err := p.Get(ctx, "notes"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Get on empty store: err = %v, want ErrNotFound", err)
	}

	if err := p.Set(ctx, "notes", []byte(`["a"]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := p.Get(ctx, "notes")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `["a"]` {
		t.Errorf("Get = %q", got)
	}

	if err := p.Set(ctx, "notes", []byte(`["a","b"]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = p.Get(ctx, "notes")
	if string(got) != `["a","b"]` {
		t.Errorf("after overwrite Get = %q", got)
	}

	if err := p.Set(ctx, "empty", []byte{}); err != nil {
		t.Fatalf("Set empty: %v", err)
	}
	got, err = p.Get(ctx, "empty")
	if err != nil {
		t.Fatalf("Get empty: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty value = %q", got)
	}
}

func TestMemoryProvider(t *testing.T) {
	exerciseProvider(t, NewMemory())
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	buf := []byte("abc")
	_ = m.Set(ctx, "k", buf)
	buf[0] = 'x'
	got, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller buffer: %q", got)
	}
	got[1] = 'y'
	again, _ := m.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("returned value aliased stored value: %q", again)
	}
}

func TestFSProvider(t *testing.T) {
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	exerciseProvider(t, fs)
}

func TestSQLiteProvider(t *testing.T) {
	dbFile, err := os.CreateTemp("", "jotpad-kv-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	exerciseProvider(t, db)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	dbFile, err := os.CreateTemp("", "jotpad-kv-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	ctx := context.Background()
	db, err := OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := db.Set(ctx, "notes", []byte(`["kept"]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	db.Close()

	db, err = OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	got, err := db.Get(ctx, "notes")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `["kept"]` {
		t.Errorf("Get = %q", got)
	}
}

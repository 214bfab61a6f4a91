package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "questlog-test.db")
	store, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type statsDoc struct {
	Level int       `json:"level"`
	XP    int       `json:"xp"`
	Since time.Time `json:"since"`
}

func TestPutGetRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	in := statsDoc{Level: 3, XP: 2450, Since: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	if err := store.Put(ctx, KeyStats, in); err != nil {
		t.Fatalf("put: %v", err)
	}

	var out statsDoc
	if err := store.Get(ctx, KeyStats, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestPutReplacesWholeDocument(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, KeyTasks, []string{"a", "b"}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := store.Put(ctx, KeyTasks, []string{"c"}); err != nil {
		t.Fatalf("second put: %v", err)
	}

	var out []string
	if err := store.Get(ctx, KeyTasks, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(out) != 1 || out[0] != "c" {
		t.Fatalf("expected last write to win, got %v", out)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := setupStore(t)
	var out statsDoc
	if err := store.Get(context.Background(), "absent", &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestDeleteMissingKey(t *testing.T) {
	store := setupStore(t)
	if err := store.Delete(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestLoadFallsBackOnMissing(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	got, err := Load(ctx, store, KeyStats, func() statsDoc { return statsDoc{Level: 1} })
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Level != 1 {
		t.Fatalf("expected fallback document, got %+v", got)
	}

	if err := store.Put(ctx, KeyStats, statsDoc{Level: 5}); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err = Load(ctx, store, KeyStats, func() statsDoc { return statsDoc{Level: 1} })
	if err != nil {
		t.Fatalf("load after put: %v", err)
	}
	if got.Level != 5 {
		t.Fatalf("expected stored document, got %+v", got)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := setupStore(t)
	if err := Migrate(store.db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestMemoryStoreMatchesContract(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var out statsDoc
	if err := store.Get(ctx, KeyStats, &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if err := store.Put(ctx, KeyStats, statsDoc{Level: 2}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Get(ctx, KeyStats, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Level != 2 {
		t.Fatalf("unexpected document: %+v", out)
	}
	if err := store.Delete(ctx, KeyStats); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Get(ctx, KeyStats, &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
}

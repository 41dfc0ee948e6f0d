package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/mindr/internal/model"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(t.Context(), db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateDown(t.Context(), db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	if err := MigrateUp(t.Context(), db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	repo, err := NewSQLiteRepository(t.Context(), db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	in := []model.Record{{ID: 0, Created: now, Modified: now, Status: model.StatusTodo, Description: "Roundtrip todo"}}
	if err := repo.Save(t.Context(), in); err != nil {
		t.Fatalf("save after roundtrip failed: %v", err)
	}
	got, err := repo.Load(t.Context())
	if err != nil {
		t.Fatalf("load after roundtrip failed: %v", err)
	}
	if len(got) != 1 || got[0].Description != "Roundtrip todo" {
		t.Fatalf("unexpected records after roundtrip: %#v", got)
	}
}

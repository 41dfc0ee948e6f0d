package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandeepkv93/mindr/internal/model"
)

func TestFileRepositoryCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "todo.txt")
	repo := NewFileRepository(path, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty file, got %d bytes", info.Size())
	}
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.txt")
	repo := NewFileRepository(path, nil)
	in := sampleRecords(t)

	if err := repo.Save(context.Background(), in); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "3|2026-02-09T12:00:00.123456789Z|") || !strings.HasSuffix(lines[0], "|Done|Third id first") {
		t.Fatalf("unexpected file content:\n%s", raw)
	}

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(in) {
		t.Fatalf("expected %d records, got %d", len(in), len(got))
	}
	for i := range in {
		if got[i].ID != in[i].ID || got[i].Description != in[i].Description {
			t.Fatalf("record %d mismatch: %#v vs %#v", i, got[i], in[i])
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

func TestFileRepositoryCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.txt")
	content := "0|2026-02-09T12:00:00Z|2026-02-09T12:00:00Z|Todo|ok\n1|2026-02-09T12:00:00Z|Todo|missing field\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := NewFileRepository(path, nil).Load(context.Background())
	if !errors.Is(err, model.ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected no partial list, got %#v", got)
	}
	if !strings.Contains(err.Error(), "delete the file") {
		t.Fatalf("expected recovery advice in %q", err.Error())
	}
}

func TestFileRepositoryUnknownStatusWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.txt")
	content := "0|2026-02-09T12:00:00Z|2026-02-09T12:00:00Z|Paused|ok\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var logs bytes.Buffer
	got, err := NewFileRepository(path, slog.New(slog.NewTextHandler(&logs, nil))).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Status != model.StatusTodo {
		t.Fatalf("expected Todo fallback, got %#v", got)
	}
	if !strings.Contains(logs.String(), "unknown todo status") {
		t.Fatalf("expected warning, got %q", logs.String())
	}
}

func TestFileRepositorySaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	repo := NewFileRepository(filepath.Join(blocker, "todo.txt"), nil)

	err := repo.Save(context.Background(), sampleRecords(t))
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", err)
	}
	var pe *PersistError
	if !errors.As(err, &pe) || pe.Path != filepath.Join(blocker, "todo.txt") {
		t.Fatalf("expected *PersistError with path, got %#v", err)
	}
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()
	fileRepo, err := Open("file", filepath.Join(dir, "todo.txt"), nil)
	if err != nil {
		t.Fatalf("open file backend: %v", err)
	}
	if _, ok := fileRepo.(*FileRepository); !ok {
		t.Fatalf("expected *FileRepository, got %T", fileRepo)
	}

	sqliteRepo, err := Open("sqlite", filepath.Join(dir, "todo.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite backend: %v", err)
	}
	defer sqliteRepo.Close()
	if _, ok := sqliteRepo.(*SQLiteRepository); !ok {
		t.Fatalf("expected *SQLiteRepository, got %T", sqliteRepo)
	}

	if _, err := Open("redis", filepath.Join(dir, "x"), nil); err == nil {
		t.Fatal("expected unknown backend error")
	}
}

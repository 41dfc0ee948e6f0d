package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sandeepkv93/mindr/internal/model"
)

// FileRepository keeps the list in a plain text file, one record per line.
type FileRepository struct {
	path   string
	logger *slog.Logger
}

func NewFileRepository(path string, logger *slog.Logger) *FileRepository {
	return &FileRepository{path: path, logger: orDefault(logger)}
}

func (r *FileRepository) Path() string { return r.path }

// Load reads the list. A missing file is created empty.
func (r *FileRepository) Load(ctx context.Context) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := r.create(); err != nil {
			return nil, err
		}
		return []model.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", r.path, err)
	}
	defer f.Close()

	records, err := model.ReadRecords(f, func(err error) {
		r.logger.Warn("unknown todo status, using Todo", "path", r.path, "err", err)
	})
	if err != nil {
		return nil, corrupted(r.path, err)
	}
	return records, nil
}

// Save rewrites the file through a temporary sibling and a rename so a failed
// write never leaves a truncated list behind.
func (r *FileRepository) Save(ctx context.Context, records []model.Record) error {
	if err := ctx.Err(); err != nil {
		return &PersistError{Path: r.path, Err: err}
	}
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return &PersistError{Path: r.path, Err: fmt.Errorf("record %d: %w", rec.ID, err)}
		}
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PersistError{Path: r.path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*")
	if err != nil {
		return &PersistError{Path: r.path, Err: err}
	}
	if err := model.WriteRecords(tmp, records); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return &PersistError{Path: r.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return &PersistError{Path: r.path, Err: err}
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		_ = os.Remove(tmp.Name())
		return &PersistError{Path: r.path, Err: err}
	}
	return nil
}

func (r *FileRepository) Close() error { return nil }

func (r *FileRepository) create() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("storage: create directory for %s: %w", r.path, err)
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("storage: create %s: %w", r.path, err)
	}
	r.logger.Info("created todo list file", "path", r.path)
	return f.Close()
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sandeepkv93/mindr/internal/model"
)

var ErrPersist = errors.New("storage: persist failed")

// PersistError reports a failed write of the whole list.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrPersist, e.Path, e.Err)
}

func (e *PersistError) Unwrap() []error { return []error{ErrPersist, e.Err} }

// Repository loads and rewrites the whole todo list. Order is significant in
// both directions.
type Repository interface {
	Load(ctx context.Context) ([]model.Record, error)
	Save(ctx context.Context, records []model.Record) error
	Close() error
}

// Open returns the repository for backend ("file" or "sqlite") at path.
func Open(backend, path string, logger *slog.Logger) (Repository, error) {
	switch backend {
	case "", "file":
		return NewFileRepository(path, logger), nil
	case "sqlite":
		repo, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		repo.logger = orDefault(logger)
		return repo, nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// corrupted decorates a decode error with the recovery advice shown to the user.
func corrupted(path string, err error) error {
	return fmt.Errorf("storage: %s seems to be corrupted, fix the reported line or delete the file and restart mindr (deleting it destroys the todo list): %w", path, err)
}

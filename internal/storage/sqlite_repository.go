package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/mindr/internal/model"
)

// SQLiteRepository stores the list in a single table. The position column
// carries list order.
type SQLiteRepository struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

func NewSQLiteRepository(ctx context.Context, db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if err := MigrateUp(ctx, db); err != nil {
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return &SQLiteRepository{db: db, logger: slog.Default()}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create directory for %s: %w", path, err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(context.Background(), db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	repo.path = path
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Load applies the same validation as the text format: a bad timestamp is
// corruption, an unknown status is logged and read as Todo.
func (r *SQLiteRepository) Load(ctx context.Context) ([]model.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT position, id, date_created, date_modified, status, description
		FROM todos ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("storage: query todos: %w", err)
	}
	defer rows.Close()

	out := make([]model.Record, 0)
	ids := model.NewIDSet()
	for rows.Next() {
		rec, scanErr := r.scanRecord(rows)
		if scanErr != nil {
			return nil, corrupted(r.path, scanErr)
		}
		if idErr := ids.Add(len(out)+1, rec.ID); idErr != nil {
			return nil, corrupted(r.path, idErr)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: read todos: %w", err)
	}
	return out, nil
}

// Save replaces every row in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, records []model.Record) (err error) {
	fail := func(e error) error { return &PersistError{Path: r.path, Err: e} }

	for _, rec := range records {
		if vErr := rec.Validate(); vErr != nil {
			return fail(fmt.Errorf("record %d: %w", rec.ID, vErr))
		}
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fail(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM todos`); err != nil {
		return fail(err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO todos (position, id, date_created, date_modified, status, description)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fail(err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err = stmt.ExecContext(ctx, i, int(rec.ID),
			model.FormatTime(rec.Created), model.FormatTime(rec.Modified),
			string(rec.Status), rec.Description,
		); err != nil {
			return fail(err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fail(err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepository) scanRecord(s scanner) (model.Record, error) {
	var (
		position          int
		id                int64
		created, modified string
		status, desc      string
	)
	if err := s.Scan(&position, &id, &created, &modified, &status, &desc); err != nil {
		return model.Record{}, err
	}
	row := position + 1
	if id < 0 || id > 65535 {
		return model.Record{}, &model.RecordError{Line: row, Field: "id", Err: fmt.Errorf("%w: %d is not a valid id", model.ErrCorruptRecord, id)}
	}
	createdAt, err := model.ParseTime(created)
	if err != nil {
		return model.Record{}, &model.RecordError{Line: row, Field: "date_created", Err: fmt.Errorf("%w: %q is not a valid timestamp", model.ErrCorruptRecord, created)}
	}
	modifiedAt, err := model.ParseTime(modified)
	if err != nil {
		return model.Record{}, &model.RecordError{Line: row, Field: "date_modified", Err: fmt.Errorf("%w: %q is not a valid timestamp", model.ErrCorruptRecord, modified)}
	}
	if strings.TrimSpace(desc) == "" {
		return model.Record{}, &model.RecordError{Line: row, Field: "description", Err: fmt.Errorf("%w: description is empty", model.ErrCorruptRecord)}
	}
	st, err := model.ParseStatus(status)
	if err != nil {
		r.logger.Warn("unknown todo status, using Todo", "path", r.path, "row", row, "err", err)
	}
	return model.Record{
		ID:          uint16(id),
		Created:     createdAt,
		Modified:    modifiedAt,
		Status:      st,
		Description: desc,
	}, nil
}

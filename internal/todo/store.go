// Package todo owns the in-memory todo list, its selection cursor and every
// mutation of it. Each mutation is persisted before it returns.
package todo

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/sandeepkv93/mindr/internal/config"
	"github.com/sandeepkv93/mindr/internal/model"
	"github.com/sandeepkv93/mindr/internal/storage"
	"github.com/sandeepkv93/mindr/internal/views"
)

// PromptKind tells Submit what the confirmed editor text is for.
type PromptKind int

const (
	PromptAdd PromptKind = iota
	PromptEdit
)

func (k PromptKind) String() string {
	if k == PromptEdit {
		return "edit"
	}
	return "add"
}

// Prompt asks the caller to open a line editor at X, Y pre-filled with
// Initial, and to hand the confirmed text back through Submit.
type Prompt struct {
	Kind    PromptKind
	X, Y    int
	Initial string
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Store is the todo list with its selection cursor, backed by a Repository.
type Store struct {
	repo     storage.Repository
	style    config.Selection
	records  []model.Record
	selected int
	now      func() time.Time
	logger   *slog.Logger
}

// New returns an empty Store; call Load to read the repository.
func New(repo storage.Repository, style config.Selection, opts ...Option) *Store {
	s := &Store{
		repo:    repo,
		style:   style,
		records: []model.Record{},
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetLogger swaps the logger, e.g. once the interface owns the terminal.
func (s *Store) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Load replaces the list with the repository contents. On failure the
// current list is left untouched.
func (s *Store) Load(ctx context.Context) error {
	records, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	s.records = records
	s.selected = 0
	s.logger.Debug("todo list loaded", "count", len(records))
	return nil
}

func (s *Store) Save(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.records); err != nil {
		return err
	}
	s.logger.Debug("todo list saved", "count", len(s.records))
	return nil
}

func (s *Store) Len() int { return len(s.records) }

func (s *Store) Selected() int { return s.selected }

// Records returns a copy of the list in display order.
func (s *Store) Records() []model.Record {
	return slices.Clone(s.records)
}

// SelectedRecord reports false on an empty list.
func (s *Store) SelectedRecord() (model.Record, bool) {
	if len(s.records) == 0 {
		return model.Record{}, false
	}
	return s.records[s.selected], true
}

func (s *Store) MoveSelectionUp() {
	if s.selected > 0 {
		s.selected--
	}
}

func (s *Store) MoveSelectionDown() {
	if s.selected < len(s.records)-1 {
		s.selected++
	}
}

func (s *Store) ToggleSelectedStatus(ctx context.Context) error {
	if len(s.records) == 0 {
		return nil
	}
	rec := &s.records[s.selected]
	rec.Status = rec.Status.Toggle()
	rec.Modified = s.timestamp()
	return s.Save(ctx)
}

// Add appends a Todo record. Blank descriptions are ignored.
func (s *Store) Add(ctx context.Context, description string) error {
	desc := model.CleanDescription(description)
	if desc == "" {
		return nil
	}
	id, err := model.NextID(s.records)
	if err != nil {
		return err
	}
	now := s.timestamp()
	s.records = append(s.records, model.Record{
		ID:          id,
		Created:     now,
		Modified:    now,
		Status:      model.StatusTodo,
		Description: desc,
	})
	return s.Save(ctx)
}

func (s *Store) RemoveSelected(ctx context.Context) error {
	if len(s.records) == 0 {
		return nil
	}
	s.records = slices.Delete(s.records, s.selected, s.selected+1)
	if s.selected >= len(s.records) && s.selected > 0 {
		s.selected--
	}
	return s.Save(ctx)
}

// EditSelected replaces the selected description. Blank text removes the
// record instead.
func (s *Store) EditSelected(ctx context.Context, description string) error {
	if len(s.records) == 0 {
		return nil
	}
	desc := model.CleanDescription(description)
	if desc == "" {
		return s.RemoveSelected(ctx)
	}
	rec := &s.records[s.selected]
	rec.Description = desc
	rec.Modified = s.timestamp()
	return s.Save(ctx)
}

// HandleKey applies list actions. AddTodo and EditTodo do not change the list
// yet; they return the Prompt the caller must complete with Submit.
func (s *Store) HandleKey(ctx context.Context, action config.Action, ok bool) (*Prompt, error) {
	if !ok {
		return nil, nil
	}
	switch action {
	case config.Up:
		s.MoveSelectionUp()
	case config.Down:
		s.MoveSelectionDown()
	case config.Mark:
		return nil, s.ToggleSelectedStatus(ctx)
	case config.RemoveTodo:
		return nil, s.RemoveSelected(ctx)
	case config.AddTodo:
		return &Prompt{Kind: PromptAdd, X: views.ContentLeft, Y: views.ContentTop + len(s.records)}, nil
	case config.EditTodo:
		rec, ok := s.SelectedRecord()
		if !ok {
			return nil, nil
		}
		return &Prompt{Kind: PromptEdit, X: views.ContentLeft, Y: views.ContentTop + s.selected, Initial: rec.Description}, nil
	}
	return nil, nil
}

// Submit applies the text confirmed in the editor opened for p.
func (s *Store) Submit(ctx context.Context, p Prompt, text string) error {
	switch p.Kind {
	case PromptAdd:
		return s.Add(ctx, text)
	case PromptEdit:
		return s.EditSelected(ctx, text)
	default:
		return fmt.Errorf("todo: unknown prompt kind %d", p.Kind)
	}
}

// Render draws one row per record below the tab bar. Rows are truncated to
// the screen width when it is known.
func (s *Store) Render(screen views.Screen) {
	for i, rec := range s.records {
		desc := views.FitRow(rec.Description, views.ContentLeft, screen.Width())
		views.PrintAt(screen, views.ContentLeft, views.ContentTop+i,
			views.Style(views.FormatRow(desc), s.style, i == s.selected, rec.Status == model.StatusDone, " "))
	}
}

// Done returns the completed records. With includeToday false, records
// completed since local midnight are left out.
func (s *Store) Done(includeToday bool) []model.Record {
	midnight := startOfDay(s.now())
	out := make([]model.Record, 0)
	for _, rec := range s.records {
		if rec.Status != model.StatusDone {
			continue
		}
		if !includeToday && !rec.Modified.Before(midnight) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Unfinished counts Todo records created before today.
func (s *Store) Unfinished() int {
	midnight := startOfDay(s.now())
	n := 0
	for _, rec := range s.records {
		if rec.Status == model.StatusTodo && rec.Created.Before(midnight) {
			n++
		}
	}
	return n
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func startOfDay(t time.Time) time.Time {
	local := t.Local()
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

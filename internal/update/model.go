package update

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/mindr/internal/config"
	"github.com/sandeepkv93/mindr/internal/menu"
	"github.com/sandeepkv93/mindr/internal/todo"
)

type State int

const (
	StateRunning State = iota
	StateTerminated
)

func (s State) String() string {
	if s == StateTerminated {
		return "Terminated"
	}
	return "Running"
}

type StatusBar struct {
	Text    string
	IsError bool
}

// Model is the application loop: it owns the tab bar, the todo store and the
// line editor for the whole run.
type Model struct {
	State  State
	Status StatusBar
	// Err is the fatal error that ended the loop, if any.
	Err error

	cfg    config.Config
	keys   config.KeyMap
	menu   *menu.Navigator
	store  *todo.Store
	ctx    context.Context
	logger *slog.Logger

	editor    textinput.Model
	prompt    *todo.Prompt
	helpModel help.Model

	width, height int
	menuHidden    bool
	idleSeq       int
}

type Option func(*Model)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// NewModel expects store to be loaded already so load errors surface before
// the terminal is taken over.
func NewModel(cfg config.Config, keys config.KeyMap, store *todo.Store, opts ...Option) Model {
	m := Model{
		State:  StateRunning,
		cfg:    cfg,
		keys:   keys,
		menu:   menu.New(cfg.SelectionStyle),
		store:  store,
		ctx:    context.Background(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.editor = textinput.New()
	m.editor.Prompt = "• "
	m.editor.CharLimit = 256

	m.helpModel = help.New()

	if cfg.RemindUnfinished {
		if n := store.Unfinished(); n > 0 {
			m.Status = StatusBar{Text: fmt.Sprintf("%d unfinished %s from earlier days", n, plural(n, "todo", "todos"))}
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.idleTick()
}

func (m Model) Selected() menu.Tab { return m.menu.Selected() }

func (m Model) Store() *todo.Store { return m.store }

// Editing reports whether the line editor is open.
func (m Model) Editing() bool { return m.prompt != nil }

// EditorValue is the text currently in the line editor.
func (m Model) EditorValue() string { return m.editor.Value() }

func (m Model) MenuHidden() bool { return m.menuHidden }

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

// AppErrorMsg carries a fatal error into the loop.
type AppErrorMsg struct {
	Err error
}

type hideMenuMsg struct {
	seq int
}

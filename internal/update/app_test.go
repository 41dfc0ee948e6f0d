package update

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/sandeepkv93/mindr/internal/config"
	"github.com/sandeepkv93/mindr/internal/menu"
	"github.com/sandeepkv93/mindr/internal/model"
	"github.com/sandeepkv93/mindr/internal/storage"
	"github.com/sandeepkv93/mindr/internal/todo"
)

type memRepo struct {
	records []model.Record
	saveErr error
}

func (r *memRepo) Load(context.Context) ([]model.Record, error) {
	return append([]model.Record(nil), r.records...), nil
}

func (r *memRepo) Save(_ context.Context, records []model.Record) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.records = append([]model.Record(nil), records...)
	return nil
}

func (r *memRepo) Close() error { return nil }

var now = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, cfg config.Config, records ...model.Record) (Model, *memRepo) {
	t.Helper()
	repo := &memRepo{records: records}
	store := todo.New(repo, cfg.SelectionStyle, todo.WithClock(func() time.Time { return now }))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	keys, err := cfg.KeyMap()
	if err != nil {
		t.Fatalf("key map: %v", err)
	}
	return NewModel(cfg, keys, store), repo
}

func quietConfig() config.Config {
	cfg := config.Default()
	cfg.RemindUnfinished = false
	return cfg
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = m.Update(msg)
		m = updated.(Model)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func item(id uint16, desc string) model.Record {
	return model.Record{ID: id, Created: now, Modified: now, Status: model.StatusTodo, Description: desc}
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t, quietConfig())
	if m.State != StateRunning {
		t.Fatalf("expected running state, got %v", m.State)
	}
	if m.Selected() != menu.TabTodo {
		t.Fatalf("expected Todo tab, got %v", m.Selected())
	}
	if m.Editing() {
		t.Fatal("expected editor closed")
	}
	if m.Init() != nil {
		t.Fatal("expected no startup command without auto hide")
	}
}

func TestQuitKeyTerminates(t *testing.T) {
	m, _ := newTestModel(t, quietConfig())
	m, cmd := press(t, m, runes("q"))
	if m.State != StateTerminated || !isQuit(cmd) {
		t.Fatalf("expected termination, got state %v", m.State)
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after termination, got %q", m.View())
	}

	m, cmd = press(t, m, runes("a"))
	if m.State != StateTerminated || cmd != nil {
		t.Fatal("expected terminated state to be absorbing")
	}
}

func TestCtrlCTerminates(t *testing.T) {
	m, _ := newTestModel(t, quietConfig())
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.State != StateTerminated || !isQuit(cmd) {
		t.Fatal("expected ctrl+c to terminate")
	}
}

func TestTabKeysSwitchTabsAndIsolateTodoKeys(t *testing.T) {
	m, repo := newTestModel(t, quietConfig(), item(0, "a"))

	m, _ = press(t, m, runes("l"))
	if m.Selected() != menu.TabDone {
		t.Fatalf("expected Done tab, got %v", m.Selected())
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("d"), runes("a"))
	if m.Editing() {
		t.Fatal("expected add key to be ignored outside Todo tab")
	}
	if len(repo.records) != 1 || repo.records[0].Status != model.StatusTodo {
		t.Fatalf("expected list untouched outside Todo tab, got %+v", repo.records)
	}

	m, _ = press(t, m, runes("l"), runes("l"), runes("l"))
	if m.Selected() != menu.TabHelp {
		t.Fatalf("expected Help tab without wraparound, got %v", m.Selected())
	}
	m, _ = press(t, m, runes("h"), runes("h"), runes("h"))
	if m.Selected() != menu.TabTodo {
		t.Fatalf("expected Todo tab, got %v", m.Selected())
	}
}

func TestAddThroughEditor(t *testing.T) {
	m, repo := newTestModel(t, quietConfig(), item(0, "Zero"), item(2, "Two"))

	m, cmd := press(t, m, runes("a"))
	if !m.Editing() {
		t.Fatal("expected editor to open")
	}
	if cmd == nil {
		t.Fatal("expected cursor blink command")
	}
	m, _ = press(t, m, runes("Buy milk q"))
	if m.State != StateRunning || m.EditorValue() != "Buy milk q" {
		t.Fatalf("expected quit key to be text while editing, value=%q state=%v", m.EditorValue(), m.State)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Editing() {
		t.Fatal("expected editor to close on enter")
	}
	if len(repo.records) != 3 {
		t.Fatalf("expected persisted record, got %+v", repo.records)
	}
	added := repo.records[2]
	if added.ID != 1 || added.Description != "Buy milk q" {
		t.Fatalf("unexpected record: %+v", added)
	}
	if m.Status.Text != "added" {
		t.Fatalf("unexpected status %+v", m.Status)
	}
}

func TestEditPrefillsAndEscCancels(t *testing.T) {
	m, repo := newTestModel(t, quietConfig(), item(0, "first"), item(1, "second"))

	m, _ = press(t, m, runes("j"), runes("e"))
	if !m.Editing() || m.EditorValue() != "second" {
		t.Fatalf("expected prefilled editor, got editing=%v value=%q", m.Editing(), m.EditorValue())
	}
	m, _ = press(t, m, runes("!"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.Editing() || repo.records[1].Description != "second" {
		t.Fatalf("expected cancel to leave record unchanged, got %+v", repo.records)
	}

	m, _ = press(t, m, runes("e"), runes(" two"), tea.KeyMsg{Type: tea.KeyEnter})
	if repo.records[1].Description != "second two" || m.Status.Text != "updated" {
		t.Fatalf("unexpected edit result: %+v status=%+v", repo.records, m.Status)
	}
}

func TestBlankEditRemoves(t *testing.T) {
	m, repo := newTestModel(t, quietConfig(), item(0, "only"))
	m, _ = press(t, m, runes("e"), tea.KeyMsg{Type: tea.KeyCtrlU})
	if m.EditorValue() != "" {
		t.Fatalf("expected ctrl+u to clear the editor, got %q", m.EditorValue())
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(repo.records) != 0 || m.Status.Text != "removed" {
		t.Fatalf("expected removal, got %+v status=%+v", repo.records, m.Status)
	}
}

func TestPersistErrorIsFatal(t *testing.T) {
	m, repo := newTestModel(t, quietConfig(), item(0, "a"))
	repo.saveErr = &storage.PersistError{Path: "todo.txt", Err: errors.New("read-only file system")}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.State != StateTerminated || !isQuit(cmd) {
		t.Fatalf("expected fatal termination, got %v", m.State)
	}
	if !errors.Is(m.Err, storage.ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", m.Err)
	}
}

func TestAppErrorMsgIsFatal(t *testing.T) {
	m, _ := newTestModel(t, quietConfig())
	m, cmd := press(t, m, AppErrorMsg{Err: model.ErrIDSpaceExhausted})
	if !errors.Is(m.Err, model.ErrIDSpaceExhausted) || !isQuit(cmd) {
		t.Fatalf("expected fatal error, got %v", m.Err)
	}
}

func TestStatusMessages(t *testing.T) {
	m, _ := newTestModel(t, quietConfig())
	m, _ = press(t, m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	m, _ = press(t, m, ClearStatusMsg{})
	if m.Status.Text != "" {
		t.Fatalf("expected cleared status, got %+v", m.Status)
	}
}

func TestViewShowsMenuRowsAndFooter(t *testing.T) {
	m, _ := newTestModel(t, quietConfig(), item(0, "milk"))
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	lines := strings.Split(ansi.Strip(m.View()), "\n")
	if !strings.HasPrefix(lines[0], "[TODO]") {
		t.Fatalf("expected selected TODO tab, got %q", lines[0])
	}
	if lines[2] != "  [· milk] " {
		t.Fatalf("unexpected list row %q", lines[2])
	}
	if len(lines) != 24 || !strings.Contains(lines[23], "add todo") {
		t.Fatalf("expected footer on the last row, got %d lines, last %q", len(lines), lines[len(lines)-1])
	}
}

func TestViewDrawsEditorAtPrompt(t *testing.T) {
	m, _ := newTestModel(t, quietConfig(), item(0, "milk"))
	m, _ = press(t, m, runes("a"), runes("eggs"))
	lines := strings.Split(ansi.Strip(m.View()), "\n")
	if !strings.HasPrefix(lines[3], "  • eggs") {
		t.Fatalf("expected editor below the last row, got %q", lines[3])
	}
}

func TestOtherTabsRender(t *testing.T) {
	done := item(1, "shipped")
	done.Status = model.StatusDone
	m, _ := newTestModel(t, quietConfig(), item(0, "open"), done)

	m, _ = press(t, m, runes("l"))
	if view := ansi.Strip(m.View()); !strings.Contains(view, "shipped") || strings.Contains(view, "open") {
		t.Fatalf("unexpected done tab:\n%s", view)
	}
	m, _ = press(t, m, runes("l"))
	if view := ansi.Strip(m.View()); !strings.Contains(view, "selection_style") {
		t.Fatalf("unexpected settings tab:\n%s", view)
	}
	m, _ = press(t, m, runes("l"))
	if view := ansi.Strip(m.View()); !strings.Contains(view, "toggle done") {
		t.Fatalf("unexpected help tab:\n%s", view)
	}
}

func TestAutoHideMenu(t *testing.T) {
	cfg := quietConfig()
	cfg.AutoHideMenu = true
	cfg.HideMenuTimeout = 10
	m, _ := newTestModel(t, cfg, item(0, "milk"))
	if m.Init() == nil {
		t.Fatal("expected idle timer on start")
	}

	m, _ = press(t, m, hideMenuMsg{seq: m.idleSeq})
	if !m.MenuHidden() {
		t.Fatal("expected menu to hide after idle timeout")
	}
	if strings.Contains(ansi.Strip(m.View()), "TODO") {
		t.Fatal("expected tab bar to be hidden")
	}

	m, cmd := press(t, m, runes("j"))
	if m.MenuHidden() || cmd == nil {
		t.Fatal("expected key to reveal menu and restart timer")
	}
	stale := m.idleSeq - 1
	m, _ = press(t, m, hideMenuMsg{seq: stale})
	if m.MenuHidden() {
		t.Fatal("expected stale timer to be ignored")
	}
}

func TestRemindUnfinished(t *testing.T) {
	old := item(0, "old")
	old.Created = now.Add(-72 * time.Hour)
	m, _ := newTestModel(t, config.Default(), old)
	if !strings.Contains(m.Status.Text, "1 unfinished todo") {
		t.Fatalf("expected reminder status, got %q", m.Status.Text)
	}
}

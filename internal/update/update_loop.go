package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/mindr/internal/config"
	"github.com/sandeepkv93/mindr/internal/menu"
	"github.com/sandeepkv93/mindr/internal/todo"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.State == StateTerminated {
		return m, nil
	}

	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.WindowSizeMsg:
		m.width, m.height = typed.Width, typed.Height
		m.helpModel.Width = typed.Width
		return m, nil
	case hideMenuMsg:
		if typed.seq == m.idleSeq && m.prompt == nil {
			m.menuHidden = true
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		return m.fail(typed.Err)
	}

	if m.prompt != nil {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.menuHidden = false
	idle := m.bumpIdle()

	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.prompt != nil {
		next, cmd := m.handleEditorKey(msg)
		return next, tea.Batch(cmd, idle)
	}

	m.Status = StatusBar{}
	action, ok := m.keys.Resolve(msg)
	if ok && action == config.Quit {
		return m.quit()
	}

	m.menu.HandleKey(action, ok)
	if m.menu.Selected() != menu.TabTodo {
		return m, idle
	}
	prompt, err := m.store.HandleKey(m.ctx, action, ok)
	if err != nil {
		return m.fail(err)
	}
	if prompt != nil {
		blink := m.openEditor(*prompt)
		return m, tea.Batch(blink, idle)
	}
	return m, idle
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		p := *m.prompt
		text := m.editor.Value()
		before := m.store.Len()
		m.closeEditor()
		if err := m.store.Submit(m.ctx, p, text); err != nil {
			return m.fail(err)
		}
		m.Status = submitStatus(p, before, m.store.Len())
		m.logger.Debug("editor submitted", "kind", p.Kind.String(), "count", m.store.Len())
		return m, nil
	case tea.KeyEsc:
		m.closeEditor()
		m.Status = StatusBar{Text: "cancelled"}
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func submitStatus(p todo.Prompt, before, after int) StatusBar {
	switch {
	case p.Kind == todo.PromptAdd && after > before:
		return StatusBar{Text: "added"}
	case p.Kind == todo.PromptEdit && after < before:
		return StatusBar{Text: "removed"}
	case p.Kind == todo.PromptEdit:
		return StatusBar{Text: "updated"}
	default:
		return StatusBar{}
	}
}

func (m *Model) openEditor(p todo.Prompt) tea.Cmd {
	m.prompt = &p
	m.editor.SetValue(p.Initial)
	m.editor.CursorEnd()
	if m.width > 0 {
		m.editor.Width = max(m.width-p.X-len([]rune(m.editor.Prompt))-1, 1)
	}
	return m.editor.Focus()
}

func (m *Model) closeEditor() {
	m.prompt = nil
	m.editor.Blur()
	m.editor.Reset()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.State = StateTerminated
	m.closeEditor()
	return m, tea.Quit
}

// fail ends the loop with a fatal error. The caller reports Err once the
// terminal has been restored.
func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.logger.Error("fatal error, quitting", "err", err)
	m.Err = err
	m.Status = StatusBar{Text: fmt.Sprint(err), IsError: true}
	return m.quit()
}

func (m *Model) bumpIdle() tea.Cmd {
	m.idleSeq++
	return m.idleTick()
}

func (m Model) idleTick() tea.Cmd {
	if !m.cfg.AutoHideMenu {
		return nil
	}
	seq := m.idleSeq
	return tea.Tick(time.Duration(m.cfg.HideMenuTimeout)*time.Millisecond, func(time.Time) tea.Msg {
		return hideMenuMsg{seq: seq}
	})
}

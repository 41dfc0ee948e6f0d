package update

import (
	"strings"

	"github.com/sandeepkv93/mindr/internal/menu"
	"github.com/sandeepkv93/mindr/internal/todo"
	"github.com/sandeepkv93/mindr/internal/views"
)

// View composes one frame: tab bar, the active tab, the open editor and the
// status and help lines.
func (m Model) View() string {
	if m.State == StateTerminated {
		return ""
	}
	c := views.NewCanvas(m.width)
	c.Clear()
	if !m.menuHidden {
		m.menu.Render(c)
	}

	switch m.menu.Selected() {
	case menu.TabTodo:
		m.store.Render(c)
		if m.prompt != nil {
			if m.prompt.Kind == todo.PromptEdit {
				c.ClearRow(m.prompt.Y)
			}
			views.PrintAt(c, m.prompt.X, m.prompt.Y, m.editor.View())
		}
	case menu.TabDone:
		done := m.store.Done(m.cfg.DisplayTodays)
		items := make([]views.DoneItemData, 0, len(done))
		for _, rec := range done {
			items = append(items, views.DoneItemData{Description: rec.Description, Completed: rec.Modified})
		}
		views.RenderDonePanel(c, views.DonePanelData{Items: items, Style: m.cfg.SelectionStyle})
	case menu.TabSettings:
		views.RenderSettingsPanel(c, views.SettingsPanelData{
			Entries: m.cfg.Entries(),
			File:    m.cfg.File,
			Width:   m.width,
		})
	case menu.TabHelp:
		views.RenderHelpPanel(c, views.HelpPanelData{
			Keys:     m.keys,
			HelpView: m.renderFullHelp(),
			Width:    m.width,
		})
	}

	y := c.Height() + 1
	if m.height > 0 && m.height-2 > y {
		y = m.height - 2
	}
	views.RenderStatus(c, y, views.StatusData{Text: m.Status.Text, IsError: m.Status.IsError})
	views.RenderFooter(c, y+1, m.renderFooter())
	return strings.TrimRight(c.String(), "\n")
}

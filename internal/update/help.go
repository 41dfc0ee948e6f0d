package update

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/mindr/internal/config"
	"github.com/sandeepkv93/mindr/internal/menu"
)

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

var editorBindings = []key.Binding{
	key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

// helpBindings returns the bindings that do something on the current tab.
func (m Model) helpBindings() []key.Binding {
	if m.prompt != nil {
		return editorBindings
	}
	actions := []config.Action{config.PrevMenu, config.NextMenu, config.Quit}
	if m.menu.Selected() == menu.TabTodo {
		actions = []config.Action{
			config.Up, config.Down, config.Mark,
			config.AddTodo, config.EditTodo, config.RemoveTodo,
			config.PrevMenu, config.NextMenu, config.Quit,
		}
	}
	out := make([]key.Binding, 0, len(actions))
	for _, a := range actions {
		out = append(out, m.keys.Binding(a))
	}
	return out
}

func (m Model) renderFooter() string {
	return m.helpModel.ShortHelpView(m.helpBindings())
}

func (m Model) renderFullHelp() string {
	navigation := []key.Binding{
		m.keys.Binding(config.PrevMenu),
		m.keys.Binding(config.NextMenu),
		m.keys.Binding(config.Quit),
	}
	list := []key.Binding{
		m.keys.Binding(config.Up),
		m.keys.Binding(config.Down),
		m.keys.Binding(config.Mark),
	}
	editing := []key.Binding{
		m.keys.Binding(config.AddTodo),
		m.keys.Binding(config.EditTodo),
		m.keys.Binding(config.RemoveTodo),
	}
	return m.helpModel.FullHelpView(helpKeyMap{
		short: navigation,
		full:  [][]key.Binding{navigation, list, editing, editorBindings},
	}.FullHelp())
}

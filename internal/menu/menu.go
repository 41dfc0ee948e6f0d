// Package menu holds the tab bar state.
package menu

import (
	"github.com/sandeepkv93/mindr/internal/config"
	"github.com/sandeepkv93/mindr/internal/views"
)

type Tab int

const (
	TabTodo Tab = iota
	TabDone
	TabSettings
	TabHelp
)

// Tabs is the fixed left-to-right order of the tab bar.
var Tabs = [...]Tab{TabTodo, TabDone, TabSettings, TabHelp}

const spacing = "   "

func (t Tab) String() string {
	switch t {
	case TabTodo:
		return "Todo"
	case TabDone:
		return "Done"
	case TabSettings:
		return "Settings"
	case TabHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Label is the text drawn in the tab bar, including its one-space wrappers.
func (t Tab) Label() string {
	switch t {
	case TabTodo:
		return " TODO "
	case TabDone:
		return " DONE "
	case TabSettings:
		return " SETTINGS "
	case TabHelp:
		return " HELP "
	default:
		return " ? "
	}
}

type Navigator struct {
	selected Tab
	style    config.Selection
}

func New(style config.Selection) *Navigator {
	return &Navigator{selected: TabTodo, style: style}
}

func (n *Navigator) Selected() Tab { return n.selected }

// SelectNext moves one tab right. It does nothing on the last tab.
func (n *Navigator) SelectNext() {
	if int(n.selected) < len(Tabs)-1 {
		n.selected++
	}
}

// SelectPrevious moves one tab left. It does nothing on the first tab.
func (n *Navigator) SelectPrevious() {
	if n.selected > TabTodo {
		n.selected--
	}
}

// HandleKey reacts to PrevMenu and NextMenu. ok is false for keys that did
// not resolve to an action.
func (n *Navigator) HandleKey(action config.Action, ok bool) {
	if !ok {
		return
	}
	switch action {
	case config.PrevMenu:
		n.SelectPrevious()
	case config.NextMenu:
		n.SelectNext()
	}
}

// Render draws the tab bar from the top-left corner.
func (n *Navigator) Render(s views.Screen) {
	s.MoveTo(0, 0)
	for _, t := range Tabs {
		s.Print(views.Style(t.Label(), n.style, t == n.selected, false, spacing))
	}
}

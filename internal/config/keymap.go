package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	ErrMissingActionMapping = errors.New("config: missing action mapping")
	ErrDuplicateMapping     = errors.New("config: key mapped to more than one action")
)

// KeyMap is a total mapping from Action to the key that triggers it.
type KeyMap struct {
	bindings map[Action]key.Binding
	triggers map[Action]string
}

// NewKeyMap validates triggers: every action needs a non-empty key and no
// key may trigger two actions.
func NewKeyMap(triggers map[Action]string) (KeyMap, error) {
	km := KeyMap{
		bindings: make(map[Action]key.Binding, len(actionNames)),
		triggers: make(map[Action]string, len(actionNames)),
	}
	owner := make(map[string]Action, len(actionNames))
	for _, a := range Actions() {
		trigger := NormalizeTrigger(triggers[a])
		if trigger == "" {
			return KeyMap{}, fmt.Errorf("%w: %q has no key", ErrMissingActionMapping, a.String())
		}
		if prev, ok := owner[trigger]; ok {
			return KeyMap{}, fmt.Errorf("%w: %q is used by %q and %q", ErrDuplicateMapping, displayKey(trigger), prev.String(), a.String())
		}
		owner[trigger] = a
		km.triggers[a] = trigger
		km.bindings[a] = key.NewBinding(
			key.WithKeys(trigger),
			key.WithHelp(displayKey(trigger), a.Help()),
		)
	}
	return km, nil
}

// DefaultKeyMap is the mapping written to a fresh configuration file.
func DefaultKeyMap() KeyMap {
	km, err := NewKeyMap(Default().Keys)
	if err != nil {
		panic(err)
	}
	return km
}

// Resolve maps a key event to its action. Keys bound to nothing report false.
func (k KeyMap) Resolve(msg tea.KeyMsg) (Action, bool) {
	for _, a := range Actions() {
		if b, ok := k.bindings[a]; ok && key.Matches(msg, b) {
			return a, true
		}
	}
	return 0, false
}

func (k KeyMap) Binding(a Action) key.Binding {
	return k.bindings[a]
}

// Bindings returns the bindings in action order.
func (k KeyMap) Bindings() []key.Binding {
	out := make([]key.Binding, 0, len(k.bindings))
	for _, a := range Actions() {
		out = append(out, k.bindings[a])
	}
	return out
}

func (k KeyMap) Trigger(a Action) string {
	return k.triggers[a]
}

// NormalizeTrigger converts a configured key name to the form bubbletea
// reports for it: "Enter" becomes "enter", "space" becomes " ". Single
// characters keep their case.
func NormalizeTrigger(raw string) string {
	if raw == " " {
		return raw
	}
	trimmed := strings.TrimSpace(raw)
	if len([]rune(trimmed)) <= 1 {
		return trimmed
	}
	lower := strings.ToLower(trimmed)
	switch lower {
	case "space":
		return " "
	case "return":
		return "enter"
	case "escape":
		return "esc"
	}
	return lower
}

func displayKey(trigger string) string {
	if trigger == " " {
		return "space"
	}
	return trigger
}

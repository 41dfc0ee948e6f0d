package config

// Action is an abstract user command produced by resolving a key through the
// KeyMap.
type Action int

const (
	Up Action = iota
	Down
	PrevMenu
	NextMenu
	Mark
	Quit
	AddTodo
	RemoveTodo
	EditTodo
)

var actionNames = [...]string{
	Up:         "up",
	Down:       "down",
	PrevMenu:   "prev_menu",
	NextMenu:   "next_menu",
	Mark:       "mark",
	Quit:       "quit",
	AddTodo:    "add_todo",
	RemoveTodo: "remove_todo",
	EditTodo:   "edit_todo",
}

var actionHelp = [...]string{
	Up:         "move up",
	Down:       "move down",
	PrevMenu:   "previous tab",
	NextMenu:   "next tab",
	Mark:       "toggle done",
	Quit:       "quit",
	AddTodo:    "add todo",
	RemoveTodo: "remove todo",
	EditTodo:   "edit todo",
}

// Actions returns every action in configuration file order.
func Actions() []Action {
	out := make([]Action, 0, len(actionNames))
	for a := range actionNames {
		out = append(out, Action(a))
	}
	return out
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Help is the short description shown next to the action's key.
func (a Action) Help() string {
	if a < 0 || int(a) >= len(actionHelp) {
		return ""
	}
	return actionHelp[a]
}

func ParseAction(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == name {
			return Action(a), true
		}
	}
	return 0, false
}

package config

import (
	"fmt"
	"strings"
)

// Selection is the visual treatment of the highlighted item.
type Selection int

const (
	Brackets Selection = iota
	Tilde
	Outline
	Bold
)

var selectionNames = [...]string{
	Brackets: "brackets",
	Tilde:    "tilde",
	Outline:  "outline",
	Bold:     "bold",
}

func (s Selection) String() string {
	if s < 0 || int(s) >= len(selectionNames) {
		return selectionNames[Brackets]
	}
	return selectionNames[s]
}

// ParseSelection is case-insensitive. Unknown names return Brackets with an
// error wrapping ErrInvalidValue.
func ParseSelection(raw string) (Selection, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for s, n := range selectionNames {
		if n == name {
			return Selection(s), nil
		}
	}
	return Brackets, fmt.Errorf("%w: selection style %q, try brackets, tilde, outline or bold", ErrInvalidValue, raw)
}

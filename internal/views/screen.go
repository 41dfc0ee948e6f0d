package views

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Screen is the terminal output capability handed to every component that
// draws. Coordinates are zero-based cells, x to the right and y down.
type Screen interface {
	Clear()
	MoveTo(x, y int)
	Print(s string)
	// Width is the terminal width in cells, or 0 when unknown.
	Width() int
}

// Canvas is an in-memory Screen. Its String is the frame bubbletea flushes.
type Canvas struct {
	rows  []string
	x, y  int
	width int
}

func NewCanvas(width int) *Canvas {
	return &Canvas{width: width}
}

func (c *Canvas) Clear() {
	c.rows = c.rows[:0]
	c.x, c.y = 0, 0
}

func (c *Canvas) MoveTo(x, y int) {
	c.x, c.y = max(x, 0), max(y, 0)
}

func (c *Canvas) Width() int { return c.width }

// Cursor reports the current drawing position.
func (c *Canvas) Cursor() (x, y int) { return c.x, c.y }

// Print draws s at the cursor, replacing whatever occupied those cells, and
// advances the cursor past it. A newline moves to the next row at the column
// where printing started.
func (c *Canvas) Print(s string) {
	startX := c.x
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			c.x = startX
			c.y++
		}
		c.put(line)
	}
}

func (c *Canvas) put(s string) {
	for len(c.rows) <= c.y {
		c.rows = append(c.rows, "")
	}
	row := c.rows[c.y]
	rowWidth := ansi.StringWidth(row)
	w := ansi.StringWidth(s)

	var b strings.Builder
	if rowWidth <= c.x {
		b.WriteString(row)
		b.WriteString(strings.Repeat(" ", c.x-rowWidth))
		b.WriteString(s)
	} else {
		b.WriteString(ansi.Truncate(row, c.x, ""))
		b.WriteString(ansi.ResetStyle)
		b.WriteString(s)
		if rowWidth > c.x+w {
			b.WriteString(ansi.Cut(row, c.x+w, rowWidth))
		}
	}
	c.rows[c.y] = b.String()
	c.x += w
}

// Height is the number of rows drawn so far.
func (c *Canvas) Height() int { return len(c.rows) }

// ClearRow blanks row y.
func (c *Canvas) ClearRow(y int) {
	if y >= 0 && y < len(c.rows) {
		c.rows[y] = ""
	}
}

func (c *Canvas) String() string {
	return strings.Join(c.rows, "\n")
}

// PrintAt is MoveTo followed by Print.
func PrintAt(s Screen, x, y int, text string) {
	s.MoveTo(x, y)
	s.Print(text)
}

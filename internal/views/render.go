package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Top rows used by the tab bar; tab content starts at ContentTop.
const (
	ContentTop  = 2
	ContentLeft = 2
)

// StatusData is the line under the tab content.
type StatusData struct {
	Text    string
	IsError bool
}

// RenderStatus draws the status line at row y. Empty text draws nothing.
func RenderStatus(s Screen, y int, data StatusData) {
	if strings.TrimSpace(data.Text) == "" {
		return
	}
	style := statusStyle
	if data.IsError {
		style = errorStyle
	}
	PrintAt(s, ContentLeft, y, style.Render(data.Text))
}

// RenderFooter draws the short key help at row y.
func RenderFooter(s Screen, y int, help string) {
	if strings.TrimSpace(help) == "" {
		return
	}
	PrintAt(s, ContentLeft, y, footerStyle.Render(help))
}

func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("dark")}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

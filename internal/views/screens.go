package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/sandeepkv93/mindr/internal/config"
)

// RowBullet prefixes every list row.
const RowBullet = "·"

// FormatRow wraps a description into a list row, " · milk ".
func FormatRow(description string) string {
	return " " + RowBullet + " " + description + " "
}

// FitRow truncates a description so its row, drawn at column x, fits width
// cells. A width of 0 leaves the description unchanged.
func FitRow(description string, x, width int) string {
	if width <= 0 {
		return description
	}
	// bullet row overhead plus a selection marker and trailing spacing
	room := width - x - ansi.StringWidth(FormatRow("")) - 1
	if room < 1 {
		room = 1
	}
	return ansi.Truncate(description, room, "…")
}

type DoneItemData struct {
	Description string
	Completed   time.Time
}

type DonePanelData struct {
	Items []DoneItemData
	Style config.Selection
}

// RenderDonePanel lists completed records struck through, each followed by
// its completion date.
func RenderDonePanel(s Screen, data DonePanelData) {
	if len(data.Items) == 0 {
		PrintAt(s, ContentLeft, ContentTop, footerStyle.Render("nothing done yet"))
		return
	}
	for i, item := range data.Items {
		date := item.Completed.Local().Format("2006-01-02 15:04")
		desc := FitRow(item.Description, ContentLeft, doneRowWidth(s.Width(), date))
		PrintAt(s, ContentLeft, ContentTop+i, Style(FormatRow(desc), data.Style, false, true, " "))
		s.Print(footerStyle.Render(date))
	}
}

// doneRowWidth leaves room for the date after the row. An unknown width
// stays 0 so FitRow does not truncate.
func doneRowWidth(width int, date string) int {
	if width <= 0 {
		return 0
	}
	return max(width-ansi.StringWidth(date)-1, 1)
}

type SettingsPanelData struct {
	Entries []config.Entry
	File    string
	Width   int
}

// RenderSettingsPanel shows the effective configuration as a table.
func RenderSettingsPanel(s Screen, data SettingsPanelData) {
	rows := make([]table.Row, 0, len(data.Entries))
	for _, e := range data.Entries {
		value := e.Value
		if value == "" {
			value = "(default)"
		}
		rows = append(rows, table.Row{e.Section, e.Key, value})
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Section", Width: 12},
			{Title: "Key", Width: 20},
			{Title: "Value", Width: 28},
		}),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
		table.WithFocused(false),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("12"))
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)

	y := ContentTop
	if data.File != "" {
		PrintAt(s, ContentLeft, y, headerStyle.Render("config: ")+data.File)
		y += 2
	}
	PrintAt(s, ContentLeft, y, panelStyle.Render(t.View()))
}

type HelpPanelData struct {
	Keys     config.KeyMap
	HelpView string
	Width    int
}

// HelpMarkdown builds the Help tab document for the given key mapping.
func HelpMarkdown(keys config.KeyMap) string {
	var b strings.Builder
	b.WriteString("# mindr\n\n")
	b.WriteString("Keyboard driven todo list. Items live on the **TODO** tab; ")
	b.WriteString("completed items are listed on **DONE**.\n\n")
	b.WriteString("| key | action |\n|---|---|\n")
	for _, a := range config.Actions() {
		trigger := keys.Binding(a).Help().Key
		b.WriteString(fmt.Sprintf("| `%s` | %s |\n", trigger, a.Help()))
	}
	b.WriteString("\nWhile typing, **enter** saves and **esc** cancels. ")
	b.WriteString("Saving an edit with empty text removes the item.\n")
	return b.String()
}

func RenderHelpPanel(s Screen, data HelpPanelData) {
	doc := RenderMarkdown(HelpMarkdown(data.Keys), data.Width)
	PrintAt(s, 0, ContentTop, doc)
	if data.HelpView != "" {
		height := strings.Count(doc, "\n") + 1
		PrintAt(s, ContentLeft, ContentTop+height+1, data.HelpView)
	}
}

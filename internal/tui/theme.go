package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is one named set of styles for the grid and its chrome.
type Theme struct {
	Name string

	Header       lipgloss.Style
	HeaderCursor lipgloss.Style
	Cell         lipgloss.Style
	CursorCell   lipgloss.Style
	CursorRow    lipgloss.Style
	CursorCol    lipgloss.Style
	Match        lipgloss.Style
	CurrentMatch lipgloss.Style
	Formula      lipgloss.Style
	StatusBar    lipgloss.Style
	Prompt       lipgloss.Style
	Feedback     lipgloss.Style
	Overlay      lipgloss.Style
	OverlayTitle lipgloss.Style
}

func newTheme(name string, accent, cursorBg, rowBg, matchBg, statusBg, fg lipgloss.Color) Theme {
	return Theme{
		Name:         name,
		Header:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		HeaderCursor: lipgloss.NewStyle().Bold(true).Foreground(fg).Background(rowBg),
		Cell:         lipgloss.NewStyle(),
		CursorCell:   lipgloss.NewStyle().Bold(true).Foreground(fg).Background(cursorBg),
		CursorRow:    lipgloss.NewStyle().Background(rowBg),
		CursorCol:    lipgloss.NewStyle().Foreground(accent),
		Match:        lipgloss.NewStyle().Background(matchBg),
		CurrentMatch: lipgloss.NewStyle().Bold(true).Foreground(fg).Background(matchBg).Underline(true),
		Formula:      lipgloss.NewStyle().Foreground(accent).Italic(true),
		StatusBar:    lipgloss.NewStyle().Foreground(fg).Background(statusBg),
		Prompt:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		Feedback:     lipgloss.NewStyle().Foreground(accent),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2),
		OverlayTitle: lipgloss.NewStyle().Bold(true).Foreground(accent),
	}
}

// themes is the fixed palette list; the first entry is the fallback.
var themes = []Theme{
	newTheme("Default",
		lipgloss.Color("6"), lipgloss.Color("4"), lipgloss.Color("8"),
		lipgloss.Color("3"), lipgloss.Color("8"), lipgloss.Color("15")),
	newTheme("Dracula",
		lipgloss.Color("#bd93f9"), lipgloss.Color("#44475a"), lipgloss.Color("#343746"),
		lipgloss.Color("#ffb86c"), lipgloss.Color("#282a36"), lipgloss.Color("#f8f8f2")),
	newTheme("Solarized Dark",
		lipgloss.Color("#268bd2"), lipgloss.Color("#073642"), lipgloss.Color("#002b36"),
		lipgloss.Color("#b58900"), lipgloss.Color("#073642"), lipgloss.Color("#93a1a1")),
	newTheme("Solarized Light",
		lipgloss.Color("#268bd2"), lipgloss.Color("#eee8d5"), lipgloss.Color("#fdf6e3"),
		lipgloss.Color("#b58900"), lipgloss.Color("#eee8d5"), lipgloss.Color("#586e75")),
	newTheme("GitHub Dark",
		lipgloss.Color("#58a6ff"), lipgloss.Color("#1f6feb"), lipgloss.Color("#161b22"),
		lipgloss.Color("#d29922"), lipgloss.Color("#21262d"), lipgloss.Color("#c9d1d9")),
	newTheme("Nord",
		lipgloss.Color("#88c0d0"), lipgloss.Color("#5e81ac"), lipgloss.Color("#3b4252"),
		lipgloss.Color("#ebcb8b"), lipgloss.Color("#434c5e"), lipgloss.Color("#eceff4")),
}

// themeIndex resolves a theme name case-insensitively. ok is false for
// unknown names.
func themeIndex(name string) (int, bool) {
	for i, t := range themes {
		if strings.EqualFold(t.Name, name) {
			return i, true
		}
	}
	return 0, false
}

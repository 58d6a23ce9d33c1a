package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/joeycumines/xlview/internal/workbook"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.termWidth <= 0 || m.termHeight <= 0 {
		return "loading…"
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showDetail {
		return m.renderDetail()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.renderGrid())
	b.WriteString(m.renderStatus())
	b.WriteByte('\n')
	b.WriteString(m.renderPrompt())
	return b.String()
}

// visibleColRange returns the half-open column window shown on screen.
func (m *Model) visibleColRange() (int, int) {
	start := m.nav.colScroll
	end := min(start+m.visibleCols(), m.src.Width())
	return start, end
}

func (m *Model) pad(s string) string {
	s = runewidth.Truncate(s, m.colWidth, "…")
	return runewidth.FillRight(s, m.colWidth)
}

func (m *Model) renderHeader() string {
	theme := m.theme()
	headers := m.src.Headers()
	start, end := m.visibleColRange()
	parts := make([]string, 0, end-start)
	for col := start; col < end; col++ {
		text := headers[col]
		if text == "" {
			text = colToLetters(col)
		}
		style := theme.Header
		if col == m.nav.col {
			style = theme.HeaderCursor
		}
		parts = append(parts, style.Render(m.pad(text)))
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderGrid() string {
	theme := m.theme()
	viewportH := m.viewportHeight()
	start, end := m.visibleColRange()

	// Accumulate until the viewport is full: a windowed source serves at
	// most one cache window per query, which can fall short of the viewport
	// when the scroll offset sits near the window's edge.
	var rows [][]workbook.CellValue
	var formulas [][]string
	for at := m.nav.scroll; len(rows) < viewportH && at < m.src.Height(); {
		r, f := m.src.Rows(at, viewportH-len(rows))
		if len(r) == 0 {
			break
		}
		rows = append(rows, r...)
		formulas = append(formulas, f...)
		at += len(r)
	}

	// Index the matches that can appear this frame.
	visible := make(map[match]bool)
	var current match
	hasCurrent := false
	for i, mt := range m.search.matches {
		if mt.row >= m.nav.scroll && mt.row < m.nav.scroll+viewportH {
			visible[mt] = true
			if i == m.search.current {
				current = mt
				hasCurrent = true
			}
		}
	}

	var b strings.Builder
	for i, row := range rows {
		absRow := m.nav.scroll + i
		parts := make([]string, 0, end-start)
		for col := start; col < end; col++ {
			var text string
			var isFormula bool
			if col < len(row) {
				if m.showFormulas && formulas[i][col] != "" {
					text = "=" + formulas[i][col]
					isFormula = true
				} else {
					text = row[col].Display()
				}
			}
			parts = append(parts, m.cellStyle(theme, absRow, col, visible, current, hasCurrent, isFormula).Render(m.pad(text)))
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteByte('\n')
	}
	for i := len(rows); i < viewportH; i++ {
		b.WriteByte('\n')
	}
	return b.String()
}

// cellStyle picks the highlight class for one cell. Precedence: cursor cell,
// current match, any match, cursor row, cursor column, plain.
func (m *Model) cellStyle(theme *Theme, row, col int, visible map[match]bool, current match, hasCurrent, isFormula bool) lipgloss.Style {
	at := match{row: row, col: col}
	switch {
	case row == m.nav.row && col == m.nav.col:
		return theme.CursorCell
	case hasCurrent && at == current:
		return theme.CurrentMatch
	case visible[at]:
		return theme.Match
	case row == m.nav.row:
		return theme.CursorRow
	case col == m.nav.col:
		return theme.CursorCol
	case isFormula:
		return theme.Formula
	}
	return theme.Cell
}

func (m *Model) renderStatus() string {
	status := fmt.Sprintf(" %s │ %d rows × %d cols │ Sheet %d/%d: %s ",
		cellAddress(m.nav.row, m.nav.col),
		m.src.Height(), m.src.Width(),
		m.sheetIdx+1, len(m.sheets), m.src.Name())
	if len(m.search.matches) > 0 {
		status += fmt.Sprintf("│ match %d/%d ", m.search.current+1, len(m.search.matches))
	}
	return m.theme().StatusBar.Width(m.termWidth).Render(status)
}

func (m *Model) renderPrompt() string {
	theme := m.theme()
	switch m.mode {
	case modeSearchEntry:
		return theme.Prompt.Render("/" + m.searchBuf)
	case modeJumpEntry:
		return theme.Prompt.Render("Jump to: " + m.jumpBuf)
	}
	if p := m.progressText(); p != "" {
		return theme.Feedback.Render(p)
	}
	if f := m.feedbackText(); f != "" {
		return theme.Feedback.Render(f)
	}
	return theme.Feedback.Faint(true).Render("q quit · / search · ctrl+g jump · ? help")
}

func (m *Model) renderHelp() string {
	theme := m.theme()
	var b strings.Builder
	b.WriteString(theme.OverlayTitle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, pair := range m.keys.Help() {
		fmt.Fprintf(&b, "  %-12s %s\n", pair[0], pair[1])
	}
	b.WriteString("\n")
	b.WriteString("  esc          cancel search / quit\n")
	b.WriteString("\nPress any key to close")
	return m.overlay(b.String())
}

func (m *Model) renderDetail() string {
	theme := m.theme()
	value, formula, ok := m.src.Cell(m.nav.row, m.nav.col)
	var b strings.Builder
	b.WriteString(theme.OverlayTitle.Render("Cell " + cellAddress(m.nav.row, m.nav.col)))
	b.WriteString("\n\n")
	if ok {
		fmt.Fprintf(&b, "  Type:    %s\n", value.Kind)
		fmt.Fprintf(&b, "  Display: %s\n", value.Display())
		fmt.Fprintf(&b, "  Raw:     %s\n", value.Raw())
		if formula != "" {
			fmt.Fprintf(&b, "  Formula: =%s\n", formula)
		}
	} else {
		b.WriteString("  (out of range)\n")
	}
	b.WriteString("\nPress any key to close")
	return m.overlay(b.String())
}

func (m *Model) overlay(content string) string {
	box := m.theme().Overlay.Render(content)
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, box)
}

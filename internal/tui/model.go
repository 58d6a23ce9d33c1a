// Package tui implements the interactive viewer: a bubbletea session
// controller owning the navigation, search, jump, sheet-switch, and
// feedback state machines on top of a workbook data source.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joeycumines/xlview/internal/config"
	"github.com/joeycumines/xlview/internal/keymap"
	"github.com/joeycumines/xlview/internal/workbook"
)

// interactionMode is the modal input state. The modes are mutually
// exclusive; overlays are orthogonal to them.
type interactionMode int

const (
	modeBrowsing interactionMode = iota
	modeSearchEntry
	modeJumpEntry
)

// SheetLoader activates a sheet by name, producing a fresh data source.
type SheetLoader func(name string) (workbook.DataSource, error)

// Model is the session controller. One input event (or a tick) is fully
// processed before the next render; search and cache reloads run
// synchronously inside Update, so a long scan blocks the loop for its
// duration.
type Model struct {
	loadSheet SheetLoader
	sheets    []string
	sheetIdx  int
	src       workbook.DataSource

	keys *keymap.Keymap
	nav  navigator
	mode interactionMode

	search    searchState
	progress  *searchProgress
	searchBuf string
	jumpBuf   string

	showHelp     bool
	showDetail   bool
	showFormulas bool

	themeIdx int
	colWidth int

	feedback []feedback

	termWidth  int
	termHeight int

	quitting bool

	// injection points for tests
	now          func() time.Time
	setClipboard func(string) error
}

// New builds a session over an open workbook, activating startSheet.
func New(wb *workbook.Workbook, cfg *config.Config, startSheet string) (*Model, error) {
	threshold := cfg.UI.WindowThreshold
	loader := func(name string) (workbook.DataSource, error) {
		return wb.LoadSheet(name, threshold, 0)
	}
	return newModel(loader, wb.SheetNames(), startSheet, cfg)
}

func newModel(loader SheetLoader, sheets []string, startSheet string, cfg *config.Config) (*Model, error) {
	m := &Model{
		loadSheet:    loader,
		sheets:       sheets,
		keys:         keymap.New(cfg.Keybindings.Profile, cfg.Keybindings.Custom),
		colWidth:     cfg.UI.ColumnWidth,
		now:          time.Now,
		setClipboard: clipboard.WriteAll,
	}
	if m.colWidth <= 0 {
		m.colWidth = 30
	}
	m.search.current = -1

	idx := 0
	for i, name := range sheets {
		if name == startSheet {
			idx = i
			break
		}
	}
	src, err := loader(sheets[idx])
	if err != nil {
		return nil, fmt.Errorf("failed to load sheet %q: %w", sheets[idx], err)
	}
	m.sheetIdx = idx
	m.src = src
	m.nav.setSheet(src.Height(), src.Width())

	if ti, ok := themeIndex(cfg.Theme.Default); ok {
		m.themeIdx = ti
	} else if cfg.Theme.Default != "" {
		m.pushFeedback("Unknown theme %q, using Default", cfg.Theme.Default)
	}
	return m, nil
}

// Run drives the session to completion on the controlling terminal.
func Run(wb *workbook.Workbook, cfg *config.Config, startSheet string) error {
	m, err := New(wb, cfg, startSheet)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *Model) theme() *Theme { return &themes[m.themeIdx] }

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.nav.updateScroll(m.viewportHeight())
		m.nav.updateColScroll(m.visibleCols())
		return m, nil
	case tickMsg:
		m.pruneFeedback(time.Time(msg))
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// Overlays are modal: any key dismisses and is otherwise swallowed.
	if m.showHelp || m.showDetail {
		m.showHelp = false
		m.showDetail = false
		return m, nil
	}

	switch m.mode {
	case modeSearchEntry:
		return m.handleSearchEntry(msg)
	case modeJumpEntry:
		return m.handleJumpEntry(msg)
	}
	return m.handleBrowsing(msg)
}

func (m *Model) handleSearchEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeBrowsing
		m.searchBuf = ""
		m.commitSearch()
		m.nav.updateScroll(m.viewportHeight())
		m.nav.updateColScroll(m.visibleCols())
	case "esc":
		m.mode = modeBrowsing
		m.searchBuf = ""
		m.search.clear()
	case "backspace":
		if m.searchBuf != "" {
			r := []rune(m.searchBuf)
			m.searchBuf = string(r[:len(r)-1])
			m.performSearch(m.searchBuf)
			m.nav.updateScroll(m.viewportHeight())
			m.nav.updateColScroll(m.visibleCols())
		}
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.searchBuf += msg.String()
			m.performSearch(m.searchBuf)
			m.nav.updateScroll(m.viewportHeight())
			m.nav.updateColScroll(m.visibleCols())
		}
	}
	return m, nil
}

func (m *Model) handleJumpEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		// The buffer is consumed atomically, applied only on success.
		input := m.jumpBuf
		m.jumpBuf = ""
		m.mode = modeBrowsing
		target, note, ok := m.resolveJump(input)
		if ok {
			m.nav.jumpTo(target.row, target.col)
			m.nav.updateScroll(m.viewportHeight())
			m.nav.updateColScroll(m.visibleCols())
		}
		m.pushFeedback("%s", note)
	case "esc":
		m.jumpBuf = ""
		m.mode = modeBrowsing
	case "backspace":
		if m.jumpBuf != "" {
			r := []rune(m.jumpBuf)
			m.jumpBuf = string(r[:len(r)-1])
		}
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.jumpBuf += msg.String()
		}
	}
	return m, nil
}

func (m *Model) handleBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for _, action := range keymap.ActionOrder {
		if !m.keys.Matches(msg, action) {
			continue
		}
		return m.fireAction(action)
	}

	// Hard-coded fallback, independent of configuration: escape cancels an
	// active search, else requests exit.
	if msg.String() == "esc" {
		if m.search.active() {
			m.search.clear()
			m.pushFeedback("Search cleared")
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) fireAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case "quit":
		m.quitting = true
		return m, tea.Quit
	case "help":
		m.showHelp = true
	case "theme_toggle":
		m.themeIdx = (m.themeIdx + 1) % len(themes)
		m.pushFeedback("Theme: %s", m.theme().Name)
	case "toggle_formulas":
		m.showFormulas = !m.showFormulas
		if m.showFormulas {
			m.pushFeedback("Showing formulas")
		} else {
			m.pushFeedback("Showing values")
		}
	case "search":
		m.mode = modeSearchEntry
		m.searchBuf = ""
	case "next_match":
		m.nextMatch()
	case "prev_match":
		m.prevMatch()
	case "copy_cell":
		m.copyCell()
	case "copy_row":
		m.copyRow()
	case "jump":
		m.mode = modeJumpEntry
		m.jumpBuf = ""
	case "show_cell_detail":
		m.showDetail = true
	case "next_sheet":
		m.switchSheet(1)
	case "prev_sheet":
		m.switchSheet(-1)
	case "up":
		m.nav.moveUp()
	case "down":
		m.nav.moveDown()
	case "left":
		m.nav.moveLeft()
	case "right":
		m.nav.moveRight()
	case "page_up":
		m.nav.pageUp()
	case "page_down":
		m.nav.pageDown()
	case "jump_to_top":
		m.nav.top()
	case "jump_to_bottom":
		m.nav.bottom()
	case "jump_to_row_start":
		m.nav.rowStart()
	case "jump_to_row_end":
		m.nav.rowEnd()
	}
	m.nav.updateScroll(m.viewportHeight())
	m.nav.updateColScroll(m.visibleCols())
	return m, nil
}

// switchSheet activates the sheet delta positions away, wrapping. The data
// source is replaced wholesale; cursor, scroll, and search state reset.
func (m *Model) switchSheet(delta int) {
	if len(m.sheets) < 2 {
		return
	}
	idx := (m.sheetIdx + delta + len(m.sheets)) % len(m.sheets)
	src, err := m.loadSheet(m.sheets[idx])
	if err != nil {
		m.pushFeedback("Failed to load sheet %q: %v", m.sheets[idx], err)
		return
	}
	m.sheetIdx = idx
	m.src = src
	m.nav.setSheet(src.Height(), src.Width())
	m.search.clear()
	m.searchBuf = ""
	m.jumpBuf = ""
	m.pushFeedback("Sheet %d/%d: %s", idx+1, len(m.sheets), m.sheets[idx])
}

func (m *Model) copyCell() {
	value, formula, ok := m.src.Cell(m.nav.row, m.nav.col)
	if !ok {
		return
	}
	text := value.Raw()
	if m.showFormulas && formula != "" {
		text = formula
	}
	if err := m.setClipboard(text); err != nil {
		m.pushFeedback("Clipboard unavailable: %v", err)
		return
	}
	m.pushFeedback("Copied %s", cellAddress(m.nav.row, m.nav.col))
}

func (m *Model) copyRow() {
	rows, _ := m.src.Rows(m.nav.row, 1)
	if len(rows) == 0 {
		return
	}
	parts := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		parts[i] = cell.Raw()
	}
	if err := m.setClipboard(strings.Join(parts, "\t")); err != nil {
		m.pushFeedback("Clipboard unavailable: %v", err)
		return
	}
	m.pushFeedback("Copied row %d", m.nav.row+1)
}

// viewportHeight is the grid row capacity of the current terminal: total
// height minus the header line, status bar, and prompt/feedback line.
func (m *Model) viewportHeight() int {
	return max(1, m.termHeight-3)
}

// visibleCols is how many fixed-width columns fit the terminal.
func (m *Model) visibleCols() int {
	if m.termWidth <= 0 {
		return 1
	}
	return max(1, m.termWidth/(m.colWidth+1))
}

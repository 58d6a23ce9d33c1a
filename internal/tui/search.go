package tui

import (
	"fmt"
	"strings"
)

const (
	// searchChunkRows is the scan batch size, independent of the data
	// source's cache window size.
	searchChunkRows = 2048
	// progressThreshold is the sheet height above which scan progress is
	// tracked.
	progressThreshold = 10000
)

// match is one search hit, in row-major scan order.
type match struct {
	row, col int
}

// searchState holds the committed query, its ordered match list, and the
// index of the current match. current is -1 exactly when matches is empty.
type searchState struct {
	query   string
	matches []match
	current int
}

func (s *searchState) clear() {
	s.query = ""
	s.matches = nil
	s.current = -1
}

func (s *searchState) active() bool {
	return s.query != "" || len(s.matches) > 0
}

// isMatch reports whether the coordinate is in the match list. The list is
// sorted row-major, so a binary scan would do; match counts are small enough
// that the renderer uses a set built per sheet instead.
func (s *searchState) has(row, col int) bool {
	for _, mt := range s.matches {
		if mt.row == row && mt.col == col {
			return true
		}
	}
	return false
}

// searchProgress reports how far a long scan has advanced, in rows.
type searchProgress struct {
	scanned, total int
}

// performSearch scans the sheet row-major for cells whose display text
// contains query case-insensitively. The scan runs synchronously in chunks;
// progress is tracked for tall sheets and discarded on completion. On any
// hit the first match becomes current and the cursor jumps to it; on none
// the cursor stays put.
func (m *Model) performSearch(query string) {
	m.search.clear()
	m.search.query = query
	if query == "" {
		return
	}

	height := m.src.Height()
	if height > progressThreshold {
		m.progress = &searchProgress{total: height}
	}
	needle := strings.ToLower(query)

	for start := 0; start < height; {
		// A windowed source may serve fewer rows than requested; advance by
		// what was actually served.
		rows, _ := m.src.Rows(start, searchChunkRows)
		if len(rows) == 0 {
			break
		}
		for i, row := range rows {
			for col, cell := range row {
				if strings.Contains(strings.ToLower(cell.Display()), needle) {
					m.search.matches = append(m.search.matches, match{row: start + i, col: col})
				}
			}
		}
		start += len(rows)
		if m.progress != nil {
			m.progress.scanned = start
		}
	}
	m.progress = nil

	if len(m.search.matches) > 0 {
		m.search.current = 0
		first := m.search.matches[0]
		m.nav.jumpTo(first.row, first.col)
	}
}

// commitSearch finalizes the live search and reports the outcome.
func (m *Model) commitSearch() {
	if m.search.query == "" {
		return
	}
	if len(m.search.matches) == 0 {
		m.pushFeedback("No matches for %q", m.search.query)
		return
	}
	m.pushFeedback("%d matches for %q", len(m.search.matches), m.search.query)
}

// nextMatch advances the current match circularly; no-op without matches.
func (m *Model) nextMatch() {
	if len(m.search.matches) == 0 {
		return
	}
	m.search.current = (m.search.current + 1) % len(m.search.matches)
	mt := m.search.matches[m.search.current]
	m.nav.jumpTo(mt.row, mt.col)
	m.pushFeedback("Match %d/%d", m.search.current+1, len(m.search.matches))
}

// prevMatch steps backward circularly; no-op without matches.
func (m *Model) prevMatch() {
	if len(m.search.matches) == 0 {
		return
	}
	m.search.current = (m.search.current - 1 + len(m.search.matches)) % len(m.search.matches)
	mt := m.search.matches[m.search.current]
	m.nav.jumpTo(mt.row, mt.col)
	m.pushFeedback("Match %d/%d", m.search.current+1, len(m.search.matches))
}

// progressText renders the transient scan progress, if any.
func (m *Model) progressText() string {
	if m.progress == nil {
		return ""
	}
	return fmt.Sprintf("Searching… %d/%d rows", m.progress.scanned, m.progress.total)
}

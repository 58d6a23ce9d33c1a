package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// jumpTarget is a resolved cell coordinate.
type jumpTarget struct {
	row, col int
}

// resolveJump parses free-form jump input against the current sheet bounds.
// The grammar is tried in a fixed order: bare row number, spreadsheet-style
// address, then "row,col". Every outcome carries a human-readable message;
// malformed input is a reported rejection, never an error.
func (m *Model) resolveJump(input string) (jumpTarget, string, bool) {
	input = strings.TrimSpace(input)
	height := m.src.Height()
	width := m.src.Width()

	if input == "" {
		return jumpTarget{}, "Jump cancelled", false
	}

	// 1. Bare unsigned integer: a 1-indexed row, column unchanged.
	if n, err := strconv.ParseUint(input, 10, 32); err == nil {
		row := int(n)
		if row < 1 || row > height {
			return jumpTarget{}, fmt.Sprintf("Row %d out of range (1-%d)", row, height), false
		}
		return jumpTarget{row: row - 1, col: m.nav.col}, fmt.Sprintf("Jumped to row %d", row), true
	}

	// 2. Spreadsheet-style address: letters then digits, e.g. "B3" or "aa10".
	if letters, digits, ok := splitCellAddress(input); ok {
		colNum, err := excelize.ColumnNameToNumber(strings.ToUpper(letters))
		rowNum, err2 := strconv.Atoi(digits)
		if err == nil && err2 == nil {
			row, col := rowNum-1, colNum-1
			if row < 0 || row >= height || col < 0 || col >= width {
				return jumpTarget{}, fmt.Sprintf("Cell %s out of range", strings.ToUpper(input)), false
			}
			return jumpTarget{row: row, col: col}, fmt.Sprintf("Jumped to %s", strings.ToUpper(input)), true
		}
	}

	// 3. "row,col" with both 1-indexed.
	if before, after, found := strings.Cut(input, ","); found {
		r, err := strconv.ParseUint(strings.TrimSpace(before), 10, 32)
		c, err2 := strconv.ParseUint(strings.TrimSpace(after), 10, 32)
		if err == nil && err2 == nil {
			row, col := int(r)-1, int(c)-1
			if row < 0 || row >= height || col < 0 || col >= width {
				return jumpTarget{}, fmt.Sprintf("Position %d,%d out of range", r, c), false
			}
			return jumpTarget{row: row, col: col}, fmt.Sprintf("Jumped to row %d, column %d", r, c), true
		}
	}

	return jumpTarget{}, fmt.Sprintf("Invalid jump target: %q", input), false
}

// splitCellAddress splits "AA10" into its letter and digit runs. ok is false
// unless the input is one or more ASCII letters followed by one or more
// digits, with nothing else.
func splitCellAddress(s string) (letters, digits string, ok bool) {
	i := 0
	for i < len(s) && isASCIILetter(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return "", "", false
	}
	for j := i; j < len(s); j++ {
		if s[j] < '0' || s[j] > '9' {
			return "", "", false
		}
	}
	return s[:i], s[i:], true
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// colToLetters converts a zero-based column index to its spreadsheet-style
// letter run.
func colToLetters(col int) string {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return "?"
	}
	return name
}

// cellAddress renders the cursor position as a spreadsheet-style address.
func cellAddress(row, col int) string {
	return fmt.Sprintf("%s%d", colToLetters(col), row+1)
}

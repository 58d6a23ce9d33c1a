package workbook

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeRows builds count body rows starting at start, each with a single cell
// identifying its absolute row.
func makeRows(start, count int) [][]CellValue {
	rows := make([][]CellValue, count)
	for i := range rows {
		rows[i] = []CellValue{Text(fmt.Sprintf("row-%d", start+i)), Integer(int64(start + i))}
	}
	return rows
}

func TestEagerSheetRows(t *testing.T) {
	s := NewEagerSheet("Data", []string{"name", "n"}, makeRows(0, 10), nil)
	assert.Equal(t, "Data", s.Name())
	assert.Equal(t, 2, s.Width())
	assert.Equal(t, 10, s.Height())

	rows, formulas := s.Rows(3, 4)
	require.Len(t, rows, 4)
	require.Len(t, formulas, 4)
	assert.Equal(t, "row-3", rows[0][0].Str)
	assert.Equal(t, "row-6", rows[3][0].Str)

	// Out-of-range and zero-count queries are empty, not panics.
	rows, _ = s.Rows(10, 5)
	assert.Empty(t, rows)
	rows, _ = s.Rows(-1, 5)
	assert.Empty(t, rows)
	rows, _ = s.Rows(0, 0)
	assert.Empty(t, rows)

	// Queries past the end clamp.
	rows, _ = s.Rows(8, 100)
	assert.Len(t, rows, 2)
}

func TestEagerSheetCell(t *testing.T) {
	sparse := []FormulaCell{{Row: 3, Col: 1, Text: "A3*2"}}
	s := NewEagerSheet("Data", []string{"name", "n"}, makeRows(0, 5), sparse)

	value, formula, ok := s.Cell(2, 1)
	require.True(t, ok)
	assert.Equal(t, int64(2), value.Int)
	assert.Equal(t, "A3*2", formula)

	_, formula, ok = s.Cell(2, 0)
	require.True(t, ok)
	assert.Empty(t, formula)

	_, _, ok = s.Cell(5, 0)
	assert.False(t, ok)
	_, _, ok = s.Cell(0, 2)
	assert.False(t, ok)
}

func TestDenseFormulasMapping(t *testing.T) {
	sparse := []FormulaCell{
		{Row: 0, Col: 0, Text: "header"}, // header row: skipped
		{Row: 1, Col: 0, Text: "first"},  // body row 0
		{Row: 5, Col: 1, Text: "mid"},    // body row 4
		{Row: 9, Col: 1, Text: "out"},    // body row 8: outside [0,8)
		{Row: 2, Col: 7, Text: "wide"},   // column out of range
	}
	block := denseFormulas(sparse, 0, 8, 2)
	require.Len(t, block, 8)
	assert.Equal(t, "first", block[0][0])
	assert.Equal(t, "mid", block[4][1])
	for i, row := range block {
		for j, f := range row {
			if (i == 0 && j == 0) || (i == 4 && j == 1) {
				continue
			}
			assert.Emptyf(t, f, "unexpected formula at %d,%d", i, j)
		}
	}

	// An offset block sees only entries inside its range.
	block = denseFormulas(sparse, 4, 5, 2)
	assert.Equal(t, "mid", block[0][1])
	assert.Equal(t, "out", block[4][1])
	assert.Empty(t, block[0][0])
}

// countingLoader wraps makeRows and records every materialization request.
type countingLoader struct {
	calls []int
}

func (l *countingLoader) load(start, count int) [][]CellValue {
	l.calls = append(l.calls, start)
	return makeRows(start, count)
}

func TestWindowedSheetServesCorrectRows(t *testing.T) {
	loader := &countingLoader{}
	s := NewWindowedSheet("Big", []string{"name", "n"}, 100_000, 1024, loader.load, nil)
	assert.Equal(t, 100_000, s.Height())

	rows, _ := s.Rows(50_000, 10)
	require.Len(t, rows, 10)
	assert.Equal(t, "row-50000", rows[0][0].Str)
	assert.Equal(t, "row-50009", rows[9][0].Str)
}

func TestWindowedSheetCacheReuse(t *testing.T) {
	loader := &countingLoader{}
	s := NewWindowedSheet("Big", []string{"name", "n"}, 100_000, 1024, loader.load, nil)

	// First query misses and rebuilds, biased a quarter window backward.
	s.Rows(5000, 20)
	require.Equal(t, []int{5000 - 256}, loader.calls)

	// Nearby queries in either direction are hits: the window spans
	// [4744, 4744+1024).
	s.Rows(4900, 20)
	s.Rows(5500, 20)
	s.Rows(4744, 20)
	s.Rows(5767, 1)
	assert.Len(t, loader.calls, 1)

	// One row past the window forces a rebuild.
	s.Rows(5768, 20)
	assert.Len(t, loader.calls, 2)
	assert.Equal(t, 5768-256, loader.calls[1])
}

func TestWindowedSheetBackwardScroll(t *testing.T) {
	loader := &countingLoader{}
	s := NewWindowedSheet("Big", []string{"name"}, 100_000, 1024, loader.load, nil)

	s.Rows(5000, 20)
	// Scrolling backward inside the quarter-window bias stays cached.
	for start := 4999; start >= 4744; start-- {
		s.Rows(start, 20)
	}
	assert.Len(t, loader.calls, 1)

	s.Rows(4743, 20)
	assert.Len(t, loader.calls, 2)
}

func TestWindowedSheetStartOfSheet(t *testing.T) {
	loader := &countingLoader{}
	s := NewWindowedSheet("Big", []string{"name"}, 100_000, 1024, loader.load, nil)

	rows, _ := s.Rows(10, 5)
	require.Len(t, rows, 5)
	assert.Equal(t, "row-10", rows[0][0].Str)
	// The backward bias clamps at row zero.
	assert.Equal(t, []int{0}, loader.calls)
}

func TestWindowedSheetEndOfSheet(t *testing.T) {
	loader := &countingLoader{}
	s := NewWindowedSheet("Big", []string{"name"}, 2000, 1024, loader.load, nil)

	// The final window is short: it cannot extend past the sheet.
	rows, _ := s.Rows(1990, 50)
	require.Len(t, rows, 10)
	assert.Equal(t, "row-1999", rows[9][0].Str)

	rows, _ = s.Rows(2000, 5)
	assert.Empty(t, rows)
}

func TestWindowedSheetDefaultWindowSize(t *testing.T) {
	loader := &countingLoader{}
	s := NewWindowedSheet("Big", []string{"name"}, 10_000, 0, loader.load, nil)
	s.Rows(0, 1)
	s.Rows(DefaultWindowSize-1, 1)
	assert.Len(t, loader.calls, 1)
}

func TestWindowedSheetFormulas(t *testing.T) {
	sparse := []FormulaCell{{Row: 5001, Col: 0, Text: "SUM(A1:A10)"}}
	loader := &countingLoader{}
	s := NewWindowedSheet("Big", []string{"name"}, 100_000, 1024, loader.load, sparse)

	// Absolute sheet row 5001 is body row 5000.
	_, formula, ok := s.Cell(5000, 0)
	require.True(t, ok)
	assert.Equal(t, "SUM(A1:A10)", formula)

	_, formula, ok = s.Cell(5001, 0)
	require.True(t, ok)
	assert.Empty(t, formula)
}

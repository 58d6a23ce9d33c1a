package workbook

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeFixture builds a two-sheet workbook on disk covering the cell types
// the decoder distinguishes.
func writeFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "People"))

	require.NoError(t, f.SetSheetRow("People", "A1", &[]any{"name", "count", "score", "active"}))
	require.NoError(t, f.SetSheetRow("People", "A2", &[]any{"Alice", 42, 98.6, true}))
	require.NoError(t, f.SetSheetRow("People", "A3", &[]any{"Bob", 1234567, 0.5, false}))
	require.NoError(t, f.SetCellFormula("People", "B4", "SUM(B2:B3)"))

	_, err := f.NewSheet("Extras")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Extras", "A1", &[]any{"only-header"}))

	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestSheetNames(t *testing.T) {
	wb, err := Open(writeFixture(t))
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{"People", "Extras"}, wb.SheetNames())
}

func TestResolveSheet(t *testing.T) {
	wb, err := Open(writeFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	name, err := wb.ResolveSheet("People")
	require.NoError(t, err)
	assert.Equal(t, "People", name)

	// A numeric argument is a 1-based index.
	name, err = wb.ResolveSheet("2")
	require.NoError(t, err)
	assert.Equal(t, "Extras", name)

	_, err = wb.ResolveSheet("3")
	assert.ErrorIs(t, err, ErrSheetNotFound)

	_, err = wb.ResolveSheet("0")
	assert.ErrorIs(t, err, ErrSheetNotFound)

	_, err = wb.ResolveSheet("Nope")
	assert.ErrorIs(t, err, ErrSheetNotFound)
	assert.Contains(t, err.Error(), "People")
}

func TestLoadSheetEager(t *testing.T) {
	wb, err := Open(writeFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	src, err := wb.LoadSheetEager("People")
	require.NoError(t, err)
	assert.Equal(t, "People", src.Name())
	assert.Equal(t, []string{"name", "count", "score", "active"}, src.Headers())
	assert.Equal(t, 4, src.Width())
	assert.Equal(t, 3, src.Height())

	rows, _ := src.Rows(0, 3)
	require.Len(t, rows, 3)

	assert.Equal(t, KindText, rows[0][0].Kind)
	assert.Equal(t, "Alice", rows[0][0].Str)
	assert.Equal(t, KindInteger, rows[0][1].Kind)
	assert.Equal(t, int64(42), rows[0][1].Int)
	assert.Equal(t, KindFloat, rows[0][2].Kind)
	assert.InDelta(t, 98.6, rows[0][2].Num, 1e-9)
	assert.Equal(t, KindBoolean, rows[0][3].Kind)
	assert.True(t, rows[0][3].Bool)

	assert.Equal(t, int64(1234567), rows[1][1].Int)
	assert.False(t, rows[1][3].Bool)

	// Row 4 is sparse: only the formula cell is populated.
	assert.Equal(t, KindEmpty, rows[2][0].Kind)
}

func TestLoadSheetFormulas(t *testing.T) {
	wb, err := Open(writeFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	src, err := wb.LoadSheetEager("People")
	require.NoError(t, err)

	// Sheet cell B4 is body row 2, column 1.
	_, formula, ok := src.Cell(2, 1)
	require.True(t, ok)
	assert.Equal(t, "SUM(B2:B3)", formula)

	_, formula, ok = src.Cell(0, 1)
	require.True(t, ok)
	assert.Empty(t, formula)
}

func TestLoadSheetHeaderOnly(t *testing.T) {
	wb, err := Open(writeFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	src, err := wb.LoadSheet("Extras", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"only-header"}, src.Headers())
	assert.Equal(t, 0, src.Height())
}

func TestLoadSheetUnknownName(t *testing.T) {
	wb, err := Open(writeFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.LoadSheet("Nope", 0, 0)
	assert.True(t, errors.Is(err, ErrSheetNotFound))
}

func TestLoadSheetSelectsWindowedStrategy(t *testing.T) {
	wb, err := Open(writeFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	// With a threshold below the body row count the windowed strategy wins.
	src, err := wb.LoadSheet("People", 2, 0)
	require.NoError(t, err)
	_, windowed := src.(*WindowedSheet)
	assert.True(t, windowed)

	src, err = wb.LoadSheet("People", 3, 0)
	require.NoError(t, err)
	_, eager := src.(*EagerSheet)
	assert.True(t, eager)

	// Both strategies serve identical cells.
	win, _ := wb.LoadSheetWindowed("People", 2)
	eag, _ := wb.LoadSheetEager("People")
	require.Equal(t, eag.Height(), win.Height())
	for r := 0; r < eag.Height(); r++ {
		for c := 0; c < eag.Width(); c++ {
			ev, ef, _ := eag.Cell(r, c)
			wv, wf, _ := win.Cell(r, c)
			assert.Equalf(t, ev, wv, "cell %d,%d", r, c)
			assert.Equalf(t, ef, wf, "cell %d,%d", r, c)
		}
	}
}

// writeTableFixture builds a workbook with one Excel table alongside loose
// cells.
func writeTableFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Stats"))
	require.NoError(t, f.SetSheetRow("Stats", "A1", &[]any{"loose"}))
	require.NoError(t, f.SetSheetRow("Stats", "E1", &[]any{"city", "pop"}))
	require.NoError(t, f.SetSheetRow("Stats", "E2", &[]any{"Oslo", 700000}))
	require.NoError(t, f.SetSheetRow("Stats", "E3", &[]any{"Bergen", 290000}))
	require.NoError(t, f.AddTable("Stats", &excelize.Table{Range: "E1:F3", Name: "Cities"}))

	path := filepath.Join(t.TempDir(), "tables.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestTables(t *testing.T) {
	wb, err := Open(writeTableFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	tables, err := wb.Tables()
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Cities", tables[0].Name)
	assert.Equal(t, "Stats", tables[0].Sheet)
	assert.Equal(t, "E1:F3", tables[0].Range)
}

func TestTablesNone(t *testing.T) {
	wb, err := Open(writeFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	tables, err := wb.Tables()
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestLoadTable(t *testing.T) {
	wb, err := Open(writeTableFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	src, info, err := wb.LoadTable("Cities")
	require.NoError(t, err)
	assert.Equal(t, "Stats", info.Sheet)
	assert.Equal(t, "Cities", src.Name())
	assert.Equal(t, []string{"city", "pop"}, src.Headers())
	assert.Equal(t, 2, src.Height())

	rows, _ := src.Rows(0, 2)
	require.Len(t, rows, 2)
	assert.Equal(t, KindText, rows[0][0].Kind)
	assert.Equal(t, "Oslo", rows[0][0].Str)
	assert.Equal(t, KindInteger, rows[0][1].Kind)
	assert.Equal(t, int64(700000), rows[0][1].Int)
	assert.Equal(t, "Bergen", rows[1][0].Str)
}

func TestLoadTableUnknown(t *testing.T) {
	wb, err := Open(writeTableFixture(t))
	require.NoError(t, err)
	defer wb.Close()

	_, _, err = wb.LoadTable("Nope")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestCellValueDateDetection(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "when"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 45292.0))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 14}) // m/d/yyyy
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A2", style))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 45292.0))

	path := filepath.Join(t.TempDir(), "dates.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	src, err := wb.LoadSheetEager("Sheet1")
	require.NoError(t, err)

	value, _, ok := src.Cell(0, 0)
	require.True(t, ok)
	assert.Equal(t, KindTemporal, value.Kind)
	assert.InDelta(t, 45292.0, value.Num, 1e-9)

	// The same serial without a date format stays numeric.
	value, _, ok = src.Cell(0, 1)
	require.True(t, ok)
	assert.Equal(t, KindInteger, value.Kind)
}

package workbook

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound reports a sheet name that does not exist in the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// WindowThreshold is the default body row count above which a sheet is
// served through a WindowedSheet instead of an EagerSheet. The threshold is
// a memory/latency policy, not a correctness decision.
const WindowThreshold = 10000

// Workbook wraps a decoded spreadsheet file and hands out per-sheet data
// sources.
type Workbook struct {
	f    *excelize.File
	path string
}

// Open decodes the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &Workbook{f: f, path: path}, nil
}

// Close releases the underlying file.
func (wb *Workbook) Close() error {
	return wb.f.Close()
}

// SheetNames returns the workbook's sheet names in file order.
func (wb *Workbook) SheetNames() []string {
	return wb.f.GetSheetList()
}

// ResolveSheet accepts a sheet name or a 1-based index rendered as digits
// and returns the matching sheet name.
func (wb *Workbook) ResolveSheet(nameOrIndex string) (string, error) {
	names := wb.SheetNames()
	for _, n := range names {
		if n == nameOrIndex {
			return n, nil
		}
	}
	if idx, err := strconv.Atoi(nameOrIndex); err == nil {
		if idx < 1 || idx > len(names) {
			return "", fmt.Errorf("sheet index %d out of range (1-%d): %w", idx, len(names), ErrSheetNotFound)
		}
		return names[idx-1], nil
	}
	return "", fmt.Errorf("sheet %q (available: %s): %w", nameOrIndex, strings.Join(names, ", "), ErrSheetNotFound)
}

// LoadSheet builds a data source for the named sheet, selecting the loading
// strategy by row count: bodies above threshold rows are windowed, smaller
// sheets are materialized eagerly. threshold <= 0 selects WindowThreshold.
func (wb *Workbook) LoadSheet(name string, threshold, windowSize int) (DataSource, error) {
	if threshold <= 0 {
		threshold = WindowThreshold
	}
	width, height, err := wb.sheetDims(name)
	if err != nil {
		return nil, err
	}
	if height-1 > threshold {
		return wb.loadWindowed(name, width, height, windowSize)
	}
	return wb.loadEager(name, width, height)
}

// LoadSheetEager materializes the entire sheet.
func (wb *Workbook) LoadSheetEager(name string) (*EagerSheet, error) {
	width, height, err := wb.sheetDims(name)
	if err != nil {
		return nil, err
	}
	return wb.loadEager(name, width, height)
}

// LoadSheetWindowed materializes only the header; body rows convert on
// demand through the window cache.
func (wb *Workbook) LoadSheetWindowed(name string, windowSize int) (*WindowedSheet, error) {
	width, height, err := wb.sheetDims(name)
	if err != nil {
		return nil, err
	}
	return wb.loadWindowed(name, width, height, windowSize)
}

func (wb *Workbook) loadEager(name string, width, height int) (*EagerSheet, error) {
	headers := wb.headerRow(name, width, height)
	body := max(0, height-1)
	rows := wb.rangeRows(name, width, 0, body)
	return NewEagerSheet(name, headers, rows, wb.formulaCells(name, width, height)), nil
}

func (wb *Workbook) loadWindowed(name string, width, height, windowSize int) (*WindowedSheet, error) {
	headers := wb.headerRow(name, width, height)
	body := max(0, height-1)
	load := func(start, count int) [][]CellValue {
		return wb.rangeRows(name, width, start, count)
	}
	return NewWindowedSheet(name, headers, body, windowSize, load, wb.formulaCells(name, width, height)), nil
}

// sheetDims returns the used width and height (header included) of a sheet.
func (wb *Workbook) sheetDims(name string) (width, height int, err error) {
	if idx, idxErr := wb.f.GetSheetIndex(name); idxErr != nil || idx < 0 {
		names := strings.Join(wb.SheetNames(), ", ")
		return 0, 0, fmt.Errorf("sheet %q (available: %s): %w", name, names, ErrSheetNotFound)
	}
	if ref, err := wb.f.GetSheetDimension(name); err == nil && strings.Contains(ref, ":") {
		parts := strings.SplitN(ref, ":", 2)
		c1, r1, err1 := excelize.CellNameToCoordinates(parts[0])
		c2, r2, err2 := excelize.CellNameToCoordinates(parts[1])
		if err1 == nil && err2 == nil {
			return max(c1, c2), max(r1, r2), nil
		}
	}
	// Dimension record absent or malformed; walk the rows instead.
	iter, err := wb.f.Rows(name)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	defer iter.Close()
	for iter.Next() {
		cols, err := iter.Columns()
		if err != nil {
			return 0, 0, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		height++
		width = max(width, len(cols))
	}
	return width, height, nil
}

func (wb *Workbook) headerRow(name string, width, height int) []string {
	headers := make([]string, width)
	if height == 0 {
		return headers
	}
	for col := 0; col < width; col++ {
		axis, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			continue
		}
		headers[col], _ = wb.f.GetCellValue(name, axis)
	}
	return headers
}

// rangeRows converts body rows [start, start+count) into typed cells. Body
// row 0 is sheet row 2 (the header occupies sheet row 1).
func (wb *Workbook) rangeRows(name string, width, start, count int) [][]CellValue {
	rows := make([][]CellValue, 0, count)
	for r := start; r < start+count; r++ {
		row := make([]CellValue, width)
		for c := 0; c < width; c++ {
			axis, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				continue
			}
			row[c] = wb.cellValue(name, axis)
		}
		rows = append(rows, row)
	}
	return rows
}

// cellValue converts one decoded cell into the typed model. Numeric cells
// whose formatted rendering is not itself numeric are treated as dates; the
// workbook format does not tag date cells directly, it only carries a
// number format.
func (wb *Workbook) cellValue(name, axis string) CellValue {
	raw, _ := wb.f.GetCellValue(name, axis, excelize.Options{RawCellValue: true})
	typ, _ := wb.f.GetCellType(name, axis)

	switch typ {
	case excelize.CellTypeBool:
		return Boolean(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeError:
		return ErrorValue(strings.TrimPrefix(raw, "#"))
	case excelize.CellTypeInlineString, excelize.CellTypeSharedString:
		if raw == "" {
			return Empty()
		}
		return Text(raw)
	case excelize.CellTypeDate:
		if serial, err := strconv.ParseFloat(raw, 64); err == nil {
			return Temporal(serial)
		}
		return Text(raw)
	}

	if raw == "" {
		return Empty()
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		formatted, _ := wb.f.GetCellValue(name, axis)
		if formatted != "" && formatted != raw {
			if _, err := strconv.ParseFloat(strings.ReplaceAll(formatted, ",", ""), 64); err != nil {
				return Temporal(f)
			}
		}
		if !strings.ContainsAny(raw, ".eE") {
			if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return Integer(i)
			}
		}
		return Float(f)
	}
	return Text(raw)
}

// ErrTableNotFound reports an Excel table name that does not exist in the
// workbook.
var ErrTableNotFound = errors.New("table not found")

// TableInfo identifies one Excel table definition.
type TableInfo struct {
	Name  string
	Sheet string
	Range string
}

// Tables lists the workbook's Excel table definitions in sheet order.
func (wb *Workbook) Tables() ([]TableInfo, error) {
	var out []TableInfo
	for _, sheet := range wb.SheetNames() {
		tables, err := wb.f.GetTables(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read tables of sheet %q: %w", sheet, err)
		}
		for _, t := range tables {
			out = append(out, TableInfo{Name: t.Name, Sheet: sheet, Range: t.Range})
		}
	}
	return out, nil
}

// LoadTable materializes the named Excel table as an eager source: the first
// row of the table range is the header row, the rest is the body.
func (wb *Workbook) LoadTable(name string) (*EagerSheet, TableInfo, error) {
	tables, err := wb.Tables()
	if err != nil {
		return nil, TableInfo{}, err
	}
	for _, info := range tables {
		if info.Name != name {
			continue
		}
		src, err := wb.loadTableRange(info)
		if err != nil {
			return nil, TableInfo{}, err
		}
		return src, info, nil
	}
	return nil, TableInfo{}, fmt.Errorf("table %q: %w", name, ErrTableNotFound)
}

func (wb *Workbook) loadTableRange(info TableInfo) (*EagerSheet, error) {
	first, second, ok := strings.Cut(info.Range, ":")
	if !ok {
		return nil, fmt.Errorf("table %q has malformed range %q", info.Name, info.Range)
	}
	c1, r1, err1 := excelize.CellNameToCoordinates(first)
	c2, r2, err2 := excelize.CellNameToCoordinates(second)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("table %q has malformed range %q", info.Name, info.Range)
	}
	left, right := min(c1, c2), max(c1, c2)
	top, bottom := min(r1, r2), max(r1, r2)
	width := right - left + 1

	headers := make([]string, width)
	for c := 0; c < width; c++ {
		axis, err := excelize.CoordinatesToCellName(left+c, top)
		if err != nil {
			continue
		}
		headers[c], _ = wb.f.GetCellValue(info.Sheet, axis)
	}
	rows := make([][]CellValue, 0, bottom-top)
	for r := top + 1; r <= bottom; r++ {
		row := make([]CellValue, width)
		for c := 0; c < width; c++ {
			axis, err := excelize.CoordinatesToCellName(left+c, r)
			if err != nil {
				continue
			}
			row[c] = wb.cellValue(info.Sheet, axis)
		}
		rows = append(rows, row)
	}
	return NewEagerSheet(info.Name, headers, rows, nil), nil
}

// formulaCells collects the sheet's sparse formula set in absolute sheet
// coordinates (header row = 0).
func (wb *Workbook) formulaCells(name string, width, height int) []FormulaCell {
	var sparse []FormulaCell
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			formula, err := wb.f.GetCellFormula(name, axis)
			if err != nil || formula == "" {
				continue
			}
			sparse = append(sparse, FormulaCell{Row: r, Col: c, Text: formula})
		}
	}
	return sparse
}

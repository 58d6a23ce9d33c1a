package workbook

// DataSource serves sheet rows to the renderer and the search engine without
// exposing the loading strategy. Row and column indices are zero-based and
// exclude the header row; Height is the body row count.
type DataSource interface {
	Name() string
	Headers() []string
	Width() int
	Height() int
	// Rows returns the cell block and the parallel formula block covering
	// [start, min(start+count, Height())). A formula entry is "" for cells
	// without a formula.
	Rows(start, count int) ([][]CellValue, [][]string)
	// Cell returns a single cell value and its formula. ok is false when the
	// coordinate is out of bounds.
	Cell(row, col int) (value CellValue, formula string, ok bool)
}

// FormulaCell is one entry of a sheet's sparse formula set. Row is the
// absolute sheet row (the header is row 0), so body row indices are offset
// by exactly one.
type FormulaCell struct {
	Row, Col int
	Text     string
}

// denseFormulas maps sparse formula cells into a dense block parallel to the
// body rows [start, start+count), skipping entries outside that range.
func denseFormulas(sparse []FormulaCell, start, count, width int) [][]string {
	block := make([][]string, count)
	for i := range block {
		block[i] = make([]string, width)
	}
	for _, fc := range sparse {
		if fc.Row < 1 {
			continue // header row carries no body formula
		}
		body := fc.Row - 1
		if body < start || body >= start+count {
			continue
		}
		if fc.Col < 0 || fc.Col >= width {
			continue
		}
		block[body-start][fc.Col] = fc.Text
	}
	return block
}

// EagerSheet holds an entire sheet body in memory. Access is a direct slice
// with no fallible path.
type EagerSheet struct {
	name     string
	headers  []string
	rows     [][]CellValue
	formulas [][]string
	width    int
}

// NewEagerSheet builds an eager source from fully materialized rows and the
// sheet's sparse formula set.
func NewEagerSheet(name string, headers []string, rows [][]CellValue, sparse []FormulaCell) *EagerSheet {
	width := len(headers)
	return &EagerSheet{
		name:     name,
		headers:  headers,
		rows:     rows,
		formulas: denseFormulas(sparse, 0, len(rows), width),
		width:    width,
	}
}

func (s *EagerSheet) Name() string      { return s.name }
func (s *EagerSheet) Headers() []string { return s.headers }
func (s *EagerSheet) Width() int        { return s.width }
func (s *EagerSheet) Height() int       { return len(s.rows) }

func (s *EagerSheet) Rows(start, count int) ([][]CellValue, [][]string) {
	if start < 0 || start >= len(s.rows) || count <= 0 {
		return nil, nil
	}
	end := min(start+count, len(s.rows))
	return s.rows[start:end], s.formulas[start:end]
}

func (s *EagerSheet) Cell(row, col int) (CellValue, string, bool) {
	if row < 0 || row >= len(s.rows) || col < 0 || col >= s.width {
		return CellValue{}, "", false
	}
	var value CellValue
	if col < len(s.rows[row]) {
		value = s.rows[row][col]
	}
	return value, s.formulas[row][col], true
}

// RangeLoader materializes body rows [start, start+count) from the decoded
// backing store. It is infallible: the store is resident, only the typed
// conversion is deferred.
type RangeLoader func(start, count int) [][]CellValue

// DefaultWindowSize is the row count of a cache window.
const DefaultWindowSize = 1024

// WindowedSheet materializes only the header eagerly; body rows are served
// through a single contiguous cache window that is rebuilt wholesale on any
// miss.
type WindowedSheet struct {
	name       string
	headers    []string
	width      int
	height     int
	windowSize int
	load       RangeLoader
	sparse     []FormulaCell
	win        *rowWindow
}

// rowWindow is one contiguous chunk of body rows plus the parallel formula
// block. It is replaced, never mutated, on reload.
type rowWindow struct {
	start    int
	rows     [][]CellValue
	formulas [][]string
}

// contains reports whether a query starting at row is served by this window.
func (w *rowWindow) contains(row int) bool {
	return row >= w.start && row < w.start+len(w.rows)
}

// NewWindowedSheet builds a windowed source. windowSize <= 0 selects
// DefaultWindowSize.
func NewWindowedSheet(name string, headers []string, height, windowSize int, load RangeLoader, sparse []FormulaCell) *WindowedSheet {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &WindowedSheet{
		name:       name,
		headers:    headers,
		width:      len(headers),
		height:     height,
		windowSize: windowSize,
		load:       load,
		sparse:     sparse,
	}
}

func (s *WindowedSheet) Name() string      { return s.name }
func (s *WindowedSheet) Headers() []string { return s.headers }
func (s *WindowedSheet) Width() int        { return s.width }
func (s *WindowedSheet) Height() int       { return s.height }

func (s *WindowedSheet) Rows(start, count int) ([][]CellValue, [][]string) {
	if start < 0 || start >= s.height || count <= 0 {
		return nil, nil
	}
	if s.win == nil || !s.win.contains(start) {
		s.reload(start)
	}
	off := start - s.win.start
	end := min(off+count, len(s.win.rows))
	return s.win.rows[off:end], s.win.formulas[off:end]
}

// reload replaces the cache window with one spanning windowSize rows,
// pre-biased a quarter window backward from the missed start so that small
// movements in either direction stay inside the new window.
func (s *WindowedSheet) reload(start int) {
	base := max(0, start-s.windowSize/4)
	count := min(s.windowSize, s.height-base)
	s.win = &rowWindow{
		start:    base,
		rows:     s.load(base, count),
		formulas: denseFormulas(s.sparse, base, count, s.width),
	}
}

func (s *WindowedSheet) Cell(row, col int) (CellValue, string, bool) {
	if row < 0 || row >= s.height || col < 0 || col >= s.width {
		return CellValue{}, "", false
	}
	rows, formulas := s.Rows(row, 1)
	if len(rows) == 0 {
		return CellValue{}, "", false
	}
	var value CellValue
	if col < len(rows[0]) {
		value = rows[0][col]
	}
	return value, formulas[0][col], true
}

// Package export writes sheet data as CSV, JSON, or plain text.
//
// All writers consume the data source in fixed-size row chunks, so a
// windowed source exports without materializing the whole sheet at once.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/joeycumines/xlview/internal/workbook"
)

const chunkRows = 2048

// CSV writes the header row followed by the raw projection of every body
// row.
func CSV(w io.Writer, src workbook.DataSource) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(src.Headers()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	record := make([]string, src.Width())
	for start := 0; start < src.Height(); {
		// A windowed source may serve fewer rows than requested; advance by
		// what was actually served.
		rows, _ := src.Rows(start, chunkRows)
		if len(rows) == 0 {
			break
		}
		for _, row := range rows {
			for i := range record {
				if i < len(row) {
					record[i] = row[i].Raw()
				} else {
					record[i] = ""
				}
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
		start += len(rows)
	}
	cw.Flush()
	return cw.Error()
}

// document is the JSON export shape.
type document struct {
	Sheet   string   `json:"sheet"`
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
	Headers []string `json:"headers"`
	Data    [][]any  `json:"data"`
}

// JSON writes the sheet as a single JSON document with typed cell values:
// text as strings, integers and floats as numbers, booleans as booleans,
// empty cells as null, and everything else as its raw string.
func JSON(w io.Writer, src workbook.DataSource) error {
	doc := document{
		Sheet:   src.Name(),
		Rows:    src.Height(),
		Columns: src.Width(),
		Headers: src.Headers(),
		Data:    make([][]any, 0, src.Height()),
	}
	for start := 0; start < src.Height(); {
		rows, _ := src.Rows(start, chunkRows)
		if len(rows) == 0 {
			break
		}
		for _, row := range rows {
			out := make([]any, src.Width())
			for i := 0; i < src.Width(); i++ {
				if i < len(row) {
					out[i] = jsonValue(row[i])
				}
			}
			doc.Data = append(doc.Data, out)
		}
		start += len(rows)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func jsonValue(v workbook.CellValue) any {
	switch v.Kind {
	case workbook.KindEmpty:
		return nil
	case workbook.KindText:
		return v.Str
	case workbook.KindInteger:
		return v.Int
	case workbook.KindFloat:
		return v.Num
	case workbook.KindBoolean:
		return v.Bool
	default:
		return v.Raw()
	}
}

// Text writes the sheet tab-separated, raw projections only.
func Text(w io.Writer, src workbook.DataSource) error {
	bw := bufio.NewWriter(w)
	for i, h := range src.Headers() {
		if i > 0 {
			if err := bw.WriteByte('\t'); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(h); err != nil {
			return err
		}
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	for start := 0; start < src.Height(); {
		rows, _ := src.Rows(start, chunkRows)
		if len(rows) == 0 {
			break
		}
		for _, row := range rows {
			for i, cell := range row {
				if i > 0 {
					if err := bw.WriteByte('\t'); err != nil {
						return err
					}
				}
				if _, err := bw.WriteString(cell.Raw()); err != nil {
					return err
				}
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		start += len(rows)
	}
	return bw.Flush()
}

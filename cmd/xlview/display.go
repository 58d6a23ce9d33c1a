package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/joeycumines/xlview/internal/workbook"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	formulaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	noteStyle    = lipgloss.NewStyle().Faint(true)
)

// displayOptions are the static rendering knobs shared by the sheet and
// table views.
type displayOptions struct {
	maxRows      int // body rows to render, 0 = all
	maxWidth     int // characters per cell, 0 = unlimited
	showFormulas bool
	wrap         bool // wrap long cell content instead of truncating
}

// displayStatic prints the sheet as a bordered table.
func displayStatic(w io.Writer, src workbook.DataSource, allSheets []string, opts displayOptions) error {
	fmt.Fprintf(w, "Sheet: %s (%d rows × %d columns)\n", src.Name(), src.Height(), src.Width())
	if len(allSheets) > 1 {
		fmt.Fprintf(w, "Available sheets: %s\n", strings.Join(allSheets, ", "))
	}
	fmt.Fprintln(w)
	return renderStaticTable(w, src, opts)
}

// displayTable prints one Excel table, captioned with its containing sheet.
func displayTable(w io.Writer, src workbook.DataSource, info workbook.TableInfo, opts displayOptions) error {
	fmt.Fprintf(w, "Table: %s (from sheet: %s)\n", info.Name, info.Sheet)
	fmt.Fprintf(w, "%d rows × %d columns\n", src.Height(), src.Width())
	fmt.Fprintln(w)
	return renderStaticTable(w, src, opts)
}

func renderStaticTable(w io.Writer, src workbook.DataSource, opts displayOptions) error {
	if src.Height() == 0 {
		fmt.Fprintln(w, noteStyle.Render("Sheet is empty"))
		return nil
	}

	clip := func(s string) string {
		// Wrapped content keeps its full text; the table renderer breaks it
		// across lines within the column.
		if opts.maxWidth > 0 && !opts.wrap {
			return runewidth.Truncate(s, opts.maxWidth, "...")
		}
		return s
	}

	headers := make([]string, src.Width())
	for i, h := range src.Headers() {
		headers[i] = headerStyle.Render(clip(h))
	}

	shown := src.Height()
	if opts.maxRows > 0 && opts.maxRows < shown {
		shown = opts.maxRows
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
		t = t.Width(tw)
	}

	// A windowed source may serve fewer rows than requested; advance by what
	// was actually served.
	for start := 0; start < shown; {
		rows, formulas := src.Rows(start, shown-start)
		if len(rows) == 0 {
			break
		}
		for i, row := range rows {
			cells := make([]string, src.Width())
			for col := 0; col < src.Width() && col < len(row); col++ {
				switch {
				case opts.showFormulas && formulas[i][col] != "":
					cells[col] = formulaStyle.Render(clip("=" + formulas[i][col]))
				case row[col].Kind == workbook.KindError:
					cells[col] = errorStyle.Render(clip(row[col].Display()))
				default:
					cells[col] = clip(row[col].Display())
				}
			}
			t = t.Row(cells...)
		}
		start += len(rows)
	}
	fmt.Fprintln(w, t.Render())

	if shown < src.Height() {
		fmt.Fprintln(w, noteStyle.Render(fmt.Sprintf("Showing %d of %d rows (use -n 0 to show all)", shown, src.Height())))
	} else {
		fmt.Fprintf(w, "Total: %d rows × %d columns\n", src.Height(), src.Width())
	}
	return nil
}

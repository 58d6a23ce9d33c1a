// Command xlview views spreadsheet files in the terminal: a static table by
// default, an interactive viewer with -i, or CSV/JSON/text on stdout with
// -export.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joeycumines/xlview/internal/config"
	"github.com/joeycumines/xlview/internal/export"
	"github.com/joeycumines/xlview/internal/tui"
	"github.com/joeycumines/xlview/internal/workbook"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("xlview", flag.ExitOnError)
	var (
		sheetFlag   = fs.String("sheet", "", "sheet name or 1-based index to display (default: first sheet)")
		exportFlag  = fs.String("export", "", "export format: csv, json, or text")
		maxRows     = fs.Int("n", -1, "maximum rows for static display, 0 = all (default: from config)")
		maxWidth    = fs.Int("w", -1, "maximum column width in characters (default: from config)")
		formulas    = fs.Bool("formulas", false, "show formulas instead of values")
		wrap        = fs.Bool("wrap", false, "wrap long cell content instead of truncating")
		listTables  = fs.Bool("list-tables", false, "list Excel tables in the workbook")
		tableFlag   = fs.String("table", "", "extract an Excel table by name")
		interactive = fs.Bool("i", false, "interactive mode")
		configPath  = fs.String("config", "", "path to config file (default: ~/.config/xlview/config.toml)")
		showVersion = fs.Bool("version", false, "print version and exit")
	)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: xlview [options] FILE\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "View spreadsheet files in your terminal.\n\n")
		_, _ = fmt.Fprintln(os.Stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if *showVersion {
		fmt.Printf("xlview version %s\n", version)
		return nil
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one FILE argument")
	}
	path := fs.Arg(0)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %s", path)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *maxRows < 0 {
		*maxRows = cfg.UI.MaxRows
	}
	if *maxWidth < 0 {
		*maxWidth = cfg.UI.ColumnWidth
	}

	wb, err := workbook.Open(path)
	if err != nil {
		return err
	}
	defer wb.Close()

	if *listTables {
		tables, err := wb.Tables()
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			fmt.Println("No tables found in workbook")
			return nil
		}
		fmt.Println("Sheet\tTable")
		fmt.Println("-----\t-----")
		for _, t := range tables {
			fmt.Printf("%s\t%s\n", t.Sheet, t.Name)
		}
		return nil
	}

	opts := displayOptions{
		maxRows:      *maxRows,
		maxWidth:     *maxWidth,
		showFormulas: *formulas,
		wrap:         *wrap,
	}

	if *tableFlag != "" {
		src, info, err := wb.LoadTable(*tableFlag)
		if err != nil {
			return err
		}
		if *interactive {
			return fmt.Errorf("interactive mode (-i) is not supported with -table; view the containing sheet instead: -sheet %q -i", info.Sheet)
		}
		switch *exportFlag {
		case "":
			return displayTable(os.Stdout, src, info, opts)
		case "csv":
			return export.CSV(os.Stdout, src)
		case "json":
			return export.JSON(os.Stdout, src)
		case "text":
			return export.Text(os.Stdout, src)
		default:
			return fmt.Errorf("unknown export format: %s (use: csv, json, or text)", *exportFlag)
		}
	}

	names := wb.SheetNames()
	if len(names) == 0 {
		return fmt.Errorf("no sheets found in workbook")
	}
	sheet := names[0]
	if *sheetFlag != "" {
		if sheet, err = wb.ResolveSheet(*sheetFlag); err != nil {
			return err
		}
	}

	if *interactive {
		return tui.Run(wb, cfg, sheet)
	}

	src, err := wb.LoadSheet(sheet, cfg.UI.WindowThreshold, 0)
	if err != nil {
		return err
	}

	switch *exportFlag {
	case "":
		return displayStatic(os.Stdout, src, names, opts)
	case "csv":
		return export.CSV(os.Stdout, src)
	case "json":
		return export.JSON(os.Stdout, src)
	case "text":
		return export.Text(os.Stdout, src)
	default:
		return fmt.Errorf("unknown export format: %s (use: csv, json, or text)", *exportFlag)
	}
}

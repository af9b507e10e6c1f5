package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/htl43/Intergrated-Spreadsheet-Environment/sheetio"
	"github.com/htl43/Intergrated-Spreadsheet-Environment/spreadsheet"
)

func gridConfig() spreadsheet.Config {
	return spreadsheet.Config{
		MaxRows: cfg.Grid.MaxRows,
		MaxCols: cfg.Grid.MaxCols,
		Logger:  logger,
	}
}

// readGrid loads a spreadsheet file and computes it. Per-cell load
// diagnostics are not fatal: the affected cells carry error values and
// everything else computes normally.
func readGrid(path string) (*spreadsheet.Grid, error) {
	contents, err := readContents(path)
	if err != nil {
		return nil, err
	}

	g := spreadsheet.NewGrid(gridConfig())
	if err := g.Load(contents); err != nil {
		logger.Warn("some cells did not load cleanly", "path", path, "err", err)
	}
	logger.Debug("loaded grid", "path", path, "cells", g.CellCount())
	return g, nil
}

func readContents(path string) ([]spreadsheet.CellContent, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return sheetio.ReadCSV(f, sheetio.CSVOptions{Delimiter: cfg.CSV.DelimiterRune()})
	case ".xlsx":
		return sheetio.ReadXLSX(path, cfg.XLSX.Sheet)
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

func writeGrid(path string, g *spreadsheet.Grid, computed bool) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := sheetio.CSVOptions{Delimiter: cfg.CSV.DelimiterRune(), Computed: computed}
		return sheetio.WriteCSV(f, g, opts)
	case ".xlsx":
		return sheetio.WriteXLSX(path, g, cfg.XLSX.Sheet)
	default:
		return fmt.Errorf("unsupported output format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

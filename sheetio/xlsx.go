package sheetio

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/htl43/Intergrated-Spreadsheet-Environment/spreadsheet"
)

// ReadXLSX decodes raw cell contents from the named sheet of an XLSX
// file. An empty sheet name selects the workbook's first sheet.
// Formula cells come back with their '=' marker so they load as
// formulas.
func ReadXLSX(path, sheet string) ([]spreadsheet.CellContent, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

// ReadXLSXFrom is ReadXLSX over an in-memory workbook.
func ReadXLSXFrom(r io.Reader, sheet string) ([]spreadsheet.CellContent, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

func readWorkbook(f *excelize.File, sheet string) ([]spreadsheet.CellContent, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	var contents []spreadsheet.CellContent
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", rowIdx+1, colIdx+1, err)
			}

			formula, err := f.GetCellFormula(sheet, cellName)
			if err != nil {
				return nil, fmt.Errorf("reading formula at %s: %w", cellName, err)
			}

			raw := value
			if formula != "" {
				raw = "=" + formula
			}
			if raw == "" {
				continue
			}

			contents = append(contents, spreadsheet.CellContent{
				Addr: spreadsheet.Address{Row: rowIdx, Col: colIdx},
				Raw:  raw,
			})
		}
	}
	return contents, nil
}

// WriteXLSX saves the grid to an XLSX file with a single sheet. An
// empty sheet name keeps the default "Sheet1".
func WriteXLSX(path string, g *spreadsheet.Grid, sheet string) error {
	f, err := buildWorkbook(g, sheet)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// WriteXLSXTo is WriteXLSX over an arbitrary writer.
func WriteXLSXTo(w io.Writer, g *spreadsheet.Grid, sheet string) error {
	f, err := buildWorkbook(g, sheet)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func buildWorkbook(g *spreadsheet.Grid, sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else if sheet != f.GetSheetName(0) {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("naming sheet %q: %w", sheet, err)
		}
	}

	for _, content := range g.Dump() {
		cellName, err := excelize.CoordinatesToCellName(content.Addr.Col+1, content.Addr.Row+1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("cell %s: %w", content.Addr, err)
		}

		if strings.HasPrefix(content.Raw, "=") {
			// cache the computed result next to the formula so readers
			// that do not recalculate still see a value
			if err := setTypedValue(f, sheet, cellName, g.GetValue(content.Addr)); err != nil {
				f.Close()
				return nil, fmt.Errorf("writing cached value at %s: %w", cellName, err)
			}
			if err := f.SetCellFormula(sheet, cellName, strings.TrimPrefix(content.Raw, "=")); err != nil {
				f.Close()
				return nil, fmt.Errorf("writing formula at %s: %w", cellName, err)
			}
			continue
		}

		// literal cells keep their interpreted type so other tools
		// see numbers as numbers
		if err := setTypedValue(f, sheet, cellName, spreadsheet.LiteralValue(content.Raw)); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing cell %s: %w", cellName, err)
		}
	}

	return f, nil
}

func setTypedValue(f *excelize.File, sheet, cellName string, val spreadsheet.Value) error {
	switch val.Kind {
	case spreadsheet.KindNumber:
		return f.SetCellValue(sheet, cellName, val.Num)
	case spreadsheet.KindBool:
		return f.SetCellBool(sheet, cellName, val.Flag)
	default:
		return f.SetCellStr(sheet, cellName, val.Display())
	}
}

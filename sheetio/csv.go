// Package sheetio reads and writes grid contents in external file
// formats. Everything round-trips through the grid's raw cell
// contents, so formulas survive a save and reload.
package sheetio

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/htl43/Intergrated-Spreadsheet-Environment/spreadsheet"
)

// CSVOptions controls CSV encoding and decoding.
type CSVOptions struct {
	// Delimiter is the field separator. Zero means comma.
	Delimiter rune
	// Computed writes each cell's computed display text instead of
	// its raw content. A computed CSV does not round-trip formulas.
	Computed bool
}

// ReadCSV decodes raw cell contents from r. Row and column positions
// in the file become cell addresses; empty fields produce no cell.
func ReadCSV(r io.Reader, opts CSVOptions) ([]spreadsheet.CellContent, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1 // ragged rows are fine

	var contents []spreadsheet.CellContent
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", row+1, err)
		}
		for col, field := range record {
			if field == "" {
				continue
			}
			contents = append(contents, spreadsheet.CellContent{
				Addr: spreadsheet.Address{Row: row, Col: col},
				Raw:  field,
			})
		}
	}
	return contents, nil
}

// WriteCSV encodes the grid as a dense matrix covering its extent.
func WriteCSV(w io.Writer, g *spreadsheet.Grid, opts CSVOptions) error {
	writer := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		writer.Comma = opts.Delimiter
	}

	rows, cols := g.Extent()
	record := make([]string, cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			addr := spreadsheet.Address{Row: row, Col: col}
			if opts.Computed {
				record[col] = g.GetDisplayText(addr)
				continue
			}
			raw, _ := g.GetRaw(addr)
			record[col] = raw
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing csv row %d: %w", row+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

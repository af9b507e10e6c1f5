package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/htl43/Intergrated-Spreadsheet-Environment/internal/style"
	"github.com/htl43/Intergrated-Spreadsheet-Environment/spreadsheet"
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Render a computed spreadsheet in the terminal",
	Long: `Load a spreadsheet file, evaluate it, and render the computed values
as a table with column letters and row numbers. Error cells are
highlighted, and cells entered as formulas are tinted.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	g, err := readGrid(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rows, cols := g.Extent()
	if rows == 0 || cols == 0 {
		fmt.Fprintln(out, style.Dim.Render("(empty sheet)"))
		return nil
	}

	widths := columnWidths(g, rows, cols)
	rowLabelWidth := len(fmt.Sprintf("%d", rows))

	// header row with column letters
	var header strings.Builder
	header.WriteString(strings.Repeat(" ", rowLabelWidth))
	for col := 0; col < cols; col++ {
		header.WriteString("  ")
		header.WriteString(style.Header.Render(pad(columnLabel(col), widths[col])))
	}
	fmt.Fprintln(out, header.String())

	for row := 0; row < rows; row++ {
		var line strings.Builder
		line.WriteString(style.Header.Render(fmt.Sprintf("%*d", rowLabelWidth, row+1)))
		for col := 0; col < cols; col++ {
			addr := spreadsheet.Address{Row: row, Col: col}
			text := pad(g.GetDisplayText(addr), widths[col])
			line.WriteString("  ")
			line.WriteString(cellStyle(g, addr).Render(text))
		}
		fmt.Fprintln(out, line.String())
	}
	return nil
}

func cellStyle(g *spreadsheet.Grid, addr spreadsheet.Address) lipgloss.Style {
	if g.GetValue(addr).IsError() {
		return style.ErrCell
	}
	if raw, ok := g.GetRaw(addr); ok && strings.HasPrefix(raw, "=") {
		return style.Formula
	}
	return style.Dim
}

func columnWidths(g *spreadsheet.Grid, rows, cols int) []int {
	widths := make([]int, cols)
	for col := 0; col < cols; col++ {
		widths[col] = len(columnLabel(col))
		for row := 0; row < rows; row++ {
			text := g.GetDisplayText(spreadsheet.Address{Row: row, Col: col})
			if len(text) > widths[col] {
				widths[col] = len(text)
			}
		}
	}
	return widths
}

// columnLabel strips the row digits off an A1 address to get the
// column letters.
func columnLabel(col int) string {
	return strings.TrimRight(spreadsheet.Address{Row: 0, Col: col}.String(), "0123456789")
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

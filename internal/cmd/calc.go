package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/htl43/Intergrated-Spreadsheet-Environment/sheetio"
	"github.com/htl43/Intergrated-Spreadsheet-Environment/spreadsheet"
)

var calcCell string

var calcCmd = &cobra.Command{
	Use:   "calc <file>",
	Short: "Evaluate a spreadsheet and print the results",
	Long: `Load a spreadsheet file, evaluate every formula, and print the
computed values as CSV on standard output.

With --cell, print just that cell's computed value.

Examples:
  ise calc budget.csv
  ise calc report.xlsx --cell C10`,
	Args: cobra.ExactArgs(1),
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.Flags().StringVar(&calcCell, "cell", "", "Print a single cell (A1 notation)")
}

func runCalc(cmd *cobra.Command, args []string) error {
	g, err := readGrid(args[0])
	if err != nil {
		return err
	}

	if calcCell != "" {
		addr, err := spreadsheet.ParseAddress(calcCell)
		if err != nil {
			return err
		}
		fmt.Println(g.GetValue(addr).Display())
		return nil
	}

	opts := sheetio.CSVOptions{Delimiter: cfg.CSV.DelimiterRune(), Computed: true}
	return sheetio.WriteCSV(os.Stdout, g, opts)
}

package cmd

import (
	"github.com/spf13/cobra"
)

var convertComputed bool

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert a spreadsheet between CSV and XLSX",
	Long: `Convert a spreadsheet file to another format. Formats are inferred
from the file extensions. Formulas are preserved by default so the
output recalculates like the input.

With --computed, CSV output holds the computed values instead of the
raw formulas.

Examples:
  ise convert budget.csv budget.xlsx
  ise convert report.xlsx flat.csv --computed`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVar(&convertComputed, "computed", false, "Write computed values instead of formulas (CSV only)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	g, err := readGrid(args[0])
	if err != nil {
		return err
	}
	return writeGrid(args[1], g, convertComputed)
}

// Package cmd implements the ise command line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/htl43/Intergrated-Spreadsheet-Environment/internal/config"
	"github.com/htl43/Intergrated-Spreadsheet-Environment/internal/style"
)

var (
	configPath string
	verbose    bool

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ise",
	Short: "Spreadsheet engine for CSV and XLSX files",
	Long: `ise loads spreadsheet files, evaluates their formulas, and writes
the results back out.

Cells hold numbers, text, booleans, or formulas starting with '='.
Formulas may reference other cells (A1) and ranges (A1:B10) and call
builtin functions like SUM, AVERAGE, and IF. Evaluation errors show up
as #DIV/0!-style values in the affected cells, never as crashes.

Examples:
  ise calc budget.csv              # print computed values
  ise calc budget.csv --cell B2    # print one computed cell
  ise convert budget.csv out.xlsx  # convert between formats
  ise view budget.xlsx             # render the sheet in the terminal`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		cfg = config.Default()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			logger.Debug("loaded config", "path", configPath)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", style.ErrorPrefix, err)
		return 1
	}
	return 0
}

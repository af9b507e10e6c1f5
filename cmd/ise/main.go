// ise is a command line spreadsheet engine for CSV and XLSX files.
package main

import (
	"os"

	"github.com/htl43/Intergrated-Spreadsheet-Environment/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

// Package style provides consistent terminal styling using Lipgloss.
package style

import "github.com/charmbracelet/lipgloss"

var (
	// Header style for column letters and row numbers
	Header = lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	// ErrCell style for cells holding #...! error values (red)
	ErrCell = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	// Formula style for cells entered as formulas (cyan)
	Formula = lipgloss.NewStyle().
		Foreground(lipgloss.Color("14"))

	// Error style for failure messages
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	// Dim style for secondary information (gray)
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	// ErrorPrefix marks fatal CLI errors
	ErrorPrefix = Error.Render("✗")
)

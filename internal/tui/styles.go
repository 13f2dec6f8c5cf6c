package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	statusStyles = map[string]lipgloss.Style{
		// Terminal states
		"planned":   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"conformed": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"rendered":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"verified":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"complete":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		// Active states
		"planning":   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"probing":    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"conforming": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"rendering":  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"verifying":  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		// Skipped / warning
		"skipped":       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"missing":       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"off-tolerance": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),

		// Error
		"error": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		// Pending
		"pending": lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains pre-configured lipgloss styles for the list view.
type Styles struct {
	// Title style for the directory header.
	Title lipgloss.Style

	// Normal style for regular entries.
	Normal lipgloss.Style

	// Directory style for directory entries.
	Directory lipgloss.Style

	// Selected style for the highlighted entry.
	Selected lipgloss.Style

	// Muted style for the status line.
	Muted lipgloss.Style

	// Error style for failure notices.
	Error lipgloss.Style
}

// DefaultStyles returns the default styling.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")),
		Directory: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(lipgloss.Color("#7C3AED")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")),
	}
}

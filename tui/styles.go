package tui

import "github.com/charmbracelet/lipgloss"

// Color constants for the dashboard theme.
const (
	colorBorder        = "#3A3F55"
	colorPrimaryText   = "#E6EAF2"
	colorSecondaryText = "#B1B8C7"
	colorPlaceholder   = "#6D7383"
	colorAccent        = "#7C3AED"
	colorAccentBright  = "#A78BFA"
	colorError         = "#EF4444"
	colorSuccess       = "#22C55E"

	colorPriorityHigh   = "#EF4444"
	colorPriorityMedium = "#F59E0B"
	colorPriorityLow    = "#22C55E"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccentBright)).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSecondaryText))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccentBright))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorPlaceholder))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorAccent)).
			Padding(1, 2)
)

// priorityStyle returns the style for a priority badge.
func priorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "high":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorPriorityHigh))
	case "medium":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorPriorityMedium))
	case "low":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorPriorityLow))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorSecondaryText))
	}
}

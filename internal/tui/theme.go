package tui

import "github.com/charmbracelet/lipgloss"

// Colors adapt to light and dark terminals.
var (
	accent  = lipgloss.AdaptiveColor{Light: "#0B6BCB", Dark: "#4FA3F7"}
	subtle  = lipgloss.AdaptiveColor{Light: "#8A94A6", Dark: "#7A8499"}
	good    = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"}
	bad     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	caution = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	body    = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}
	rule    = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"}
	onBadge = lipgloss.Color("#FFFFFF")
)

func badge(bg lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(onBadge).Background(bg).Padding(0, 1)
}

var (
	successBadgeStyle = badge(good)
	failureBadgeStyle = badge(bad)

	itemStyle    = lipgloss.NewStyle().Foreground(body).PaddingLeft(2)
	mutedStyle   = lipgloss.NewStyle().Foreground(subtle)
	errorStyle   = lipgloss.NewStyle().Foreground(bad).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(caution)
	hintStyle    = lipgloss.NewStyle().Foreground(accent).Italic(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(accent)

	tableHeaderStyle = lipgloss.NewStyle().Foreground(accent).Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Foreground(body).Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().Foreground(rule)

	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	dialogButtonStyle       = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)
	dialogActiveButtonStyle = lipgloss.NewStyle().Foreground(onBadge).Background(accent).Bold(true).Padding(0, 1)
)

package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha
const (
	colourText     = "#cdd6f4"
	colourSubtext0 = "#a6adc8"
	colourOverlay1 = "#7f849c"
	colourSurface0 = "#313244"
	colourSurface1 = "#45475a"
	colourBase     = "#1e1e2e"
	colourBlue     = "#89b4fa"
	colourGreen    = "#a6e3a1"
	colourYellow   = "#f9e2af"
	colourRed      = "#f38ba8"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colourText)).
			Background(lipgloss.Color(colourSurface0)).
			Padding(0, 1)

	favoritesHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(colourYellow)).
				Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colourText)).
			Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colourText)).
				Background(lipgloss.Color(colourSurface1)).
				Padding(0, 1)

	phoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colourBlue))

	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colourSubtext0))

	starStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colourYellow))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colourOverlay1)).
			Padding(1, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colourOverlay1)).
			Padding(0, 1)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colourRed)).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colourSubtext0)).
			Width(12)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colourBlue)).
			Padding(1, 2)

	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colourRed)).
			Padding(1, 2)

	buttonStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(colourGreen)).
			Foreground(lipgloss.Color(colourBase)).
			Padding(0, 1)
)

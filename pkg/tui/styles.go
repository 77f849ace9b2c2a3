package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
// This is the single source of truth for all TUI colors.
var (
	skyBlue     = lipgloss.Color("#7DD3FC") // primary accent
	mintGreen   = lipgloss.Color("#A8E6CF") // success / low risk
	amberYellow = lipgloss.Color("#FDE68A") // medium risk / pending decisions
	softRed     = lipgloss.Color("#FCA5A5") // high risk / errors
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
)

// Common Styles
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(skyBlue).
			Bold(true)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	infoStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	uiActionStyle = lipgloss.NewStyle().
			Foreground(skyBlue)

	networkStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	lowRiskStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	mediumRiskStyle = lipgloss.NewStyle().
			Foreground(amberYellow)

	highRiskStyle = lipgloss.NewStyle().
			Foreground(softRed).
			Bold(true)

	insightStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	llmStatusStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(softRed)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(skyBlue).
			Padding(0, 1)

	decisionBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(amberYellow).
				Padding(0, 1)
)

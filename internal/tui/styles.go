package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for the monitor UI
var (
	primaryColor = lipgloss.Color("#7D56F4") // purple - title, borders
	successColor = lipgloss.Color("#43BF6D") // green - powered on, connected
	errorColor   = lipgloss.Color("#FF5555") // red - disconnected, muted
	warningColor = lipgloss.Color("#FFA500") // orange - standby
	mutedColor   = lipgloss.Color("#626262") // gray - secondary info
	textColor    = lipgloss.Color("#FFFFFF") // white - main content
)

// Layout constants
const (
	minContentWidth = 40
	maxContentWidth = 72
	volumeBarWidth  = 30
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(primaryColor).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(textColor)

	onStyle      = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	offStyle     = lipgloss.NewStyle().Foreground(mutedColor)
	standbyStyle = lipgloss.NewStyle().Foreground(warningColor)
	alertStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)

	barFilledStyle = lipgloss.NewStyle().Foreground(primaryColor)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(mutedColor)

	activeSourceStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	sourceStyle       = lipgloss.NewStyle().Foreground(textColor)

	helpStyle = lipgloss.NewStyle().Foreground(mutedColor)
)

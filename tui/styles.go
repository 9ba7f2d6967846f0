package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	colorBrand      = lipgloss.Color("#68bc71")
	colorConnected  = lipgloss.Color("#22c55e")
	colorConnecting = lipgloss.Color("#d97706")
	colorOff        = lipgloss.Color("#9ca3af")
	colorError      = lipgloss.Color("#dc2626")
	colorDimmed     = lipgloss.Color("#6b7280")
	colorFavorite   = lipgloss.Color("#f59e0b")
	colorSelected   = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBrand).
			MarginBottom(1)

	connectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorConnected)
	connectingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorConnecting)
	offStyle        = lipgloss.NewStyle().Foreground(colorOff)
	errorStyle      = lipgloss.NewStyle().Foreground(colorError)
	dimStyle        = lipgloss.NewStyle().Foreground(colorDimmed)
	favoriteStyle   = lipgloss.NewStyle().Foreground(colorFavorite)
	selectedStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorSelected)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDimmed).
			Padding(0, 1)
)

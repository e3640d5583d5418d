package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#10B981")
	accentColor    = lipgloss.Color("#F59E0B")
	textColor      = lipgloss.Color("#CDD6F4")
	dimTextColor   = lipgloss.Color("#6C7086")
	playingColor   = lipgloss.Color("#A6E3A1")
	warningColor   = lipgloss.Color("#F9E2AF")
	darkColor      = lipgloss.Color("#1E1E2E")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	clockStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Bold(true).
			Padding(0, 2)

	// buttons
	buttonStyle = lipgloss.NewStyle().
			Foreground(darkColor).
			Background(secondaryColor).
			Padding(0, 1)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(dimTextColor).
				Padding(0, 1)

	// track list
	trackItemStyle = lipgloss.NewStyle().
			Foreground(textColor)

	trackSelectedStyle = lipgloss.NewStyle().
				Foreground(darkColor).
				Background(primaryColor).
				Bold(true).
				Padding(0, 1)

	trackPlayingStyle = lipgloss.NewStyle().
				Foreground(playingColor).
				Bold(true)

	trackSelectedPlayingStyle = lipgloss.NewStyle().
					Foreground(darkColor).
					Background(secondaryColor).
					Bold(true).
					Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(dimTextColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8"))

	volumeStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	// dialogs
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	warningDialogStyle = dialogStyle.
				BorderForeground(warningColor)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true)
)

// button renders a push button, dimmed when disabled
func button(label string, enabled bool) string {
	if enabled {
		return buttonStyle.Render(label)
	}
	return buttonDisabledStyle.Render(label)
}

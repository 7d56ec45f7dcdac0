package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	green    = lipgloss.Color("#00ff80")
	dimGreen = lipgloss.Color("#0b6b3a")
	blue     = lipgloss.Color("#3aa7ff")
	black    = lipgloss.Color("#000000")

	frameStyle = lipgloss.NewStyle().
			Foreground(green)

	frameTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(green)

	assistantStyle = lipgloss.NewStyle().
			Foreground(green)

	userStyle = lipgloss.NewStyle().
			Foreground(blue)

	systemStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(green)

	inputTextStyle = lipgloss.NewStyle().
			Foreground(blue)

	sendStyle = lipgloss.NewStyle().
			Foreground(black).
			Background(green).
			Padding(0, 1)

	inkStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	flickerStyle = lipgloss.NewStyle().
			Foreground(green).
			Faint(true)

	dotStyle = lipgloss.NewStyle().
			Foreground(dimGreen)

	scanlineStyle = lipgloss.NewStyle().
			Foreground(dimGreen).
			Faint(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimGreen)
)

// ApplyColorMode selects the terminal colour profile: auto, truecolor,
// ansi256, ansi or mono.
func ApplyColorMode(mode string) {
	switch mode {
	case "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "ansi256":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case "ansi":
		lipgloss.SetColorProfile(termenv.ANSI)
	case "mono":
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		lipgloss.SetColorProfile(termenv.ColorProfile())
	}
}

package preview

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - connected, enabled
	WarningColor = lipgloss.Color("#FFA500") // Orange - paused
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 40
	MaxContentWidth  = 160
)

// PixelBlock is drawn once per pixel
const PixelBlock = "█"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	valueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	pausedStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	enabledStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	channelStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(6)
)

func boxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width-2). // Account for border characters
		Padding(0, 1)
}

// GetTerminalWidth returns the current terminal width, clamped to the
// supported range
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return min(width, MaxContentWidth)
}

// IsTerminal reports whether stdout is an interactive terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

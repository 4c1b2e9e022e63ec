package terminal

import "github.com/charmbracelet/lipgloss"

var (
	colorTomato = lipgloss.Color("#E06C75")
	colorLeaf   = lipgloss.Color("#98C379")
	colorMuted  = lipgloss.Color("#636B78")
	colorYellow = lipgloss.Color("#E5C07B")
	colorBorder = lipgloss.Color("#3F4451")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorTomato).
			Bold(true)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	noticeStyle = lipgloss.NewStyle().Foreground(colorYellow)

	pickerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorTomato).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().Foreground(colorTomato).Bold(true)
)

func modeColor(work bool) lipgloss.Color {
	if work {
		return colorTomato
	}
	return colorLeaf
}

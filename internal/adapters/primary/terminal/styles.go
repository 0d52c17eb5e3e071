package terminal

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	counterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
	filledStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b4261"))
	slideTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c0caf5"))
	subtitleStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#9aa5ce"))
	keyStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#414868")).Strikethrough(true)
	activeDot     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff"))
	inactiveDot   = lipgloss.NewStyle().Foreground(lipgloss.Color("#414868"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#bb9af7"))

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(1, 2)
)

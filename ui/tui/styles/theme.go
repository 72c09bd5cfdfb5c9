package styles

import "github.com/charmbracelet/lipgloss"

var (
	Subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	Special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	TitleStyle = lipgloss.NewStyle().
			MarginLeft(1).
			MarginRight(5).
			Padding(0, 1).
			Italic(true).
			Foreground(lipgloss.Color("#FFF7DB"))

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(1, 2).
			Margin(1, 1)

	StatusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF"))

	GoodStyle = StatusStyle.Foreground(lipgloss.Color("46"))
	WarnStyle = StatusStyle.Foreground(lipgloss.Color("220"))
	CritStyle = StatusStyle.Foreground(lipgloss.Color("196"))

	// UrgentStyle marks SLA countdowns inside the alert window.
	UrgentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAA")).
			PaddingLeft(2)
)

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitrack/internal/streak"
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	statusOKStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	badgeStyles = map[streak.Status]lipgloss.Style{
		streak.StatusFresh:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		streak.StatusActive: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		streak.StatusDue:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		streak.StatusBroken: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func badge(s streak.Status) string {
	if style, ok := badgeStyles[s]; ok {
		return style.Render(string(s))
	}
	return string(s)
}

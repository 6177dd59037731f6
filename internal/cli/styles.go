package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitrack/internal/streak"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	statusStyles = map[streak.Status]lipgloss.Style{
		streak.StatusFresh:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		streak.StatusActive: SuccessStyle,
		streak.StatusDue:    WarnStyle,
		streak.StatusBroken: ErrorStyle,
	}
)

// StatusBadge renders a lifecycle status in its color.
func StatusBadge(s streak.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		return string(s)
	}
	return style.Render(string(s))
}

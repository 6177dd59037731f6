package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = "No habits yet. Add one with 'habitrack add' or try 'habitrack seed'."
	}

	status := ""
	if m.status != "" {
		if m.isError {
			status = statusErrStyle.Render(m.status)
		} else {
			status = statusOKStyle.Render(m.status)
		}
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("habitrack"),
		body,
		status,
		m.help.View(m.keys),
	))
}

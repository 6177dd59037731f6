package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitrack/internal/logger"
)

// chromeHeight is the space taken by the title, status and help lines.
const chromeHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		return m, nil

	case habitsLoadedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Failed to load habits: %v", msg.err), true)
			return m, nil
		}
		m.setHabits(msg.habits, msg.now)
		return m, nil

	case completedMsg:
		if msg.err != nil {
			logger.Debug("tui completion failed", "name", msg.name, "error", msg.err)
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Completed '%s' - current streak: %d", msg.name, msg.streak), false)
		return m, m.loadHabits

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.setStatus("Refreshed", false)
			return m, m.loadHabits
		case key.Matches(msg, m.keys.Complete):
			h, ok := m.Selected()
			if !ok {
				m.setStatus("No habit selected", true)
				return m, nil
			}
			return m, m.completeHabit(h.Name)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/tracker"
)

// Item is one habit row in the dashboard.
type Item struct {
	Habit models.Habit
	now   time.Time
}

func (i Item) Title() string {
	return fmt.Sprintf("%s  %s", i.Habit.Name, badge(i.Habit.Status(i.now)))
}

func (i Item) Description() string {
	return fmt.Sprintf("%s | streak %d (best %d) | %d completions",
		i.Habit.Periodicity(), i.Habit.CurrentStreak(i.now), i.Habit.LongestStreak(), i.Habit.CompletionCount())
}

func (i Item) FilterValue() string { return i.Habit.Name }

type habitsLoadedMsg struct {
	habits []models.Habit
	now    time.Time
	err    error
}

type completedMsg struct {
	name   string
	streak int
	err    error
}

type Model struct {
	tracker  *tracker.Tracker
	list     list.Model
	keys     KeyMap
	help     help.Model
	status   string
	isError  bool
	quitting bool
	width    int
	height   int
}

func NewModel(tr *tracker.Tracker) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	return Model{
		tracker: tr,
		list:    l,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadHabits
}

func (m Model) loadHabits() tea.Msg {
	habits, err := m.tracker.GetAllHabits()
	return habitsLoadedMsg{habits: habits, now: m.tracker.Now(), err: err}
}

func (m Model) completeHabit(name string) tea.Cmd {
	return func() tea.Msg {
		streak, err := m.tracker.CompleteHabit(name)
		return completedMsg{name: name, streak: streak, err: err}
	}
}

func (m *Model) setHabits(habits []models.Habit, now time.Time) {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h, now: now}
	}
	m.list.SetItems(items)
}

func (m *Model) setStatus(msg string, isError bool) {
	m.status = msg
	m.isError = isError
}

// Selected returns the highlighted habit, if any.
func (m Model) Selected() (models.Habit, bool) {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Habit{}, false
	}
	return item.Habit, true
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}

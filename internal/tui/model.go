package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlog/internal/tracking"
	"github.com/julianstephens/habitlog/internal/tui/components/reminders"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateWeek
	StateReminders
	StateLogging
)

var tabTitles = []string{"Today", "Week", "Reminders"}

// chromeHeight is the rows taken by tabs, status line and help.
const chromeHeight = 6

type Model struct {
	svc           *tracking.Service
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	viewport      viewport.Model
	bar           progress.Model
	remindersList reminders.Model
	form          *huh.Form
	logForm       *LogFormModel
	snapshot      tracking.DailySnapshot
	week          tracking.WeekReport
	weekErr       error
	trackerIdx    int
	status        string
	quitting      bool
	width         int
	height        int
}

func NewModel(svc *tracking.Service) Model {
	m := Model{
		svc:           svc,
		state:         StateToday,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		viewport:      viewport.New(80, 20),
		bar:           progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage()),
		remindersList: reminders.New(nil, 80, 20),
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Log, m.keys.Refresh}
	switch m.state {
	case StateWeek:
		keys = append(keys, m.keys.PrevTracker, m.keys.NextTracker)
	case StateReminders:
		keys = append(keys, m.keys.Complete, m.keys.Dismiss)
	}
	return append(keys, m.keys.Quit, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads every tab from the service.
func (m *Model) refresh() {
	m.snapshot = m.svc.Today()
	trackers := m.svc.Trackers()
	if len(trackers) > 0 {
		m.trackerIdx = (m.trackerIdx%len(trackers) + len(trackers)) % len(trackers)
		m.week, m.weekErr = m.svc.Week(trackers[m.trackerIdx].Name)
	}
	m.remindersList.SetReminders(m.svc.RemindersFor(m.svc.CurrentDate()))
	m.viewport.SetContent(m.content())
}

func (m *Model) startLog() tea.Cmd {
	m.logForm = &LogFormModel{Date: m.svc.CurrentDate()}
	if m.state == StateWeek {
		if trackers := m.svc.Trackers(); len(trackers) > 0 {
			m.logForm.Tracker = trackers[m.trackerIdx].Name
		}
	}
	m.form = NewLogForm(m.svc.Trackers(), m.logForm)
	m.previousState = m.state
	m.state = StateLogging
	return m.form.Init()
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/tui/components/reminders"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
		m.viewport.Width = max(size.Width-4, 20)
		m.viewport.Height = max(size.Height-chromeHeight, 5)
		m.remindersList.SetSize(m.viewport.Width, m.viewport.Height)
		m.viewport.SetContent(m.content())
		if m.state != StateLogging {
			return m, nil
		}
	}

	if m.state == StateLogging {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case reminders.CompleteReminderMsg:
		m.setReminderStatus(msg.ID, models.StatusCompleted)
		return m, nil
	case reminders.DismissReminderMsg:
		m.setReminderStatus(msg.ID, models.StatusDismissed)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			m.viewport.SetContent(m.content())
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			m.viewport.SetContent(m.content())
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Log):
			return m, m.startLog()
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			m.status = "Refreshed"
			return m, nil
		case m.state == StateWeek && key.Matches(msg, m.keys.PrevTracker):
			m.trackerIdx--
			m.refresh()
			return m, nil
		case m.state == StateWeek && key.Matches(msg, m.keys.NextTracker):
			m.trackerIdx++
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.state == StateReminders {
		m.remindersList, cmd = m.remindersList.Update(msg)
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *Model) setReminderStatus(id int, status models.ReminderStatus) {
	if err := m.svc.SetReminderStatus(id, status); err != nil {
		m.status = dangerStyle.Render(err.Error())
		return
	}
	m.status = fmt.Sprintf("Reminder %d marked %s", id, status)
	m.refresh()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.status = m.submitLog()
		m.state = m.previousState
		m.form = nil
		m.refresh()
		return m, nil
	case huh.StateAborted:
		m.state = m.previousState
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// submitLog records the completed form and returns the status line.
func (m Model) submitLog() string {
	tracker, err := m.svc.Tracker(m.logForm.Tracker)
	if err != nil {
		return dangerStyle.Render(err.Error())
	}
	value, err := cli.ParseValue(tracker, m.logForm.Value)
	if err != nil {
		return dangerStyle.Render(err.Error())
	}
	res, err := m.svc.Log(tracker.Name, value, m.logForm.Date, m.logForm.Notes)
	if err != nil {
		return dangerStyle.Render(err.Error())
	}
	line := fmt.Sprintf("✓ Logged %s %s for %s", cli.FormatValue(string(tracker.Kind), value), tracker.Unit, tracker.Name)
	for _, w := range res.Warnings {
		line += "  " + warnStyle.Render("⚠ "+w)
	}
	return line
}

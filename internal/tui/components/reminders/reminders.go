package reminders

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlog/internal/models"
)

type CompleteReminderMsg struct {
	ID int
}

type DismissReminderMsg struct {
	ID int
}

type Item struct {
	Reminder models.Reminder
}

func (i Item) Title() string {
	mark := "○"
	switch i.Reminder.Status {
	case models.StatusCompleted:
		mark = "✓"
	case models.StatusDismissed:
		mark = "✗"
	}
	return fmt.Sprintf("%s %s  %s", mark, i.Reminder.Time, i.Reminder.Title)
}

func (i Item) Description() string {
	desc := fmt.Sprintf("#%d %s · %s priority", i.Reminder.ID, i.Reminder.Recurrence, i.Reminder.Priority)
	if i.Reminder.TrackerLink != "" {
		desc += " · " + i.Reminder.TrackerLink
	}
	return desc
}

func (i Item) FilterValue() string { return i.Reminder.Title }

type KeyMap struct {
	Complete key.Binding
	Dismiss  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Complete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "done"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(reminders []models.Reminder, width, height int) Model {
	l := list.New(toItems(reminders), list.NewDefaultDelegate(), width, height)
	l.Title = "Reminders"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("reminder", "reminders")

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Complete, keys.Dismiss}
	}

	return Model{list: l, keys: keys}
}

func toItems(reminders []models.Reminder) []list.Item {
	items := make([]list.Item, len(reminders))
	for i, r := range reminders {
		items[i] = Item{Reminder: r}
	}
	return items
}

func (m *Model) SetReminders(reminders []models.Reminder) {
	m.list.SetItems(toItems(reminders))
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Selected returns the highlighted reminder, if any.
func (m Model) Selected() (models.Reminder, bool) {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Reminder{}, false
	}
	return item.Reminder, true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Complete):
			if r, ok := m.Selected(); ok && r.Status == models.StatusPending {
				return m, func() tea.Msg { return CompleteReminderMsg{ID: r.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Dismiss):
			if r, ok := m.Selected(); ok && r.Status == models.StatusPending {
				return m, func() tea.Msg { return DismissReminderMsg{ID: r.ID} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Len() == 0 {
		return "No reminders for today."
	}
	return m.list.View()
}

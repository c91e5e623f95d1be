package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab         key.Binding
	ShiftTab    key.Binding
	Quit        key.Binding
	Up          key.Binding
	Down        key.Binding
	PrevTracker key.Binding
	NextTracker key.Binding
	Help        key.Binding
	Log         key.Binding
	Refresh     key.Binding
	Complete    key.Binding
	Dismiss     key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Log, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Quit, k.Help},
		{k.Up, k.Down, k.PrevTracker, k.NextTracker},
		{k.Log, k.Refresh, k.Complete, k.Dismiss},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevTracker: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("←/[", "prev tracker"),
		),
		NextTracker: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("→/]", "next tracker"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Log: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "log value"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Complete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "reminder done"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss reminder"),
		),
	}
}

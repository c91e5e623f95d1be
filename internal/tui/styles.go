package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	nameStyle = lipgloss.NewStyle().Width(22)
)

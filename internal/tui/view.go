package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/stats"
	"github.com/julianstephens/habitlog/internal/utils"
)

const barWidth = 24

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateLogging:
		content = docStyle.Render(titleStyle.Render("Log a value") + "\n\n" + m.form.View())
	case StateReminders:
		content = docStyle.Render(m.remindersList.View())
	default:
		content = docStyle.Render(m.viewport.View())
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, "  "+m.status)
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	active := m.state
	if active == StateLogging {
		active = m.previousState
	}
	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// content renders the scrollable body of the Today and Week tabs.
func (m Model) content() string {
	if m.state == StateWeek {
		return m.viewWeek()
	}
	return m.viewToday()
}

func (m Model) viewToday() string {
	snap := m.snapshot
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s · %s (%s)", snap.Date, m.svc.Username(), m.svc.Role())))
	b.WriteString("\n\n")

	for _, p := range snap.Trackers {
		mark := mutedStyle.Render("○")
		if p.Completed {
			mark = doneStyle.Render("✓")
		}
		logged := mutedStyle.Render("-")
		if p.Entries > 0 {
			logged = cli.FormatValue(string(p.Tracker.Kind), p.Value) + " " + p.Tracker.Unit
		}
		name := p.Tracker.Name
		if p.Tracker.Icon != "" {
			name = p.Tracker.Icon + " " + name
		}
		fmt.Fprintf(&b, "%s %s %s %5.1f%%  %s\n", mark, nameStyle.Render(name), m.bar.ViewAs(p.Percent/100), p.Percent, logged)
	}

	b.WriteString("\n")
	if len(snap.Records) == 0 {
		b.WriteString(mutedStyle.Render("Nothing logged yet. Press l to log a value."))
	} else {
		fmt.Fprintf(&b, "Daily average: %.1f%% (%s)", snap.Average, snap.Category)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Streak: %d day(s)", snap.Streak)
	if snap.Milestone > 0 {
		b.WriteString("  " + warnStyle.Render(fmt.Sprintf("🏆 %d-day milestone", snap.Milestone)))
	}
	return b.String()
}

func (m Model) viewWeek() string {
	if m.weekErr != nil {
		return dangerStyle.Render(m.weekErr.Error())
	}
	rep := m.week
	tracker, err := m.svc.Tracker(rep.Tracker)
	if err != nil {
		return dangerStyle.Render(err.Error())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s, %s to %s", rep.Tracker, rep.Start, rep.End)))
	b.WriteString("\n\n")

	days, _ := utils.DateRange(rep.Start, rep.End)
	for _, d := range days {
		v, ok := rep.Daily[d]
		if !ok {
			fmt.Fprintf(&b, "  %s  %s\n", d, mutedStyle.Render("-"))
			continue
		}
		fmt.Fprintf(&b, "  %s  %s %s\n", d, m.bar.ViewAs(stats.CompletionPercentage(v, tracker.Goal)/100), cli.FormatValue(string(tracker.Kind), v))
	}

	s := rep.Summary
	b.WriteString("\n")
	fmt.Fprintf(&b, "Days logged: %d/7   Total: %g   Average: %.2f\n", s.DaysLogged, s.Total, s.Average)
	fmt.Fprintf(&b, "Trend: %s   Completion rate: %.0f%%   Streak: %d", rep.Trend, rep.CompletionRate, rep.Streak)
	return b.String()
}

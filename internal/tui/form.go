package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/utils"
)

// LogFormModel holds the raw answers of the log form.
type LogFormModel struct {
	Tracker string
	Value   string
	Date    string
	Notes   string
}

func valueHint(t models.Tracker) string {
	switch t.Kind {
	case models.KindCheckbox:
		return "yes or no"
	case models.KindTime:
		return "HH:MM"
	}
	return fmt.Sprintf("%g-%g %s, goal %g", t.MinValue, t.MaxValue, t.Unit, t.Goal)
}

// NewLogForm creates a form for logging one value against one of trackers.
func NewLogForm(trackers []models.Tracker, fm *LogFormModel) *huh.Form {
	byName := make(map[string]models.Tracker, len(trackers))
	options := make([]huh.Option[string], 0, len(trackers))
	for _, t := range trackers {
		byName[t.Name] = t
		label := t.Name
		if t.Icon != "" {
			label = t.Icon + " " + t.Name
		}
		options = append(options, huh.NewOption(label, t.Name))
	}
	if fm.Tracker == "" && len(trackers) > 0 {
		fm.Tracker = trackers[0].Name
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Tracker").
				Options(options...).
				Value(&fm.Tracker),
		),
		huh.NewGroup(
			huh.NewInput().
				TitleFunc(func() string {
					return fmt.Sprintf("Value (%s)", valueHint(byName[fm.Tracker]))
				}, &fm.Tracker).
				Value(&fm.Value).
				Validate(func(s string) error {
					t, ok := byName[fm.Tracker]
					if !ok {
						return fmt.Errorf("choose a tracker first")
					}
					_, err := cli.ParseValue(t, s)
					return err
				}),
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&fm.Date).
				Validate(func(s string) error {
					if !utils.ValidateDateFormat(strings.TrimSpace(s)) {
						return fmt.Errorf("invalid date format (use YYYY-MM-DD)")
					}
					return nil
				}),
			huh.NewInput().
				Title("Notes (optional)").
				Value(&fm.Notes),
		),
	).WithTheme(huh.ThemeDracula())
}

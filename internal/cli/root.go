package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/julianstephens/habitlog/internal/backup"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/tracking"
	"github.com/julianstephens/habitlog/internal/utils"
)

type Context struct {
	Store   storage.Provider
	Service *tracking.Service
	Backend string
	// Out receives command output. Nil means stdout.
	Out io.Writer
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) Writer() io.Writer {
	return c.out()
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr, err := backup.ForStore(c.Store)
	if err != nil {
		logger.Debug("Skipping automatic backup", "backend", c.Backend, "reason", err)
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseValue converts user input for tracker into a stored value. Checkbox
// trackers take yes/no, time trackers take HH:MM.
func ParseValue(tracker models.Tracker, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	switch tracker.Kind {
	case models.KindCheckbox:
		switch strings.ToLower(raw) {
		case "yes", "y", "true", "done", "1":
			return 1, nil
		case "no", "n", "false", "0":
			return 0, nil
		}
		return 0, fmt.Errorf("%s expects yes or no, got %q", tracker.Name, raw)
	case models.KindTime:
		minutes, err := utils.ParseTimeToMinutes(raw)
		if err != nil {
			return 0, fmt.Errorf("%s expects a time as HH:MM, got %q", tracker.Name, raw)
		}
		return float64(minutes), nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s expects a number, got %q", tracker.Name, raw)
	}
	return v, nil
}

// FormatValue renders a stored value the way ParseValue accepts it.
func FormatValue(kind string, v float64) string {
	switch models.TrackerKind(kind) {
	case models.KindCheckbox:
		if v == 1 {
			return "yes"
		}
		return "no"
	case models.KindTime:
		return utils.MinutesToTime(int(v))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ResolveDate accepts YYYY-MM-DD, "today", "yesterday" or empty (today).
func ResolveDate(svc *tracking.Service, s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return svc.CurrentDate(), nil
	case "yesterday":
		return utils.AddDays(svc.CurrentDate(), -1)
	}
	if !utils.ValidateDateFormat(s) {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD, 'today' or 'yesterday')", s)
	}
	return s, nil
}

// ProgressBar draws a fixed-width text bar for a 0-100 percentage.
func ProgressBar(percent float64, width int) string {
	filled := int(math.Round(percent / 100 * float64(width)))
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

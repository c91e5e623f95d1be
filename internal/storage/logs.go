package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/validation"
)

// NormalizeUsername is the form every backend keys on.
func NormalizeUsername(username string) string {
	return strings.ToLower(username)
}

// CheckUsername guards every Provider entry point.
func CheckUsername(username string) error {
	if err := validation.ValidateUsername(username); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUsername, err)
	}
	return nil
}

// NextReminderID returns max(existing)+1, or 1 for an empty log.
func NextReminderID(existing []models.Reminder) int {
	next := 1
	for _, r := range existing {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	return next
}

// PrepareReminder applies defaults, forces pending status, assigns id and validates.
func PrepareReminder(r models.Reminder, id int) (models.Reminder, error) {
	r.ID = id
	r.Status = models.StatusPending
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return models.Reminder{}, fmt.Errorf("invalid reminder: %w", err)
	}
	return r, nil
}

// The helpers below operate on a full in-memory log for backends that have
// no query engine. Input order is insertion order and is preserved.

func FilterByDate(records []models.Activity, date string) []models.Activity {
	return FilterRange(records, date, date)
}

func FilterRange(records []models.Activity, start, end string) []models.Activity {
	out := []models.Activity{}
	for _, r := range records {
		// YYYY-MM-DD compares correctly as a string
		if r.Date >= start && r.Date <= end {
			out = append(out, r)
		}
	}
	return out
}

func TrackerNames(records []models.Activity) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, r := range records {
		if !seen[r.TrackerName] {
			seen[r.TrackerName] = true
			names = append(names, r.TrackerName)
		}
	}
	return names
}

func TrackerHistory(records []models.Activity, trackerName, start string) []models.Activity {
	out := []models.Activity{}
	for _, r := range records {
		if r.TrackerName == trackerName && r.Date >= start {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func RemindersForDate(reminders []models.Reminder, date string) []models.Reminder {
	out := []models.Reminder{}
	for _, r := range reminders {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out
}

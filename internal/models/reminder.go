package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitlog/internal/constants"
)

type ReminderRecurrence string

const (
	RecurrenceOnce   ReminderRecurrence = "once"
	RecurrenceDaily  ReminderRecurrence = "daily"
	RecurrenceWeekly ReminderRecurrence = "weekly"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type ReminderStatus string

const (
	StatusPending   ReminderStatus = "pending"
	StatusCompleted ReminderStatus = "completed"
	StatusDismissed ReminderStatus = "dismissed"
)

const DefaultReminderCategory = "general"

// Reminder is a scheduled prompt kept in a per-user log alongside, but
// independent of, the activity log.
type Reminder struct {
	ID          int                `json:"reminder_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Date        string             `json:"date"` // YYYY-MM-DD
	Time        string             `json:"time"` // HH:MM
	Recurrence  ReminderRecurrence `json:"recurrence"`
	Category    string             `json:"category"`
	Priority    Priority           `json:"priority"`
	TrackerLink string             `json:"tracker_link,omitempty"` // tracker name, weak reference
	Status      ReminderStatus     `json:"status"`
}

// ParseStatus validates a reminder status string.
func ParseStatus(s string) (ReminderStatus, error) {
	switch st := ReminderStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusCompleted, StatusDismissed:
		return st, nil
	default:
		return "", fmt.Errorf("invalid reminder status: %q (must be pending, completed, or dismissed)", s)
	}
}

// ApplyDefaults fills in the optional fields the same way a new reminder is created.
func (r *Reminder) ApplyDefaults() {
	if r.Recurrence == "" {
		r.Recurrence = RecurrenceOnce
	}
	if r.Category == "" {
		r.Category = DefaultReminderCategory
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
}

func (r *Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("reminder title cannot be empty")
	}

	if _, err := time.Parse(constants.DateFormat, r.Date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}

	if _, err := time.Parse(constants.TimeFormat, r.Time); err != nil {
		return fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}

	switch r.Recurrence {
	case RecurrenceOnce, RecurrenceDaily, RecurrenceWeekly:
	default:
		return fmt.Errorf("invalid recurrence: %q (must be once, daily, or weekly)", r.Recurrence)
	}

	switch r.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return fmt.Errorf("invalid priority: %q (must be low, medium, or high)", r.Priority)
	}

	if _, err := ParseStatus(string(r.Status)); err != nil {
		return err
	}

	return nil
}

// IsDueOn reports whether the reminder fires on day according to its recurrence.
// Recurring reminders start on their Date and never fire before it.
func (r *Reminder) IsDueOn(day time.Time) bool {
	start, err := time.Parse(constants.DateFormat, r.Date)
	if err != nil {
		return false
	}
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	switch r.Recurrence {
	case RecurrenceOnce:
		return d.Equal(start)
	case RecurrenceDaily:
		return !d.Before(start)
	case RecurrenceWeekly:
		return !d.Before(start) && d.Weekday() == start.Weekday()
	default:
		return false
	}
}

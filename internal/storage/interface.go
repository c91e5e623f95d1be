package storage

import (
	"errors"

	"github.com/julianstephens/habitlog/internal/models"
)

var (
	ErrNotInitialized   = errors.New("storage not initialized, run 'habitlog init' first")
	ErrNotLoaded        = errors.New("storage not loaded")
	ErrReminderNotFound = errors.New("reminder not found")
	ErrInvalidUsername  = errors.New("invalid username")
)

// Provider is the per-user activity and reminder log. Every method is keyed
// by username; logs for different users never mix. Usernames are
// case-insensitive: "Alice" and "alice" share one log.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Activities. The log is append-only: records are never updated or deleted,
	// and duplicate (date, tracker) entries are kept as-is.
	AppendActivity(username string, record models.Activity) error
	// GetActivitiesByDate returns records for one date in insertion order.
	GetActivitiesByDate(username, date string) ([]models.Activity, error)
	// GetActivitiesInRange returns records with start <= date <= end in insertion order.
	GetActivitiesInRange(username, start, end string) ([]models.Activity, error)
	// GetTrackerNames returns every distinct tracker name ever logged, in first-seen order.
	GetTrackerNames(username string) ([]string, error)
	// GetTrackerHistory returns one tracker's records on or after start, oldest first.
	GetTrackerHistory(username, trackerName, start string) ([]models.Activity, error)
	GetAllActivities(username string) ([]models.Activity, error)

	// Reminders
	// AddReminder assigns the next id for username, forces pending status and
	// returns the stored reminder.
	AddReminder(username string, reminder models.Reminder) (models.Reminder, error)
	GetRemindersForDate(username, date string) ([]models.Reminder, error)
	GetAllReminders(username string) ([]models.Reminder, error)
	// UpdateReminderStatus returns ErrReminderNotFound when id does not exist.
	UpdateReminderStatus(username string, id int, status models.ReminderStatus) error

	// Users returns every username with stored data, sorted.
	Users() ([]string, error)

	// Utils
	GetConfigPath() string
}

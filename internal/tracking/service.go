// Package tracking is the session-scoped entry point the CLI and TUI use.
// It binds a store to one user and role, resolves tracker names against the
// catalog and feeds store snapshots into the stats package.
package tracking

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/habitlog/internal/catalog"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/stats"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/utils"
	"github.com/julianstephens/habitlog/internal/validation"
)

var ErrUnknownTracker = errors.New("unknown tracker")

type Service struct {
	store    storage.Provider
	username string
	role     models.Role
	trackers []models.Tracker
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides time.Now. The returned time's location decides what "today" is.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store storage.Provider, username string, role models.Role, opts ...Option) (*Service, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	trackers := catalog.ForRole(role)
	if len(trackers) == 0 {
		return nil, fmt.Errorf("no trackers defined for role %q", role)
	}

	s := &Service{
		store:    store,
		username: storage.NormalizeUsername(username),
		role:     role,
		trackers: trackers,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Username() string  { return s.username }
func (s *Service) Role() models.Role { return s.role }

// Trackers returns the session role's catalog.
func (s *Service) Trackers() []models.Tracker {
	out := make([]models.Tracker, len(s.trackers))
	copy(out, s.trackers)
	return out
}

// Tracker resolves a name within the session catalog.
func (s *Service) Tracker(name string) (models.Tracker, error) {
	for _, t := range s.trackers {
		if t.Name == name {
			return t, nil
		}
	}
	return models.Tracker{}, fmt.Errorf("%w: %q is not a %s tracker", ErrUnknownTracker, name, s.role)
}

// Now returns the current time from the session clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// CurrentDate returns the session's current date as YYYY-MM-DD.
func (s *Service) CurrentDate() string {
	return utils.FormatDate(utils.CalendarDay(s.now()))
}

func (s *Service) daysAgo(n int) string {
	return utils.FormatDate(utils.CalendarDay(s.now()).AddDate(0, 0, -n))
}

// LogResult is a stored record plus any non-fatal problems with its value.
type LogResult struct {
	Activity models.Activity
	Warnings []string
}

// Log records value for trackerName on date (today when empty). Values
// outside the tracker's bounds are stored anyway and reported as warnings.
func (s *Service) Log(trackerName string, value float64, date, notes string) (LogResult, error) {
	tracker, err := s.Tracker(trackerName)
	if err != nil {
		return LogResult{}, err
	}
	if date == "" {
		date = s.CurrentDate()
	}

	record, err := models.NewActivity(tracker, date, value, notes)
	if err != nil {
		return LogResult{}, err
	}

	var result LogResult
	if !tracker.ValidateValue(value) {
		msg := fmt.Sprintf("%s value %v is outside the expected range %v-%v %s",
			tracker.Name, value, tracker.MinValue, tracker.MaxValue, tracker.Unit)
		result.Warnings = append(result.Warnings, msg)
		logger.Warn("Logging out-of-range value", "tracker", tracker.Name, "value", value, "min", tracker.MinValue, "max", tracker.MaxValue)
	}

	if err := s.store.AppendActivity(s.username, record); err != nil {
		return LogResult{}, fmt.Errorf("failed to save activity: %w", err)
	}
	logger.Debug("Activity logged", "user", s.username, "tracker", tracker.Name, "date", date, "value", value)

	result.Activity = record
	return result, nil
}

// LogChecked records a checkbox tracker as done or not done.
func (s *Service) LogChecked(trackerName string, done bool, date, notes string) (LogResult, error) {
	tracker, err := s.Tracker(trackerName)
	if err != nil {
		return LogResult{}, err
	}
	if tracker.Kind != models.KindCheckbox {
		return LogResult{}, fmt.Errorf("%s is a %s tracker, not a checkbox", tracker.Name, tracker.Kind)
	}
	value := 0.0
	if done {
		value = 1
	}
	return s.Log(trackerName, value, date, notes)
}

// reads below degrade storage failures to empty results

func (s *Service) activitiesOn(date string) []models.Activity {
	records, err := s.store.GetActivitiesByDate(s.username, date)
	if err != nil {
		logger.Warn("Failed to read activities", "user", s.username, "date", date, "error", err)
		return nil
	}
	return records
}

func (s *Service) activitiesBetween(start, end string) []models.Activity {
	records, err := s.store.GetActivitiesInRange(s.username, start, end)
	if err != nil {
		logger.Warn("Failed to read activities", "user", s.username, "start", start, "end", end, "error", err)
		return nil
	}
	return records
}

func (s *Service) allActivities() []models.Activity {
	records, err := s.store.GetAllActivities(s.username)
	if err != nil {
		logger.Warn("Failed to read activity log", "user", s.username, "error", err)
		return nil
	}
	return records
}

// TrackerProgress is one tracker's standing for a single day.
type TrackerProgress struct {
	Tracker   models.Tracker `json:"tracker"`
	Value     float64        `json:"value"`
	Percent   float64        `json:"percent"`
	Entries   int            `json:"entries"`
	Completed bool           `json:"completed"`
}

// DailySnapshot is the dashboard view of one day.
type DailySnapshot struct {
	Date      string            `json:"date"`
	Records   []models.Activity `json:"records"`
	Average   float64           `json:"average"`
	Category  string            `json:"category"`
	Streak    int               `json:"streak"`
	Milestone int               `json:"milestone"`
	Trackers  []TrackerProgress `json:"trackers"`
}

// Today is the dashboard snapshot for the current date.
func (s *Service) Today() DailySnapshot {
	return s.Day("")
}

// Day summarises date, or today when date is empty.
func (s *Service) Day(date string) DailySnapshot {
	if date == "" {
		date = s.CurrentDate()
	}
	records := s.activitiesOn(date)
	avg := stats.DailyAverageCompletion(records, date)
	streak := s.Streak("")

	snap := DailySnapshot{
		Date:      date,
		Records:   records,
		Average:   avg,
		Category:  stats.ProgressCategory(avg),
		Streak:    streak,
		Milestone: stats.StreakMilestone(streak),
	}

	totals := make(map[string]float64)
	entries := make(map[string]int)
	completed := make(map[string]bool)
	for _, r := range records {
		totals[r.TrackerName] += r.Value
		entries[r.TrackerName]++
		completed[r.TrackerName] = completed[r.TrackerName] || r.Completed
	}
	for _, t := range s.trackers {
		snap.Trackers = append(snap.Trackers, TrackerProgress{
			Tracker:   t,
			Value:     totals[t.Name],
			Percent:   stats.CompletionPercentage(totals[t.Name], t.Goal),
			Entries:   entries[t.Name],
			Completed: completed[t.Name],
		})
	}
	return snap
}

// Streak returns the current streak for trackerName, or overall when empty.
func (s *Service) Streak(trackerName string) int {
	return stats.StreakFor(s.allActivities(), trackerName, s.now())
}

// WeekReport covers the seven days ending today for one tracker.
type WeekReport struct {
	Tracker        string
	Start          string
	End            string
	Daily          map[string]float64
	Summary        stats.Summary
	Trend          stats.TrendDirection
	CompletionRate float64
	Streak         int
}

// Week builds the 7-day report for trackerName.
func (s *Service) Week(trackerName string) (WeekReport, error) {
	if _, err := s.Tracker(trackerName); err != nil {
		return WeekReport{}, err
	}

	end := s.CurrentDate()
	start := s.daysAgo(constants.WeekDays - 1)

	var records []models.Activity
	for _, r := range s.activitiesBetween(start, end) {
		if r.TrackerName == trackerName {
			records = append(records, r)
		}
	}

	daily := stats.DailyTotals(records, trackerName)
	return WeekReport{
		Tracker:        trackerName,
		Start:          start,
		End:            end,
		Daily:          daily,
		Summary:        stats.WeeklySummary(daily),
		Trend:          stats.Trend(stats.SeriesFor(daily)),
		CompletionRate: stats.CompletionRate(records),
		Streak:         s.Streak(trackerName),
	}, nil
}

// History returns trackerName's records from the last days days, oldest first.
// Names outside the catalog are allowed so orphaned history stays reachable.
func (s *Service) History(trackerName string, days int) []models.Activity {
	if days <= 0 {
		days = constants.DefaultHistoryDays
	}
	records, err := s.store.GetTrackerHistory(s.username, trackerName, s.daysAgo(days))
	if err != nil {
		logger.Warn("Failed to read tracker history", "user", s.username, "tracker", trackerName, "error", err)
		return nil
	}
	return records
}

// TrackerNames lists every tracker name the user has ever logged.
func (s *Service) TrackerNames() []string {
	names, err := s.store.GetTrackerNames(s.username)
	if err != nil {
		logger.Warn("Failed to read tracker names", "user", s.username, "error", err)
		return nil
	}
	return names
}

// AllActivities returns the user's whole log.
func (s *Service) AllActivities() []models.Activity {
	return s.allActivities()
}

// AddReminder stores a new reminder. A link to a tracker outside the
// session catalog is kept but logged.
func (s *Service) AddReminder(r models.Reminder) (models.Reminder, error) {
	if r.TrackerLink != "" {
		if _, err := s.Tracker(r.TrackerLink); err != nil {
			logger.Warn("Reminder links to unknown tracker", "tracker", r.TrackerLink)
		}
	}
	stored, err := s.store.AddReminder(s.username, r)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("failed to save reminder: %w", err)
	}
	return stored, nil
}

// Reminders returns every reminder for the user.
func (s *Service) Reminders() []models.Reminder {
	reminders, err := s.store.GetAllReminders(s.username)
	if err != nil {
		logger.Warn("Failed to read reminders", "user", s.username, "error", err)
		return nil
	}
	return reminders
}

// RemindersFor returns reminders scheduled exactly on date.
func (s *Service) RemindersFor(date string) []models.Reminder {
	reminders, err := s.store.GetRemindersForDate(s.username, date)
	if err != nil {
		logger.Warn("Failed to read reminders", "user", s.username, "date", date, "error", err)
		return nil
	}
	return reminders
}

// DueReminders returns pending reminders that fire on date, including
// recurring ones, ordered by time of day.
func (s *Service) DueReminders(date string) []models.Reminder {
	if date == "" {
		date = s.CurrentDate()
	}
	day, err := utils.ParseDate(date)
	if err != nil {
		logger.Warn("Invalid date for due reminders", "date", date, "error", err)
		return nil
	}

	var due []models.Reminder
	for _, r := range s.Reminders() {
		if r.Status == models.StatusPending && r.IsDueOn(day) {
			due = append(due, r)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].Time < due[j].Time })
	return due
}

func (s *Service) SetReminderStatus(id int, status models.ReminderStatus) error {
	if err := s.store.UpdateReminderStatus(s.username, id, status); err != nil {
		return fmt.Errorf("failed to update reminder %d: %w", id, err)
	}
	return nil
}

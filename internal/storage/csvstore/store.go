// Package csvstore keeps each user's logs as two flat CSV files under
// <dir>/users/<username>/. Every mutation rewrites the affected file through
// a temp file and rename, so a crash never leaves a half-written log.
package csvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
)

type Store struct {
	dir   string
	ready bool

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(dir string) *Store {
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Store) usersDir() string {
	return filepath.Join(s.dir, constants.UsersDirName)
}

func (s *Store) activityPath(username string) string {
	return filepath.Join(s.usersDir(), username, username+constants.ActivityFileSuffix)
}

func (s *Store) reminderPath(username string) string {
	return filepath.Join(s.usersDir(), username, username+constants.ReminderFileSuffix)
}

// ActivityPath and ReminderPath expose the file layout for backups.
func (s *Store) ActivityPath(username string) string { return s.activityPath(username) }
func (s *Store) ReminderPath(username string) string { return s.reminderPath(username) }

func (s *Store) Init() error {
	if err := os.MkdirAll(s.usersDir(), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	s.ready = true
	return nil
}

func (s *Store) Load() error {
	if s.ready {
		return nil
	}
	info, err := os.Stat(s.usersDir())
	if err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotInitialized
		}
		return fmt.Errorf("failed to access data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.usersDir())
	}
	s.ready = true
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.dir
}

// lock serialises mutations of one user's files.
func (s *Store) lock(username string) func() {
	s.mu.Lock()
	l, ok := s.locks[username]
	if !ok {
		l = &sync.Mutex{}
		s.locks[username] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Store) check(username string) error {
	if !s.ready {
		return storage.ErrNotLoaded
	}
	return storage.CheckUsername(username)
}

func (s *Store) AppendActivity(username string, record models.Activity) error {
	username = storage.NormalizeUsername(username)
	if err := s.check(username); err != nil {
		return err
	}
	unlock := s.lock(username)
	defer unlock()

	records, err := readActivities(s.activityPath(username))
	if err != nil {
		return err
	}
	records = append(records, record)
	if err := writeActivities(s.activityPath(username), records); err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

func (s *Store) GetAllActivities(username string) ([]models.Activity, error) {
	username = storage.NormalizeUsername(username)
	if err := s.check(username); err != nil {
		return nil, err
	}
	return readActivities(s.activityPath(username))
}

func (s *Store) GetActivitiesByDate(username, date string) ([]models.Activity, error) {
	records, err := s.GetAllActivities(username)
	if err != nil {
		return nil, err
	}
	return storage.FilterByDate(records, date), nil
}

func (s *Store) GetActivitiesInRange(username, start, end string) ([]models.Activity, error) {
	records, err := s.GetAllActivities(username)
	if err != nil {
		return nil, err
	}
	return storage.FilterRange(records, start, end), nil
}

func (s *Store) GetTrackerNames(username string) ([]string, error) {
	records, err := s.GetAllActivities(username)
	if err != nil {
		return nil, err
	}
	return storage.TrackerNames(records), nil
}

func (s *Store) GetTrackerHistory(username, trackerName, start string) ([]models.Activity, error) {
	records, err := s.GetAllActivities(username)
	if err != nil {
		return nil, err
	}
	return storage.TrackerHistory(records, trackerName, start), nil
}

func (s *Store) AddReminder(username string, reminder models.Reminder) (models.Reminder, error) {
	username = storage.NormalizeUsername(username)
	if err := s.check(username); err != nil {
		return models.Reminder{}, err
	}
	unlock := s.lock(username)
	defer unlock()

	existing, err := readReminders(s.reminderPath(username))
	if err != nil {
		return models.Reminder{}, err
	}

	stored, err := storage.PrepareReminder(reminder, storage.NextReminderID(existing))
	if err != nil {
		return models.Reminder{}, err
	}
	if err := writeReminders(s.reminderPath(username), append(existing, stored)); err != nil {
		return models.Reminder{}, fmt.Errorf("failed to add reminder: %w", err)
	}
	return stored, nil
}

func (s *Store) GetAllReminders(username string) ([]models.Reminder, error) {
	username = storage.NormalizeUsername(username)
	if err := s.check(username); err != nil {
		return nil, err
	}
	return readReminders(s.reminderPath(username))
}

func (s *Store) GetRemindersForDate(username, date string) ([]models.Reminder, error) {
	reminders, err := s.GetAllReminders(username)
	if err != nil {
		return nil, err
	}
	return storage.RemindersForDate(reminders, date), nil
}

func (s *Store) UpdateReminderStatus(username string, id int, status models.ReminderStatus) error {
	username = storage.NormalizeUsername(username)
	if err := s.check(username); err != nil {
		return err
	}
	if _, err := models.ParseStatus(string(status)); err != nil {
		return err
	}
	unlock := s.lock(username)
	defer unlock()

	reminders, err := readReminders(s.reminderPath(username))
	if err != nil {
		return err
	}

	found := false
	for i := range reminders {
		if reminders[i].ID == id {
			reminders[i].Status = status
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: id %d", storage.ErrReminderNotFound, id)
	}
	if err := writeReminders(s.reminderPath(username), reminders); err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return nil
}

func (s *Store) Users() ([]string, error) {
	if !s.ready {
		return nil, storage.ErrNotLoaded
	}
	entries, err := os.ReadDir(s.usersDir())
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := []string{}
	for _, e := range entries {
		if e.IsDir() && storage.CheckUsername(e.Name()) == nil {
			users = append(users, e.Name())
		}
	}
	sort.Strings(users)
	return users, nil
}

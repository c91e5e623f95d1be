package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
)

const reminderColumns = `reminder_id, title, description, date, time, recurrence, category, priority, tracker_link, status`

func (s *Store) AddReminder(username string, reminder models.Reminder) (models.Reminder, error) {
	username = storage.NormalizeUsername(username)
	if err := s.ready(username); err != nil {
		return models.Reminder{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Reminder{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRow(
		`SELECT COALESCE(MAX(reminder_id), 0) + 1 FROM reminders WHERE username = ?`, username,
	).Scan(&next); err != nil {
		return models.Reminder{}, fmt.Errorf("failed to allocate reminder id: %w", err)
	}

	stored, err := storage.PrepareReminder(reminder, next)
	if err != nil {
		return models.Reminder{}, err
	}

	if _, err := tx.Exec(`
		INSERT INTO reminders (username, `+reminderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		username, stored.ID, stored.Title, stored.Description, stored.Date, stored.Time,
		string(stored.Recurrence), stored.Category, string(stored.Priority), stored.TrackerLink, string(stored.Status),
	); err != nil {
		return models.Reminder{}, fmt.Errorf("failed to insert reminder: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Reminder{}, fmt.Errorf("failed to commit reminder: %w", err)
	}
	return stored, nil
}

func scanReminders(rows *sql.Rows) ([]models.Reminder, error) {
	reminders := []models.Reminder{}
	for rows.Next() {
		var r models.Reminder
		var recurrence, priority, status string
		if err := rows.Scan(
			&r.ID, &r.Title, &r.Description, &r.Date, &r.Time,
			&recurrence, &r.Category, &priority, &r.TrackerLink, &status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		r.Recurrence = models.ReminderRecurrence(recurrence)
		r.Priority = models.Priority(priority)
		r.Status = models.ReminderStatus(status)
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func (s *Store) GetAllReminders(username string) ([]models.Reminder, error) {
	username = storage.NormalizeUsername(username)
	if err := s.ready(username); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT `+reminderColumns+` FROM reminders WHERE username = ? ORDER BY reminder_id`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *Store) GetRemindersForDate(username, date string) ([]models.Reminder, error) {
	username = storage.NormalizeUsername(username)
	if err := s.ready(username); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT `+reminderColumns+` FROM reminders WHERE username = ? AND date = ? ORDER BY reminder_id`, username, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (s *Store) UpdateReminderStatus(username string, id int, status models.ReminderStatus) error {
	username = storage.NormalizeUsername(username)
	if err := s.ready(username); err != nil {
		return err
	}
	if _, err := models.ParseStatus(string(status)); err != nil {
		return err
	}

	res, err := s.db.Exec(`UPDATE reminders SET status = ? WHERE username = ? AND reminder_id = ?`, string(status), username, id)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", storage.ErrReminderNotFound, id)
	}
	return nil
}

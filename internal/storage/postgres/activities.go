package postgres

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
)

const activityColumns = `date, tracker_type, tracker_name, value, goal, unit, notes, completed`

func (s *Store) AppendActivity(username string, record models.Activity) error {
	username = storage.NormalizeUsername(username)
	if err := s.ready(username); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO activities (
			id, username, date, tracker_type, tracker_name,
			value, goal, unit, notes, completed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		uuid.New(), username, record.Date, record.TrackerType, record.TrackerName,
		record.Value, record.Goal, record.Unit, record.Notes, record.Completed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

func scanActivities(rows *sql.Rows) ([]models.Activity, error) {
	records := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(
			&a.Date, &a.TrackerType, &a.TrackerName,
			&a.Value, &a.Goal, &a.Unit, &a.Notes, &a.Completed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (s *Store) query(username, query string, args ...interface{}) ([]models.Activity, error) {
	if err := s.ready(username); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()
	return scanActivities(rows)
}

func (s *Store) GetAllActivities(username string) ([]models.Activity, error) {
	username = storage.NormalizeUsername(username)
	return s.query(username, `
		SELECT `+activityColumns+` FROM activities
		WHERE username = $1 ORDER BY seq`, username)
}

func (s *Store) GetActivitiesByDate(username, date string) ([]models.Activity, error) {
	username = storage.NormalizeUsername(username)
	return s.query(username, `
		SELECT `+activityColumns+` FROM activities
		WHERE username = $1 AND date = $2 ORDER BY seq`, username, date)
}

func (s *Store) GetActivitiesInRange(username, start, end string) ([]models.Activity, error) {
	username = storage.NormalizeUsername(username)
	return s.query(username, `
		SELECT `+activityColumns+` FROM activities
		WHERE username = $1 AND date >= $2 AND date <= $3 ORDER BY seq`, username, start, end)
}

func (s *Store) GetTrackerHistory(username, trackerName, start string) ([]models.Activity, error) {
	username = storage.NormalizeUsername(username)
	return s.query(username, `
		SELECT `+activityColumns+` FROM activities
		WHERE username = $1 AND tracker_name = $2 AND date >= $3
		ORDER BY date, seq`, username, trackerName, start)
}

func (s *Store) GetTrackerNames(username string) ([]string, error) {
	username = storage.NormalizeUsername(username)
	if err := s.ready(username); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT tracker_name
		FROM activities
		WHERE username = $1
		GROUP BY tracker_name
		ORDER BY MIN(seq)`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracker names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

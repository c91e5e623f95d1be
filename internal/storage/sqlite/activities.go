package sqlite

import (
	"database/sql"
	"fmt"
	"time"

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
			value, goal, unit, notes, completed, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		uuid.NewString(), username, record.Date, record.TrackerType, record.TrackerName,
		record.Value, record.Goal, record.Unit, record.Notes, record.Completed,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

func (s *Store) queryActivities(username, where string, args ...interface{}) ([]models.Activity, error) {
	username = storage.NormalizeUsername(username)
	if err := s.ready(username); err != nil {
		return nil, err
	}

	query := `SELECT ` + activityColumns + ` FROM activities WHERE username = ?`
	if where != "" {
		query += " AND " + where
	}
	query += " ORDER BY seq"

	rows, err := s.db.Query(query, append([]interface{}{username}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
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

func (s *Store) GetAllActivities(username string) ([]models.Activity, error) {
	return s.queryActivities(username, "")
}

func (s *Store) GetActivitiesByDate(username, date string) ([]models.Activity, error) {
	return s.queryActivities(username, "date = ?", date)
}

func (s *Store) GetActivitiesInRange(username, start, end string) ([]models.Activity, error) {
	return s.queryActivities(username, "date >= ? AND date <= ?", start, end)
}

func (s *Store) GetTrackerHistory(username, trackerName, start string) ([]models.Activity, error) {
	username = storage.NormalizeUsername(username)
	if err := s.ready(username); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE username = ? AND tracker_name = ? AND date >= ?
		ORDER BY date, seq`, username, trackerName, start)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracker history: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

func (s *Store) GetTrackerNames(username string) ([]string, error) {
	username = storage.NormalizeUsername(username)
	if err := s.ready(username); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT tracker_name
		FROM activities
		WHERE username = ?
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

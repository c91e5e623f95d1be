package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/julianstephens/habitlog/internal/models"
)

var (
	ActivityHeader = []string{"date", "tracker_type", "tracker_name", "value", "goal", "unit", "notes", "completed"}
	ReminderHeader = []string{"reminder_id", "title", "description", "date", "time", "recurrence", "category", "priority", "tracker_link", "status"}
)

// readTable loads a CSV file into header-keyed rows. A missing file is an empty table.
func readTable(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", filepath.Base(path), err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []map[string]string
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s line %d: %w", filepath.Base(path), line, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeTable replaces path with the given rows via temp file and rename.
func writeTable(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create user directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(row map[string]string, col string) (float64, error) {
	s := strings.TrimSpace(row[col])
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", col, s, err)
	}
	return v, nil
}

func formatYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parseYesNo(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}

func readActivities(path string) ([]models.Activity, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	records := make([]models.Activity, 0, len(rows))
	for i, row := range rows {
		value, err := parseFloat(row, "value")
		if err != nil {
			return nil, fmt.Errorf("activity row %d: %w", i+1, err)
		}
		goal, err := parseFloat(row, "goal")
		if err != nil {
			return nil, fmt.Errorf("activity row %d: %w", i+1, err)
		}
		records = append(records, models.Activity{
			Date:        row["date"],
			TrackerType: row["tracker_type"],
			TrackerName: row["tracker_name"],
			Value:       value,
			Goal:        goal,
			Unit:        row["unit"],
			Notes:       row["notes"],
			Completed:   parseYesNo(row["completed"]),
		})
	}
	return records, nil
}

// ActivityRow renders a record in data-file column order.
func ActivityRow(a models.Activity) []string {
	return []string{
		a.Date,
		a.TrackerType,
		a.TrackerName,
		formatFloat(a.Value),
		formatFloat(a.Goal),
		a.Unit,
		a.Notes,
		formatYesNo(a.Completed),
	}
}

func writeActivities(path string, records []models.Activity) error {
	rows := make([][]string, len(records))
	for i, a := range records {
		rows[i] = ActivityRow(a)
	}
	return writeTable(path, ActivityHeader, rows)
}

func readReminders(path string) ([]models.Reminder, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	reminders := make([]models.Reminder, 0, len(rows))
	for i, row := range rows {
		id, err := strconv.Atoi(strings.TrimSpace(row["reminder_id"]))
		if err != nil {
			return nil, fmt.Errorf("reminder row %d: invalid reminder_id %q", i+1, row["reminder_id"])
		}
		reminders = append(reminders, models.Reminder{
			ID:          id,
			Title:       row["title"],
			Description: row["description"],
			Date:        row["date"],
			Time:        row["time"],
			Recurrence:  models.ReminderRecurrence(row["recurrence"]),
			Category:    row["category"],
			Priority:    models.Priority(row["priority"]),
			TrackerLink: row["tracker_link"],
			Status:      models.ReminderStatus(row["status"]),
		})
	}
	return reminders, nil
}

func writeReminders(path string, reminders []models.Reminder) error {
	rows := make([][]string, len(reminders))
	for i, r := range reminders {
		rows[i] = []string{
			strconv.Itoa(r.ID),
			r.Title,
			r.Description,
			r.Date,
			r.Time,
			string(r.Recurrence),
			r.Category,
			string(r.Priority),
			r.TrackerLink,
			string(r.Status),
		}
	}
	return writeTable(path, ReminderHeader, rows)
}

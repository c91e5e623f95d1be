// Package export writes activity logs in the same CSV layout the csv backend
// stores, or as JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage/csvstore"
)

// ActivitiesCSV writes records with the storage header, in the given order.
func ActivitiesCSV(w io.Writer, records []models.Activity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvstore.ActivityHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(csvstore.ActivityRow(r)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// TrackerCSV writes only the records for trackerName.
func TrackerCSV(w io.Writer, records []models.Activity, trackerName string) error {
	var filtered []models.Activity
	for _, r := range records {
		if r.TrackerName == trackerName {
			filtered = append(filtered, r)
		}
	}
	return ActivitiesCSV(w, filtered)
}

// ActivitiesJSON writes records as a bare JSON array.
func ActivitiesJSON(w io.Writer, records []models.Activity) error {
	if records == nil {
		records = []models.Activity{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode activities: %w", err)
	}
	return nil
}

// Document is the full JSON export of one user.
type Document struct {
	ExportID   string            `json:"export_id"`
	Username   string            `json:"username"`
	Role       models.Role       `json:"role"`
	ExportedAt string            `json:"exported_at"`
	Activities []models.Activity `json:"activities"`
	Reminders  []models.Reminder `json:"reminders"`
}

func NewDocument(username string, role models.Role, at time.Time, activities []models.Activity, reminders []models.Reminder) Document {
	return Document{
		ExportID:   uuid.NewString(),
		Username:   username,
		Role:       role,
		ExportedAt: at.Format(time.RFC3339),
		Activities: activities,
		Reminders:  reminders,
	}
}

// JSON writes doc indented. Nil slices are written as empty arrays.
func JSON(w io.Writer, doc Document) error {
	if doc.Activities == nil {
		doc.Activities = []models.Activity{}
	}
	if doc.Reminders == nil {
		doc.Reminders = []models.Reminder{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

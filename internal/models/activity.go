package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitlog/internal/constants"
)

// Activity is one logged value for one tracker on one date. Goal and Unit
// are snapshots taken at log time and are not re-derived if the tracker
// definition later changes. TrackerName is a weak reference: renaming a
// tracker orphans its history.
type Activity struct {
	Date        string  `json:"date"` // YYYY-MM-DD format
	TrackerType string  `json:"tracker_type"`
	TrackerName string  `json:"tracker_name"`
	Value       float64 `json:"value"`
	Goal        float64 `json:"goal"`
	Unit        string  `json:"unit"`
	Notes       string  `json:"notes,omitempty"`
	Completed   bool    `json:"completed"`
}

// NewActivity builds a record for tracker on day, snapshotting its goal and unit.
func NewActivity(tracker Tracker, day string, value float64, notes string) (Activity, error) {
	if _, err := time.Parse(constants.DateFormat, day); err != nil {
		return Activity{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}

	a := Activity{
		Date:        day,
		TrackerType: string(tracker.Kind),
		TrackerName: tracker.Name,
		Value:       value,
		Goal:        tracker.Goal,
		Unit:        tracker.Unit,
		Notes:       notes,
	}
	if tracker.Kind == KindCheckbox {
		a.Goal = 1
		a.Unit = "boolean"
		a.Completed = value == 1
	} else {
		a.Completed = value >= a.Goal
	}
	return a, nil
}

// Day parses the record's date. Records with a malformed date return an error.
func (a Activity) Day() (time.Time, error) {
	return time.Parse(constants.DateFormat, a.Date)
}

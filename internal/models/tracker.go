package models

import (
	"fmt"
	"strings"
)

// TrackerKind identifies how a tracker's value is entered and bounded.
type TrackerKind string

const (
	KindDuration TrackerKind = "duration"
	KindCounter  TrackerKind = "counter"
	KindRating   TrackerKind = "rating"
	KindCheckbox TrackerKind = "checkbox"
	KindNumeric  TrackerKind = "numeric"
	KindTime     TrackerKind = "time"
)

// ParseTrackerKind converts a stored tracker_type column back into a kind.
func ParseTrackerKind(s string) (TrackerKind, error) {
	switch k := TrackerKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDuration, KindCounter, KindRating, KindCheckbox, KindNumeric, KindTime:
		return k, nil
	default:
		return "", fmt.Errorf("unknown tracker type: %q", s)
	}
}

// Tracker describes a metric a user logs values against. Definitions are
// built from the static role tables and are never persisted; activity
// records refer to them by Name only.
type Tracker struct {
	Name        string      `json:"name"`
	Kind        TrackerKind `json:"tracker_type"`
	Unit        string      `json:"unit"`
	Goal        float64     `json:"goal"`
	MinValue    float64     `json:"min_value"`
	MaxValue    float64     `json:"max_value"`
	Category    string      `json:"category"`
	Icon        string      `json:"icon"`
	Description string      `json:"description"`
}

// NewDuration returns a duration tracker measured in hours (0-24).
func NewDuration(name string, goal float64, description string) Tracker {
	return Tracker{Name: name, Kind: KindDuration, Unit: "hours", Goal: goal, MinValue: 0, MaxValue: 24, Description: description}
}

// NewCounter returns a counter tracker (0-50) in the given unit.
func NewCounter(name, unit string, goal float64, description string) Tracker {
	return Tracker{Name: name, Kind: KindCounter, Unit: unit, Goal: goal, MinValue: 0, MaxValue: 50, Description: description}
}

// NewRating returns a 1..maxRating star rating tracker.
func NewRating(name string, maxRating int, goal float64, description string) Tracker {
	return Tracker{Name: name, Kind: KindRating, Unit: "stars", Goal: goal, MinValue: 1, MaxValue: float64(maxRating), Description: description}
}

// NewCheckbox returns a yes/no tracker whose goal is always 1.
func NewCheckbox(name, description string) Tracker {
	return Tracker{Name: name, Kind: KindCheckbox, Unit: "boolean", Goal: 1, MinValue: 0, MaxValue: 1, Description: description}
}

// NewNumeric returns a free numeric tracker with explicit bounds.
func NewNumeric(name, unit string, goal, minVal, maxVal float64, description string) Tracker {
	return Tracker{Name: name, Kind: KindNumeric, Unit: unit, Goal: goal, MinValue: minVal, MaxValue: maxVal, Description: description}
}

// NewTime returns a time-of-day tracker. Values are minutes after midnight.
func NewTime(name, description string) Tracker {
	return Tracker{Name: name, Kind: KindTime, Unit: "HH:MM", Goal: 0, MinValue: 0, MaxValue: 24*60 - 1, Description: description}
}

// WithMeta returns a copy of t with its display metadata set.
func (t Tracker) WithMeta(category, icon string) Tracker {
	t.Category = category
	t.Icon = icon
	return t
}

// WithBounds returns a copy of t with new value bounds.
func (t Tracker) WithBounds(minVal, maxVal float64) Tracker {
	t.MinValue = minVal
	t.MaxValue = maxVal
	return t
}

// Validate checks the definition against the rules for its kind.
func (t Tracker) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tracker name cannot be empty")
	}
	if _, err := ParseTrackerKind(string(t.Kind)); err != nil {
		return err
	}
	if t.MinValue > t.MaxValue {
		return fmt.Errorf("tracker %q: min value %v exceeds max value %v", t.Name, t.MinValue, t.MaxValue)
	}

	switch t.Kind {
	case KindCheckbox:
		if t.Goal != 1 || t.MinValue != 0 || t.MaxValue != 1 {
			return fmt.Errorf("tracker %q: checkbox trackers must have goal 1 and bounds 0-1", t.Name)
		}
	case KindRating:
		if t.MinValue < 1 {
			return fmt.Errorf("tracker %q: ratings start at 1", t.Name)
		}
	case KindTime:
		// goal is unused for time-of-day trackers
		return nil
	}

	if t.Goal < t.MinValue || t.Goal > t.MaxValue {
		return fmt.Errorf("tracker %q: goal %v outside bounds %v-%v", t.Name, t.Goal, t.MinValue, t.MaxValue)
	}
	return nil
}

// ValidateValue reports whether v falls inside the tracker's bounds.
func (t Tracker) ValidateValue(v float64) bool {
	return v >= t.MinValue && v <= t.MaxValue
}

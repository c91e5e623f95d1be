package validation

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/utils"
)

const (
	MinUsernameLength = 4
	MaxUsernameLength = 20
)

// ValidateUsername accepts 4-20 ASCII letters and digits. Usernames key
// on-disk files, so nothing else is allowed.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return fmt.Errorf("username must be %d-%d characters, got %d", MinUsernameLength, MaxUsernameLength, len(username))
	}
	for _, r := range username {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return fmt.Errorf("username %q must contain only letters and digits", username)
		}
	}
	return nil
}

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateEntry      ConflictType = "duplicate_entry"
	ConflictOrphanTracker       ConflictType = "orphan_tracker"
	ConflictInvalidDate         ConflictType = "invalid_date"
	ConflictValueOutOfRange     ConflictType = "value_out_of_range"
	ConflictInvalidReminder     ConflictType = "invalid_reminder"
	ConflictDuplicateReminderID ConflictType = "duplicate_reminder_id"
)

// Conflict represents one problem found in a user's stored logs
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // tracker names or reminder ids involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns how many conflicts of type t were found.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Validator checks stored logs against a role's tracker catalog.
// Nothing it finds is repaired: duplicates and orphans are only reported.
type Validator struct {
	trackers map[string]models.Tracker
}

// New creates a Validator for the given catalog.
func New(catalog []models.Tracker) *Validator {
	v := &Validator{trackers: make(map[string]models.Tracker, len(catalog))}
	for _, t := range catalog {
		v.trackers[t.Name] = t
	}
	return v
}

// ValidateActivities reports duplicate (date, tracker) pairs, records whose
// tracker is not in the catalog, malformed dates and out-of-range values.
func (v *Validator) ValidateActivities(records []models.Activity) ValidationResult {
	var result ValidationResult

	type key struct{ date, name string }
	counts := make(map[key]int)
	var order []key
	orphans := make(map[string]bool)
	var orphanOrder []string

	for _, r := range records {
		if !utils.ValidateDateFormat(r.Date) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Entry for %q has invalid date %q", r.TrackerName, r.Date),
				Date:        r.Date,
				Items:       []string{r.TrackerName},
			})
			continue
		}

		k := key{r.Date, r.TrackerName}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++

		tracker, known := v.trackers[r.TrackerName]
		if !known {
			if !orphans[r.TrackerName] {
				orphans[r.TrackerName] = true
				orphanOrder = append(orphanOrder, r.TrackerName)
			}
			continue
		}
		if !tracker.ValidateValue(r.Value) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictValueOutOfRange,
				Description: fmt.Sprintf("%s on %s: value %v outside %v-%v %s",
					r.TrackerName, r.Date, r.Value, tracker.MinValue, tracker.MaxValue, tracker.Unit),
				Date:  r.Date,
				Items: []string{r.TrackerName},
			})
		}
	}

	for _, k := range order {
		if n := counts[k]; n > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateEntry,
				Description: fmt.Sprintf("%s logged %d times on %s", k.name, n, k.date),
				Date:        k.date,
				Items:       []string{k.name},
			})
		}
	}

	for _, name := range orphanOrder {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictOrphanTracker,
			Description: fmt.Sprintf("Tracker %q has history but is not in the current catalog", name),
			Items:       []string{name},
		})
	}

	return result
}

// ValidateReminders reports invalid reminders and repeated ids.
func (v *Validator) ValidateReminders(reminders []models.Reminder) ValidationResult {
	var result ValidationResult

	seen := make(map[int]int)
	for _, r := range reminders {
		seen[r.ID]++
		if err := r.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidReminder,
				Description: fmt.Sprintf("Reminder %d: %v", r.ID, err),
				Date:        r.Date,
				Items:       []string{fmt.Sprint(r.ID)},
			})
		}
		if r.TrackerLink != "" {
			if _, ok := v.trackers[r.TrackerLink]; !ok {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictOrphanTracker,
					Description: fmt.Sprintf("Reminder %d links to unknown tracker %q", r.ID, r.TrackerLink),
					Items:       []string{r.TrackerLink},
				})
			}
		}
	}

	ids := make([]int, 0, len(seen))
	for id, n := range seen {
		if n > 1 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	for _, id := range ids {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateReminderID,
			Description: fmt.Sprintf("Reminder id %d is used %d times", id, seen[id]),
			Items:       []string{fmt.Sprint(id)},
		})
	}

	return result
}

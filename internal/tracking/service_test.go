package tracking

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/stats"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/storage/csvstore"
)

// Sunday 2024-03-10, midday
var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func setupService(t *testing.T, role models.Role) (*Service, storage.Provider) {
	t.Helper()
	store := csvstore.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	svc, err := New(store, "alice", role, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return svc, store
}

func mustLog(t *testing.T, svc *Service, name string, value float64, date string) {
	t.Helper()
	if _, err := svc.Log(name, value, date, ""); err != nil {
		t.Fatalf("Log(%s, %v, %s) failed: %v", name, value, date, err)
	}
}

func TestNew_RejectsBadInput(t *testing.T) {
	store := csvstore.New(t.TempDir())
	if _, err := New(store, "al", models.RoleStudent); err == nil {
		t.Error("expected error for short username")
	}
	if _, err := New(store, "alice", models.Role("pirate")); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestNew_LowercasesUsername(t *testing.T) {
	store := csvstore.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	svc, err := New(store, "Alice", models.RoleAdult, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := svc.Username(); got != "alice" {
		t.Errorf("Username() = %q, want alice", got)
	}

	mustLog(t, svc, "Water Intake", 4, "")
	records, _ := store.GetAllActivities("alice")
	if len(records) != 1 {
		t.Errorf("expected the entry under alice, got %d records", len(records))
	}
}

func TestCurrentDate_UsesClockLocation(t *testing.T) {
	store := csvstore.New(t.TempDir())
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2024-03-10 20:00 UTC is already 2024-03-11 in Tokyo
	svc, err := New(store, "alice", models.RoleStudent, WithClock(func() time.Time {
		return time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC).In(tokyo)
	}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := svc.CurrentDate(); got != "2024-03-11" {
		t.Errorf("CurrentDate() = %s, want 2024-03-11", got)
	}
}

func TestLog_DefaultsToToday(t *testing.T) {
	svc, store := setupService(t, models.RoleStudent)

	res, err := svc.Log("Water Intake", 8, "", "after lunch")
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
	if res.Activity.Date != "2024-03-10" || !res.Activity.Completed || res.Activity.Goal != 8 {
		t.Errorf("unexpected record: %+v", res.Activity)
	}

	got, err := store.GetActivitiesByDate("alice", "2024-03-10")
	if err != nil {
		t.Fatalf("GetActivitiesByDate failed: %v", err)
	}
	if len(got) != 1 || got[0] != res.Activity {
		t.Errorf("stored = %+v, want %+v", got, res.Activity)
	}
}

func TestLog_OutOfRangeIsStoredWithWarning(t *testing.T) {
	svc, store := setupService(t, models.RoleStudent)

	res, err := svc.Log("Sleep Duration", 20, "2024-03-09", "")
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", res.Warnings)
	}

	got, _ := store.GetAllActivities("alice")
	if len(got) != 1 || got[0].Value != 20 {
		t.Errorf("out-of-range value not stored: %+v", got)
	}
}

func TestLog_UnknownTracker(t *testing.T) {
	svc, _ := setupService(t, models.RoleStudent)
	// Work Hours belongs to the adult catalog
	_, err := svc.Log("Work Hours", 8, "", "")
	if !errors.Is(err, ErrUnknownTracker) {
		t.Errorf("Log() error = %v, want ErrUnknownTracker", err)
	}
}

func TestLog_InvalidDate(t *testing.T) {
	svc, _ := setupService(t, models.RoleStudent)
	if _, err := svc.Log("Meals", 3, "03/10/2024", ""); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestLogChecked(t *testing.T) {
	svc, _ := setupService(t, models.RoleStudent)

	res, err := svc.LogChecked("Made Bed", true, "", "")
	if err != nil {
		t.Fatalf("LogChecked failed: %v", err)
	}
	if res.Activity.Value != 1 || !res.Activity.Completed {
		t.Errorf("unexpected record: %+v", res.Activity)
	}

	if _, err := svc.LogChecked("Meals", true, "", ""); err == nil {
		t.Error("expected error for non-checkbox tracker")
	}
}

func TestDay_Snapshot(t *testing.T) {
	svc, _ := setupService(t, models.RoleStudent)
	mustLog(t, svc, "Water Intake", 4, "2024-03-10")
	mustLog(t, svc, "Water Intake", 4, "2024-03-10")
	mustLog(t, svc, "Meals", 3, "2024-03-10")
	mustLog(t, svc, "Meals", 3, "2024-03-09")

	snap := svc.Today()
	if snap.Date != "2024-03-10" {
		t.Errorf("Date = %s", snap.Date)
	}
	if len(snap.Records) != 3 {
		t.Fatalf("Records = %d, want 3", len(snap.Records))
	}
	// (50 + 50 + 100) / 3
	want := 200.0 / 3
	if diff := snap.Average - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Average = %v, want %v", snap.Average, want)
	}
	if snap.Category != stats.ProgressCategory(want) {
		t.Errorf("Category = %s", snap.Category)
	}
	if snap.Streak != 2 {
		t.Errorf("Streak = %d, want 2", snap.Streak)
	}
	if len(snap.Trackers) != len(svc.Trackers()) {
		t.Fatalf("Trackers = %d, want one per catalog entry", len(snap.Trackers))
	}
	for _, p := range snap.Trackers {
		if p.Tracker.Name == "Water Intake" {
			if p.Value != 8 || p.Percent != 100 || p.Entries != 2 {
				t.Errorf("Water Intake progress = %+v", p)
			}
		}
		if p.Tracker.Name == "Reading Pages" && (p.Entries != 0 || p.Percent != 0) {
			t.Errorf("Reading Pages progress = %+v", p)
		}
	}
}

func TestWeek(t *testing.T) {
	svc, _ := setupService(t, models.RoleStudent)
	mustLog(t, svc, "Water Intake", 8, "2024-03-03") // outside the window
	for _, d := range []string{"2024-03-04", "2024-03-05", "2024-03-06"} {
		mustLog(t, svc, "Water Intake", 4, d)
	}
	for _, d := range []string{"2024-03-08", "2024-03-09", "2024-03-10"} {
		mustLog(t, svc, "Water Intake", 8, d)
	}
	mustLog(t, svc, "Meals", 3, "2024-03-07")

	rep, err := svc.Week("Water Intake")
	if err != nil {
		t.Fatalf("Week failed: %v", err)
	}
	if rep.Start != "2024-03-04" || rep.End != "2024-03-10" {
		t.Errorf("window = %s..%s", rep.Start, rep.End)
	}
	wantSummary := stats.Summary{Total: 36, Average: 6, Max: 8, Min: 4, DaysLogged: 6}
	if rep.Summary != wantSummary {
		t.Errorf("Summary = %+v, want %+v", rep.Summary, wantSummary)
	}
	if rep.Trend != stats.TrendImproving {
		t.Errorf("Trend = %s, want improving", rep.Trend)
	}
	if rep.CompletionRate != 50 {
		t.Errorf("CompletionRate = %v, want 50", rep.CompletionRate)
	}
	if rep.Streak != 3 {
		t.Errorf("Streak = %d, want 3", rep.Streak)
	}

	if _, err := svc.Week("Nope"); !errors.Is(err, ErrUnknownTracker) {
		t.Errorf("Week(unknown) error = %v", err)
	}
}

func TestHistory(t *testing.T) {
	svc, _ := setupService(t, models.RoleStudent)
	mustLog(t, svc, "Reading Pages", 10, "2024-01-01")
	mustLog(t, svc, "Reading Pages", 30, "2024-03-05")
	mustLog(t, svc, "Reading Pages", 25, "2024-03-01")

	got := svc.History("Reading Pages", 0)
	if len(got) != 2 {
		t.Fatalf("History = %d records, want 2", len(got))
	}
	if got[0].Date != "2024-03-01" || got[1].Date != "2024-03-05" {
		t.Errorf("History not oldest first: %s, %s", got[0].Date, got[1].Date)
	}

	if got := svc.History("Reading Pages", 5); len(got) != 1 {
		t.Errorf("History(5 days) = %d records, want 1", len(got))
	}
}

func TestTrackerNames(t *testing.T) {
	svc, _ := setupService(t, models.RoleStudent)
	mustLog(t, svc, "Meals", 3, "2024-03-10")
	mustLog(t, svc, "Made Bed", 1, "2024-03-10")
	mustLog(t, svc, "Meals", 2, "2024-03-09")

	got := svc.TrackerNames()
	if len(got) != 2 || got[0] != "Meals" || got[1] != "Made Bed" {
		t.Errorf("TrackerNames() = %v", got)
	}
}

func TestReminders(t *testing.T) {
	svc, _ := setupService(t, models.RoleStudent)

	once, err := svc.AddReminder(models.Reminder{Title: "Dentist", Date: "2024-03-10", Time: "15:00"})
	if err != nil {
		t.Fatalf("AddReminder failed: %v", err)
	}
	if once.ID != 1 || once.Status != models.StatusPending {
		t.Errorf("unexpected reminder: %+v", once)
	}
	daily, _ := svc.AddReminder(models.Reminder{Title: "Water", Date: "2024-03-01", Time: "09:00", Recurrence: models.RecurrenceDaily, TrackerLink: "Water Intake"})
	weekly, _ := svc.AddReminder(models.Reminder{Title: "Review", Date: "2024-03-05", Time: "18:00", Recurrence: models.RecurrenceWeekly})
	if _, err := svc.AddReminder(models.Reminder{Title: "", Date: "2024-03-10", Time: "08:00"}); err == nil {
		t.Error("expected error for empty title")
	}

	if got := svc.RemindersFor("2024-03-10"); len(got) != 1 || got[0].ID != once.ID {
		t.Errorf("RemindersFor = %+v", got)
	}

	due := svc.DueReminders("")
	if len(due) != 2 || due[0].ID != daily.ID || due[1].ID != once.ID {
		t.Errorf("DueReminders = %+v, want daily then one-off", due)
	}
	// 2024-03-12 is a Tuesday like 2024-03-05
	if due := svc.DueReminders("2024-03-12"); len(due) != 2 || due[1].ID != weekly.ID {
		t.Errorf("DueReminders(Tuesday) = %+v", due)
	}

	if err := svc.SetReminderStatus(daily.ID, models.StatusDismissed); err != nil {
		t.Fatalf("SetReminderStatus failed: %v", err)
	}
	if due := svc.DueReminders(""); len(due) != 1 || due[0].ID != once.ID {
		t.Errorf("dismissed reminder still due: %+v", due)
	}

	err = svc.SetReminderStatus(99, models.StatusCompleted)
	if !errors.Is(err, storage.ErrReminderNotFound) {
		t.Errorf("SetReminderStatus(99) error = %v, want ErrReminderNotFound", err)
	}
}

type brokenStore struct {
	storage.Provider
}

var errBroken = errors.New("disk on fire")

func (brokenStore) GetActivitiesByDate(string, string) ([]models.Activity, error) {
	return nil, errBroken
}
func (brokenStore) GetActivitiesInRange(string, string, string) ([]models.Activity, error) {
	return nil, errBroken
}
func (brokenStore) GetAllActivities(string) ([]models.Activity, error) {
	return nil, errBroken
}
func (brokenStore) GetTrackerNames(string) ([]string, error) {
	return nil, errBroken
}
func (brokenStore) GetTrackerHistory(string, string, string) ([]models.Activity, error) {
	return nil, errBroken
}
func (brokenStore) GetAllReminders(string) ([]models.Reminder, error) {
	return nil, errBroken
}
func (brokenStore) AppendActivity(string, models.Activity) error {
	return errBroken
}

func TestReadsDegradeOnStorageError(t *testing.T) {
	svc, err := New(brokenStore{}, "alice", models.RoleAdult, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	snap := svc.Day("")
	if len(snap.Records) != 0 || snap.Average != 0 || snap.Streak != 0 {
		t.Errorf("Day() on broken store = %+v", snap)
	}
	if rep, err := svc.Week("Exercise"); err != nil || rep.Summary.DaysLogged != 0 {
		t.Errorf("Week() on broken store = %+v, %v", rep, err)
	}
	if got := svc.History("Exercise", 7); got != nil {
		t.Errorf("History() = %v", got)
	}
	if got := svc.TrackerNames(); got != nil {
		t.Errorf("TrackerNames() = %v", got)
	}
	if got := svc.DueReminders(""); got != nil {
		t.Errorf("DueReminders() = %v", got)
	}

	if _, err := svc.Log("Exercise", 1, "", ""); !errors.Is(err, errBroken) {
		t.Errorf("Log() error = %v, want wrapped storage error", err)
	}
}

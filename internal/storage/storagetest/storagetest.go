// Package storagetest is a conformance suite every storage.Provider must pass.
package storagetest

import (
	"errors"
	"reflect"
	"testing"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
)

// Factory returns an initialised, empty provider. Cleanup is registered on t.
type Factory func(t *testing.T) storage.Provider

func activity(date, name string, value, goal float64) models.Activity {
	return models.Activity{
		Date:        date,
		TrackerType: string(models.KindCounter),
		TrackerName: name,
		Value:       value,
		Goal:        goal,
		Unit:        "glasses",
		Completed:   value >= goal,
	}
}

func mustAppend(t *testing.T, p storage.Provider, user string, records ...models.Activity) {
	t.Helper()
	for _, r := range records {
		if err := p.AppendActivity(user, r); err != nil {
			t.Fatalf("AppendActivity(%s) failed: %v", r.TrackerName, err)
		}
	}
}

// Run executes the suite against providers built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("EmptyLogReadsEmpty", func(t *testing.T) {
		p := newStore(t)

		records, err := p.GetActivitiesInRange("alice", "2024-01-01", "2024-12-31")
		if err != nil {
			t.Fatalf("GetActivitiesInRange on empty log failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected no records, got %d", len(records))
		}

		names, err := p.GetTrackerNames("alice")
		if err != nil || len(names) != 0 {
			t.Errorf("GetTrackerNames() = %v, %v; want empty", names, err)
		}

		reminders, err := p.GetAllReminders("alice")
		if err != nil || len(reminders) != 0 {
			t.Errorf("GetAllReminders() = %v, %v; want empty", reminders, err)
		}
	})

	t.Run("AppendAndQueryByDate", func(t *testing.T) {
		p := newStore(t)
		rec := activity("2024-01-10", "Water Intake", 6, 8)
		rec.Notes = "after lunch, mostly"
		mustAppend(t, p, "alice", rec, activity("2024-01-11", "Water Intake", 8, 8))

		got, err := p.GetActivitiesByDate("alice", "2024-01-10")
		if err != nil {
			t.Fatalf("GetActivitiesByDate failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 record, got %d", len(got))
		}
		if !reflect.DeepEqual(got[0], rec) {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got[0], rec)
		}
	})

	t.Run("RangeIsInclusive", func(t *testing.T) {
		p := newStore(t)
		mustAppend(t, p, "alice",
			activity("2024-01-09", "Meals", 3, 3),
			activity("2024-01-10", "Meals", 3, 3),
			activity("2024-01-12", "Meals", 2, 3),
			activity("2024-01-13", "Meals", 1, 3),
		)

		got, err := p.GetActivitiesInRange("alice", "2024-01-10", "2024-01-12")
		if err != nil {
			t.Fatalf("GetActivitiesInRange failed: %v", err)
		}
		if len(got) != 2 || got[0].Date != "2024-01-10" || got[1].Date != "2024-01-12" {
			t.Errorf("unexpected range result: %+v", got)
		}

		again, _ := p.GetActivitiesInRange("alice", "2024-01-10", "2024-01-12")
		if !reflect.DeepEqual(got, again) {
			t.Error("repeated range queries returned different results")
		}
	})

	t.Run("DuplicatesAreKept", func(t *testing.T) {
		p := newStore(t)
		mustAppend(t, p, "alice",
			activity("2024-01-10", "Water Intake", 3, 8),
			activity("2024-01-10", "Water Intake", 4, 8),
		)

		byDate, _ := p.GetActivitiesByDate("alice", "2024-01-10")
		inRange, _ := p.GetActivitiesInRange("alice", "2024-01-10", "2024-01-10")
		if len(byDate) != 2 || len(inRange) != 2 {
			t.Errorf("expected both duplicates, got %d by date and %d in range", len(byDate), len(inRange))
		}
		if byDate[0].Value != 3 || byDate[1].Value != 4 {
			t.Errorf("duplicates lost insertion order: %+v", byDate)
		}
	})

	t.Run("TrackerNamesFirstSeenOrder", func(t *testing.T) {
		p := newStore(t)
		mustAppend(t, p, "alice",
			activity("2024-01-10", "Water Intake", 1, 8),
			activity("2024-01-08", "Exercise", 1, 1),
			activity("2024-01-11", "Water Intake", 1, 8),
			activity("2024-01-09", "Meals", 1, 3),
		)

		names, err := p.GetTrackerNames("alice")
		if err != nil {
			t.Fatalf("GetTrackerNames failed: %v", err)
		}
		want := []string{"Water Intake", "Exercise", "Meals"}
		if !reflect.DeepEqual(names, want) {
			t.Errorf("GetTrackerNames() = %v, want %v", names, want)
		}
	})

	t.Run("TrackerHistorySortedFromStart", func(t *testing.T) {
		p := newStore(t)
		mustAppend(t, p, "alice",
			activity("2024-01-12", "Water Intake", 3, 8),
			activity("2024-01-01", "Water Intake", 1, 8),
			activity("2024-01-10", "Water Intake", 2, 8),
			activity("2024-01-11", "Meals", 3, 3),
		)

		got, err := p.GetTrackerHistory("alice", "Water Intake", "2024-01-05")
		if err != nil {
			t.Fatalf("GetTrackerHistory failed: %v", err)
		}
		if len(got) != 2 || got[0].Date != "2024-01-10" || got[1].Date != "2024-01-12" {
			t.Errorf("unexpected history: %+v", got)
		}
	})

	t.Run("AllActivitiesInsertionOrder", func(t *testing.T) {
		p := newStore(t)
		mustAppend(t, p, "alice",
			activity("2024-01-12", "Water Intake", 3, 8),
			activity("2024-01-01", "Meals", 1, 3),
		)
		all, err := p.GetAllActivities("alice")
		if err != nil {
			t.Fatalf("GetAllActivities failed: %v", err)
		}
		if len(all) != 2 || all[0].Date != "2024-01-12" || all[1].Date != "2024-01-01" {
			t.Errorf("unexpected order: %+v", all)
		}
	})

	t.Run("UsersAreIsolated", func(t *testing.T) {
		p := newStore(t)
		mustAppend(t, p, "alice", activity("2024-01-10", "Water Intake", 3, 8))
		mustAppend(t, p, "bobby", activity("2024-01-10", "Meals", 3, 3))

		got, _ := p.GetActivitiesByDate("bobby", "2024-01-10")
		if len(got) != 1 || got[0].TrackerName != "Meals" {
			t.Errorf("bobby sees %+v", got)
		}

		users, err := p.Users()
		if err != nil {
			t.Fatalf("Users failed: %v", err)
		}
		if !reflect.DeepEqual(users, []string{"alice", "bobby"}) {
			t.Errorf("Users() = %v", users)
		}
	})

	t.Run("UsernamesAreCaseInsensitive", func(t *testing.T) {
		p := newStore(t)
		mustAppend(t, p, "Alice", activity("2024-01-10", "Water Intake", 3, 8))

		got, err := p.GetAllActivities("alice")
		if err != nil {
			t.Fatalf("GetAllActivities failed: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("alice sees %d records logged as Alice", len(got))
		}
		if byDate, _ := p.GetActivitiesByDate("ALICE", "2024-01-10"); len(byDate) != 1 {
			t.Errorf("ALICE sees %d records on 2024-01-10", len(byDate))
		}

		first, err := p.AddReminder("ALICE", models.Reminder{Title: "Walk", Date: "2024-01-10", Time: "18:00"})
		if err != nil {
			t.Fatalf("AddReminder failed: %v", err)
		}
		second, err := p.AddReminder("alice", models.Reminder{Title: "Read", Date: "2024-01-10", Time: "21:00"})
		if err != nil {
			t.Fatalf("AddReminder failed: %v", err)
		}
		if first.ID != 1 || second.ID != 2 {
			t.Errorf("reminder ids = %d, %d; want 1, 2", first.ID, second.ID)
		}
		if err := p.UpdateReminderStatus("Alice", second.ID, models.StatusCompleted); err != nil {
			t.Errorf("UpdateReminderStatus across case failed: %v", err)
		}

		users, err := p.Users()
		if err != nil {
			t.Fatalf("Users failed: %v", err)
		}
		if !reflect.DeepEqual(users, []string{"alice"}) {
			t.Errorf("Users() = %v, want [alice]", users)
		}
	})

	t.Run("InvalidUsernameRejected", func(t *testing.T) {
		p := newStore(t)
		err := p.AppendActivity("../x", activity("2024-01-10", "Meals", 3, 3))
		if !errors.Is(err, storage.ErrInvalidUsername) {
			t.Errorf("expected ErrInvalidUsername, got %v", err)
		}
	})

	t.Run("ReminderIDsAreSequentialPerUser", func(t *testing.T) {
		p := newStore(t)
		for i := 1; i <= 3; i++ {
			r, err := p.AddReminder("alice", models.Reminder{
				Title:  "Drink water",
				Date:   "2024-01-10",
				Time:   "09:00",
				Status: models.StatusCompleted, // ignored for new reminders
			})
			if err != nil {
				t.Fatalf("AddReminder failed: %v", err)
			}
			if r.ID != i {
				t.Errorf("reminder %d got id %d", i, r.ID)
			}
			if r.Status != models.StatusPending {
				t.Errorf("new reminder status = %q, want pending", r.Status)
			}
			if r.Category != models.DefaultReminderCategory || r.Priority != models.PriorityMedium || r.Recurrence != models.RecurrenceOnce {
				t.Errorf("defaults not applied: %+v", r)
			}
		}

		other, err := p.AddReminder("bobby", models.Reminder{Title: "Walk", Date: "2024-01-10", Time: "18:00"})
		if err != nil {
			t.Fatalf("AddReminder for second user failed: %v", err)
		}
		if other.ID != 1 {
			t.Errorf("second user's first reminder id = %d, want 1", other.ID)
		}
	})

	t.Run("RejectsInvalidReminder", func(t *testing.T) {
		p := newStore(t)
		if _, err := p.AddReminder("alice", models.Reminder{Title: "", Date: "2024-01-10", Time: "09:00"}); err == nil {
			t.Error("expected error for empty title")
		}
		all, _ := p.GetAllReminders("alice")
		if len(all) != 0 {
			t.Errorf("invalid reminder was stored: %+v", all)
		}
	})

	t.Run("RemindersForDate", func(t *testing.T) {
		p := newStore(t)
		for _, d := range []string{"2024-01-10", "2024-01-11", "2024-01-10"} {
			if _, err := p.AddReminder("alice", models.Reminder{Title: "Stretch", Date: d, Time: "07:00", TrackerLink: "Exercise"}); err != nil {
				t.Fatalf("AddReminder failed: %v", err)
			}
		}

		got, err := p.GetRemindersForDate("alice", "2024-01-10")
		if err != nil {
			t.Fatalf("GetRemindersForDate failed: %v", err)
		}
		if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
			t.Errorf("unexpected reminders: %+v", got)
		}
		if got[0].TrackerLink != "Exercise" {
			t.Errorf("tracker link lost: %+v", got[0])
		}
	})

	t.Run("UpdateReminderStatus", func(t *testing.T) {
		p := newStore(t)
		r, err := p.AddReminder("alice", models.Reminder{Title: "Pills", Date: "2024-01-10", Time: "08:00", Priority: models.PriorityHigh})
		if err != nil {
			t.Fatalf("AddReminder failed: %v", err)
		}

		if err := p.UpdateReminderStatus("alice", r.ID, models.StatusCompleted); err != nil {
			t.Fatalf("UpdateReminderStatus failed: %v", err)
		}
		all, _ := p.GetAllReminders("alice")
		if len(all) != 1 || all[0].Status != models.StatusCompleted || all[0].Priority != models.PriorityHigh {
			t.Errorf("unexpected reminder after update: %+v", all)
		}

		err = p.UpdateReminderStatus("alice", 42, models.StatusDismissed)
		if !errors.Is(err, storage.ErrReminderNotFound) {
			t.Errorf("expected ErrReminderNotFound, got %v", err)
		}

		if err := p.UpdateReminderStatus("alice", r.ID, models.ReminderStatus("snoozed")); err == nil {
			t.Error("expected error for invalid status")
		}
	})
}

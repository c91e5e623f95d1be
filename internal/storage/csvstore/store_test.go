package csvstore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s
}

func TestConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return setupTestStore(t)
	})
}

func TestLoad_NotInitialized(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"))
	if err := s.Load(); err != storage.ErrNotInitialized {
		t.Errorf("Load() = %v, want ErrNotInitialized", err)
	}
}

func TestNotLoaded(t *testing.T) {
	s := New(t.TempDir())
	if err := s.AppendActivity("alice", models.Activity{Date: "2024-01-10", TrackerName: "Meals"}); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("AppendActivity before Load = %v, want ErrNotLoaded", err)
	}
	if _, err := s.Users(); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("Users before Load = %v, want ErrNotLoaded", err)
	}
}

func TestMixedCaseUserSharesFiles(t *testing.T) {
	s := setupTestStore(t)
	if err := s.AppendActivity("Alice", models.Activity{Date: "2024-01-10", TrackerName: "Meals", Value: 3, Goal: 3}); err != nil {
		t.Fatalf("AppendActivity failed: %v", err)
	}
	if _, err := os.Stat(s.ActivityPath("alice")); err != nil {
		t.Errorf("expected the lowercase data file: %v", err)
	}
	entries, _ := os.ReadDir(filepath.Join(s.GetConfigPath(), "users"))
	if len(entries) != 1 || entries[0].Name() != "alice" {
		t.Errorf("unexpected user dirs: %v", entries)
	}
}

func TestFileLayout(t *testing.T) {
	s := setupTestStore(t)
	rec := models.Activity{
		Date: "2024-01-10", TrackerType: "checkbox", TrackerName: "Made Bed",
		Value: 1, Goal: 1, Unit: "boolean", Completed: true,
	}
	if err := s.AppendActivity("alice", rec); err != nil {
		t.Fatalf("AppendActivity failed: %v", err)
	}
	if _, err := s.AddReminder("alice", models.Reminder{Title: "Bed", Date: "2024-01-10", Time: "07:00"}); err != nil {
		t.Fatalf("AddReminder failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.GetConfigPath(), "users", "alice", "alice_data.csv"))
	if err != nil {
		t.Fatalf("data file missing: %v", err)
	}
	want := "date,tracker_type,tracker_name,value,goal,unit,notes,completed\n" +
		"2024-01-10,checkbox,Made Bed,1,1,boolean,,yes\n"
	if string(data) != want {
		t.Errorf("data file =\n%s\nwant\n%s", data, want)
	}

	rem, err := os.ReadFile(s.ReminderPath("alice"))
	if err != nil {
		t.Fatalf("reminder file missing: %v", err)
	}
	if !strings.HasPrefix(string(rem), "reminder_id,title,description,date,time,recurrence,category,priority,tracker_link,status\n1,Bed,,2024-01-10,07:00,once,general,medium,,pending\n") {
		t.Errorf("unexpected reminder file:\n%s", rem)
	}
}

func TestReadsExistingFileWithReorderedColumns(t *testing.T) {
	s := setupTestStore(t)
	path := s.ActivityPath("alice")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	content := "tracker_name,date,value,goal,unit,tracker_type,completed,notes\n" +
		"Study Hours,2024-01-10,2.5,4,hours,duration,no,chapter 3\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetAllActivities("alice")
	if err != nil {
		t.Fatalf("GetAllActivities failed: %v", err)
	}
	if len(got) != 1 || got[0].Value != 2.5 || got[0].Notes != "chapter 3" || got[0].Completed {
		t.Errorf("unexpected parse: %+v", got)
	}
}

func TestCorruptValueIsAnError(t *testing.T) {
	s := setupTestStore(t)
	path := s.ActivityPath("alice")
	os.MkdirAll(filepath.Dir(path), 0700)
	os.WriteFile(path, []byte("date,tracker_name,value\n2024-01-10,Meals,three\n"), 0600)

	if _, err := s.GetAllActivities("alice"); err == nil {
		t.Error("expected parse error for non-numeric value")
	}
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	s := setupTestStore(t)
	for i := 0; i < 3; i++ {
		s.AppendActivity("alice", models.Activity{Date: "2024-01-10", TrackerName: "Meals", Value: 1, Goal: 3})
	}

	entries, err := os.ReadDir(filepath.Dir(s.ActivityPath("alice")))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestConcurrentAppendsAreSerialised(t *testing.T) {
	s := setupTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.AppendActivity("alice", models.Activity{Date: "2024-01-10", TrackerName: "Meals", Value: 1, Goal: 3}); err != nil {
				t.Errorf("AppendActivity failed: %v", err)
			}
		}()
	}
	wg.Wait()

	all, _ := s.GetAllActivities("alice")
	if len(all) != 20 {
		t.Errorf("expected 20 records, got %d", len(all))
	}
}

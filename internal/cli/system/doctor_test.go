package system

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitlog/internal/backup"
	"github.com/julianstephens/habitlog/internal/cli/clitest"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage/csvstore"
	"github.com/julianstephens/habitlog/internal/storage/postgres"
)

func TestDoctorCmd_HealthySQLite(t *testing.T) {
	ctx, _ := sqliteContext(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatal(err)
	}

	// Missing backups is a warning, not a failure
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed on healthy database: %v\n%s", err, output(ctx))
	}
	out := output(ctx)
	for _, want := range []string{
		"✓ Storage reachable: OK",
		"✓ Schema version: OK",
		"⚠ Backups present: WARNING",
		"All diagnostics passed!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDoctorCmd_WithBackup(t *testing.T) {
	ctx, buf := clitest.New(t, models.RoleStudent)
	clitest.MustLog(t, ctx, "Meals", 3, "2024-03-10")
	mgr, err := backup.ForStore(ctx.Store)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "✓ Backups present: OK") || !strings.Contains(out, "⊘ Schema version: SKIPPED (csv backend)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDoctorCmd_ReportsDuplicatesAndOrphans(t *testing.T) {
	ctx, out := clitest.New(t, models.RoleStudent)
	clitest.MustLog(t, ctx, "Meals", 1, "2024-03-10")
	clitest.MustLog(t, ctx, "Meals", 2, "2024-03-10")
	if err := ctx.Store.AppendActivity("alice", models.Activity{Date: "2024-03-09", TrackerName: "Old Tracker", Value: 1, Goal: 1}); err != nil {
		t.Fatal(err)
	}

	// Duplicates and orphans are reported but never fail the run
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out.String())
	}
	got := out.String()
	for _, want := range []string{
		"⚠ Duplicate entries: WARNING",
		"alice: Meals logged 2 times on 2024-03-10",
		"⚠ Orphan trackers: WARNING",
		`alice: Tracker "Old Tracker" has history`,
		"✓ Data validation: OK",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDoctorCmd_OtherUsersSkipOrphanCheck(t *testing.T) {
	ctx, out := clitest.New(t, models.RoleStudent)
	if err := ctx.Store.AppendActivity("bobby", models.Activity{Date: "2024-03-09", TrackerName: "Walking Time", Value: 1, Goal: 0.5}); err != nil {
		t.Fatal(err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Orphan trackers: OK") {
		t.Errorf("another user's trackers should not count as orphans:\n%s", out.String())
	}
}

func TestDoctorCmd_InvalidDataFails(t *testing.T) {
	ctx, out := clitest.New(t, models.RoleStudent)
	store := ctx.Store.(*csvstore.Store)
	path := store.ActivityPath("alice")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	content := "date,tracker_type,tracker_name,value,goal,unit,notes,completed\n" +
		"10/03/2024,counter,Meals,3,3,meals,,yes\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected doctor to fail on an invalid date")
	}
	if !strings.Contains(out.String(), "❌ Data validation: FAIL") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestDoctorCmd_UnreachableSkipsStoreChecks(t *testing.T) {
	ctx := withService(t, csvstore.New(filepath.Join(t.TempDir(), "missing")), "csv")

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("expected failure for uninitialised storage")
	}
	out := output(ctx)
	for _, want := range []string{
		"❌ Storage reachable: FAIL",
		"⊘ Schema version: SKIPPED (storage not reachable)",
		"⊘ Data validation: SKIPPED (storage not reachable)",
		"✓ Clock/timezone: OK",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckBackupsPresent_PostgresSkipped(t *testing.T) {
	ctx := withService(t, postgres.New("postgres://user@localhost/habitlog"), "postgres")
	if err := checkBackupsPresent(ctx); err != errSkipped {
		t.Errorf("checkBackupsPresent() = %v, want errSkipped", err)
	}
}

package backups

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/cli/clitest"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage/postgres"
)

func TestBackupCreateAndList(t *testing.T) {
	ctx, out := clitest.New(t, models.RoleStudent)
	clitest.MustLog(t, ctx, "Meals", 3, "2024-03-10")

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupListCmd failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupCreateCmd failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created: habitlog-") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupListCmd failed: %v", err)
	}
	if !strings.Contains(out.String(), "Available backups (1 total") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestBackupRestoreCmd(t *testing.T) {
	ctx, out := clitest.New(t, models.RoleStudent)
	clitest.MustLog(t, ctx, "Meals", 3, "2024-03-09")

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupCreateCmd failed: %v", err)
	}
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created:"))

	clitest.MustLog(t, ctx, "Meals", 1, "2024-03-10")

	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: name, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("BackupRestoreCmd failed: %v", err)
	}
	if !strings.Contains(out.String(), "Data restored successfully") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	records, _ := ctx.Store.GetAllActivities("alice")
	if len(records) != 1 || records[0].Date != "2024-03-09" {
		t.Errorf("records after restore = %+v", records)
	}

	if err := (&BackupRestoreCmd{BackupFile: filepath.Join(t.TempDir(), "missing.zip"), Yes: true}).Run(ctx); err == nil {
		t.Error("expected error for missing backup")
	}
}

func TestBackupCmd_PostgresUnsupported(t *testing.T) {
	ctx := &cli.Context{
		Store:   postgres.New("postgres://user@localhost/habitlog"),
		Backend: constants.BackendPostgres,
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil || !strings.Contains(err.Error(), "pg_dump") {
		t.Errorf("error = %v, want pg_dump hint", err)
	}
}

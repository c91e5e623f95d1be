package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// locateBinary finds the habitlog binary in HABITLOG_BIN_DIR or ../../bin.
func locateBinary(t *testing.T) string {
	t.Helper()
	binDir := os.Getenv("HABITLOG_BIN_DIR")
	if binDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			t.Fatalf("Failed to get cwd: %v", err)
		}
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)

	cliPath := filepath.Join(binDir, "habitlog")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it with 'go build -o bin/habitlog ./cmd/habitlog' first.", cliPath)
	}
	return cliPath
}

// isolatedEnv points HOME and every HABITLOG_* setting at tempDir.
func isolatedEnv(tempDir, backend string) []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") || strings.HasPrefix(e, "HABITLOG_") {
			continue
		}
		env = append(env, e)
	}
	return append(env,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", filepath.Join(tempDir, ".config")),
		fmt.Sprintf("HABITLOG_DATA_DIR=%s", filepath.Join(tempDir, "data")),
		fmt.Sprintf("HABITLOG_BACKEND=%s", backend),
		"HABITLOG_USER=tester",
		"HABITLOG_ROLE=adult",
		"HABITLOG_TIMEZONE=UTC",
	)
}

func TestEndToEndWorkflow(t *testing.T) {
	cliPath := locateBinary(t)

	for _, backend := range []string{"csv", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			tempDir := t.TempDir()
			env := isolatedEnv(tempDir, backend)
			today := time.Now().UTC().Format("2006-01-02")

			t.Log("Initializing storage...")
			runCmd(t, cliPath, env, "init")

			t.Log("Logging values...")
			out := runCmd(t, cliPath, env, "log", "Water Intake", "10")
			if !strings.Contains(out, "goal met") {
				t.Errorf("expected goal met, got: %s", out)
			}
			runCmd(t, cliPath, env, "log", "Morning Routine", "yes", "--notes", "stretch, then coffee")
			runCmd(t, cliPath, env, "log", "Exercise", "0.5", "--date", "yesterday")

			out = runCmd(t, cliPath, env, "today")
			for _, want := range []string{today, "Water Intake", "Daily average", "Streak: 2 day(s)"} {
				if !strings.Contains(out, want) {
					t.Errorf("today output missing %q:\n%s", want, out)
				}
			}

			out = runCmd(t, cliPath, env, "week", "Exercise")
			if !strings.Contains(out, "Days logged: 1/7") {
				t.Errorf("unexpected week output:\n%s", out)
			}

			t.Log("Managing reminders...")
			reminderTime := time.Now().UTC().Add(time.Minute).Format("15:04")
			runCmd(t, cliPath, env, "remind", "add", "Drink water", "--time", reminderTime, "--tracker", "Water Intake")
			out = runCmd(t, cliPath, env, "remind", "notify", "--dry-run", "--window", "3m")
			if !strings.Contains(out, "[DryRun]") || !strings.Contains(out, "Drink water") {
				t.Errorf("unexpected notify output:\n%s", out)
			}
			runCmd(t, cliPath, env, "remind", "done", "1")
			out = runCmd(t, cliPath, env, "remind", "list", "--all")
			if !strings.Contains(out, "completed") {
				t.Errorf("reminder not completed:\n%s", out)
			}

			t.Log("Exporting...")
			exportPath := filepath.Join(tempDir, "export.json")
			runCmd(t, cliPath, env, "export", "json", "--out", exportPath)
			data, err := os.ReadFile(exportPath)
			if err != nil {
				t.Fatalf("export file missing: %v", err)
			}
			var doc struct {
				Username   string            `json:"username"`
				Activities []json.RawMessage `json:"activities"`
				Reminders  []json.RawMessage `json:"reminders"`
			}
			if err := json.Unmarshal(data, &doc); err != nil {
				t.Fatalf("export is not JSON: %v", err)
			}
			if doc.Username != "tester" || len(doc.Activities) != 3 || len(doc.Reminders) != 1 {
				t.Errorf("unexpected export: user=%s activities=%d reminders=%d", doc.Username, len(doc.Activities), len(doc.Reminders))
			}

			t.Log("Backing up...")
			out = runCmd(t, cliPath, env, "backup", "create")
			if !strings.Contains(out, "Backup created") {
				t.Errorf("unexpected backup output:\n%s", out)
			}
			out = runCmd(t, cliPath, env, "backup", "list")
			if !strings.Contains(out, "Available backups (1 total") {
				t.Errorf("unexpected backup list:\n%s", out)
			}

			out = runCmd(t, cliPath, env, "doctor")
			if !strings.Contains(out, "All diagnostics passed!") {
				t.Errorf("doctor did not pass:\n%s", out)
			}
		})
	}
}

func TestUninitializedStorageFails(t *testing.T) {
	cliPath := locateBinary(t)
	env := isolatedEnv(t.TempDir(), "csv")

	cmd := exec.Command(cliPath, "today")
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected failure before init, got: %s", out)
	}
	if !strings.Contains(string(out), "run 'habitlog init' first") {
		t.Errorf("unexpected error output: %s", out)
	}
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

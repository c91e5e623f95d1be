package system

import (
	"encoding/json"
	"testing"

	"github.com/julianstephens/habitlog/internal/cli/clitest"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/tracking"
)

func TestDebugPathsCmd(t *testing.T) {
	ctx, out := clitest.New(t, models.RoleAdult)
	if err := (&DebugPathsCmd{}).Run(ctx); err != nil {
		t.Fatalf("DebugPathsCmd failed: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got["backend"] != "csv" || got["path"] != ctx.Store.GetConfigPath() || got["user"] != "alice" || got["role"] != "adult" {
		t.Errorf("unexpected paths: %v", got)
	}
}

func TestDebugDayCmd(t *testing.T) {
	ctx, out := clitest.New(t, models.RoleStudent)
	clitest.MustLog(t, ctx, "Meals", 3, "2024-03-09")

	if err := (&DebugDayCmd{Date: "yesterday"}).Run(ctx); err != nil {
		t.Fatalf("DebugDayCmd failed: %v", err)
	}
	var snap tracking.DailySnapshot
	if err := json.Unmarshal(out.Bytes(), &snap); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if snap.Date != "2024-03-09" || len(snap.Records) != 1 || snap.Average != 100 {
		t.Errorf("snapshot = %+v", snap)
	}

	if err := (&DebugDayCmd{Date: "03/09/2024"}).Run(ctx); err == nil {
		t.Error("expected error for malformed date")
	}
}

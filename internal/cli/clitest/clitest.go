// Package clitest builds command contexts over a temporary csv store.
package clitest

import (
	"bytes"
	"testing"
	"time"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage/csvstore"
	"github.com/julianstephens/habitlog/internal/tracking"
)

// Now is the fixed clock every context uses: Sunday 2024-03-10, 12:00 UTC.
var Now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// New returns a context for user "alice" with role and a buffer capturing output.
func New(t *testing.T, role models.Role) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := csvstore.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	svc, err := tracking.New(store, "alice", role, tracking.WithClock(func() time.Time { return Now }))
	if err != nil {
		t.Fatalf("tracking.New failed: %v", err)
	}
	out := &bytes.Buffer{}
	return &cli.Context{
		Store:   store,
		Service: svc,
		Backend: constants.BackendCSV,
		Out:     out,
	}, out
}

// MustLog logs value for name on date through the service.
func MustLog(t *testing.T, ctx *cli.Context, name string, value float64, date string) {
	t.Helper()
	if _, err := ctx.Service.Log(name, value, date, ""); err != nil {
		t.Fatalf("Log(%s) failed: %v", name, err)
	}
}

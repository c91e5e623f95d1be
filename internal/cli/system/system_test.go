package system

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/cli/clitest"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/storage/sqlite"
	"github.com/julianstephens/habitlog/internal/tracking"
)

// sqliteContext returns an uninitialised sqlite-backed context for alice.
func sqliteContext(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), constants.SQLiteDatabaseName)
	store := sqlite.New(dbPath)
	t.Cleanup(func() { store.Close() })
	return withService(t, store, constants.BackendSQLite), dbPath
}

func withService(t *testing.T, store storage.Provider, backend string) *cli.Context {
	t.Helper()
	svc, err := tracking.New(store, "alice", models.RoleStudent, tracking.WithClock(func() time.Time { return clitest.Now }))
	if err != nil {
		t.Fatalf("tracking.New failed: %v", err)
	}
	return &cli.Context{Store: store, Service: svc, Backend: backend, Out: &bytes.Buffer{}}
}

func output(ctx *cli.Context) string {
	return ctx.Out.(*bytes.Buffer).String()
}

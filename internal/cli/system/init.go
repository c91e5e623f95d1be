package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/storage/csvstore"
	"github.com/julianstephens/habitlog/internal/storage/postgres"
	"github.com/julianstephens/habitlog/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing data before initialization."`
	Source string `help:"Source data directory, SQLite file or PostgreSQL connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitlog storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	return nil
}

// dataPath is what --force deletes for the active backend.
func dataPath(p storage.Provider) (string, error) {
	switch s := p.(type) {
	case *sqlite.Store:
		return s.GetConfigPath(), nil
	case *csvstore.Store:
		return filepath.Join(s.GetConfigPath(), constants.UsersDirName), nil
	case *postgres.Store:
		return "", fmt.Errorf("--force is not supported for PostgreSQL; drop the %s schema manually", constants.PostgresSchema)
	}
	return "", fmt.Errorf("--force is not supported for this backend")
}

func sameLocation(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	path, err := dataPath(ctx.Store)
	if err != nil {
		return err
	}
	// Don't delete if it's the source (user error protection)
	if c.Source != "" && (sameLocation(c.Source, path) || sameLocation(c.Source, ctx.Store.GetConfigPath())) {
		return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
	}

	if _, err := os.Stat(path); err == nil {
		// Close first to prevent file locking issues
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing store: %w", err)
		}
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to delete existing data: %w", err)
		}
		ctx.Printf("Deleted existing data at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing data: %w", err)
	}
	return nil
}

// migrateData copies every user's activities and reminders from the source.
// Reminder ids are reassigned by the destination in source order; statuses
// other than pending are reapplied after insertion.
func (c *InitCmd) migrateData(ctx *cli.Context) error {
	if sameLocation(c.Source, ctx.Store.GetConfigPath()) {
		return fmt.Errorf("source and destination are the same: %s", c.Source)
	}

	source, err := cli.OpenSource(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source data: %w", err)
	}
	defer source.Close()

	users, err := source.Users()
	if err != nil {
		return fmt.Errorf("failed to list users in source: %w", err)
	}

	for _, user := range users {
		ctx.Printf("  Migrating %s...\n", user)

		activities, err := source.GetAllActivities(user)
		if err != nil {
			return fmt.Errorf("failed to get activities for %s: %w", user, err)
		}
		for _, a := range activities {
			if err := ctx.Store.AppendActivity(user, a); err != nil {
				return fmt.Errorf("failed to add activity %s/%s for %s: %w", a.Date, a.TrackerName, user, err)
			}
		}

		reminders, err := source.GetAllReminders(user)
		if err != nil {
			return fmt.Errorf("failed to get reminders for %s: %w", user, err)
		}
		for _, r := range reminders {
			stored, err := ctx.Store.AddReminder(user, r)
			if err != nil {
				return fmt.Errorf("failed to add reminder %d for %s: %w", r.ID, user, err)
			}
			if r.Status != "" && r.Status != models.StatusPending {
				if err := ctx.Store.UpdateReminderStatus(user, stored.ID, r.Status); err != nil {
					return fmt.Errorf("failed to restore status of reminder %d for %s: %w", r.ID, user, err)
				}
			}
		}
		ctx.Printf("    Migrated %d activities and %d reminders\n", len(activities), len(reminders))
	}
	ctx.Printf("  Migrated %d users\n", len(users))

	return nil
}

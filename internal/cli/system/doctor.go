package system

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/julianstephens/habitlog/internal/backup"
	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/migration"
	"github.com/julianstephens/habitlog/internal/storage/postgres"
	"github.com/julianstephens/habitlog/internal/storage/sqlite"
	"github.com/julianstephens/habitlog/internal/validation"
	"github.com/julianstephens/habitlog/migrations"
)

// errSkipped marks a check that does not apply to the active backend.
var errSkipped = errors.New("skipped")

type DoctorCmd struct{}

type check struct {
	name string
	// warnOnly checks print a warning instead of failing the run
	warnOnly bool
	// needsStore checks are skipped when the store is unreachable
	needsStore bool
	run        func(ctx *cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Storage reachable", run: checkReachable},
		{name: "Schema version", needsStore: true, run: checkSchemaVersion},
		{name: "Data validation", needsStore: true, run: checkValidation},
		{name: "Duplicate entries", warnOnly: true, needsStore: true, run: checkDuplicates},
		{name: "Orphan trackers", warnOnly: true, needsStore: true, run: checkOrphans},
		{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
		{name: "Clock/timezone", run: checkClockTimezone},
	}

	hasError := false
	reachable := true
	for i, c := range checks {
		if c.needsStore && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			ctx.Printf("⊘ %s: SKIPPED (%s backend)\n", c.name, ctx.Backend)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if i == 0 {
				reachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Store.Users(); err != nil {
		return fmt.Errorf("failed to query storage: %w", err)
	}
	return nil
}

func latestSchemaVersion(dir string, driver migration.Driver) (int, error) {
	sub, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return 0, err
	}
	return migration.NewRunner(nil, sub, driver).GetLatestVersion()
}

func checkSchemaVersion(ctx *cli.Context) error {
	var (
		current int
		latest  int
		err     error
	)
	switch s := ctx.Store.(type) {
	case *sqlite.Store:
		if current, err = s.SchemaVersion(); err == nil {
			latest, err = latestSchemaVersion("sqlite", migration.DriverSQLite)
		}
	case *postgres.Store:
		if current, err = s.SchemaVersion(); err == nil {
			latest, err = latestSchemaVersion("postgres", migration.DriverPostgres)
		}
	default:
		return errSkipped
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if current > latest {
		return fmt.Errorf("schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

// validate runs the validator over every stored user. Only the active user's
// role is known, so other users are checked against the same catalog and
// their orphan reports are dropped.
func validate(ctx *cli.Context) (map[string]validation.ValidationResult, []string, error) {
	users, err := ctx.Store.Users()
	if err != nil {
		return nil, nil, err
	}
	v := validation.New(ctx.Service.Trackers())
	results := make(map[string]validation.ValidationResult, len(users))
	for _, user := range users {
		activities, err := ctx.Store.GetAllActivities(user)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read activities for %s: %w", user, err)
		}
		reminders, err := ctx.Store.GetAllReminders(user)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read reminders for %s: %w", user, err)
		}
		result := v.ValidateActivities(activities)
		result.Conflicts = append(result.Conflicts, v.ValidateReminders(reminders).Conflicts...)
		if user != ctx.Service.Username() {
			kept := result.Conflicts[:0]
			for _, c := range result.Conflicts {
				if c.Type != validation.ConflictOrphanTracker && c.Type != validation.ConflictValueOutOfRange {
					kept = append(kept, c)
				}
			}
			result.Conflicts = kept
		}
		results[user] = result
	}
	return results, users, nil
}

func describe(ctx *cli.Context, types ...validation.ConflictType) error {
	results, users, err := validate(ctx)
	if err != nil {
		return err
	}
	var found []string
	for _, user := range users {
		for _, c := range results[user].Conflicts {
			for _, t := range types {
				if c.Type == t {
					found = append(found, fmt.Sprintf("%s: %s", user, c.Description))
				}
			}
		}
	}
	if len(found) == 0 {
		return nil
	}
	msg := fmt.Sprintf("found %d issue(s)", len(found))
	for _, f := range found {
		msg += "\n   - " + f
	}
	return errors.New(msg)
}

func checkValidation(ctx *cli.Context) error {
	return describe(ctx,
		validation.ConflictInvalidDate,
		validation.ConflictInvalidReminder,
		validation.ConflictDuplicateReminderID,
	)
}

// Duplicate (date, tracker) entries are kept as logged and count twice in
// averages. Doctor only reports them.
func checkDuplicates(ctx *cli.Context) error {
	return describe(ctx, validation.ConflictDuplicateEntry)
}

func checkOrphans(ctx *cli.Context) error {
	return describe(ctx, validation.ConflictOrphanTracker, validation.ConflictValueOutOfRange)
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := backup.ForStore(ctx.Store)
	if errors.Is(err, backup.ErrUnsupportedBackend) {
		return errSkipped
	}
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitlog backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Service.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

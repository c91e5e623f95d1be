package main

import (
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/cli/activity"
	"github.com/julianstephens/habitlog/internal/cli/backups"
	"github.com/julianstephens/habitlog/internal/cli/exports"
	"github.com/julianstephens/habitlog/internal/cli/reminders"
	"github.com/julianstephens/habitlog/internal/cli/system"
	"github.com/julianstephens/habitlog/internal/constants"
	apperrors "github.com/julianstephens/habitlog/internal/errors"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/tracking"
	"github.com/julianstephens/habitlog/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	DataDir  string `help:"Directory holding user data, backups and logs." type:"path" default:"${data_dir}" env:"HABITLOG_DATA_DIR"`
	Backend  string `help:"Storage backend." enum:"csv,sqlite,postgres" default:"csv" env:"HABITLOG_BACKEND"`
	DSN      string `name:"dsn" help:"PostgreSQL connection string. Must NOT embed a password; use the OS keyring, PGPASSWORD or .pgpass instead." env:"HABITLOG_DB_CONNECTION"`
	User     string `help:"Username (4-20 letters and digits)." default:"${user}" env:"HABITLOG_USER"`
	Role     string `help:"Tracker catalog to use." enum:"student,adult,senior" default:"${role}" env:"HABITLOG_ROLE"`
	Timezone string `help:"IANA timezone that decides what 'today' is." default:"Local" env:"HABITLOG_TIMEZONE"`
	Debug    bool   `help:"Enable debug logging to stderr." env:"HABITLOG_DEBUG"`

	Init      system.InitCmd       `cmd:"" help:"Initialize habitlog storage."`
	Tui       system.TuiCmd        `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Trackers  activity.TrackersCmd `cmd:"" help:"List the trackers for your role."`
	Log       activity.LogCmd      `cmd:"" help:"Log a tracker value."`
	Today     activity.TodayCmd    `cmd:"" help:"Show today's progress."`
	Streak    activity.StreakCmd   `cmd:"" help:"Show the current streak."`
	Week      activity.WeekCmd     `cmd:"" help:"Show a tracker's last 7 days."`
	History   activity.HistoryCmd  `cmd:"" help:"Show a tracker's history."`
	Names     activity.NamesCmd    `cmd:"" help:"List every tracker name ever logged."`
	Remind    reminders.RemindCmd  `cmd:"" help:"Manage reminders."`
	Export    exports.ExportCmd    `cmd:"" help:"Export activities and reminders."`
	Backup    backups.BackupCmd    `cmd:"" help:"Manage backups."`
	Doctor    system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Keyring   system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL credential in the OS keyring."`
	DebugInfo system.DebugCmd      `cmd:"" help:"Debug commands for troubleshooting."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal habit and wellness tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, constants.DefaultConfigFile),
		kong.Vars{
			"version":  constants.Version,
			"data_dir": constants.DefaultDataDir,
			"user":     constants.DefaultUsername,
			"role":     constants.DefaultRole,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, DataDir: CLI.DataDir}); err != nil {
		apperrors.Fatalf("failed to initialize logger: %v", err)
	}

	command := ctx.Command()
	appCtx := &cli.Context{Backend: CLI.Backend, Out: os.Stdout}

	// Keyring commands manage the credential the postgres backend needs, so
	// they run without a store.
	if !strings.HasPrefix(command, "keyring") {
		store, err := cli.OpenStore(CLI.Backend, CLI.DataDir, CLI.DSN)
		if err != nil {
			apperrors.Fatal(err)
		}
		defer store.Close()

		// init creates the store and doctor reports load failures itself
		if !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "doctor") {
			if err := store.Load(); err != nil {
				apperrors.Fatal(err)
			}
		}

		loc, err := utils.LoadLocation(CLI.Timezone)
		if err != nil {
			apperrors.Fatal(err)
		}
		role, err := models.ParseRole(CLI.Role)
		if err != nil {
			apperrors.Fatal(err)
		}
		svc, err := tracking.New(store, CLI.User, role, tracking.WithClock(func() time.Time {
			return time.Now().In(loc)
		}))
		if err != nil {
			apperrors.Fatal(err)
		}

		appCtx.Store = store
		appCtx.Service = svc
	}

	logger.Debug("Running command", "command", command, "backend", CLI.Backend, "user", CLI.User)
	if err := ctx.Run(appCtx); err != nil {
		apperrors.Fatal(err)
	}
}

package constants

const (
	AppName            = "habitlog"
	DefaultKeyringUser = "database-connection"
	DefaultDataDir     = "~/.local/share/habitlog"
	DefaultConfigFile  = "~/.config/habitlog/config.json"
	DefaultUsername    = "default"
	DefaultRole        = "student"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Storage backends
	BackendCSV      = "csv"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	// Per-user file naming for the csv backend
	UsersDirName         = "users"
	ActivityFileSuffix   = "_data.csv"
	ReminderFileSuffix   = "_reminders.csv"
	SQLiteDatabaseName   = "habitlog.db"
	EnvPostgresDSN       = "HABITLOG_DB_CONNECTION"
	EnvPostgresTestDSN   = "HABITLOG_TEST_POSTGRES"
	PostgresSchema       = AppName
	PostgresConfigMarker = "postgresql"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitlog-"
	BackupFileSuffix = ".db"
	// csv data directories are archived instead of vacuumed
	BackupArchiveSuffix = ".zip"

	// Notify constants
	NotifierLockfileName   = "habitlog-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitlog"
	TrayExecutablePrefix   = "habitlog-tray"

	// Statistics
	DefaultHistoryDays = 30
	WeekDays           = 7
	TrendImproveFactor = 1.10
	TrendDeclineFactor = 0.90
)

// StreakMilestones are the streak lengths that earn a milestone, ascending.
var StreakMilestones = []int{3, 7, 14, 30, 100}

package backup

import (
	"archive/zip"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/storage/csvstore"
	"github.com/julianstephens/habitlog/internal/storage/sqlite"
)

var ErrUnsupportedBackend = errors.New("backups are not supported for this backend")

const (
	timestampMinute = "20060102-1504"
	timestampSecond = "20060102-150405"
)

type Kind int

const (
	// KindSQLite snapshots a database file with VACUUM INTO.
	KindSQLite Kind = iota
	// KindCSV archives the users/ tree of a csv data directory.
	KindCSV
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations
type Manager struct {
	kind      Kind
	source    string
	backupDir string
	now       func() time.Time
}

// NewSQLiteManager backs up the database at dbPath into a sibling backups/ dir.
func NewSQLiteManager(dbPath string) *Manager {
	return &Manager{
		kind:      KindSQLite,
		source:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		now:       time.Now,
	}
}

// NewCSVManager backs up the per-user csv files under dataDir.
func NewCSVManager(dataDir string) *Manager {
	return &Manager{
		kind:      KindCSV,
		source:    dataDir,
		backupDir: filepath.Join(dataDir, constants.BackupDirName),
		now:       time.Now,
	}
}

// ForStore picks the manager matching the store's backend.
func ForStore(p storage.Provider) (*Manager, error) {
	switch p.(type) {
	case *sqlite.Store:
		return NewSQLiteManager(p.GetConfigPath()), nil
	case *csvstore.Store:
		return NewCSVManager(p.GetConfigPath()), nil
	default:
		return nil, ErrUnsupportedBackend
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) Kind() Kind {
	return m.kind
}

func (m *Manager) suffix() string {
	if m.kind == KindCSV {
		return constants.BackupArchiveSuffix
	}
	return constants.BackupFileSuffix
}

func (m *Manager) usersDir() string {
	return filepath.Join(m.source, constants.UsersDirName)
}

// CreateBackup creates a new backup and prunes old ones
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// skipRotation is set by restore so the pre-restore snapshot cannot evict
// the backup being restored.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	src := m.source
	if m.kind == KindCSV {
		src = m.usersDir()
	}
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return "", fmt.Errorf("nothing to back up: %s does not exist", src)
	}

	backupPath, err := m.uniquePath()
	if err != nil {
		return "", err
	}

	switch m.kind {
	case KindSQLite:
		err = m.vacuumInto(backupPath)
	case KindCSV:
		err = m.archiveUsers(backupPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	logger.Info("Backup created", "path", backupPath)

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			// a failed prune does not invalidate the new backup
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

func (m *Manager) nameFor(stamp string) string {
	return constants.BackupFilePrefix + stamp + m.suffix()
}

// uniquePath tries minute precision, then seconds, then a counter.
func (m *Manager) uniquePath() (string, error) {
	now := m.now()
	path := filepath.Join(m.backupDir, m.nameFor(now.Format(timestampMinute)))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	stamp := now.Format(timestampSecond)
	path = filepath.Join(m.backupDir, m.nameFor(stamp))
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, m.nameFor(fmt.Sprintf("%s-%d", stamp, counter)))
	}
}

func (m *Manager) vacuumInto(destPath string) error {
	srcDB, err := sql.Open("sqlite", m.source+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer srcDB.Close()

	var count int
	if err := srcDB.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := srcDB.Exec("VACUUM INTO ?", destPath); err != nil {
		srcDB.Close()
		logger.Warn("VACUUM INTO failed, copying file instead", "error", err)
		return copyFile(m.source, destPath)
	}
	return nil
}

// archiveUsers zips users/ with slash-separated names relative to the data dir.
func (m *Manager) archiveUsers(destPath string) error {
	f, err := os.OpenFile(destPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)

	walkErr := filepath.WalkDir(m.usersDir(), func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(m.source, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})

	if err := zw.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if err := f.Close(); err != nil && walkErr == nil {
		walkErr = err
	}
	if walkErr != nil {
		os.Remove(destPath)
	}
	return walkErr
}

// parseStamp extracts the timestamp from a backup filename, ignoring any
// trailing collision counter.
func (m *Manager) parseStamp(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.suffix()) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.suffix())

	for _, layout := range []string{timestampMinute, timestampSecond} {
		if len(stamp) < len(layout) {
			continue
		}
		rest := stamp[len(layout):]
		if rest != "" && !isCounter(rest) {
			continue
		}
		if t, err := time.Parse(layout, stamp[:len(layout)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isCounter(s string) bool {
	if len(s) < 2 || s[0] != '-' {
		return false
	}
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ListBackups returns a list of all available backups, sorted by timestamp (newest first)
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := m.parseStamp(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	// names break ties between backups from the same second
	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].Path > backups[j].Path
	})

	return backups, nil
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Removed old backup", "path", backups[i].Path)
	}
	return nil
}

// ResolvePath accepts an absolute path, a path relative to the working
// directory, or a bare filename inside the backup directory.
func (m *Manager) ResolvePath(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("backup file not found: %s", name)
		}
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		return filepath.Abs(name)
	}
	inDir := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(inDir); err == nil {
		return inDir, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", m.backupDir)
}

// RestoreBackup replaces the live data with backupPath. The current data is
// backed up first. The store must be closed by the caller.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.VerifyBackup(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var preRestore string
	current := m.source
	if m.kind == KindCSV {
		current = m.usersDir()
	}
	if _, err := os.Stat(current); err == nil {
		p, err := m.createBackup(true)
		if err != nil {
			return "", fmt.Errorf("failed to backup current data before restore: %w", err)
		}
		preRestore = p
	}

	var err error
	switch m.kind {
	case KindSQLite:
		err = m.restoreFile(backupPath)
	case KindCSV:
		err = m.restoreArchive(backupPath)
	}
	if err != nil {
		return preRestore, err
	}
	logger.Info("Backup restored", "path", backupPath)
	return preRestore, nil
}

func (m *Manager) restoreFile(backupPath string) error {
	tempPath := m.source + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.source); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

// restoreArchive extracts into a staging dir, then swaps it with users/.
func (m *Manager) restoreArchive(backupPath string) error {
	staging, err := os.MkdirTemp(m.source, ".restore-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := extractArchive(backupPath, staging); err != nil {
		return fmt.Errorf("failed to extract backup: %w", err)
	}

	restored := filepath.Join(staging, constants.UsersDirName)
	if err := os.MkdirAll(restored, 0700); err != nil {
		return err
	}

	old := m.usersDir() + ".old"
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	if _, err := os.Stat(m.usersDir()); err == nil {
		if err := os.Rename(m.usersDir(), old); err != nil {
			return fmt.Errorf("failed to move current data aside: %w", err)
		}
	}
	if err := os.Rename(restored, m.usersDir()); err != nil {
		// put the original back
		if _, statErr := os.Stat(old); statErr == nil {
			_ = os.Rename(old, m.usersDir())
		}
		return fmt.Errorf("failed to restore data: %w", err)
	}
	return os.RemoveAll(old)
}

// VerifyBackup checks that path is a readable backup of this manager's kind.
func (m *Manager) VerifyBackup(path string) error {
	if m.kind == KindCSV {
		return verifyArchive(path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

// safeEntry rejects archive names that escape users/.
func safeEntry(name string) error {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("unsafe path in archive: %s", name)
	}
	if !strings.HasPrefix(clean, constants.UsersDirName+string(filepath.Separator)) {
		return fmt.Errorf("unexpected file in archive: %s", name)
	}
	return nil
}

func verifyArchive(path string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer zr.Close()
	for _, f := range zr.File {
		if err := safeEntry(f.Name); err != nil {
			return err
		}
	}
	return nil
}

func extractArchive(path, dest string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if err := safeEntry(f.Name); err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			continue
		}
		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(target), 0700); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

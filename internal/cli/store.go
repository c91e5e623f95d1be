package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/keyring"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/storage"
	"github.com/julianstephens/habitlog/internal/storage/csvstore"
	"github.com/julianstephens/habitlog/internal/storage/postgres"
	"github.com/julianstephens/habitlog/internal/storage/sqlite"
)

var ErrNoConnectionString = errors.New("no PostgreSQL connection string: pass --dsn, set " + constants.EnvPostgresDSN + " or run 'habitlog keyring set'")

// IsPostgresDSN reports whether s looks like a PostgreSQL URI or key=value DSN.
func IsPostgresDSN(s string) bool {
	return strings.HasPrefix(s, "postgres://") ||
		strings.HasPrefix(s, "postgresql://") ||
		strings.Contains(s, "host=") ||
		strings.Contains(s, "dbname=")
}

// ResolveDSN picks the connection string from the flag/env value, falling
// back to the keyring. Flag and env values must not carry a password; one
// stored for their account with 'habitlog keyring password' is merged in.
// The keyring is encrypted, so a stored connection string may carry one.
func ResolveDSN(dsn string) (string, error) {
	if dsn != "" {
		if _, err := postgres.ValidateConnString(dsn); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return "", fmt.Errorf("%w: use the OS keyring ('habitlog keyring password'), PGPASSWORD or .pgpass instead", err)
			}
			return "", err
		}
		merged, err := keyring.WithPassword(dsn)
		switch {
		case err == nil:
			logger.Debug("Using keyring password for connection", "account", accountName(dsn))
			return merged, nil
		case errors.Is(err, keyring.ErrNotFound), errors.Is(err, keyring.ErrNoAccountUser):
			// libpq falls back to PGPASSWORD and .pgpass
		default:
			logger.Warn("Keyring password lookup failed", "error", err)
		}
		return dsn, nil
	}

	stored, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoConnectionString
		}
		logger.Warn("Keyring lookup failed", "error", err)
		return "", ErrNoConnectionString
	}
	if _, err := postgres.ValidateConnString(stored); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
		return "", fmt.Errorf("connection string in keyring is invalid: %w", err)
	}
	return stored, nil
}

func accountName(dsn string) string {
	account, _ := keyring.Account(dsn)
	return account
}

// OpenStore builds the provider for backend without touching disk or network.
func OpenStore(backend, dataDir, dsn string) (storage.Provider, error) {
	switch backend {
	case constants.BackendCSV, "":
		return csvstore.New(dataDir), nil
	case constants.BackendSQLite:
		return sqlite.New(filepath.Join(dataDir, constants.SQLiteDatabaseName)), nil
	case constants.BackendPostgres:
		connStr, err := ResolveDSN(dsn)
		if err != nil {
			return nil, err
		}
		return postgres.New(connStr), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (must be csv, sqlite, or postgres)", backend)
	}
}

// OpenSource interprets a migration source: a PostgreSQL connection string,
// a SQLite database file, or a csv data directory.
func OpenSource(source string) (storage.Provider, error) {
	if IsPostgresDSN(source) {
		if _, err := postgres.ValidateConnString(source); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(source), nil
	}
	if strings.HasSuffix(source, ".db") {
		return sqlite.New(source), nil
	}
	return csvstore.New(source), nil
}

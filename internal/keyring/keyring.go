// Package keyring keeps PostgreSQL credentials in the OS keyring so they
// never have to live in a config file or shell history.
//
// Two kinds of entry are stored under the habitlog service name: one full
// connection string used when --dsn is absent, and per-account passwords
// merged into a password-free --dsn at connect time.
package keyring

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	pq "github.com/lib/pq"
	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitlog/internal/constants"
)

var (
	ErrNotFound           = errors.New("credentials not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	ErrNoAccountUser      = errors.New("connection string does not name a database user")
)

const passwordEntryPrefix = "password:"

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func get(entry string) (string, error) {
	v, err := keyring.Get(constants.AppName, entry)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

func set(entry, value string) error {
	if err := keyring.Set(constants.AppName, entry, value); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func remove(entry string) error {
	if err := keyring.Delete(constants.AppName, entry); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// GetConnectionString returns the stored connection string or ErrNotFound.
func GetConnectionString() (string, error) {
	return get(constants.DefaultKeyringUser)
}

func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return set(constants.DefaultKeyringUser, connStr)
}

func DeleteConnectionString() error {
	return remove(constants.DefaultKeyringUser)
}

// Account names the login dsn connects as, in the form user@host:port/dbname.
// Missing host and port take the libpq defaults.
func Account(dsn string) (string, error) {
	kv := dsn
	if isURL(dsn) {
		var err error
		if kv, err = pq.ParseURL(dsn); err != nil {
			return "", fmt.Errorf("invalid connection URL: %w", err)
		}
	}

	params := parseKeyValues(kv)
	user := params["user"]
	if user == "" {
		return "", ErrNoAccountUser
	}
	host := params["host"]
	if host == "" {
		host = "localhost"
	}
	port := params["port"]
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("%s@%s:%s/%s", user, host, port, params["dbname"]), nil
}

// SetPassword stores password for the account dsn connects as.
func SetPassword(dsn, password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	account, err := Account(dsn)
	if err != nil {
		return err
	}
	return set(passwordEntryPrefix+account, password)
}

// GetPassword returns the stored password for dsn's account or ErrNotFound.
func GetPassword(dsn string) (string, error) {
	account, err := Account(dsn)
	if err != nil {
		return "", err
	}
	return get(passwordEntryPrefix + account)
}

func DeletePassword(dsn string) error {
	account, err := Account(dsn)
	if err != nil {
		return err
	}
	return remove(passwordEntryPrefix + account)
}

// WithPassword returns dsn with its account's stored password filled in.
// On any error dsn is returned unchanged alongside it.
func WithPassword(dsn string) (string, error) {
	password, err := GetPassword(dsn)
	if err != nil {
		return dsn, err
	}

	if !isURL(dsn) {
		return strings.TrimSpace(dsn) + " password='" + quoteEscaper.Replace(password) + "'", nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return dsn, fmt.Errorf("invalid connection URL: %w", err)
	}
	if u.User != nil {
		u.User = url.UserPassword(u.User.Username(), password)
	} else {
		// user came from the query string
		q := u.Query()
		q.Set("password", password)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// IsAvailable reports whether the keyring answers a read. An empty keyring counts as available.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

func isURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// parseKeyValues reads a libpq key=value string. Values may be single-quoted
// with backslash escapes, which is what pq.ParseURL produces.
func parseKeyValues(s string) map[string]string {
	params := make(map[string]string)
	i := 0
	for i < len(s) {
		for i < len(s) && s[i] == ' ' {
			i++
		}
		eq := strings.IndexByte(s[i:], '=')
		if eq < 0 {
			break
		}
		key := strings.ToLower(strings.TrimSpace(s[i : i+eq]))
		i += eq + 1
		for i < len(s) && s[i] == ' ' {
			i++
		}

		var val strings.Builder
		if i < len(s) && s[i] == '\'' {
			i++
			for i < len(s) && s[i] != '\'' {
				if s[i] == '\\' && i+1 < len(s) {
					i++
				}
				val.WriteByte(s[i])
				i++
			}
			i++
		} else {
			for i < len(s) && s[i] != ' ' {
				val.WriteByte(s[i])
				i++
			}
		}
		params[key] = val.String()
	}
	return params
}

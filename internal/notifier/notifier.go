// Package notifier forwards due reminders to the desktop tray companion over
// its localhost webhook.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitlog/internal/constants"
	"github.com/julianstephens/habitlog/internal/models"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess

	ErrTrayNotRunning = errors.New(constants.TrayExecutablePrefix + " is not running")
)

type Notifier struct {
	client *http.Client
}

type WebhookPayload struct {
	RequestID  string `json:"request_id"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// trayLock is the parsed "port|pid|secret" lockfile written by the tray.
type trayLock struct {
	Port   int
	PID    int
	Secret string
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: 5 * time.Second}}
}

// Notify delivers text to the running tray app.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	lock, err := findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	return n.send(ctx, lock, WebhookPayload{
		RequestID:  uuid.NewString(),
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	})
}

// NotifyReminder formats and delivers a single reminder.
func (n *Notifier) NotifyReminder(ctx context.Context, r models.Reminder) error {
	return n.Notify(ctx, FormatReminder(r))
}

// FormatReminder renders the notification text for a reminder.
func FormatReminder(r models.Reminder) string {
	var b strings.Builder
	if r.Priority == models.PriorityHigh {
		b.WriteString("❗ ")
	} else {
		b.WriteString("⏰ ")
	}
	fmt.Fprintf(&b, "%s at %s", r.Title, r.Time)
	if r.TrackerLink != "" {
		fmt.Fprintf(&b, " (%s)", r.TrackerLink)
	}
	if r.Description != "" {
		b.WriteString("\n")
		b.WriteString(r.Description)
	}
	return b.String()
}

// GetTrayAppConfigDir returns the tray's config directory, honouring a
// custom lockfile_dir from its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}

	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil {
		if dir := store.Settings.LockfileDir; dir != nil && *dir != "" {
			return *dir, nil
		}
	}
	return trayConfigDir, nil
}

func parseLockfile(content string) (trayLock, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return trayLock{}, errors.New("lockfile is malformed")
	}

	if strings.TrimSpace(parts[0]) == "" {
		return trayLock{}, errors.New("port in lockfile is empty")
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return trayLock{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return trayLock{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return trayLock{}, errors.New("invalid process ID in lockfile")
	}

	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return trayLock{}, errors.New("secret in lockfile is empty")
	}

	return trayLock{Port: port, PID: pid, Secret: secret}, nil
}

func findAndValidateTrayProcess(lockfilePath string) (trayLock, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return trayLock{}, ErrTrayNotRunning
	}

	lock, err := parseLockfile(string(content))
	if err != nil {
		return trayLock{}, err
	}

	process, err := findProcessFunc(lock.PID)
	if err != nil || process == nil {
		return trayLock{}, fmt.Errorf("%w (stale lockfile for pid %d)", ErrTrayNotRunning, lock.PID)
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return trayLock{}, fmt.Errorf("process with PID %d is not %s (is %s)", lock.PID, constants.TrayExecutablePrefix, process.Executable())
	}

	return lock, nil
}

func (n *Notifier) send(ctx context.Context, lock trayLock, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("http://127.0.0.1:%d", lock.Port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Habitlog-Secret", lock.Secret)

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach tray app: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(msg))
}

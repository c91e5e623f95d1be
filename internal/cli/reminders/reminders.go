package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/models"
	"github.com/julianstephens/habitlog/internal/notifier"
	"github.com/julianstephens/habitlog/internal/utils"
)

type RemindCmd struct {
	Add     RemindAddCmd     `cmd:"" help:"Add a reminder."`
	List    RemindListCmd    `cmd:"" help:"List reminders." default:"1"`
	Due     RemindDueCmd     `cmd:"" help:"Show pending reminders due on a day."`
	Done    RemindDoneCmd    `cmd:"" help:"Mark a reminder completed."`
	Dismiss RemindDismissCmd `cmd:"" help:"Dismiss a reminder."`
	Notify  RemindNotifyCmd  `cmd:"" help:"Send due reminders to the tray app."`
}

type RemindAddCmd struct {
	Title       string `arg:"" help:"Reminder title."`
	Time        string `help:"Time of day (HH:MM)." required:""`
	Date        string `help:"Date, or first date for recurring reminders." default:"today"`
	Description string `help:"Longer description."`
	Recurrence  string `help:"once, daily or weekly." enum:"once,daily,weekly" default:"once"`
	Category    string `help:"Free-form category." default:"general"`
	Priority    string `help:"low, medium or high." enum:"low,medium,high" default:"medium"`
	Tracker     string `help:"Tracker this reminder is about."`
}

func (c *RemindAddCmd) Run(ctx *cli.Context) error {
	date, err := cli.ResolveDate(ctx.Service, c.Date)
	if err != nil {
		return err
	}
	r, err := ctx.Service.AddReminder(models.Reminder{
		Title:       c.Title,
		Description: c.Description,
		Date:        date,
		Time:        c.Time,
		Recurrence:  models.ReminderRecurrence(c.Recurrence),
		Category:    c.Category,
		Priority:    models.Priority(c.Priority),
		TrackerLink: c.Tracker,
	})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Reminder #%d added: %s on %s at %s (%s)\n", r.ID, r.Title, r.Date, r.Time, r.Recurrence)
	return nil
}

type RemindListCmd struct {
	Date string `help:"Only reminders scheduled on this date."`
	All  bool   `help:"Include completed and dismissed reminders."`
}

func (c *RemindListCmd) Run(ctx *cli.Context) error {
	var list []models.Reminder
	if c.Date != "" {
		date, err := cli.ResolveDate(ctx.Service, c.Date)
		if err != nil {
			return err
		}
		list = ctx.Service.RemindersFor(date)
	} else {
		list = ctx.Service.Reminders()
	}

	shown := 0
	for _, r := range list {
		if !c.All && r.Status != models.StatusPending {
			continue
		}
		printReminder(ctx, r)
		shown++
	}
	if shown == 0 {
		ctx.Println("No reminders.")
	}
	return nil
}

type RemindDueCmd struct {
	Date string `help:"Day to check." default:"today"`
}

func (c *RemindDueCmd) Run(ctx *cli.Context) error {
	date, err := cli.ResolveDate(ctx.Service, c.Date)
	if err != nil {
		return err
	}
	due := ctx.Service.DueReminders(date)
	if len(due) == 0 {
		ctx.Printf("Nothing due on %s.\n", date)
		return nil
	}
	for _, r := range due {
		printReminder(ctx, r)
	}
	return nil
}

type RemindDoneCmd struct {
	ID int `arg:"" help:"Reminder id."`
}

func (c *RemindDoneCmd) Run(ctx *cli.Context) error {
	if err := ctx.Service.SetReminderStatus(c.ID, models.StatusCompleted); err != nil {
		return err
	}
	ctx.Printf("✓ Reminder #%d completed\n", c.ID)
	return nil
}

type RemindDismissCmd struct {
	ID int `arg:"" help:"Reminder id."`
}

func (c *RemindDismissCmd) Run(ctx *cli.Context) error {
	if err := ctx.Service.SetReminderStatus(c.ID, models.StatusDismissed); err != nil {
		return err
	}
	ctx.Printf("✓ Reminder #%d dismissed\n", c.ID)
	return nil
}

// Sender delivers notification text. *notifier.Notifier satisfies it.
type Sender interface {
	Notify(ctx context.Context, text string) error
}

type RemindNotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
	// Window is how far ahead of a reminder's time it is sent.
	Window time.Duration `help:"Send reminders due within this window." default:"1m"`

	sender Sender
}

func (c *RemindNotifyCmd) Run(ctx *cli.Context) error {
	now := ctx.Service.Now()
	nowMinutes := now.Hour()*60 + now.Minute()
	window := int(c.Window.Minutes())

	sender := c.sender
	if sender == nil {
		sender = notifier.New()
	}

	sent := 0
	for _, r := range ctx.Service.DueReminders(ctx.Service.CurrentDate()) {
		at, err := utils.ParseTimeToMinutes(r.Time)
		if err != nil {
			continue
		}
		if at < nowMinutes || at > nowMinutes+window {
			continue
		}

		msg := notifier.FormatReminder(r)
		if c.DryRun {
			ctx.Println("[DryRun] " + strings.ReplaceAll(msg, "\n", " - "))
			sent++
			continue
		}
		if err := sender.Notify(context.Background(), msg); err != nil {
			if errors.Is(err, notifier.ErrTrayNotRunning) {
				return fmt.Errorf("cannot deliver reminders: %w", err)
			}
			// keep going so one bad delivery doesn't hide the rest
			logger.Warn("Failed to send notification", "reminder", r.ID, "error", err)
			continue
		}
		sent++
	}

	if c.DryRun && sent == 0 {
		ctx.Println("No reminders due right now.")
	}
	logger.Debug("Reminder notifications processed", "sent", sent)
	return nil
}

func printReminder(ctx *cli.Context, r models.Reminder) {
	line := fmt.Sprintf("#%-3d %s %s  %-28s %-7s %-6s %s", r.ID, r.Date, r.Time, r.Title, r.Recurrence, r.Priority, r.Status)
	if r.TrackerLink != "" {
		line += "  → " + r.TrackerLink
	}
	ctx.Println(line)
}

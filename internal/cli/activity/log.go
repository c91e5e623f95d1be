package activity

import (
	"fmt"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/tui"
)

type LogCmd struct {
	Value       LogValueCmd       `cmd:"" default:"withargs" help:"Log a value for a tracker."`
	Interactive LogInteractiveCmd `cmd:"" help:"Pick a tracker and enter a value in a form."`
}

type LogValueCmd struct {
	Tracker string `arg:"" help:"Tracker name (quote names with spaces)."`
	Value   string `arg:"" help:"Value to log. Checkbox trackers take yes/no, time trackers HH:MM."`
	Date    string `help:"Date to log for (YYYY-MM-DD, today, yesterday)." default:"today"`
	Notes   string `help:"Optional note stored with the entry."`
}

func (c *LogValueCmd) Run(ctx *cli.Context) error {
	tracker, err := ctx.Service.Tracker(c.Tracker)
	if err != nil {
		return err
	}
	value, err := cli.ParseValue(tracker, c.Value)
	if err != nil {
		return err
	}
	date, err := cli.ResolveDate(ctx.Service, c.Date)
	if err != nil {
		return err
	}
	return logAndReport(ctx, tracker.Name, value, date, c.Notes)
}

type LogInteractiveCmd struct{}

func (c *LogInteractiveCmd) Run(ctx *cli.Context) error {
	entry := &tui.LogFormModel{Date: ctx.Service.CurrentDate()}
	if err := tui.NewLogForm(ctx.Service.Trackers(), entry).Run(); err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}

	tracker, err := ctx.Service.Tracker(entry.Tracker)
	if err != nil {
		return err
	}
	value, err := cli.ParseValue(tracker, entry.Value)
	if err != nil {
		return err
	}
	return logAndReport(ctx, tracker.Name, value, entry.Date, entry.Notes)
}

func logAndReport(ctx *cli.Context, name string, value float64, date, notes string) error {
	res, err := ctx.Service.Log(name, value, date, notes)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		ctx.Printf("⚠ %s\n", w)
	}

	a := res.Activity
	status := "logged"
	if a.Completed {
		status = "goal met"
	}
	ctx.Printf("✓ %s: %s %s on %s (%s)\n", a.TrackerName, cli.FormatValue(a.TrackerType, a.Value), a.Unit, a.Date, status)
	return nil
}

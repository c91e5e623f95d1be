package activity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/utils"
)

const barWidth = 20

type TrackersCmd struct{}

func (c *TrackersCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Trackers for %s (%s):\n\n", ctx.Service.Username(), ctx.Service.Role())
	for _, t := range ctx.Service.Trackers() {
		goal := cli.FormatValue(string(t.Kind), t.Goal)
		ctx.Printf("  %s %-24s %-9s goal %s %s  [%s]\n", t.Icon, t.Name, t.Kind, goal, t.Unit, t.Category)
	}
	return nil
}

type TodayCmd struct {
	Date string `help:"Show another day instead (YYYY-MM-DD, yesterday)." default:"today"`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	date, err := cli.ResolveDate(ctx.Service, c.Date)
	if err != nil {
		return err
	}
	snap := ctx.Service.Day(date)

	ctx.Printf("%s for %s\n\n", snap.Date, ctx.Service.Username())
	for _, p := range snap.Trackers {
		mark := " "
		if p.Completed {
			mark = "✓"
		}
		logged := "-"
		if p.Entries > 0 {
			logged = cli.FormatValue(string(p.Tracker.Kind), p.Value)
		}
		ctx.Printf("%s %-24s %s %5.1f%%  %s %s\n", mark, p.Tracker.Name, cli.ProgressBar(p.Percent, barWidth), p.Percent, logged, p.Tracker.Unit)
	}

	ctx.Println()
	if len(snap.Records) == 0 {
		ctx.Println("Nothing logged yet.")
	} else {
		ctx.Printf("Daily average: %.1f%% (%s)\n", snap.Average, snap.Category)
	}
	ctx.Printf("Streak: %d day(s)", snap.Streak)
	if snap.Milestone > 0 {
		ctx.Printf("  🏆 %d-day milestone", snap.Milestone)
	}
	ctx.Println()
	return nil
}

type StreakCmd struct {
	Tracker string `help:"Limit the streak to one tracker."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	label := "Overall"
	if c.Tracker != "" {
		if _, err := ctx.Service.Tracker(c.Tracker); err != nil {
			return err
		}
		label = c.Tracker
	}
	ctx.Printf("%s streak: %d day(s)\n", label, ctx.Service.Streak(c.Tracker))
	return nil
}

type WeekCmd struct {
	Tracker string `arg:"" help:"Tracker to summarise."`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	rep, err := ctx.Service.Week(c.Tracker)
	if err != nil {
		return err
	}
	tracker, _ := ctx.Service.Tracker(c.Tracker)

	ctx.Printf("%s, %s to %s\n\n", rep.Tracker, rep.Start, rep.End)
	days, err := utils.DateRange(rep.Start, rep.End)
	if err != nil {
		return err
	}
	for _, d := range days {
		v, ok := rep.Daily[d]
		shown := "-"
		if ok {
			shown = cli.FormatValue(string(tracker.Kind), v)
		}
		ctx.Printf("  %s  %s\n", d, shown)
	}

	s := rep.Summary
	ctx.Println()
	ctx.Printf("Days logged: %d/7   Total: %g   Average: %.2f   Max: %g   Min: %g\n", s.DaysLogged, s.Total, s.Average, s.Max, s.Min)
	ctx.Printf("Trend: %s   Completion rate: %.0f%%   Streak: %d\n", rep.Trend, rep.CompletionRate, rep.Streak)
	return nil
}

type HistoryCmd struct {
	Tracker string `arg:"" help:"Tracker name. Names no longer in the catalog are allowed."`
	Days    int    `help:"How many days back to look." default:"30"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if c.Days < 0 {
		return fmt.Errorf("--days must not be negative")
	}
	records := ctx.Service.History(c.Tracker, c.Days)
	if len(records) == 0 {
		ctx.Printf("No %s entries in the last %d days.\n", c.Tracker, c.Days)
		return nil
	}
	for _, r := range records {
		line := fmt.Sprintf("%s  %-8s %s", r.Date, cli.FormatValue(r.TrackerType, r.Value), r.Unit)
		if r.Completed {
			line += "  ✓"
		}
		if r.Notes != "" {
			line += "  " + r.Notes
		}
		ctx.Println(line)
	}
	return nil
}

type NamesCmd struct {
	Sorted bool `help:"Sort alphabetically instead of first-logged order."`
}

func (c *NamesCmd) Run(ctx *cli.Context) error {
	names := ctx.Service.TrackerNames()
	if len(names) == 0 {
		ctx.Println("No activity logged yet.")
		return nil
	}
	if c.Sorted {
		names = append([]string(nil), names...)
		sort.Strings(names)
	}

	var orphaned []string
	for _, n := range names {
		if _, err := ctx.Service.Tracker(n); err != nil {
			orphaned = append(orphaned, n)
			ctx.Printf("%s  (not in %s catalog)\n", n, ctx.Service.Role())
			continue
		}
		ctx.Println(n)
	}
	if len(orphaned) > 0 {
		ctx.Printf("\n%d name(s) outside the current catalog: %s\n", len(orphaned), strings.Join(orphaned, ", "))
	}
	return nil
}

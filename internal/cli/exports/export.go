package exports

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/export"
	"github.com/julianstephens/habitlog/internal/logger"
)

type ExportCmd struct {
	CSV  ExportCSVCmd  `cmd:"" name:"csv" help:"Export activity records as CSV."`
	JSON ExportJSONCmd `cmd:"" name:"json" help:"Export activities and reminders as JSON."`
}

type ExportCSVCmd struct {
	Tracker string `help:"Only export this tracker."`
	Out     string `help:"Write to a file instead of stdout." type:"path"`
}

func (c *ExportCSVCmd) Run(ctx *cli.Context) error {
	records := ctx.Service.AllActivities()
	return withOutput(ctx, c.Out, func(w io.Writer) error {
		if c.Tracker != "" {
			return export.TrackerCSV(w, records, c.Tracker)
		}
		return export.ActivitiesCSV(w, records)
	})
}

type ExportJSONCmd struct {
	ActivitiesOnly bool   `help:"Write a bare array of activity records."`
	Out            string `help:"Write to a file instead of stdout." type:"path"`
}

func (c *ExportJSONCmd) Run(ctx *cli.Context) error {
	svc := ctx.Service
	return withOutput(ctx, c.Out, func(w io.Writer) error {
		if c.ActivitiesOnly {
			return export.ActivitiesJSON(w, svc.AllActivities())
		}
		doc := export.NewDocument(svc.Username(), svc.Role(), svc.Now(), svc.AllActivities(), svc.Reminders())
		return export.JSON(w, doc)
	})
}

// withOutput writes to path through a temp file and rename, or to the
// context writer when path is empty.
func withOutput(ctx *cli.Context, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(ctx.Writer())
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	logger.Info("Export written", "path", path)
	ctx.Printf("✓ Exported to %s\n", path)
	return nil
}

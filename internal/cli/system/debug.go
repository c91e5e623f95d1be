package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitlog/internal/cli"
	"github.com/julianstephens/habitlog/internal/logger"
)

type DebugCmd struct {
	Paths DebugPathsCmd `cmd:"" help:"Show storage and log paths." default:"1"`
	Day   DebugDayCmd   `cmd:"" help:"Dump a day's snapshot as JSON."`
}

type DebugPathsCmd struct{}

func (cmd *DebugPathsCmd) Run(ctx *cli.Context) error {
	output := map[string]string{
		"backend": ctx.Backend,
		"path":    ctx.Store.GetConfigPath(),
		"log":     logger.Path(),
		"user":    ctx.Service.Username(),
		"role":    string(ctx.Service.Role()),
	}
	return dumpJSON(ctx, output)
}

type DebugDayCmd struct {
	Date string `arg:"" optional:"" help:"Date to dump (YYYY-MM-DD, 'today' or 'yesterday')."`
}

func (cmd *DebugDayCmd) Run(ctx *cli.Context) error {
	date, err := cli.ResolveDate(ctx.Service, cmd.Date)
	if err != nil {
		return err
	}
	return dumpJSON(ctx, ctx.Service.Day(date))
}

func dumpJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

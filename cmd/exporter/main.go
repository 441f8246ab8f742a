// Command exporter writes the Excel workbook of every downloadable
// consolidated period into the export directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/garyjia/closing-dashboard/internal/config"
	"github.com/garyjia/closing-dashboard/internal/container"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
	"github.com/garyjia/closing-dashboard/pkg/utils"
)

type options struct {
	ConfigPath string
	OutputDir  string
	Year       int
	Tasks      bool
	Force      bool
}

func main() {
	opts := parseFlags()

	if err := run(opts); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.ConfigPath, "config", "", "path to the YAML configuration file (defaults only when empty)")
	flag.StringVar(&opts.OutputDir, "out", "", "export directory (overrides export.output_dir)")
	flag.IntVar(&opts.Year, "year", 0, "only export periods of this fiscal year")
	flag.BoolVar(&opts.Tasks, "tasks", true, "also export the BU task list")
	flag.BoolVar(&opts.Force, "force", false, "rewrite workbooks of closed periods that were already exported")
	flag.Parse()
	return opts
}

func run(opts options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.OutputDir != "" {
		cfg.Export.OutputDir = opts.OutputDir
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{Level: "warn", OutputPath: "stderr", Format: "console"})
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	if err := c.Start(ctx); err != nil {
		return err
	}
	defer c.Close()

	reports, err := c.Repositories().Consolidated.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list consolidated reports: %w", err)
	}
	var targets []entity.ConsolidatedReport
	for _, r := range reports {
		if r.Downloadable() && (opts.Year == 0 || r.Year == opts.Year) {
			targets = append(targets, r)
		}
	}
	if len(targets) == 0 {
		fmt.Println("No downloadable periods to export")
		return nil
	}

	bar := progressbar.NewOptions(len(targets),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]Exporting workbooks...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("workbooks"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	exports := c.Services().Export
	failed, kept := 0, 0
	for _, r := range targets {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		saved, err := exports.SaveConsolidated(ctx, r.ID, opts.Force)
		switch {
		case err != nil:
			failed++
			logger.Warn("Export failed", zap.String("period", r.Period), zap.Error(err))
		case saved.Kept:
			kept++
		}
		_ = bar.Add(1)
	}

	if opts.Tasks {
		saved, err := exports.SaveTasks(ctx)
		if err != nil {
			return fmt.Errorf("failed to export task workbook: %w", err)
		}
		fmt.Printf("Task list written to %s\n", saved.FullPath)
	}

	fmt.Printf("Exported %d of %d periods to %s (%d already up to date)\n",
		len(targets)-failed-kept, len(targets), cfg.Export.OutputDir, kept)
	if failed > 0 {
		return fmt.Errorf("%d exports failed", failed)
	}
	return nil
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mitkury/markpage/internal/builder"
	"github.com/mitkury/markpage/internal/ui"
)

func newBuildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build the site: navigation, content bundle, page manifest and HTML pages",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Rebuild pages even if they are up to date"},
			&cli.BoolFlag{Name: "clean", Usage: "Delete output directory before building"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Parse and render without writing files"},
			&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "Maximum pages rendered at once (0 = config)"},
			&cli.BoolFlag{Name: "progress", Usage: "Show a progress bar instead of per-page lines"},
			attributesFlag(),
			renderFlag(),
		},
		Action: buildAction,
	}
}

func buildAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	printer := ui.NewBuildPrinter(dryRun, cmd.Bool("verbose"))
	opts := builder.Options{
		Force:       cmd.Bool("force"),
		DryRun:      dryRun,
		Clean:       cmd.Bool("clean"),
		MaxParallel: cmd.Int("parallel"),
		OnEvent:     printer.HandleEvent,
		Logger:      slog.Default(),
	}

	var bar *ui.BuildProgress
	if cmd.Bool("progress") {
		bar = ui.NewBuildProgress(os.Stderr)
		opts.OnEvent = bar.HandleEvent
	}

	result, err := builder.Run(ctx, cfg, opts)
	if bar != nil {
		bar.Done()
	}
	printer.PrintSummary(result)
	return err
}

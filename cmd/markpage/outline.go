package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mitkury/markpage/internal/ui"
)

func newOutlineCommand() *cli.Command {
	return &cli.Command{
		Name:      "outline",
		Usage:     "Show the headings of a page, and its components with --verbose",
		ArgsUsage: "<page>",
		Flags: []cli.Flag{
			configFlag(),
			jsonFlag(),
		},
		Action: outlineAction,
	}
}

func outlineAction(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1, "outline <page>"); err != nil {
		return err
	}

	_, m, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	page, err := findPage(m, cmd.Args().First())
	if err != nil {
		return err
	}

	return ui.RenderOutline(os.Stdout, page, ui.ListOptions{
		JSON:    cmd.Bool("json"),
		Verbose: cmd.Bool("verbose"),
	})
}

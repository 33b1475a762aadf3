package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mitkury/markpage/internal/navigation"
	"github.com/mitkury/markpage/internal/ui"
)

func newNavCommand() *cli.Command {
	return &cli.Command{
		Name:      "nav",
		Usage:     "Show the navigation tree of the content directory",
		ArgsUsage: "[section]",
		Flags: []cli.Flag{
			configFlag(),
			jsonFlag(),
		},
		Action: navAction,
	}
}

func navAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	tree, err := navigation.Build(cfg.Content, navigation.Options{
		AutoDiscover:  cfg.AutoDiscover,
		ValidateFiles: cfg.ValidateFiles,
		Exclude:       cfg.Exclude,
	})
	if err != nil {
		return err
	}

	if section := cmd.Args().First(); section != "" {
		tree = navigation.NewTree(tree.Children(section))
	}

	return ui.RenderNavigation(os.Stdout, tree, ui.ListOptions{
		JSON:    cmd.Bool("json"),
		Verbose: cmd.Bool("verbose"),
	})
}

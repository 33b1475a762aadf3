package main

import (
	"context"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/mitkury/markpage/internal/builder"
	"github.com/mitkury/markpage/internal/search"
	"github.com/mitkury/markpage/internal/ui"
)

const defaultSearchLimit = 20

func newSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search page metadata or markdown source of the built site",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			configFlag(),
			jsonFlag(),
			&cli.StringFlag{
				Name:  "section",
				Usage: "Search only pages under this directory",
			},
			&cli.BoolFlag{
				Name:  "content",
				Usage: "Search markdown source instead of metadata",
			},
			&cli.BoolFlag{
				Name:  "regex",
				Usage: "Treat query as regex (requires --content)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Max results (0 = unlimited)",
				Value: defaultSearchLimit,
			},
		},
		Action: searchAction,
	}
}

func searchAction(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1, "search <query>"); err != nil {
		return err
	}

	query := strings.TrimSpace(cmd.Args().First())
	if cmd.Bool("regex") && !cmd.Bool("content") {
		return oops.
			Code("INVALID_ARGS").
			Hint("--regex requires --content flag").
			Errorf("--regex can only be used with --content")
	}

	cfg, m, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	opts := ui.ListOptions{JSON: cmd.Bool("json"), Verbose: cmd.Bool("verbose")}

	if cmd.Bool("content") {
		bundle, err := builder.LoadContent(cfg.Output)
		if err != nil {
			return err
		}
		results, err := search.Content(m, bundle, search.ContentOptions{
			Query:    query,
			Section:  cmd.String("section"),
			UseRegex: cmd.Bool("regex"),
			Limit:    cmd.Int("limit"),
		})
		if err != nil {
			return err
		}
		return ui.RenderContentResults(os.Stdout, results, opts)
	}

	results, err := search.Metadata(m, search.MetadataOptions{
		Query:   query,
		Section: cmd.String("section"),
		Limit:   cmd.Int("limit"),
	})
	if err != nil {
		return err
	}
	return ui.RenderMetadataResults(os.Stdout, results, opts)
}

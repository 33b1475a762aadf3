package main

import (
	"context"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mitkury/markpage/internal/manifest"
	"github.com/mitkury/markpage/internal/ui"
)

func newPagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "pages",
		Usage: "List the pages of the built site",
		Flags: []cli.Flag{
			configFlag(),
			jsonFlag(),
			&cli.StringFlag{Name: "section", Usage: "List only pages under this directory"},
			&cli.StringFlag{Name: "component", Usage: "List only pages using this component"},
			&cli.IntFlag{Name: "limit", Usage: "Limit number of results (0 = all)"},
		},
		Action: pagesAction,
	}
}

func pagesAction(_ context.Context, cmd *cli.Command) error {
	_, m, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	pages := filterPages(m.Pages, cmd.String("section"), cmd.String("component"))
	if limit := cmd.Int("limit"); limit > 0 && len(pages) > limit {
		pages = pages[:limit]
	}

	return ui.RenderPages(os.Stdout, pages, ui.ListOptions{
		JSON:    cmd.Bool("json"),
		Verbose: cmd.Bool("verbose"),
	})
}

func filterPages(pages []*manifest.Page, section, componentName string) []*manifest.Page {
	prefix := strings.Trim(section, "/")
	if prefix != "" {
		prefix += "/"
	}

	out := make([]*manifest.Page, 0, len(pages))
	for _, page := range pages {
		if !strings.HasPrefix(page.Path, prefix) {
			continue
		}
		if componentName != "" && !usesComponent(page, componentName) {
			continue
		}
		out = append(out, page)
	}
	return out
}

func usesComponent(page *manifest.Page, name string) bool {
	for _, used := range page.ComponentNames() {
		if used == name {
			return true
		}
	}
	return false
}

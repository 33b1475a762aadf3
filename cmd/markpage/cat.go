package main

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/mitkury/markpage/internal/builder"
	"github.com/mitkury/markpage/internal/ui"
)

func newCatCommand() *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Usage:     "Print the markdown source of a page from the built site",
		ArgsUsage: "<page>",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON with metadata",
			},
			&cli.BoolFlag{
				Name:  "no-line-numbers",
				Usage: "Don't show line numbers",
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Start at line N (0-based)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Show N lines (0 = all)",
			},
		},
		Action: catAction,
	}
}

type catOutput struct {
	Path       string   `json:"path"`
	Label      string   `json:"label"`
	Type       string   `json:"type"`
	Lines      int      `json:"lines"`
	Size       int64    `json:"size"`
	Components []string `json:"components,omitempty"`
	Content    string   `json:"content"`
	Offset     int      `json:"offset"`
	Limit      int      `json:"limit"`
}

func catAction(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1, "cat <page>"); err != nil {
		return err
	}

	cfg, m, err := loadManifest(cmd)
	if err != nil {
		return err
	}

	page, err := findPage(m, cmd.Args().First())
	if err != nil {
		return err
	}

	bundle, err := builder.LoadContent(cfg.Output)
	if err != nil {
		return err
	}

	content, ok := bundle[page.Path]
	if !ok {
		return oops.
			Code("PAGE_NOT_BUNDLED").
			With("page", page.Path).
			Hint("Run 'markpage build' to refresh content.json").
			Errorf("no source for page %q in the content bundle", page.Path)
	}

	offset := cmd.Int("offset")
	limit := cmd.Int("limit")
	lines := sliceLines(strings.Split(content, "\n"), offset, limit)

	if cmd.Bool("json") {
		return ui.RenderJSON(os.Stdout, catOutput{
			Path:       page.Path,
			Label:      page.Label,
			Type:       page.Type,
			Lines:      page.Lines,
			Size:       page.Size,
			Components: page.ComponentNames(),
			Content:    strings.Join(lines, "\n"),
			Offset:     offset,
			Limit:      limit,
		})
	}

	showLineNumbers := !cmd.Bool("no-line-numbers")
	for i, line := range lines {
		if showLineNumbers {
			_, _ = os.Stdout.WriteString(formatWithLineNumber(offset+i+1, line))
		} else {
			_, _ = os.Stdout.WriteString(line + "\n")
		}
	}
	return nil
}

func sliceLines(lines []string, offset, limit int) []string {
	if offset >= len(lines) {
		return []string{}
	}
	lines = lines[max(offset, 0):]
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	return lines
}

func formatWithLineNumber(lineNum int, content string) string {
	const lineNumWidth = 6
	const spacing = "  "
	return padLeft(lineNum, lineNumWidth) + spacing + content + "\n"
}

func padLeft(num, width int) string {
	s := strconv.Itoa(num)
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

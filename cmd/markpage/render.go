package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mitkury/markpage/internal/component"
	"github.com/mitkury/markpage/internal/lexer"
	"github.com/mitkury/markpage/internal/ui"
)

func newRenderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render a markdown file to an HTML fragment",
		ArgsUsage: "<file|->",
		Flags: []cli.Flag{
			configFlag(),
			attributesFlag(),
			renderFlag(),
		},
		Action: renderAction,
	}
}

func newSegmentsCommand() *cli.Command {
	return &cli.Command{
		Name:      "segments",
		Usage:     "Render a markdown file and split the HTML into HTML and component segments",
		ArgsUsage: "<file|->",
		Flags: []cli.Flag{
			configFlag(),
			attributesFlag(),
		},
		Action: segmentsAction,
	}
}

func renderAction(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1, "render <file|->"); err != nil {
		return err
	}

	out, _, err := renderFile(cmd, "")
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

// segmentsAction always renders in tags mode, since segments are found by
// scanning for component tags.
func segmentsAction(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1, "segments <file|->"); err != nil {
		return err
	}

	out, dialect, err := renderFile(cmd, lexer.RenderTags)
	if err != nil {
		return err
	}
	return ui.RenderJSON(os.Stdout, component.ScanHTML(string(out), dialect))
}

// renderFile lexes and renders the file named by the first argument. An
// empty mode uses the configured render mode.
func renderFile(cmd *cli.Command, mode lexer.RenderMode) ([]byte, component.Dialect, error) {
	cfg, err := fileConfig(cmd)
	if err != nil {
		return nil, component.DialectBraces, err
	}
	dialect := cfg.Dialect()
	if mode == "" {
		mode = cfg.RenderMode()
	}

	src, err := readSource(cmd.Args().First())
	if err != nil {
		return nil, dialect, err
	}

	lx := lexer.New(lexer.WithExtensions(lexer.ComponentExtensions(dialect)))
	return lexer.NewRenderer(mode, dialect).Render(lx.Lex(src)), dialect, nil
}

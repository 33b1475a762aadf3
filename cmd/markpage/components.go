package main

import (
	"context"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/mitkury/markpage/internal/lexer"
	"github.com/mitkury/markpage/internal/manifest"
	"github.com/mitkury/markpage/internal/parser"
	"github.com/mitkury/markpage/internal/ui"
)

func newComponentsCommand() *cli.Command {
	return &cli.Command{
		Name:      "components",
		Usage:     "Summarize component usage across the built site, or list the components of files",
		ArgsUsage: "[file...]",
		Flags: []cli.Flag{
			configFlag(),
			jsonFlag(),
			attributesFlag(),
		},
		Action: componentsAction,
	}
}

func componentsAction(_ context.Context, cmd *cli.Command) error {
	opts := ui.ListOptions{JSON: cmd.Bool("json"), Verbose: cmd.Bool("verbose")}

	if cmd.Args().Len() > 0 {
		return fileComponents(cmd, opts)
	}

	_, m, err := loadManifest(cmd)
	if err != nil {
		return err
	}
	return ui.RenderComponentUsage(os.Stdout, m.ComponentUsage(), opts)
}

type fileComponent struct {
	File string `json:"file"`
	parser.ComponentRef
}

func fileComponents(cmd *cli.Command, opts ui.ListOptions) error {
	cfg, err := fileConfig(cmd)
	if err != nil {
		return err
	}
	dialect := cfg.Dialect()
	parsers := manifest.Parsers(lexer.New(lexer.WithExtensions(lexer.ComponentExtensions(dialect))))

	var found []fileComponent
	for _, name := range cmd.Args().Slice() {
		content, err := readSource(name)
		if err != nil {
			return err
		}

		page := &manifest.Page{Path: name}
		result, err := page.Parse(content, parsers)
		if err != nil {
			return err
		}
		for _, ref := range result.Components {
			found = append(found, fileComponent{File: name, ComponentRef: ref})
		}
	}

	if opts.JSON {
		return ui.RenderJSON(os.Stdout, found)
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(os.Stdout)
	writer.SetStyle(table.StyleRounded)
	writer.AppendHeader(table.Row{"FILE", "LINE", "COMPONENT", "LEVEL", "ATTRIBUTES"})
	for _, c := range found {
		writer.AppendRow(table.Row{c.File, c.Line, c.Name, c.Level, lexer.FormatAttributes(c.Attrs, dialect)})
	}
	writer.Render()
	return nil
}

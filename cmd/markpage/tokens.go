package main

import (
	"context"
	"os"

	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v3"

	"github.com/mitkury/markpage/internal/lexer"
	"github.com/mitkury/markpage/internal/ui"
)

func newTokensCommand() *cli.Command {
	return &cli.Command{
		Name:      "tokens",
		Usage:     "Print the token tree of a markdown file",
		ArgsUsage: "<file|->",
		Flags: []cli.Flag{
			configFlag(),
			attributesFlag(),
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print with colors instead of JSON"},
		},
		Action: tokensAction,
	}
}

func tokensAction(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1, "tokens <file|->"); err != nil {
		return err
	}

	cfg, err := fileConfig(cmd)
	if err != nil {
		return err
	}

	src, err := readSource(cmd.Args().First())
	if err != nil {
		return err
	}

	lx := lexer.New(lexer.WithExtensions(lexer.ComponentExtensions(cfg.Dialect())))
	tree := lexer.Dump(lx.Lex(src))

	if cmd.Bool("pretty") {
		_, err := pp.Fprintln(os.Stdout, tree)
		return err
	}
	return ui.RenderJSON(os.Stdout, tree)
}

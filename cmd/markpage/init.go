package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/mitkury/markpage/internal/config"
)

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a starter markpage.toml in the current directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing config file"},
		},
		Action: initAction,
	}
}

func initAction(_ context.Context, cmd *cli.Command) error {
	dir, err := os.Getwd()
	if err != nil {
		return oops.Wrapf(err, "getting working directory")
	}

	path, err := config.WriteStarter(dir, cmd.Bool("force"))
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "created %s\n", path)
	return nil
}

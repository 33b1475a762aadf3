package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mitkury/markpage/internal/navigation"
)

func newValidateCommand() *cli.Command {
	return &cli.Command{
		Name:   "validate",
		Usage:  "Check the config and content structure without building",
		Flags:  []cli.Flag{configFlag()},
		Action: validateAction,
	}
}

func validateAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := navigation.Options{
		AutoDiscover:  cfg.AutoDiscover,
		ValidateFiles: cfg.ValidateFiles,
		Exclude:       cfg.Exclude,
	}
	if err := navigation.Validate(cfg.Content, opts); err != nil {
		return err
	}

	tree, err := navigation.Build(cfg.Content, opts)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s is valid: %d page(s)\n", cfg.Content, len(tree.Pages()))
	return nil
}

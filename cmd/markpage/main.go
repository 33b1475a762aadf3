package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/mitkury/markpage/internal/component"
	"github.com/mitkury/markpage/internal/config"
	"github.com/mitkury/markpage/internal/lexer"
)

var (
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	version = "dev"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	commit = "unknown"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	buildTime = "unknown"
)

func main() {
	if err := run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Hint() != "" {
			_, _ = fmt.Fprintln(os.Stderr, "hint:", oopsErr.Hint())
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	return newRootCommand().Run(context.Background(), args)
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "markpage",
		Usage:   "Build documentation sites from markdown with embedded components",
		Version: versionString(),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log debug output to stderr"},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			newBuildCommand(),
			newInitCommand(),
			newValidateCommand(),
			newNavCommand(),
			newPagesCommand(),
			newComponentsCommand(),
			newOutlineCommand(),
			newCatCommand(),
			newSearchCommand(),
			newTokensCommand(),
			newRenderCommand(),
			newSegmentsCommand(),
		},
	}
}

func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := slog.LevelWarn
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(os.Stderr, level))
	return ctx, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func configFlag() cli.Flag {
	return &cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file"}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output as JSON"}
}

func attributesFlag() cli.Flag {
	return &cli.StringFlag{Name: "attributes", Usage: "Attribute syntax: braces or legacy (overrides config)"}
}

func renderFlag() cli.Flag {
	return &cli.StringFlag{Name: "render", Usage: "Component rendering: tags or elements (overrides config)"}
}

// loadConfig loads the config named by --config, or the nearest one, and
// applies the --attributes and --render overrides when the command has them.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cmd *cli.Command, cfg *config.Config) error {
	if attrs := cmd.String("attributes"); attrs != "" {
		if _, ok := component.ParseDialect(attrs); !ok {
			return oops.
				Code("INVALID_ARGS").
				With("attributes", attrs).
				Hint("Use --attributes braces or --attributes legacy").
				Errorf("unknown attribute syntax %q", attrs)
		}
		cfg.Attributes = attrs
	}
	if mode := cmd.String("render"); mode != "" {
		if _, ok := lexer.ParseRenderMode(mode); !ok {
			return oops.
				Code("INVALID_ARGS").
				With("render", mode).
				Hint("Use --render tags or --render elements").
				Errorf("unknown render mode %q", mode)
		}
		cfg.Render = mode
	}
	return nil
}

// fileConfig returns the settings for commands that work on single files:
// the config file if one is found, else the defaults, with the command's
// overrides applied. A config file that exists but does not load is an error.
func fileConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	switch {
	case err == nil:
	case cmd.String("config") == "" && config.IsNotFound(err):
		cfg = config.Default()
	default:
		return nil, err
	}
	if err := applyOverrides(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildTime)
}

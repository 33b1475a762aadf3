package main

import (
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/mitkury/markpage/internal/config"
	"github.com/mitkury/markpage/internal/manifest"
)

// loadManifest loads the config and the page manifest of its built site.
func loadManifest(cmd *cli.Command) (*config.Config, *manifest.Manifest, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	m, err := manifest.Load(cfg.Output)
	if err != nil {
		return nil, nil, err
	}
	return cfg, m, nil
}

// findPage looks a page up by its path, with or without the .md extension.
func findPage(m *manifest.Manifest, pagePath string) (*manifest.Page, error) {
	pagePath = strings.TrimPrefix(pagePath, "./")
	for _, candidate := range []string{pagePath, pagePath + ".md", pagePath + ".mdx"} {
		if page := m.Find(candidate); page != nil {
			return page, nil
		}
	}

	return nil, oops.
		Code("PAGE_NOT_FOUND").
		With("page", pagePath).
		Hint("Run 'markpage pages' to see available pages").
		Errorf("page %q not found", pagePath)
}

func requireArgs(cmd *cli.Command, want int, usage string) error {
	if cmd.Args().Len() != want {
		return oops.
			Code("INVALID_ARGS").
			Hint("Usage: markpage " + usage).
			Errorf("expected %d argument(s), got %d", want, cmd.Args().Len())
	}
	return nil
}

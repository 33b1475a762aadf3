package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

const FileName = "markpage.toml"

const codeNotFound = "CONFIG_NOT_FOUND"

// IsNotFound reports whether err means no config file exists, as opposed to
// one that exists but cannot be loaded.
func IsNotFound(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	return ok && fmt.Sprint(oopsErr.Code()) == codeNotFound
}

func configFilenames() []string {
	return []string{FileName, ".markpage.toml"}
}

func Load(configPath string) (*Config, error) {
	resolvedPath, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}

	absConfigPath, err := filepath.Abs(resolvedPath)
	if err != nil {
		return nil, oops.Wrapf(err, "resolving absolute config path")
	}

	cfg := Default()
	k := koanf.New(".")

	if loadErr := k.Load(file.Provider(absConfigPath), toml.Parser()); loadErr != nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			With("path", absConfigPath).
			Hint("Fix TOML syntax and required fields in your config").
			Wrapf(loadErr, "loading config from %q", absConfigPath)
	}

	if unmarshalErr := k.Unmarshal("", cfg); unmarshalErr != nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			With("path", absConfigPath).
			Hint("Fix config structure to match the markpage schema").
			Wrapf(unmarshalErr, "decoding config from %q", absConfigPath)
	}

	cfg.ConfigDir = filepath.Dir(absConfigPath)
	cfg.ApplyDefaults()

	if valErr := cfg.Validate(); valErr != nil {
		return nil, valErr
	}

	cfg.Content = cfg.resolve(cfg.Content)
	cfg.Output = cfg.resolve(cfg.Output)

	return cfg, nil
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(c.ConfigDir, path))
}

func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", oops.Wrapf(err, "getting working directory")
	}

	for {
		foundPath, found, findErr := findConfigInDirectory(dir)
		if findErr != nil {
			return "", findErr
		}

		if found {
			return foundPath, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return "", oops.
				Code(codeNotFound).
				Hint("Run 'markpage init' to create a config file").
				Errorf("no markpage.toml or .markpage.toml found in any parent directory")
		}

		dir = parentDir
	}
}

func resolveConfigPath(configPath string) (string, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", oops.
					Code(codeNotFound).
					With("path", configPath).
					Hint("Create the file or pass a valid --config path").
					Errorf("config file %q does not exist", configPath)
			}

			return "", oops.Wrapf(err, "checking config file %q", configPath)
		}

		return configPath, nil
	}

	return FindConfigFile()
}

func findConfigInDirectory(dir string) (string, bool, error) {
	for _, name := range configFilenames() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, oops.Wrapf(err, "checking for config file at %q", path)
		}
	}

	return "", false, nil
}

const starter = `# markpage configuration

# Directory holding the markdown pages and their .index.json files.
content = "docs"

# Where build output is written.
output = ".markpage"

# Component attribute syntax: "braces" (title="x" count={3}) or
# "legacy" (count=3 open=true).
attributes = "braces"

# How components appear in rendered HTML: "tags" or "elements".
render = "tags"

auto_discover = true
validate_files = true
exclude = ["drafts/**"]

[site]
title = "Documentation"
include_index = true
`

// WriteStarter creates a starter markpage.toml in dir and returns its path.
func WriteStarter(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", oops.
				Code("CONFIG_EXISTS").
				With("path", path).
				Hint("Pass --force to overwrite it").
				Errorf("config file %q already exists", path)
		}
		return "", oops.Wrapf(err, "creating config file %q", path)
	}
	defer f.Close()

	if _, err := f.WriteString(starter); err != nil {
		return "", oops.Wrapf(err, "writing config file %q", path)
	}
	return path, nil
}

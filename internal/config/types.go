package config

import (
	"errors"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"

	"github.com/mitkury/markpage/internal/component"
	"github.com/mitkury/markpage/internal/lexer"
)

const (
	DefaultOutput     = ".markpage"
	DefaultParallel   = 4
	DefaultIndexTitle = "Contents"
	maxParallel       = 64
)

type Config struct {
	Content       string   `koanf:"content"        validate:"required"`
	Output        string   `koanf:"output"`
	AutoDiscover  bool     `koanf:"auto_discover"`
	ValidateFiles bool     `koanf:"validate_files"`
	Exclude       []string `koanf:"exclude"        validate:"dive,glob"`
	Attributes    string   `koanf:"attributes"     validate:"omitempty,dialect"`
	Render        string   `koanf:"render"         validate:"omitempty,oneof=tags elements"`
	Parallel      int      `koanf:"parallel"       validate:"gte=0,lte=64"`
	Site          Site     `koanf:"site"`
	ConfigDir     string   `koanf:"-"`
}

type Site struct {
	Title        string   `koanf:"title"`
	BaseURL      string   `koanf:"base_url"      validate:"omitempty,url"`
	CSS          []string `koanf:"css"`
	JS           []string `koanf:"js"`
	IndexTitle   string   `koanf:"index_title"`
	IncludeIndex bool     `koanf:"include_index"`
}

// Default returns a configuration with every default applied. Load decodes
// the file on top of it, so keys absent from the file keep these values.
func Default() *Config {
	return &Config{
		Output:        DefaultOutput,
		AutoDiscover:  true,
		ValidateFiles: true,
		Attributes:    component.DialectBraces.String(),
		Render:        string(lexer.RenderTags),
		Parallel:      DefaultParallel,
		Site: Site{
			IndexTitle:   DefaultIndexTitle,
			IncludeIndex: true,
		},
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		return doublestar.ValidatePattern(fl.Field().String())
	})
	_ = v.RegisterValidation("dialect", func(fl validator.FieldLevel) bool {
		_, ok := component.ParseDialect(fl.Field().String())
		return ok
	})

	return v
}

func (c *Config) ApplyDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Attributes == "" {
		c.Attributes = component.DialectBraces.String()
	}
	if c.Render == "" {
		c.Render = string(lexer.RenderTags)
	}
	if c.Parallel == 0 {
		c.Parallel = DefaultParallel
	}
	if c.Site.IndexTitle == "" {
		c.Site.IndexTitle = DefaultIndexTitle
	}
}

func (c *Config) Validate() error {
	valErr := newValidator().Struct(c)
	if valErr == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(valErr, &validationErrors) {
		return oops.
			Code("CONFIG_INVALID").
			Wrapf(valErr, "validating config")
	}

	for _, fe := range validationErrors {
		return mapValidationError(c, fe)
	}
	return nil
}

func mapValidationError(c *Config, fe validator.FieldError) error {
	field := strings.ToLower(fe.Field())

	switch {
	case fe.Tag() == "required" && field == "content":
		return oops.
			Code("CONFIG_INVALID").
			With("field", "content").
			Hint("Set content to the directory holding your markdown pages").
			Errorf("missing content directory")

	case fe.Tag() == "dialect":
		return oops.
			Code("CONFIG_INVALID").
			With("field", "attributes").
			With("value", c.Attributes).
			Hint("Supported attribute dialects: braces, legacy").
			Errorf("unknown attribute dialect %q", c.Attributes)

	case fe.Tag() == "oneof" && field == "render":
		return oops.
			Code("CONFIG_INVALID").
			With("field", "render").
			With("value", c.Render).
			Hint("Supported render modes: tags, elements").
			Errorf("unknown render mode %q", c.Render)

	case fe.Tag() == "glob":
		return oops.
			Code("CONFIG_INVALID").
			With("field", "exclude").
			With("value", fe.Value()).
			Hint("Exclude patterns use doublestar syntax, e.g. drafts/**").
			Errorf("invalid exclude pattern %q", fe.Value())

	case field == "parallel":
		return oops.
			Code("CONFIG_INVALID").
			With("field", "parallel").
			With("value", c.Parallel).
			Hint("Set parallel between 1 and 64").
			Errorf("parallel must be between 1 and %d, got %d", maxParallel, c.Parallel)

	case fe.Tag() == "url":
		return oops.
			Code("CONFIG_INVALID").
			With("field", "site.base_url").
			With("value", c.Site.BaseURL).
			Hint("Use an absolute URL such as https://docs.example.com").
			Errorf("invalid base_url %q", c.Site.BaseURL)

	default:
		return oops.
			Code("CONFIG_INVALID").
			With("field", field).
			With("tag", fe.Tag()).
			Errorf("validation failed for field %q", field)
	}
}

// Dialect returns the configured attribute dialect.
func (c *Config) Dialect() component.Dialect {
	d, _ := component.ParseDialect(c.Attributes)
	return d
}

func (c *Config) RenderMode() lexer.RenderMode {
	m, _ := lexer.ParseRenderMode(c.Render)
	return m
}

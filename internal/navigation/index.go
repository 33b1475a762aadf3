package navigation

import (
	"encoding/json"
	"errors"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
)

// IndexFileName is the per-directory file that lists a section's items.
const IndexFileName = ".index.json"

type ItemType string

const (
	TypeSection ItemType = "section"
	TypePage    ItemType = "page"
)

// DocItem is one entry of an .index.json file.
type DocItem struct {
	Name      string   `json:"name" validate:"required,excludesall=/\\"`
	Type      ItemType `json:"type" validate:"oneof=section page"`
	Label     string   `json:"label" validate:"required"`
	Collapsed bool     `json:"collapsed,omitempty"`
	URL       string   `json:"url,omitempty"`
}

type IndexFile struct {
	Items []DocItem `json:"items" validate:"required,dive"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// ReadIndex reads and validates an .index.json file.
func ReadIndex(path string) ([]DocItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.
			Code("INDEX_READ_ERROR").
			With("path", path).
			Wrapf(err, "reading %s", IndexFileName)
	}
	return ParseIndex(path, data)
}

// ParseIndex decodes and validates the contents of an .index.json file.
// path is only used for error context.
func ParseIndex(path string, data []byte) ([]DocItem, error) {
	var index IndexFile
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, oops.
			Code("INDEX_INVALID_JSON").
			With("path", path).
			Hint("Check the file is valid JSON").
			Wrapf(err, "invalid JSON in %s", IndexFileName)
	}

	if err := newValidator().Struct(index); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			field := strings.TrimPrefix(fe.Namespace(), "IndexFile.")
			return nil, oops.
				Code("INDEX_INVALID").
				With("path", path).
				With("field", field).
				Hint(`Each item needs a name, a label and a type of "section" or "page"`).
				Errorf("invalid %s format: %s failed %q", IndexFileName, field, fe.Tag())
		}
		return nil, oops.
			Code("INDEX_INVALID").
			With("path", path).
			Wrapf(err, "validating %s", IndexFileName)
	}

	return index.Items, nil
}

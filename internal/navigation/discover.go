package navigation

import (
	"errors"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/oops"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const markdownExt = ".md"

// Discover lists the items of dir when it has no .index.json: markdown files
// become pages and non-hidden directories become sections, each group sorted
// by name. index.md and readme.md are left out since they serve as section
// roots. rel is dir relative to the content root and is matched against the
// exclude patterns.
func Discover(dir, rel string, exclude []string) ([]DocItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oops.
				Code("SECTION_NOT_FOUND").
				With("path", dir).
				Errorf("section directory not found: %s", dir)
		}
		return nil, oops.
			Code("DISCOVER_FAILED").
			With("path", dir).
			Wrapf(err, "auto-discovering content")
	}

	var pages, sections []string
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case entry.Type().IsRegular() && strings.HasSuffix(name, markdownExt):
			base := strings.TrimSuffix(name, markdownExt)
			if isSectionRoot(base) || excluded(exclude, path.Join(rel, name)) {
				continue
			}
			pages = append(pages, base)
		case entry.IsDir() && !strings.HasPrefix(name, "."):
			if excluded(exclude, path.Join(rel, name)) {
				continue
			}
			sections = append(sections, name)
		}
	}

	col := collate.New(language.English)
	col.SortStrings(pages)
	col.SortStrings(sections)

	items := make([]DocItem, 0, len(pages)+len(sections))
	for _, name := range pages {
		items = append(items, DocItem{Name: name, Type: TypePage, Label: Label(name)})
	}
	for _, name := range sections {
		items = append(items, DocItem{Name: name, Type: TypeSection, Label: Label(name)})
	}
	return items, nil
}

// Label turns a file or directory name into a display label: dashes and
// underscores become spaces and each word starts with an upper case letter.
func Label(name string) string {
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return strings.TrimSpace(cases.Title(language.Und, cases.NoLower).String(spaced))
}

func isSectionRoot(base string) bool {
	lower := strings.ToLower(base)
	return lower == "index" || lower == "readme"
}

func excluded(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Package search looks up pages of a built site, fuzzily over their metadata
// or literally over their markdown source.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/oops"

	"github.com/mitkury/markpage/internal/manifest"
)

// MetadataResult is the best match of one page.
type MetadataResult struct {
	Path        string `json:"path"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	MatchField  string `json:"match_field"`
	MatchValue  string `json:"match_value"`
	Score       int    `json:"score"`
}

type MetadataOptions struct {
	Query string
	// Section limits the search to pages under this directory.
	Section string
	Limit   int
}

type indexEntry struct {
	Path        string
	Label       string
	Description string
	MatchField  string
	MatchValue  string
}

type searchIndex struct {
	entries []indexEntry
}

func (s searchIndex) String(i int) string {
	return s.entries[i].MatchValue
}

func (s searchIndex) Len() int {
	return len(s.entries)
}

// Metadata fuzzy-matches the query against page paths, labels, titles,
// descriptions, headings and component names.
func Metadata(m *manifest.Manifest, opts MetadataOptions) ([]MetadataResult, error) {
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil, oops.
			Code("INVALID_ARGS").
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	pages, err := sectionPages(m, opts.Section)
	if err != nil {
		return nil, err
	}

	index := buildIndex(pages)
	matches := fuzzy.FindFrom(query, index)

	deduped := make(map[string]MetadataResult)
	for _, match := range matches {
		if match.Score < 0 {
			continue
		}
		entry := index.entries[match.Index]

		if existing, exists := deduped[entry.Path]; !exists || match.Score > existing.Score {
			deduped[entry.Path] = MetadataResult{
				Path:        entry.Path,
				Label:       entry.Label,
				Description: entry.Description,
				MatchField:  entry.MatchField,
				MatchValue:  entry.MatchValue,
				Score:       match.Score,
			}
		}
	}

	results := make([]MetadataResult, 0, len(deduped))
	for _, result := range deduped {
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Path < results[j].Path
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

func buildIndex(pages []*manifest.Page) searchIndex {
	var entries []indexEntry
	for _, page := range pages {
		add := func(field, value string) {
			if value == "" {
				return
			}
			entries = append(entries, indexEntry{
				Path:        page.Path,
				Label:       page.Label,
				Description: page.Description,
				MatchField:  field,
				MatchValue:  value,
			})
		}

		add("path", page.Path)
		add("label", page.Label)
		if page.Title != page.Label {
			add("title", page.Title)
		}
		add("description", page.Description)

		if page.Outline != nil {
			for _, heading := range page.Outline.Headings {
				add("heading", heading.Text)
			}
		}
		for _, name := range page.ComponentNames() {
			add("component", name)
		}
	}
	return searchIndex{entries: entries}
}

// sectionPages returns the pages under section, or every page when section
// is empty.
func sectionPages(m *manifest.Manifest, section string) ([]*manifest.Page, error) {
	section = strings.Trim(section, "/")
	if section == "" {
		return m.Pages, nil
	}

	prefix := section + "/"
	var pages []*manifest.Page
	for _, page := range m.Pages {
		if strings.HasPrefix(page.Path, prefix) {
			pages = append(pages, page)
		}
	}
	if len(pages) == 0 {
		return nil, oops.
			Code("SECTION_NOT_FOUND").
			With("section", section).
			Hint("Run 'markpage nav' to see available sections").
			Errorf("section %q not found", section)
	}
	return pages, nil
}

package search

import (
	"regexp"
	"strings"

	"github.com/samber/oops"

	"github.com/mitkury/markpage/internal/manifest"
)

// ContentResult is one matching source line.
type ContentResult struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

type ContentOptions struct {
	Query    string
	Section  string
	UseRegex bool
	Limit    int
}

// Content searches the markdown source of each page, in manifest order.
// sources maps page paths to their content, as written to content.json.
// Literal queries and regular expressions both ignore case.
func Content(m *manifest.Manifest, sources map[string]string, opts ContentOptions) ([]ContentResult, error) {
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil, oops.
			Code("INVALID_ARGS").
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	match, err := matcher(query, opts.UseRegex)
	if err != nil {
		return nil, err
	}

	pages, err := sectionPages(m, opts.Section)
	if err != nil {
		return nil, err
	}

	var results []ContentResult
	for _, page := range pages {
		source, ok := sources[page.Path]
		if !ok {
			continue
		}

		for i, line := range strings.Split(source, "\n") {
			if !match(line) {
				continue
			}
			results = append(results, ContentResult{
				Path: page.Path,
				Line: i + 1,
				Text: strings.TrimRight(line, "\r"),
			})
			if opts.Limit > 0 && len(results) >= opts.Limit {
				return results, nil
			}
		}
	}

	return results, nil
}

func matcher(query string, useRegex bool) (func(string) bool, error) {
	if !useRegex {
		lower := strings.ToLower(query)
		return func(line string) bool {
			return strings.Contains(strings.ToLower(line), lower)
		}, nil
	}

	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		return nil, oops.
			Code("INVALID_REGEX").
			With("pattern", query).
			Wrapf(err, "compiling search pattern")
	}
	return re.MatchString, nil
}

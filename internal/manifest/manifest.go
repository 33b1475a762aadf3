package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/samber/oops"

	"github.com/mitkury/markpage/internal/atomicfile"
	"github.com/mitkury/markpage/internal/component"
	"github.com/mitkury/markpage/internal/parser"
)

const (
	CurrentVersion = "1.0.0"
	ManifestFile   = "pages.json"
)

// Manifest describes every page of a built site.
type Manifest struct {
	Version   string    `json:"version"`
	Generated time.Time `json:"generated"`
	Site      SiteInfo  `json:"site"`
	Pages     []*Page   `json:"pages"`
}

type SiteInfo struct {
	Title   string `json:"title,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
	Dialect string `json:"dialect"`
	Render  string `json:"render"`
}

// Page is the record of one rendered page. Path is the source file relative
// to the content directory; HTMLFile is the rendered file relative to the
// site directory.
type Page struct {
	Path        string                `json:"path"`
	Name        string                `json:"name"`
	Label       string                `json:"label"`
	HTMLFile    string                `json:"html_file,omitempty"`
	Type        string                `json:"type"`
	Size        int64                 `json:"size"`
	Lines       int                   `json:"lines"`
	Modified    time.Time             `json:"modified"`
	Title       string                `json:"title,omitempty"`
	Description string                `json:"description"`
	Warning     string                `json:"warning,omitempty"`
	Outline     *parser.Outline       `json:"outline,omitempty"`
	Components  []parser.ComponentRef `json:"components,omitempty"`
	Segments    []component.Segment   `json:"segments,omitempty"`
}

// ComponentNames returns the distinct component names used on the page.
func (p *Page) ComponentNames() []string {
	return (&parser.ParseResult{Components: p.Components}).ComponentNames()
}

// Usage summarizes how often a component appears across the site.
type Usage struct {
	Name   string
	Count  int
	Block  int
	Inline int
	Pages  []string
}

func New(site SiteInfo) *Manifest {
	return &Manifest{
		Version:   CurrentVersion,
		Generated: time.Now(),
		Site:      site,
		Pages:     []*Page{},
	}
}

// Find returns the page whose source path is path.
func (m *Manifest) Find(path string) *Page {
	for _, p := range m.Pages {
		if p.Path == path {
			return p
		}
	}
	return nil
}

// ComponentUsage counts component occurrences per name, most used first.
func (m *Manifest) ComponentUsage() []Usage {
	byName := make(map[string]*Usage)
	for _, page := range m.Pages {
		seen := make(map[string]bool)
		for _, ref := range page.Components {
			u := byName[ref.Name]
			if u == nil {
				u = &Usage{Name: ref.Name}
				byName[ref.Name] = u
			}
			u.Count++
			if ref.Level == component.LevelBlock.String() {
				u.Block++
			} else {
				u.Inline++
			}
			if !seen[ref.Name] {
				seen[ref.Name] = true
				u.Pages = append(u.Pages, page.Path)
			}
		}
	}

	usage := make([]Usage, 0, len(byName))
	for _, u := range byName {
		usage = append(usage, *u)
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].Name < usage[j].Name
	})
	return usage
}

func Load(outputDir string) (*Manifest, error) {
	manifestPath := Path(outputDir)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oops.
				Code("MANIFEST_NOT_FOUND").
				With("path", manifestPath).
				Hint("Run 'markpage build' to generate the page manifest").
				Errorf("manifest not found at %q", manifestPath)
		}

		return nil, oops.
			Code("MANIFEST_READ_ERROR").
			With("path", manifestPath).
			Wrapf(err, "reading manifest file")
	}

	m := &Manifest{}
	if unmarshalErr := json.Unmarshal(data, m); unmarshalErr != nil {
		return nil, oops.
			Code("MANIFEST_CORRUPTED").
			With("path", manifestPath).
			Hint("Run 'markpage build --force' to regenerate it").
			Wrapf(unmarshalErr, "parsing manifest file")
	}

	if m.Pages == nil {
		m.Pages = []*Page{}
	}

	return m, nil
}

func (m *Manifest) Save(outputDir string) error {
	if m == nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			Hint("Initialize manifest before saving").
			Errorf("cannot save nil manifest")
	}
	return atomicfile.WriteJSON(Path(outputDir), m)
}

func Path(outputDir string) string {
	return filepath.Join(outputDir, ManifestFile)
}

// Package navigation builds the navigation tree of a content directory from
// .index.json files, falling back to auto-discovery where they are missing.
package navigation

import (
	"os"
	"path"
	"path/filepath"

	"github.com/samber/oops"
)

// MaxDepth bounds how deeply sections may nest.
const MaxDepth = 10

// sectionRoots are the files that give a section its own page, by priority.
var sectionRoots = []string{"index.md", "README.md", "readme.md"}

type Options struct {
	// AutoDiscover lists directories that have no .index.json.
	AutoDiscover bool
	// ValidateFiles requires every page to exist on disk.
	ValidateFiles bool
	// Exclude holds doublestar patterns, relative to the content root, that
	// auto-discovery skips.
	Exclude []string
}

// Item is a node of the navigation tree. Path is slash separated and
// relative to the content root: the page file for pages, the section root
// file (if any) for sections.
type Item struct {
	Name      string   `json:"name"`
	Type      ItemType `json:"type"`
	Label     string   `json:"label"`
	Collapsed bool     `json:"collapsed,omitempty"`
	URL       string   `json:"url,omitempty"`
	Path      string   `json:"path,omitempty"`
	Items     []*Item  `json:"items,omitempty"`

	parent *Item
}

func (i *Item) Parent() *Item {
	return i.parent
}

func (i *Item) IsPage() bool {
	return i.Type == TypePage
}

// Build reads the navigation tree rooted at contentDir.
func Build(contentDir string, opts Options) (*Tree, error) {
	info, err := os.Stat(contentDir)
	if err != nil {
		return nil, oops.
			Code("CONTENT_NOT_FOUND").
			With("path", contentDir).
			Hint("Set content in markpage.toml to an existing directory").
			Wrapf(err, "content path does not exist: %s", contentDir)
	}
	if !info.IsDir() {
		return nil, oops.
			Code("CONTENT_NOT_DIR").
			With("path", contentDir).
			Errorf("content path is not a directory: %s", contentDir)
	}

	b := &treeBuilder{root: contentDir, opts: opts}
	items, err := b.section("", 0)
	if err != nil {
		return nil, err
	}
	return NewTree(items), nil
}

type treeBuilder struct {
	root string
	opts Options
}

func (b *treeBuilder) abs(rel string) string {
	return filepath.Join(b.root, filepath.FromSlash(rel))
}

// listing returns the items declared for the directory rel.
func (b *treeBuilder) listing(rel string) ([]DocItem, error) {
	dir := b.abs(rel)
	indexPath := filepath.Join(dir, IndexFileName)
	if isFile(indexPath) {
		return ReadIndex(indexPath)
	}
	if !b.opts.AutoDiscover {
		return nil, oops.
			Code("INDEX_NOT_FOUND").
			With("path", indexPath).
			Hint("Add a .index.json file or enable auto_discover").
			Errorf("%s not found: %s", IndexFileName, indexPath)
	}
	return Discover(dir, rel, b.opts.Exclude)
}

func (b *treeBuilder) section(rel string, depth int) ([]*Item, error) {
	if depth > MaxDepth {
		return nil, oops.
			Code("NAVIGATION_TOO_DEEP").
			With("path", b.abs(rel)).
			With("max_depth", MaxDepth).
			Errorf("maximum directory depth exceeded: %s", b.abs(rel))
	}

	docs, err := b.listing(rel)
	if err != nil {
		return nil, err
	}

	items := make([]*Item, 0, len(docs))
	for _, doc := range docs {
		item := &Item{
			Name:      doc.Name,
			Type:      doc.Type,
			Label:     doc.Label,
			Collapsed: doc.Collapsed,
			URL:       doc.URL,
		}

		if doc.Type == TypeSection {
			sub := path.Join(rel, doc.Name)
			if item.Items, err = b.section(sub, depth+1); err != nil {
				return nil, err
			}
			item.Path = b.sectionRoot(sub)
		} else {
			item.Path = path.Join(rel, doc.Name+markdownExt)
			if b.opts.ValidateFiles && !isFile(b.abs(item.Path)) {
				return nil, oops.
					Code("PAGE_NOT_FOUND").
					With("path", b.abs(item.Path)).
					Hint("Create the file or remove the item from .index.json").
					Errorf("page markdown file not found: %s", b.abs(item.Path))
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func (b *treeBuilder) sectionRoot(rel string) string {
	for _, name := range sectionRoots {
		candidate := path.Join(rel, name)
		if isFile(b.abs(candidate)) {
			return candidate
		}
	}
	return ""
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

package navigation

import (
	"encoding/json"
	"strings"

	"github.com/samber/oops"
)

// Tree is a navigation tree with lookup indexes. It is read-only once built.
type Tree struct {
	Items []*Item `json:"items"`

	flat   []*Item
	byPath map[string]*Item
}

// NewTree links parents and indexes items.
func NewTree(items []*Item) *Tree {
	t := &Tree{Items: items, byPath: make(map[string]*Item)}
	t.index(items, nil)
	return t
}

// Decode reads a tree written as navigation.json.
func Decode(data []byte) (*Tree, error) {
	var raw struct {
		Items []*Item `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, oops.
			Code("NAVIGATION_CORRUPTED").
			Hint("Rebuild the site to regenerate navigation.json").
			Wrapf(err, "decoding navigation tree")
	}
	return NewTree(raw.Items), nil
}

func (t *Tree) index(items []*Item, parent *Item) {
	for _, item := range items {
		item.parent = parent
		t.flat = append(t.flat, item)
		if item.Path != "" {
			if _, dup := t.byPath[item.Path]; !dup {
				t.byPath[item.Path] = item
			}
		}
		t.index(item.Items, item)
	}
}

// Flat returns every item in depth-first order.
func (t *Tree) Flat() []*Item {
	return t.flat
}

// Pages returns the page items in depth-first order.
func (t *Tree) Pages() []*Item {
	var pages []*Item
	for _, item := range t.flat {
		if item.IsPage() && item.Path != "" {
			pages = append(pages, item)
		}
	}
	return pages
}

func (t *Tree) FindByPath(p string) *Item {
	return t.byPath[p]
}

// FindByName returns the first item named name in depth-first order.
func (t *Tree) FindByName(name string) *Item {
	for _, item := range t.flat {
		if item.Name == name {
			return item
		}
	}
	return nil
}

// Breadcrumbs returns the chain from the root item down to the item at p.
func (t *Tree) Breadcrumbs(p string) []*Item {
	item := t.FindByPath(p)
	if item == nil {
		return nil
	}

	var crumbs []*Item
	for cur := item; cur != nil; cur = cur.parent {
		crumbs = append(crumbs, cur)
	}
	for i, j := 0, len(crumbs)-1; i < j; i, j = i+1, j-1 {
		crumbs[i], crumbs[j] = crumbs[j], crumbs[i]
	}
	return crumbs
}

// Siblings returns the items sharing a parent with the item at p. Root items
// and unknown paths get the top level.
func (t *Tree) Siblings(p string) []*Item {
	item := t.FindByPath(p)
	if item == nil || item.parent == nil {
		return t.Items
	}
	return item.parent.Items
}

func (t *Tree) Next(p string) *Item {
	siblings := t.Siblings(p)
	i := indexOf(siblings, p)
	if i < 0 || i == len(siblings)-1 {
		return nil
	}
	return siblings[i+1]
}

func (t *Tree) Previous(p string) *Item {
	siblings := t.Siblings(p)
	if i := indexOf(siblings, p); i > 0 {
		return siblings[i-1]
	}
	return nil
}

// Children resolves key as a section name, then as a path, then by the last
// segment of a slash separated path, and returns the item's children.
func (t *Tree) Children(key string) []*Item {
	item := t.FindByName(key)
	if item == nil {
		item = t.FindByPath(key)
	}
	if item == nil && strings.Contains(key, "/") {
		item = t.FindByName(key[strings.LastIndex(key, "/")+1:])
	}
	if item == nil {
		return nil
	}
	return item.Items
}

func indexOf(items []*Item, p string) int {
	for i, item := range items {
		if item.Path == p {
			return i
		}
	}
	return -1
}

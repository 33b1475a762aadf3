package ui

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/list"

	"github.com/mitkury/markpage/internal/navigation"
)

// RenderNavigation prints the navigation tree. Verbose output adds each
// item's source path.
func RenderNavigation(w io.Writer, tree *navigation.Tree, opts ListOptions) error {
	if opts.JSON {
		return RenderJSON(w, tree)
	}

	writer := list.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(list.StyleConnectedRounded)
	appendItems(writer, tree.Items, opts.Verbose)
	writer.Render()
	return nil
}

func appendItems(writer list.Writer, items []*navigation.Item, verbose bool) {
	for _, item := range items {
		writer.AppendItem(NavLabel(item, verbose))
		if len(item.Items) > 0 {
			writer.Indent()
			appendItems(writer, item.Items, verbose)
			writer.UnIndent()
		}
	}
}

// NavLabel is the line shown for item in the navigation tree.
func NavLabel(item *navigation.Item, verbose bool) string {
	label := item.Label
	if item.Type == navigation.TypeSection {
		label += "/"
	}
	if verbose && item.Path != "" {
		label += " (" + item.Path + ")"
	}
	if item.URL != "" {
		label += " -> " + item.URL
	}
	return label
}

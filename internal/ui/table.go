package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mitkury/markpage/internal/manifest"
	"github.com/mitkury/markpage/internal/search"
)

type ListOptions struct {
	JSON    bool
	Verbose bool
}

// RenderJSON writes v as indented JSON.
func RenderJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

func newTable(w io.Writer) table.Writer {
	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(table.StyleRounded)
	return writer
}

func RenderPages(w io.Writer, pages []*manifest.Page, opts ListOptions) error {
	if opts.JSON {
		return RenderJSON(w, pages)
	}

	writer := newTable(w)
	if opts.Verbose {
		writer.AppendHeader(table.Row{"PATH", "LABEL", "TITLE", "COMPONENTS", "LINES", "SIZE", "MODIFIED"})
	} else {
		writer.AppendHeader(table.Row{"PATH", "LABEL", "COMPONENTS", "SIZE"})
	}

	for _, page := range pages {
		size := humanize.Bytes(uint64(max(page.Size, 0)))
		if page.Warning != "" {
			size += " (" + page.Warning + ")"
		}

		if opts.Verbose {
			writer.AppendRow(table.Row{
				page.Path,
				page.Label,
				page.Title,
				FormatComponents(page.ComponentNames()),
				page.Lines,
				size,
				humanize.Time(page.Modified),
			})
			continue
		}

		writer.AppendRow(table.Row{
			page.Path,
			page.Label,
			FormatComponents(page.ComponentNames()),
			size,
		})
	}

	writer.Render()
	return nil
}

func RenderComponentUsage(w io.Writer, usage []manifest.Usage, opts ListOptions) error {
	if opts.JSON {
		return RenderJSON(w, usage)
	}

	writer := newTable(w)
	writer.AppendHeader(table.Row{"COMPONENT", "USES", "BLOCK", "INLINE", "PAGES"})

	for _, u := range usage {
		pages := humanize.Comma(int64(len(u.Pages)))
		if opts.Verbose {
			pages = strings.Join(u.Pages, "\n")
		}
		writer.AppendRow(table.Row{u.Name, u.Count, u.Block, u.Inline, pages})
	}

	writer.Render()
	return nil
}

func RenderMetadataResults(w io.Writer, results []search.MetadataResult, opts ListOptions) error {
	if opts.JSON {
		return RenderJSON(w, results)
	}

	writer := newTable(w)
	if opts.Verbose {
		writer.AppendHeader(table.Row{"PATH", "LABEL", "MATCH", "VALUE", "SCORE"})
	} else {
		writer.AppendHeader(table.Row{"PATH", "MATCH", "VALUE"})
	}

	for _, r := range results {
		if opts.Verbose {
			writer.AppendRow(table.Row{r.Path, r.Label, r.MatchField, r.MatchValue, r.Score})
			continue
		}
		writer.AppendRow(table.Row{r.Path, r.MatchField, r.MatchValue})
	}

	writer.Render()
	return nil
}

// RenderContentResults prints matches grep style, one path:line:text per
// line.
func RenderContentResults(w io.Writer, results []search.ContentResult, opts ListOptions) error {
	if opts.JSON {
		return RenderJSON(w, results)
	}

	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s:%d:%s\n", r.Path, r.Line, r.Text); err != nil {
			return err
		}
	}
	return nil
}

func RenderOutline(w io.Writer, page *manifest.Page, opts ListOptions) error {
	if opts.JSON {
		return RenderJSON(w, page.Outline)
	}

	writer := newTable(w)
	writer.AppendHeader(table.Row{"LINE", "HEADING"})
	if page.Outline != nil {
		for _, h := range page.Outline.Headings {
			writer.AppendRow(table.Row{h.Line, IndentHeading(h.Level, h.Text)})
		}
	}
	if opts.Verbose {
		for _, c := range page.Components {
			writer.AppendRow(table.Row{c.Line, "<" + c.Name + "> (" + c.Level + ")"})
		}
		writer.SortBy([]table.SortBy{{Name: "LINE", Mode: table.AscNumeric}})
	}

	writer.Render()
	return nil
}

// FormatComponents joins component names, or returns "-" for none.
func FormatComponents(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

// IndentHeading indents a heading by two spaces per level below 1.
func IndentHeading(level int, text string) string {
	return strings.Repeat("  ", max(level-1, 0)) + text
}

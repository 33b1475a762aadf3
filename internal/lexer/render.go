package lexer

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"

	"github.com/mitkury/markpage/internal/component"
)

// RenderMode controls how Component nodes appear in HTML output.
type RenderMode string

const (
	// RenderTags writes components back as their tags, so the HTML can be
	// scanned again with component.HTMLScanner.
	RenderTags RenderMode = "tags"
	// RenderElements writes a div (block) or span (inline) carrying
	// data-component and JSON data-props attributes.
	RenderElements RenderMode = "elements"
)

func ParseRenderMode(s string) (RenderMode, bool) {
	switch RenderMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", RenderTags:
		return RenderTags, true
	case RenderElements:
		return RenderElements, true
	default:
		return RenderTags, false
	}
}

type Renderer struct {
	mode    RenderMode
	dialect component.Dialect
	flags   html.Flags
}

func NewRenderer(mode RenderMode, dialect component.Dialect) *Renderer {
	return &Renderer{mode: mode, dialect: dialect, flags: html.CommonFlags}
}

// Render converts a lexed document into HTML.
func (r *Renderer) Render(doc ast.Node) []byte {
	hr := html.NewRenderer(html.RendererOptions{
		Flags:          r.flags,
		RenderNodeHook: r.renderNode,
	})
	return markdown.Render(doc, hr)
}

func (r *Renderer) renderNode(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	c, ok := node.(*Component)
	if !ok {
		return ast.GoToNext, false
	}
	if r.mode == RenderElements {
		r.element(w, c, entering)
	} else {
		r.tag(w, c, entering)
	}
	return ast.GoToNext, true
}

func (r *Renderer) tag(w io.Writer, c *Component, entering bool) {
	if !entering {
		if !c.SelfClosing {
			_, _ = io.WriteString(w, "</"+c.Name+">")
			r.blockBreak(w, c)
		}
		return
	}

	_, _ = io.WriteString(w, "<"+c.Name+FormatAttributes(c.Attrs, r.dialect))
	if c.SelfClosing {
		_, _ = io.WriteString(w, " />")
		r.blockBreak(w, c)
		return
	}
	_, _ = io.WriteString(w, ">")
}

func (r *Renderer) element(w io.Writer, c *Component, entering bool) {
	elem := "span"
	if c.Level == LevelBlock {
		elem = "div"
	}
	if !entering {
		_, _ = io.WriteString(w, "</"+elem+">")
		r.blockBreak(w, c)
		return
	}

	props, err := json.Marshal(c.Attrs)
	if err != nil {
		props = []byte("{}")
	}
	_, _ = io.WriteString(w, "<"+elem+` data-component="`)
	html.EscapeHTML(w, []byte(c.Name))
	_, _ = io.WriteString(w, `" data-props="`)
	html.EscapeHTML(w, props)
	_, _ = io.WriteString(w, `">`)
}

func (r *Renderer) blockBreak(w io.Writer, c *Component) {
	if c.Level == LevelBlock {
		_, _ = io.WriteString(w, "\n")
	}
}

// FormatAttributes writes attrs in sorted order as they would appear in a
// tag, each preceded by a space, using syntax the dialect parses back.
func FormatAttributes(attrs component.Attributes, dialect component.Dialect) string {
	var b strings.Builder
	for _, name := range attrs.Names() {
		v := attrs[name]
		b.WriteByte(' ')
		b.WriteString(name)
		if v.Kind == component.KindBool && v.Bool {
			continue
		}
		b.WriteByte('=')
		if dialect == component.DialectLegacy {
			b.WriteString(legacyValue(v))
		} else {
			b.WriteString(bracesValue(v))
		}
	}
	return b.String()
}

func bracesValue(v component.Value) string {
	if v.Kind == component.KindString && !strings.Contains(v.Str, `"`) {
		return `"` + v.Str + `"`
	}
	data, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return "{" + string(data) + "}"
}

func legacyValue(v component.Value) string {
	switch v.Kind {
	case component.KindNumber, component.KindBool:
		return v.String()
	default:
		return quote(v.String())
	}
}

// quote wraps s in whichever quote it does not contain. The legacy dialect
// has no escapes, so a value holding both quotes is written with &quot; and
// reads back with the entity in place of its double quotes.
func quote(s string) string {
	switch {
	case !strings.Contains(s, `"`):
		return `"` + s + `"`
	case !strings.Contains(s, `'`):
		return `'` + s + `'`
	default:
		return `"` + strings.ReplaceAll(s, `"`, "&quot;") + `"`
	}
}

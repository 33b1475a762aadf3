package builder

import (
	"bytes"
	"html/template"
	"path"
	"path/filepath"

	"github.com/mitkury/markpage/internal/config"
	"github.com/mitkury/markpage/internal/manifest"
	"github.com/mitkury/markpage/internal/navigation"
)

const defaultIndexTitle = "Documentation"

var layouts = template.Must(template.New("layouts").Parse(`
{{- define "head" -}}
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    {{- if .Chrome.BaseURL}}
    <base href="{{.Chrome.BaseURL}}">
    {{- end}}
    {{- range .Chrome.CSS}}
    <link rel="stylesheet" href="{{.}}">
    {{- end}}
</head>
{{- end -}}

{{- define "foot" -}}
    {{- range .Chrome.JS}}
    <script src="{{.}}"></script>
    {{- end}}
</body>
</html>
{{end -}}

{{- define "page" -}}
{{template "head" .}}
<body>
    {{- if .Breadcrumbs}}
    <nav class="breadcrumbs">
        {{- range $i, $c := .Breadcrumbs}}{{if $i}} / {{end}}<span>{{$c.Label}}</span>{{end}}
    </nav>
    {{- end}}
    <div class="content">
{{.Body}}
    </div>
    {{- if or .Previous .Next}}
    <nav class="pager">
        {{- with .Previous}}
        <a class="prev" href="{{.Href}}">{{.Label}}</a>
        {{- end}}
        {{- with .Next}}
        <a class="next" href="{{.Href}}">{{.Label}}</a>
        {{- end}}
    </nav>
    {{- end}}
{{template "foot" .}}
{{- end -}}

{{- define "nav" -}}
<ul class="nav-list">
{{- range .}}
<li class="nav-item">
{{- if .Href}}<a href="{{.Href}}" class="nav-link">{{.Label}}</a>{{else}}<span class="nav-section">{{.Label}}</span>{{end}}
{{- if .Items}}{{template "nav" .Items}}{{end -}}
</li>
{{- end}}
</ul>
{{- end -}}

{{- define "index" -}}
{{template "head" .}}
<body>
    <div class="container">
        <header>
            <h1>{{.Title}}</h1>
        </header>
        <nav class="navigation">
{{template "nav" .Nav}}
        </nav>
        <main class="content">
            <p>Welcome to the documentation. Please select a page from the navigation.</p>
        </main>
    </div>
{{template "foot" .}}
{{- end -}}
`))

// chrome is the site-wide part of every page: stylesheet and script URLs.
type chrome struct {
	BaseURL string
	CSS     []string
	JS      []string
}

type link struct {
	Label string
	Href  string
}

type navLink struct {
	Label string
	Href  string
	Items []navLink
}

type pageData struct {
	Title       string
	Chrome      chrome
	Body        template.HTML
	Breadcrumbs []*navigation.Item
	Previous    *link
	Next        *link
}

type indexData struct {
	Title  string
	Chrome chrome
	Nav    []navLink
}

// layout renders pages into the site's HTML shell.
type layout struct {
	site   config.Site
	chrome chrome
	tree   *navigation.Tree
}

func newLayout(site config.Site, tree *navigation.Tree) *layout {
	return &layout{
		site:   site,
		chrome: chrome{BaseURL: site.BaseURL, CSS: site.CSS, JS: site.JS},
		tree:   tree,
	}
}

// page wraps a rendered page body. The body is HTML produced by the markdown
// renderer and is inserted as is.
func (l *layout) page(item *navigation.Item, body []byte) ([]byte, error) {
	title := item.Label
	if l.site.Title != "" {
		title = l.site.Title
	}

	data := pageData{
		Title:  title,
		Chrome: l.chrome,
		Body:   template.HTML(body), //nolint:gosec // rendered markdown
	}
	if crumbs := l.tree.Breadcrumbs(item.Path); len(crumbs) > 1 {
		data.Breadcrumbs = crumbs
	}
	data.Previous = l.link(l.tree.Previous(item.Path), item.Path)
	data.Next = l.link(l.tree.Next(item.Path), item.Path)

	var buf bytes.Buffer
	if err := layouts.ExecuteTemplate(&buf, "page", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (l *layout) index() ([]byte, error) {
	title := l.site.IndexTitle
	if title == "" {
		title = l.site.Title
	}
	if title == "" {
		title = defaultIndexTitle
	}

	var buf bytes.Buffer
	err := layouts.ExecuteTemplate(&buf, "index", indexData{
		Title:  title,
		Chrome: l.chrome,
		Nav:    l.navLinks(l.tree.Items),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// link points from the page at fromPath to item, if item has a page.
func (l *layout) link(item *navigation.Item, fromPath string) *link {
	if item == nil || item.Path == "" {
		return nil
	}
	return &link{Label: item.Label, Href: l.href(fromPath, item.Path)}
}

func (l *layout) navLinks(items []*navigation.Item) []navLink {
	links := make([]navLink, 0, len(items))
	for _, item := range items {
		nl := navLink{Label: item.Label, Items: l.navLinks(item.Items)}
		if item.Path != "" {
			nl.Href = l.href("", item.Path)
		}
		links = append(links, nl)
	}
	return links
}

// href links to the rendered page of target. With a base URL links are
// relative to the site root, otherwise to the directory of fromPath.
func (l *layout) href(fromPath, target string) string {
	out := manifest.HTMLFile(target)
	if l.site.BaseURL != "" || fromPath == "" {
		return out
	}
	rel, err := filepath.Rel(filepath.FromSlash(path.Dir(fromPath)), filepath.FromSlash(out))
	if err != nil {
		return out
	}
	return filepath.ToSlash(rel)
}

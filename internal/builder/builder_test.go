package builder_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/samber/oops"

	"github.com/mitkury/markpage/internal/builder"
	"github.com/mitkury/markpage/internal/component"
	"github.com/mitkury/markpage/internal/config"
	"github.com/mitkury/markpage/internal/manifest"
	"github.com/mitkury/markpage/internal/navigation"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// newSite lays out a small content tree:
//
//	getting-started.md
//	guide/index.md
//	guide/usage.md
func newSite(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	content := filepath.Join(root, "docs")

	writeFile(t, content, "getting-started.md", "# Getting Started\n\n<Alert type=\"info\">Read **this**</Alert>\n")
	writeFile(t, content, "guide/index.md", "# Guide\n\nAll about the guide.\n")
	writeFile(t, content, "guide/usage.md", "# Usage\n\nUse <Badge>new</Badge> here.\n")

	cfg := config.Default()
	cfg.Content = content
	cfg.Output = ".markpage"
	cfg.ConfigDir = root
	cfg.Site.Title = "Test Docs"
	return cfg
}

func run(t *testing.T, cfg *config.Config, opts builder.Options) *builder.RunResult {
	t.Helper()
	result, err := builder.Run(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return result
}

func outputPath(cfg *config.Config, parts ...string) string {
	return filepath.Join(append([]string{builder.ResolveOutputRoot(cfg)}, parts...)...)
}

func readHTML(t *testing.T, path string) *goquery.Document {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	return doc
}

func TestRunWithNilConfigReturnsError(t *testing.T) {
	_, err := builder.Run(context.Background(), nil, builder.Options{})
	if err == nil {
		t.Fatal("Run() with nil config: got nil error, want non-nil")
	}
}

func TestRun_BuildsSite(t *testing.T) {
	cfg := newSite(t)
	result := run(t, cfg, builder.Options{})

	if result.Pages != 3 || result.Rendered != 3 || result.Skipped != 0 || result.Errors != 0 {
		t.Errorf("result = %+v, want 3 pages rendered", result)
	}
	if result.Components != 2 {
		t.Errorf("Components = %d, want 2", result.Components)
	}

	for _, name := range []string{
		builder.NavigationFile,
		builder.ContentFile,
		manifest.ManifestFile,
		filepath.Join(builder.SiteDir, builder.IndexFile),
		filepath.Join(builder.SiteDir, "getting-started.html"),
		filepath.Join(builder.SiteDir, "guide", "index.html"),
		filepath.Join(builder.SiteDir, "guide", "usage.html"),
	} {
		if _, err := os.Stat(outputPath(cfg, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	m, err := manifest.Load(builder.ResolveOutputRoot(cfg))
	if err != nil {
		t.Fatalf("manifest.Load() error = %v", err)
	}
	var paths []string
	for _, page := range m.Pages {
		paths = append(paths, page.Path)
	}
	if diff := cmp.Diff([]string{"getting-started.md", "guide/index.md", "guide/usage.md"}, paths); diff != "" {
		t.Errorf("manifest pages mismatch (-want +got):\n%s", diff)
	}

	page := m.Find("getting-started.md")
	if diff := cmp.Diff([]string{"Alert"}, page.ComponentNames()); diff != "" {
		t.Errorf("ComponentNames() mismatch (-want +got):\n%s", diff)
	}
	var scanned []string
	for _, seg := range page.Segments {
		if seg.Kind == component.SegmentComponent {
			scanned = append(scanned, seg.Component.Name)
		}
	}
	if diff := cmp.Diff([]string{"Alert"}, scanned); diff != "" {
		t.Errorf("segment components mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadContent(t *testing.T) {
	cfg := newSite(t)

	if _, err := builder.LoadContent(builder.ResolveOutputRoot(cfg)); err == nil {
		t.Fatal("LoadContent() before build: got nil error")
	}

	run(t, cfg, builder.Options{})
	bundle, err := builder.LoadContent(builder.ResolveOutputRoot(cfg))
	if err != nil {
		t.Fatalf("LoadContent() error = %v", err)
	}
	if got := bundle["guide/usage.md"]; got != "# Usage\n\nUse <Badge>new</Badge> here.\n" {
		t.Errorf("bundle[guide/usage.md] = %q", got)
	}
	if len(bundle) != 3 {
		t.Errorf("bundle has %d pages, want 3", len(bundle))
	}
}

func TestRun_PageLayout(t *testing.T) {
	cfg := newSite(t)
	cfg.Site.CSS = []string{"/assets/site.css"}
	cfg.Site.JS = []string{"/assets/site.js"}
	run(t, cfg, builder.Options{})

	doc := readHTML(t, outputPath(cfg, builder.SiteDir, "getting-started.html"))
	if got := doc.Find("title").Text(); got != "Test Docs" {
		t.Errorf("title = %q, want Test Docs", got)
	}
	if href, _ := doc.Find(`link[rel="stylesheet"]`).Attr("href"); href != "/assets/site.css" {
		t.Errorf("stylesheet href = %q", href)
	}
	if src, _ := doc.Find("script").Attr("src"); src != "/assets/site.js" {
		t.Errorf("script src = %q", src)
	}
	if got := doc.Find(".content strong").Text(); got != "this" {
		t.Errorf("strong = %q, want this", got)
	}
	if doc.Find(".pager .prev").Length() != 0 {
		t.Error("first page has a previous link")
	}
	if href, _ := doc.Find(".pager .next").Attr("href"); href != "guide/index.html" {
		t.Errorf("next href = %q, want guide/index.html", href)
	}

	usage := readHTML(t, outputPath(cfg, builder.SiteDir, "guide", "usage.html"))
	var crumbs []string
	usage.Find(".breadcrumbs span").Each(func(_ int, s *goquery.Selection) {
		crumbs = append(crumbs, s.Text())
	})
	if diff := cmp.Diff([]string{"Guide", "Usage"}, crumbs); diff != "" {
		t.Errorf("breadcrumbs mismatch (-want +got):\n%s", diff)
	}

	index := readHTML(t, outputPath(cfg, builder.SiteDir, builder.IndexFile))
	if got := index.Find("h1").Text(); got != config.DefaultIndexTitle {
		t.Errorf("index h1 = %q, want %q", got, config.DefaultIndexTitle)
	}
	var hrefs []string
	index.Find("a.nav-link").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
	})
	if diff := cmp.Diff([]string{"getting-started.html", "guide/index.html", "guide/usage.html"}, hrefs); diff != "" {
		t.Errorf("nav hrefs mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ElementsMode(t *testing.T) {
	cfg := newSite(t)
	cfg.Render = "elements"
	run(t, cfg, builder.Options{})

	doc := readHTML(t, outputPath(cfg, builder.SiteDir, "getting-started.html"))
	alert := doc.Find(`div[data-component="Alert"]`)
	if alert.Length() != 1 {
		t.Fatalf("alert divs = %d, want 1", alert.Length())
	}
	if props, _ := alert.Attr("data-props"); props != `{"type":"info"}` {
		t.Errorf("data-props = %q", props)
	}
}

func TestRun_Incremental(t *testing.T) {
	cfg := newSite(t)
	run(t, cfg, builder.Options{})

	second := run(t, cfg, builder.Options{})
	if second.Rendered != 0 || second.Skipped != 3 {
		t.Errorf("unchanged rebuild: rendered=%d skipped=%d, want 0 and 3", second.Rendered, second.Skipped)
	}
	if second.Components != 2 {
		t.Errorf("reused pages lost components: %d, want 2", second.Components)
	}

	writeFile(t, cfg.Content, "guide/usage.md", "# Usage\n\nChanged.\n")
	third := run(t, cfg, builder.Options{})
	if third.Rendered != 1 || third.Skipped != 2 {
		t.Errorf("after edit: rendered=%d skipped=%d, want 1 and 2", third.Rendered, third.Skipped)
	}

	forced := run(t, cfg, builder.Options{Force: true})
	if forced.Rendered != 3 {
		t.Errorf("forced rebuild rendered %d, want 3", forced.Rendered)
	}

	cfg.Site.Title = "Renamed"
	retitled := run(t, cfg, builder.Options{})
	if retitled.Rendered != 3 {
		t.Errorf("settings change rendered %d, want 3", retitled.Rendered)
	}
}

func TestRun_NavigationChangeRebuildsPages(t *testing.T) {
	cfg := newSite(t)
	run(t, cfg, builder.Options{})

	usagePath := outputPath(cfg, builder.SiteDir, "guide", "usage.html")
	if readHTML(t, usagePath).Find(".pager .next").Length() != 0 {
		t.Fatal("last page has a next link")
	}

	writeFile(t, cfg.Content, "guide/zeta.md", "# Zeta\n")
	result := run(t, cfg, builder.Options{})
	if result.Rendered != 4 || result.Skipped != 0 {
		t.Errorf("after adding a page: rendered=%d skipped=%d, want 4 and 0", result.Rendered, result.Skipped)
	}

	href, _ := readHTML(t, usagePath).Find(".pager .next").Attr("href")
	if !strings.HasSuffix(href, "zeta.html") {
		t.Errorf("usage next href = %q, want a link to zeta.html", href)
	}
}

func TestRun_MissingHTMLIsRebuilt(t *testing.T) {
	cfg := newSite(t)
	run(t, cfg, builder.Options{})

	if err := os.Remove(outputPath(cfg, builder.SiteDir, "getting-started.html")); err != nil {
		t.Fatal(err)
	}
	result := run(t, cfg, builder.Options{})
	if result.Rendered != 1 {
		t.Errorf("rendered %d, want 1", result.Rendered)
	}
}

func TestRun_RemovesStalePages(t *testing.T) {
	cfg := newSite(t)
	run(t, cfg, builder.Options{})

	if err := os.Remove(filepath.Join(cfg.Content, "getting-started.md")); err != nil {
		t.Fatal(err)
	}
	result := run(t, cfg, builder.Options{})
	if result.Removed != 1 || result.Pages != 2 {
		t.Errorf("result = %+v, want 1 removed of 2 pages", result)
	}
	if _, err := os.Stat(outputPath(cfg, builder.SiteDir, "getting-started.html")); !os.IsNotExist(err) {
		t.Errorf("stale page still on disk: %v", err)
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	cfg := newSite(t)
	result := run(t, cfg, builder.Options{DryRun: true})

	if result.Pages != 3 || result.Manifest == nil || len(result.Manifest.Pages) != 3 {
		t.Errorf("dry run result = %+v", result)
	}
	if _, err := os.Stat(builder.ResolveOutputRoot(cfg)); !os.IsNotExist(err) {
		t.Errorf("dry run created output directory: %v", err)
	}
}

func TestRun_CleanRemovesOutput(t *testing.T) {
	cfg := newSite(t)
	stray := outputPath(cfg, "stray.txt")
	writeFile(t, filepath.Dir(stray), filepath.Base(stray), "old")

	run(t, cfg, builder.Options{Clean: true})
	if _, err := os.Stat(stray); !os.IsNotExist(err) {
		t.Errorf("clean kept stray file: %v", err)
	}
}

func TestRun_NoIndexPage(t *testing.T) {
	cfg := newSite(t)
	cfg.Site.IncludeIndex = false
	run(t, cfg, builder.Options{})

	if _, err := os.Stat(outputPath(cfg, builder.SiteDir, builder.IndexFile)); !os.IsNotExist(err) {
		t.Errorf("index.html written with include_index off: %v", err)
	}
}

func TestRun_FailedPage(t *testing.T) {
	cfg := newSite(t)
	writeFile(t, cfg.Content, "broken.md", "abc\x00def")

	result, err := builder.Run(context.Background(), cfg, builder.Options{})
	if err == nil {
		t.Fatal("Run() error = nil, want a build failure")
	}
	if _, ok := oops.AsOops(err); !ok {
		t.Fatalf("error is not an oops error: %v", err)
	}
	if !strings.Contains(err.Error(), "1 page(s) failed to build") {
		t.Errorf("error = %q", err)
	}
	if result == nil || result.Errors != 1 || result.Rendered != 3 {
		t.Errorf("result = %+v, want 1 error and 3 rendered", result)
	}
}

func TestRun_InvalidContent(t *testing.T) {
	cfg := newSite(t)
	cfg.Content = filepath.Join(cfg.ConfigDir, "missing")

	if _, err := builder.Run(context.Background(), cfg, builder.Options{}); err == nil {
		t.Fatal("Run() with missing content dir: got nil error")
	}
}

func TestRun_Events(t *testing.T) {
	cfg := newSite(t)

	var (
		mu     sync.Mutex
		starts int
		done   = map[string]builder.Event{}
	)
	run(t, cfg, builder.Options{
		MaxParallel: 2,
		OnEvent: func(e builder.Event) {
			mu.Lock()
			defer mu.Unlock()
			switch e.Kind {
			case builder.EventPageStart:
				starts++
			case builder.EventPageDone:
				done[e.Page] = e
			}
		},
	})

	if starts != 3 || len(done) != 3 {
		t.Fatalf("events: %d starts, %d done; want 3 each", starts, len(done))
	}
	if e := done["getting-started.md"]; e.Components != 1 || e.Bytes == 0 || e.Total != 3 {
		t.Errorf("getting-started done event = %+v", e)
	}
}

func TestResolveOutputRoot(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		want string
	}{
		{
			name: "relative to config dir",
			cfg:  &config.Config{Output: ".markpage", ConfigDir: "/project"},
			want: filepath.Join("/project", ".markpage"),
		},
		{
			name: "absolute kept",
			cfg:  &config.Config{Output: "/tmp/site", ConfigDir: "/project"},
			want: "/tmp/site",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := builder.ResolveOutputRoot(tt.cfg); got != tt.want {
				t.Errorf("ResolveOutputRoot() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHref(t *testing.T) {
	tests := []struct {
		baseURL string
		from    string
		target  string
		want    string
	}{
		{"", "intro.md", "guide/usage.md", "guide/usage.html"},
		{"", "guide/usage.md", "intro.md", "../intro.html"},
		{"", "guide/usage.md", "guide/setup.mdx", "setup.html"},
		{"", "", "guide/usage.md", "guide/usage.html"},
		{"https://docs.example.com/", "guide/usage.md", "intro.md", "intro.html"},
	}

	for _, tt := range tests {
		if got := builder.Href(tt.baseURL, tt.from, tt.target); got != tt.want {
			t.Errorf("Href(%q, %q, %q) = %q, want %q", tt.baseURL, tt.from, tt.target, got, tt.want)
		}
	}
}

func TestFingerprintTracksSiteSettings(t *testing.T) {
	tree := navigation.NewTree([]*navigation.Item{
		{Name: "alpha", Type: navigation.TypePage, Label: "Alpha", Path: "alpha.md"},
	})

	a := config.Default()
	b := config.Default()
	if builder.Fingerprint(a, tree) != builder.Fingerprint(b, tree) {
		t.Fatal("equal configs have different fingerprints")
	}
	b.Site.CSS = []string{"x.css"}
	if builder.Fingerprint(a, tree) == builder.Fingerprint(b, tree) {
		t.Error("CSS change did not change the fingerprint")
	}
	b = config.Default()
	b.Attributes = component.DialectLegacy.String()
	if builder.Fingerprint(a, tree) == builder.Fingerprint(b, tree) {
		t.Error("dialect change did not change the fingerprint")
	}
}

func TestFingerprintTracksNavigation(t *testing.T) {
	cfg := config.Default()
	alpha := func() *navigation.Item {
		return &navigation.Item{Name: "alpha", Type: navigation.TypePage, Label: "Alpha", Path: "alpha.md"}
	}
	beta := func() *navigation.Item {
		return &navigation.Item{Name: "beta", Type: navigation.TypePage, Label: "Beta", Path: "beta.md"}
	}
	base := builder.Fingerprint(cfg, navigation.NewTree([]*navigation.Item{alpha(), beta()}))

	relabeled := alpha()
	relabeled.Label = "First"

	tests := []struct {
		name  string
		items []*navigation.Item
	}{
		{name: "page added", items: []*navigation.Item{alpha(), beta(), {Name: "gamma", Type: navigation.TypePage, Label: "Gamma", Path: "gamma.md"}}},
		{name: "page removed", items: []*navigation.Item{alpha()}},
		{name: "reordered", items: []*navigation.Item{beta(), alpha()}},
		{name: "relabeled", items: []*navigation.Item{relabeled, beta()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if builder.Fingerprint(cfg, navigation.NewTree(tt.items)) == base {
				t.Error("navigation change did not change the fingerprint")
			}
		})
	}
}

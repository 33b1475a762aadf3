// Package builder turns a content directory into a site: navigation and
// content bundles, a page manifest and one HTML file per page.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"github.com/mitkury/markpage/internal/atomicfile"
	"github.com/mitkury/markpage/internal/component"
	"github.com/mitkury/markpage/internal/config"
	"github.com/mitkury/markpage/internal/lexer"
	"github.com/mitkury/markpage/internal/lockfile"
	"github.com/mitkury/markpage/internal/manifest"
	"github.com/mitkury/markpage/internal/navigation"
	"github.com/mitkury/markpage/internal/parser"
)

const (
	defaultMaxParallel = config.DefaultParallel

	NavigationFile = "navigation.json"
	ContentFile    = "content.json"
	SiteDir        = "site"
	IndexFile      = "index.html"

	// buildVersion is folded into the lock fingerprint; bump it when page
	// output changes shape.
	buildVersion = "1"
)

type Options struct {
	// Force rebuilds pages the lock file considers fresh.
	Force bool
	// DryRun parses and renders without writing anything.
	DryRun bool
	// Clean removes the output directory first.
	Clean       bool
	MaxParallel int
	OnEvent     func(Event)
	Logger      *slog.Logger
}

type EventKind int

const (
	EventPageStart EventKind = iota
	EventPageDone
)

type Event struct {
	Kind EventKind
	Page string
	// Total is the number of pages in the build.
	Total int
	// Skipped is set on done events for pages reused from the last build.
	Skipped    bool
	Components int
	Bytes      int
	Warning    string
	Err        error
}

type RunResult struct {
	Pages      int
	Rendered   int
	Skipped    int
	Errors     int
	Components int
	Bytes      int64
	Removed    int
	Navigation *navigation.Tree
	Manifest   *manifest.Manifest
}

// ContentBundle maps page paths to their markdown source.
type ContentBundle map[string]string

type pageState struct {
	page    *manifest.Page
	content []byte
	sum     string
	html    []byte
	skipped bool
	err     error
}

type run struct {
	cfg         *config.Config
	opts        Options
	logger      *slog.Logger
	outputDir   string
	tree        *navigation.Tree
	lock        *lockfile.LockFile
	previous    *manifest.Manifest
	fingerprint string
	parsers     []parser.Parser
	renderer    *lexer.Renderer
	layout      *layout
}

// Run builds the site described by cfg.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*RunResult, error) {
	if cfg == nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	outputDir := resolveOutputRoot(cfg)
	if opts.Clean && !opts.DryRun {
		if err := os.RemoveAll(outputDir); err != nil {
			return nil, oops.
				Code("WRITE_FAILED").
				With("path", outputDir).
				Wrapf(err, "cleaning output directory")
		}
	}

	navOpts := navigationOptions(cfg)
	if err := navigation.Validate(cfg.Content, navOpts); err != nil {
		return nil, err
	}
	tree, err := navigation.Build(cfg.Content, navOpts)
	if err != nil {
		return nil, err
	}

	lock, err := lockfile.Load(outputDir)
	if err != nil {
		return nil, err
	}

	previous, err := manifest.Load(outputDir)
	if err != nil {
		previous = nil
	}

	dialect := cfg.Dialect()
	lx := lexer.New(
		lexer.WithExtensions(lexer.ComponentExtensions(dialect)),
		lexer.WithLogger(logger),
	)

	r := &run{
		cfg:         cfg,
		opts:        opts,
		logger:      logger,
		outputDir:   outputDir,
		tree:        tree,
		lock:        lock,
		previous:    previous,
		fingerprint: fingerprint(cfg, tree),
		parsers:     manifest.Parsers(lx),
		renderer:    lexer.NewRenderer(cfg.RenderMode(), dialect),
		layout:      newLayout(cfg.Site, tree),
	}
	return r.build(ctx)
}

func (r *run) build(ctx context.Context) (*RunResult, error) {
	items := documents(r.tree)
	states := make([]pageState, len(items))

	maxParallel := r.opts.MaxParallel
	if maxParallel <= 0 {
		maxParallel = r.cfg.Parallel
	}
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallel
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallel)

	for i, item := range items {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			r.emit(Event{Kind: EventPageStart, Page: item.Path, Total: len(items)})
			states[i] = r.buildPage(item)
			r.emit(doneEvent(item.Path, len(items), states[i]))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, oops.
			Code("BUILD_CANCELED").
			Wrapf(err, "waiting for page workers")
	}

	return r.finish(items, states)
}

func (r *run) buildPage(item *navigation.Item) pageState {
	page, content, err := manifest.ReadPage(r.cfg.Content, item)
	if err != nil {
		r.logger.Warn("reading page failed", "page", item.Path, "error", err)
		return pageState{err: err}
	}

	state := pageState{page: page, content: content, sum: lockfile.Hash(content)}
	if content == nil {
		r.logger.Warn("page not parsed", "page", item.Path, "warning", page.Warning)
		return state
	}

	if reused := r.reuse(page.Path, state.sum); reused != nil {
		r.logger.Debug("page unchanged", "page", item.Path)
		state.page = reused
		state.skipped = true
		return state
	}

	result, err := page.Parse(content, r.parsers)
	if err != nil {
		r.logger.Warn("parsing page failed", "page", item.Path, "error", err)
		return pageState{err: err}
	}

	body := r.renderer.Render(result.Doc)
	page.Segments = component.ScanHTML(string(body), r.cfg.Dialect())

	html, err := r.layout.page(item, body)
	if err != nil {
		return pageState{err: oops.
			Code("RENDER_FAILED").
			With("page", item.Path).
			Wrapf(err, "rendering page layout")}
	}
	state.html = html

	if !r.opts.DryRun {
		if err := atomicfile.WriteFile(r.sitePath(page.HTMLFile), html); err != nil {
			return pageState{err: err}
		}
	}

	r.logger.Debug("page built", "page", item.Path, "components", len(page.Components), "bytes", len(html))
	return state
}

// reuse returns the previous record of a page whose source and build
// settings are unchanged and whose HTML is still on disk.
func (r *run) reuse(pagePath, sum string) *manifest.Page {
	if r.opts.Force || r.previous == nil || !r.lock.Fresh(pagePath, sum, r.fingerprint) {
		return nil
	}
	prev := r.previous.Find(pagePath)
	if prev == nil {
		return nil
	}
	if _, err := os.Stat(r.sitePath(prev.HTMLFile)); err != nil {
		return nil
	}
	return prev
}

func (r *run) finish(items []*navigation.Item, states []pageState) (*RunResult, error) {
	result := &RunResult{Pages: len(items), Navigation: r.tree}
	m := manifest.New(manifest.SiteInfo{
		Title:   r.cfg.Site.Title,
		BaseURL: r.cfg.Site.BaseURL,
		Dialect: r.cfg.Dialect().String(),
		Render:  string(r.cfg.RenderMode()),
	})
	bundle := ContentBundle{}
	built := make(map[string]bool, len(items))

	var errs []error
	for i, item := range items {
		state := states[i]
		if state.err != nil {
			result.Errors++
			errs = append(errs, state.err)
			continue
		}

		m.Pages = append(m.Pages, state.page)
		bundle[item.Path] = string(state.content)
		built[item.Path] = true
		result.Components += len(state.page.Components)

		switch {
		case state.skipped:
			result.Skipped++
		case state.html != nil:
			result.Rendered++
			result.Bytes += int64(len(state.html))
			r.lock.SetEntry(item.Path, &lockfile.LockEntry{
				SHA256:   state.sum,
				HTMLFile: state.page.HTMLFile,
				BuiltAt:  m.Generated,
			})
		}
	}
	result.Manifest = m

	if r.opts.DryRun {
		return result, joinErrors(result.Errors, errs)
	}

	if err := r.write(m, bundle); err != nil {
		return nil, err
	}

	// Failed pages keep their old HTML but are never fresh.
	for path, entry := range r.lock.Pages {
		if !built[path] && r.tree.FindByPath(path) != nil {
			built[path] = true
			entry.SHA256 = ""
		}
	}
	for _, stale := range r.lock.Prune(built) {
		if stale.HTMLFile == "" {
			continue
		}
		if err := os.Remove(r.sitePath(stale.HTMLFile)); err == nil {
			result.Removed++
		}
	}

	r.lock.Fingerprint = r.fingerprint
	if err := r.lock.Save(r.outputDir); err != nil {
		return nil, err
	}

	return result, joinErrors(result.Errors, errs)
}

func (r *run) write(m *manifest.Manifest, bundle ContentBundle) error {
	if err := atomicfile.WriteJSON(filepath.Join(r.outputDir, NavigationFile), r.tree); err != nil {
		return err
	}
	if err := atomicfile.WriteJSON(filepath.Join(r.outputDir, ContentFile), bundle); err != nil {
		return err
	}
	if err := m.Save(r.outputDir); err != nil {
		return err
	}

	if !r.cfg.Site.IncludeIndex {
		return nil
	}
	index, err := r.layout.index()
	if err != nil {
		return oops.
			Code("RENDER_FAILED").
			Wrapf(err, "rendering index page")
	}
	return atomicfile.WriteFile(r.sitePath(IndexFile), index)
}

func (r *run) sitePath(htmlFile string) string {
	return filepath.Join(r.outputDir, SiteDir, filepath.FromSlash(htmlFile))
}

func (r *run) emit(e Event) {
	if r.opts.OnEvent != nil {
		r.opts.OnEvent(e)
	}
}

func doneEvent(pagePath string, total int, state pageState) Event {
	e := Event{Kind: EventPageDone, Page: pagePath, Total: total, Skipped: state.skipped, Err: state.err}
	if state.page != nil {
		e.Components = len(state.page.Components)
		e.Warning = state.page.Warning
	}
	e.Bytes = len(state.html)
	return e
}

func joinErrors(count int, errs []error) error {
	if count == 0 {
		return nil
	}
	return oops.
		Code("BUILD_FAILED").
		With("failed_pages", count).
		Wrapf(errors.Join(errs...), "%d page(s) failed to build", count)
}

// documents returns the items that have a page file: pages and sections
// with a root page, in navigation order.
func documents(tree *navigation.Tree) []*navigation.Item {
	var items []*navigation.Item
	for _, item := range tree.Flat() {
		if item.Path != "" {
			items = append(items, item)
		}
	}
	return items
}

func navigationOptions(cfg *config.Config) navigation.Options {
	return navigation.Options{
		AutoDiscover:  cfg.AutoDiscover,
		ValidateFiles: cfg.ValidateFiles,
		Exclude:       cfg.Exclude,
	}
}

// fingerprint covers every setting that changes the HTML of all pages. Each
// page carries the whole navigation tree, its breadcrumbs and its pager, so
// the tree's names, labels, links and order are part of it too.
func fingerprint(cfg *config.Config, tree *navigation.Tree) string {
	site := cfg.Site
	return lockfile.Fingerprint(
		buildVersion,
		cfg.Dialect().String(),
		string(cfg.RenderMode()),
		site.Title,
		site.BaseURL,
		strings.Join(site.CSS, ","),
		strings.Join(site.JS, ","),
		navigationDigest(tree),
	)
}

func navigationDigest(tree *navigation.Tree) string {
	if tree == nil {
		return ""
	}
	data, err := json.Marshal(tree.Items)
	if err != nil {
		return ""
	}
	return lockfile.Hash(data)
}

func resolveOutputRoot(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Output) {
		return cfg.Output
	}

	return filepath.Join(cfg.ConfigDir, cfg.Output)
}

// LoadContent reads the content bundle of a built site.
func LoadContent(outputDir string) (ContentBundle, error) {
	bundlePath := filepath.Join(outputDir, ContentFile)
	data, err := os.ReadFile(bundlePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oops.
				Code("CONTENT_BUNDLE_NOT_FOUND").
				With("path", bundlePath).
				Hint("Run 'markpage build' to generate content.json").
				Errorf("content bundle not found at %q", bundlePath)
		}
		return nil, oops.
			Code("CONTENT_BUNDLE_READ_ERROR").
			With("path", bundlePath).
			Wrapf(err, "reading content bundle")
	}

	bundle := ContentBundle{}
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, oops.
			Code("CONTENT_BUNDLE_CORRUPTED").
			With("path", bundlePath).
			Hint("Run 'markpage build --force' to regenerate it").
			Wrapf(err, "parsing content bundle")
	}
	return bundle, nil
}

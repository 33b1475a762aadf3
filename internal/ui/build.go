package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/mitkury/markpage/internal/builder"
)

type styles struct {
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	dim    *color.Color
	bold   *color.Color
}

func newStyles() styles {
	return styles{
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
	}
}

// BuildPrinter renders build events to stderr with colored output.
type BuildPrinter struct {
	w       io.Writer
	dryRun  bool
	verbose bool
	mu      sync.Mutex
	s       styles
}

// NewBuildPrinter creates a BuildPrinter that writes to stderr. Unless
// verbose is set, only failed and changed pages are reported.
func NewBuildPrinter(dryRun, verbose bool) *BuildPrinter {
	return NewBuildPrinterWithWriter(os.Stderr, dryRun, verbose)
}

func NewBuildPrinterWithWriter(w io.Writer, dryRun, verbose bool) *BuildPrinter {
	return &BuildPrinter{
		w:       w,
		dryRun:  dryRun,
		verbose: verbose,
		s:       newStyles(),
	}
}

// HandleEvent is the callback wired into builder.Options.OnEvent.
func (p *BuildPrinter) HandleEvent(e builder.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Kind {
	case builder.EventPageStart:
		if p.verbose {
			fmt.Fprintf(p.w, "%s building %s...\n",
				p.s.dim.Sprint("⟳"),
				p.s.bold.Sprint(e.Page),
			)
		}

	case builder.EventPageDone:
		p.handleDone(e)
	}
}

func (p *BuildPrinter) handleDone(e builder.Event) {
	name := p.s.bold.Sprint(e.Page)

	switch {
	case e.Err != nil:
		fmt.Fprintf(p.w, "%s %s: %s\n", p.s.red.Sprint("✗"), name, e.Err)

	case e.Warning != "":
		fmt.Fprintf(p.w, "%s %s %s\n",
			p.s.yellow.Sprint("!"),
			name,
			p.s.yellow.Sprintf("(%s)", e.Warning),
		)

	case e.Skipped:
		if p.verbose {
			fmt.Fprintf(p.w, "%s %s %s\n",
				p.s.dim.Sprint("—"),
				name,
				p.s.dim.Sprint("(up to date)"),
			)
		}

	default:
		fmt.Fprintf(p.w, "%s %s %s\n",
			p.s.green.Sprint("✓"),
			name,
			p.s.dim.Sprint(formatPage(e.Components, e.Bytes)),
		)
	}
}

func formatPage(components int, size int) string {
	if components == 0 {
		return fmt.Sprintf("(%s)", humanize.Bytes(uint64(size))) //nolint:gosec // size is never negative
	}
	return fmt.Sprintf("(%d component(s), %s)", components, humanize.Bytes(uint64(size))) //nolint:gosec // size is never negative
}

// PrintSummary renders a final summary line after the build completes.
func (p *BuildPrinter) PrintSummary(r *builder.RunResult) {
	if r == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w)

	label := "build complete"
	if p.dryRun {
		label = p.s.yellow.Sprint("dry-run complete")
	}

	parts := fmt.Sprintf("%s: %d page(s), %d rendered, %d up-to-date, %d component(s), %s written",
		label,
		r.Pages,
		r.Rendered,
		r.Skipped,
		r.Components,
		humanize.Bytes(uint64(r.Bytes)), //nolint:gosec // byte counts are never negative
	)

	if r.Removed > 0 {
		parts += fmt.Sprintf(", %d removed", r.Removed)
	}
	if r.Errors > 0 {
		parts += fmt.Sprintf(", %s", p.s.red.Sprintf("%d failed", r.Errors))
	}

	fmt.Fprintln(p.w, parts)

	if p.dryRun {
		fmt.Fprintln(p.w, p.s.dim.Sprint("no files were written or removed"))
	}
}

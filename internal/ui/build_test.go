package ui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mitkury/markpage/internal/builder"
	"github.com/mitkury/markpage/internal/ui"
)

var errMock = errors.New("mock error")

func newTestPrinter(buf *bytes.Buffer, dryRun, verbose bool) *ui.BuildPrinter {
	return ui.NewBuildPrinterWithWriter(buf, dryRun, verbose)
}

func TestHandleEventStart(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := newTestPrinter(&buf, false, tt.verbose)

			p.HandleEvent(builder.Event{Kind: builder.EventPageStart, Page: "guide/intro.md"})

			got := strings.Contains(buf.String(), "building guide/intro.md")
			if got != tt.want {
				t.Errorf("start event printed = %v, want %v; output: %q", got, tt.want, buf.String())
			}
		})
	}
}

func TestHandleEventDoneSuccess(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false, false)

	p.HandleEvent(builder.Event{
		Kind:       builder.EventPageDone,
		Page:       "guide/intro.md",
		Components: 3,
		Bytes:      2048,
	})

	out := buf.String()
	for _, want := range []string{"guide/intro.md", "3 component(s)", "2.0 kB"} {
		if !strings.Contains(out, want) {
			t.Errorf("done event output missing %q, got: %q", want, out)
		}
	}
}

func TestHandleEventDoneSkipped(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false, true)

	p.HandleEvent(builder.Event{Kind: builder.EventPageDone, Page: "intro.md", Skipped: true})

	if out := buf.String(); !strings.Contains(out, "up to date") {
		t.Errorf("skipped event output missing 'up to date', got: %q", out)
	}

	buf.Reset()
	quiet := newTestPrinter(&buf, false, false)
	quiet.HandleEvent(builder.Event{Kind: builder.EventPageDone, Page: "intro.md", Skipped: true})
	if buf.Len() != 0 {
		t.Errorf("quiet printer reported skipped page: %q", buf.String())
	}
}

func TestHandleEventDoneWarning(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false, false)

	p.HandleEvent(builder.Event{Kind: builder.EventPageDone, Page: "huge.md", Warning: "file_too_large"})

	if out := buf.String(); !strings.Contains(out, "file_too_large") {
		t.Errorf("warning event output missing warning, got: %q", out)
	}
}

func TestHandleEventDoneError(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false, false)

	p.HandleEvent(builder.Event{
		Kind: builder.EventPageDone,
		Page: "broken.md",
		Err:  errMock,
	})

	out := buf.String()
	if !strings.Contains(out, "broken.md") {
		t.Errorf("error event output missing page, got: %q", out)
	}
	if !strings.Contains(out, "mock error") {
		t.Errorf("error event output missing error text, got: %q", out)
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false, false)

	p.PrintSummary(&builder.RunResult{
		Pages:      3,
		Rendered:   2,
		Skipped:    1,
		Components: 4,
		Bytes:      1500,
		Removed:    1,
	})

	out := buf.String()
	for _, want := range []string{"build complete", "3 page(s)", "2 rendered", "1 up-to-date", "1.5 kB written", "1 removed"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q, got: %q", want, out)
		}
	}
}

func TestPrintSummaryDryRun(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, true, false)

	p.PrintSummary(&builder.RunResult{Pages: 2, Rendered: 2})

	out := buf.String()
	if !strings.Contains(out, "dry-run complete") {
		t.Errorf("dry-run summary missing label, got: %q", out)
	}
	if !strings.Contains(out, "no files were written or removed") {
		t.Errorf("dry-run summary missing disclaimer, got: %q", out)
	}
}

func TestPrintSummaryWithErrors(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false, false)

	p.PrintSummary(&builder.RunResult{Pages: 3, Errors: 2})

	if out := buf.String(); !strings.Contains(out, "2 failed") {
		t.Errorf("summary missing error count, got: %q", out)
	}
}

func TestPrintSummaryNilResult(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false, false)

	p.PrintSummary(nil)

	if buf.Len() != 0 {
		t.Errorf("expected no output for nil result, got: %q", buf.String())
	}
}

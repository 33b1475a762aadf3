package ui

import (
	"io"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"

	"github.com/mitkury/markpage/internal/builder"
)

func NewProgressWriter() progress.Writer {
	writer := progress.NewWriter()
	writer.SetAutoStop(true)
	writer.SetTrackerLength(30)
	writer.SetStyle(progress.StyleBlocks)
	writer.Style().Visibility.ETA = true
	writer.Style().Visibility.Speed = true
	writer.Style().Visibility.Value = true

	return writer
}

const renderPoll = 10 * time.Millisecond

// BuildProgress shows a progress bar of built pages. The tracker starts on
// the first event, once the page count is known.
type BuildProgress struct {
	pw      progress.Writer
	tracker *progress.Tracker
	once    sync.Once
	mu      sync.Mutex
}

func NewBuildProgress(w io.Writer) *BuildProgress {
	pw := NewProgressWriter()
	pw.SetOutputWriter(w)
	return &BuildProgress{pw: pw}
}

// HandleEvent is the callback wired into builder.Options.OnEvent.
func (p *BuildProgress) HandleEvent(e builder.Event) {
	p.once.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.tracker = &progress.Tracker{
			Message: "Building pages",
			Total:   int64(e.Total),
			Units:   progress.UnitsDefault,
		}
		p.pw.AppendTracker(p.tracker)
		go p.pw.Render()
	})

	if e.Kind == builder.EventPageDone {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.tracker.Increment(1)
	}
}

// Done marks the tracker finished and waits for the final render.
func (p *BuildProgress) Done() {
	p.mu.Lock()
	tracker := p.tracker
	p.mu.Unlock()
	if tracker == nil {
		return
	}

	tracker.MarkAsDone()
	for p.pw.IsRenderInProgress() {
		time.Sleep(renderPoll)
	}
}

// Value reports the number of pages finished so far.
func (p *BuildProgress) Value() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tracker == nil {
		return 0
	}
	return p.tracker.Value()
}

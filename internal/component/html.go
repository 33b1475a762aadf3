package component

import "strings"

type SegmentKind string

const (
	SegmentText      SegmentKind = "text"
	SegmentComponent SegmentKind = "component"
)

// Node is a component found in rendered HTML. Children holds the trimmed
// inner HTML and is empty for self-closing tags.
type Node struct {
	Name        string     `json:"name"`
	Props       Attributes `json:"props"`
	Children    string     `json:"children,omitempty"`
	SelfClosing bool       `json:"self_closing,omitempty"`
	Start       int        `json:"start"`
	End         int        `json:"end"`
}

// Segment is either a run of literal HTML or a component, in source order.
type Segment struct {
	Kind      SegmentKind `json:"type"`
	Text      string      `json:"content,omitempty"`
	Component *Node       `json:"component,omitempty"`
}

// HTMLScanner finds component tags in HTML produced by a markdown renderer.
// Tags inside <pre> or <code> stay literal text, and an opening tag with no
// closer is not a component here.
type HTMLScanner struct {
	Dialect Dialect
}

func NewHTMLScanner(dialect Dialect) HTMLScanner {
	return HTMLScanner{Dialect: dialect}
}

// Scan splits doc into text and component segments.
func (s HTMLScanner) Scan(doc string) []Segment {
	src := []byte(doc)
	guard := NewCodeGuard(doc)

	var segments []Segment
	last := 0
	pos := 0
	for pos < len(src) {
		off, ok := InlineStart(src[pos:])
		if !ok {
			break
		}
		start := pos + off

		node, end, ok := s.component(src, start)
		if !ok {
			pos = start + 1
			continue
		}

		if guard.Inside(start, end) {
			pos = end
			continue
		}

		if start > last {
			segments = append(segments, Segment{Kind: SegmentText, Text: doc[last:start]})
		}
		segments = append(segments, Segment{Kind: SegmentComponent, Component: node})
		last = end
		pos = end
	}

	if last < len(doc) {
		segments = append(segments, Segment{Kind: SegmentText, Text: doc[last:]})
	}
	return segments
}

func (s HTMLScanner) component(src []byte, start int) (*Node, int, bool) {
	tag, ok := scanOpenTag(src, start)
	if !ok {
		return nil, 0, false
	}

	node := &Node{
		Name:  tag.name,
		Props: s.Dialect.Parse(tag.attrs),
		Start: start,
	}
	if tag.selfClosing {
		node.SelfClosing = true
		node.End = tag.end
		return node, tag.end, true
	}

	closeStart, closeEnd, found := FindClose(src, tag.name, tag.end)
	if !found {
		return nil, 0, false
	}
	node.Children = strings.TrimSpace(string(src[tag.end:closeStart]))
	node.End = closeEnd
	return node, closeEnd, true
}

// Components returns only the component nodes of doc.
func (s HTMLScanner) Components(doc string) []*Node {
	var nodes []*Node
	for _, seg := range s.Scan(doc) {
		if seg.Kind == SegmentComponent {
			nodes = append(nodes, seg.Component)
		}
	}
	return nodes
}

// HasComponents reports whether doc contains at least one component
// outside code regions.
func (s HTMLScanner) HasComponents(doc string) bool {
	return len(s.Components(doc)) > 0
}

// ScanHTML is shorthand for NewHTMLScanner(dialect).Scan(doc).
func ScanHTML(doc string, dialect Dialect) []Segment {
	return NewHTMLScanner(dialect).Scan(doc)
}

package component_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mitkury/markpage/internal/component"
)

func TestHTMLScanner_Scan(t *testing.T) {
	scanner := component.NewHTMLScanner(component.DialectLegacy)
	doc := "<p>Intro</p>\n<Alert type=\"info\" level=2><p>Body</p></Alert>\n<p>End</p>"

	start := strings.Index(doc, "<Alert")
	end := strings.Index(doc, "</Alert>") + len("</Alert>")

	want := []component.Segment{
		{Kind: component.SegmentText, Text: "<p>Intro</p>\n"},
		{Kind: component.SegmentComponent, Component: &component.Node{
			Name: "Alert",
			Props: component.Attributes{
				"type":  component.StringValue("info"),
				"level": component.NumberValue(2),
			},
			Children: "<p>Body</p>",
			Start:    start,
			End:      end,
		}},
		{Kind: component.SegmentText, Text: "\n<p>End</p>"},
	}

	if diff := cmp.Diff(want, scanner.Scan(doc)); diff != "" {
		t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
	}
}

func TestHTMLScanner_Scan_TextOnly(t *testing.T) {
	scanner := component.NewHTMLScanner(component.DialectLegacy)

	tests := []struct {
		name string
		doc  string
	}{
		{"inside code", "<p>See</p><pre><code><Alert>x</Alert></code></pre>"},
		{"unterminated", "<p><Alert>hello</p>"},
		{"lowercase only", "<div><span>x</span></div>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := []component.Segment{{Kind: component.SegmentText, Text: tt.doc}}
			if diff := cmp.Diff(want, scanner.Scan(tt.doc)); diff != "" {
				t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
			}
			if scanner.HasComponents(tt.doc) {
				t.Error("HasComponents() = true, want false")
			}
		})
	}
}

func TestHTMLScanner_Components(t *testing.T) {
	scanner := component.NewHTMLScanner(component.DialectBraces)
	doc := `<Divider /><p>a</p><Card title="One"><Card title="Two">x</Card></Card><Badge>b</Badge>`

	nodes := scanner.Components(doc)

	var names []string
	for _, n := range nodes {
		names = append(names, n.Name)
	}
	if diff := cmp.Diff([]string{"Divider", "Card", "Badge"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !nodes[0].SelfClosing || nodes[0].Children != "" {
		t.Errorf("Divider = %+v, want self-closing without children", nodes[0])
	}
	if nodes[1].Children != `<Card title="Two">x</Card>` {
		t.Errorf("Card children = %q", nodes[1].Children)
	}
	if got := nodes[1].Props["title"].Str; got != "One" {
		t.Errorf("Card title = %q, want One", got)
	}
}

func TestHTMLScanner_Empty(t *testing.T) {
	if got := component.NewHTMLScanner(component.DialectBraces).Scan(""); len(got) != 0 {
		t.Errorf("Scan(\"\") = %v, want empty", got)
	}
}

package component

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Range is a half-open byte interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Covers reports whether [start, end) lies entirely inside r.
func (r Range) Covers(start, end int) bool {
	return start >= r.Start && end <= r.End
}

// CodeRanges returns the spans of every closed <pre>…</pre> and
// <code>…</code> element in doc. Tag names match case-insensitively and an
// element that is never closed contributes no range.
func CodeRanges(doc string) []Range {
	type open struct {
		tag   atom.Atom
		start int
	}

	var (
		ranges []Range
		stack  []open
		pos    int
	)

	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		size := len(z.Raw())

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); a == atom.Pre || a == atom.Code {
				stack = append(stack, open{tag: a, start: pos})
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a != atom.Pre && a != atom.Code {
				break
			}
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].tag == a {
					ranges = append(ranges, Range{Start: stack[i].start, End: pos + size})
					stack = stack[:i]
					break
				}
			}
		}

		pos += size
	}
	return ranges
}

// CodeGuard answers whether a span falls inside precomputed code ranges.
type CodeGuard struct {
	ranges []Range
}

func NewCodeGuard(doc string) CodeGuard {
	return CodeGuard{ranges: CodeRanges(doc)}
}

func (g CodeGuard) Ranges() []Range {
	out := make([]Range, len(g.ranges))
	copy(out, g.ranges)
	return out
}

// Inside reports whether [start, end) is fully covered by a code range.
func (g CodeGuard) Inside(start, end int) bool {
	for _, r := range g.ranges {
		if r.Covers(start, end) {
			return true
		}
	}
	return false
}

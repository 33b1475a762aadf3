package parser

import (
	"bytes"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown/ast"

	"github.com/mitkury/markpage/internal/component"
	"github.com/mitkury/markpage/internal/lexer"
)

const (
	setextH1Level = 1
	setextH2Level = 2
)

// MarkdownParser lexes markdown with component extensions and reports the
// page's outline, description and component usage.
type MarkdownParser struct {
	lx *lexer.Lexer
}

// NewMarkdownParser returns a parser backed by lx. A nil lexer, like the zero
// MarkdownParser, uses the component extensions in the braces dialect.
func NewMarkdownParser(lx *lexer.Lexer) *MarkdownParser {
	return &MarkdownParser{lx: lx}
}

var defaultLexer = sync.OnceValue(func() *lexer.Lexer {
	return lexer.New(lexer.WithExtensions(lexer.ComponentExtensions(component.DialectBraces)))
})

func (p *MarkdownParser) lexerOrDefault() *lexer.Lexer {
	if p.lx == nil {
		return defaultLexer()
	}
	return p.lx
}

func (p *MarkdownParser) CanParse(path string) bool {
	return PageType(path) == TypeMarkdown
}

func (p *MarkdownParser) Parse(_ string, content []byte) (*ParseResult, error) {
	return p.parseSource(SplitSource(content)), nil
}

func (p *MarkdownParser) parseSource(src Source) *ParseResult {
	doc := p.lexerOrDefault().Lex(src.Body)

	headings, firstH1, firstPara, paraAfterH1 := extractMarkdownContent(doc, src.Body, src.BodyOffset)
	title := src.Title
	if title == "" {
		title = firstH1
	}

	return &ParseResult{
		Title:       title,
		Description: buildDescription(src.Title, src.Description, firstH1, paraAfterH1, firstPara),
		Outline:     &Outline{Headings: headings},
		Components:  componentRefs(doc, src.Body, src.BodyOffset),
		Lines:       src.Lines,
		Doc:         doc,
	}
}

func extractMarkdownContent(doc ast.Node, body []byte, lineOffset int) ([]Heading, string, string, string) {
	var headings []Heading
	var firstH1Text string
	var firstParagraph string
	var paragraphAfterH1 string
	foundH1 := false

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		if heading, isHeading := node.(*ast.Heading); isHeading {
			text := extractText(heading)
			if text != "" {
				headings = append(headings, Heading{
					Level: heading.Level,
					Text:  text,
				})
				if heading.Level == 1 && firstH1Text == "" {
					firstH1Text = text
					foundH1 = true
				}
			}
		} else if para, isPara := node.(*ast.Paragraph); isPara {
			processParagraph(para, &firstParagraph, &paragraphAfterH1, foundH1)
		}

		return ast.GoToNext
	})

	assignHeadingLineNumbers(headings, body, lineOffset)
	return headings, firstH1Text, firstParagraph, paragraphAfterH1
}

// componentRefs lists the components under doc in document order. Lines are
// found by searching for each raw occurrence after the previous one.
func componentRefs(doc ast.Node, body []byte, lineOffset int) []ComponentRef {
	nodes := lexer.Components(doc)
	if len(nodes) == 0 {
		return nil
	}

	refs := make([]ComponentRef, 0, len(nodes))
	cursor := 0
	for _, c := range nodes {
		ref := ComponentRef{
			Name:        c.Name,
			Level:       c.Level.String(),
			Attrs:       c.Attrs,
			SelfClosing: c.SelfClosing,
		}
		if i := bytes.Index(body[cursor:], openingOf(c)); i >= 0 {
			pos := cursor + i
			ref.Line = lineOffset + bytes.Count(body[:pos], []byte("\n")) + 1
			cursor = pos + 1
		}
		refs = append(refs, ref)
	}
	return refs
}

// openingOf returns the opening tag text of c, which is the part of Raw that
// is never rewritten by the lexer.
func openingOf(c *lexer.Component) []byte {
	raw := bytes.TrimRight(c.Raw, "\n")
	if c.SelfClosing || len(c.Inner) == 0 {
		return raw
	}
	if i := bytes.Index(raw, c.Inner); i > 0 {
		return raw[:i]
	}
	return raw
}

func processParagraph(n *ast.Paragraph, firstPara, paraAfterH1 *string, foundH1 bool) {
	if *firstPara != "" {
		return
	}

	text := extractText(n)
	if text != "" {
		*firstPara = text
		if foundH1 && *paraAfterH1 == "" {
			*paraAfterH1 = text
		}
	}
}

func extractText(node ast.Node) string {
	var buf strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if entering {
			if text, ok := n.(*ast.Text); ok {
				buf.Write(text.Literal)
			}
		}
		return ast.GoToNext
	})
	text := strings.TrimSpace(buf.String())
	// Normalize whitespace - replace multiple spaces/newlines with single space
	text = strings.Join(strings.Fields(text), " ")
	return text
}

// assignHeadingLineNumbers scans content for heading markers and assigns
// the correct line number to each heading in document order.
// This is necessary because gomarkdown's AST does not store source positions.
func assignHeadingLineNumbers(headings []Heading, content []byte, lineOffset int) {
	if len(headings) == 0 {
		return
	}

	lines := bytes.Split(content, []byte("\n"))
	hi := 0
	inFenced := false

	for lineIdx := 0; lineIdx < len(lines) && hi < len(headings); lineIdx++ {
		line := lines[lineIdx]
		trimmed := bytes.TrimSpace(line)

		if isFenceMarker(trimmed) {
			inFenced = !inFenced
			continue
		}
		if inFenced {
			continue
		}

		if level := atxHeadingLevel(line); level == headings[hi].Level {
			headings[hi].Line = lineOffset + lineIdx + 1
			hi++
			continue
		}

		if level := setextHeadingLevel(lines, lineIdx, trimmed); level == headings[hi].Level {
			headings[hi].Line = lineOffset + lineIdx + 1
			hi++
		}
	}
}

func isFenceMarker(trimmed []byte) bool {
	return bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~"))
}

// atxHeadingLevel returns the heading level (1-6) for an ATX heading line,
// or 0 if the line is not an ATX heading.
func atxHeadingLevel(line []byte) int {
	spaces := 0
	for spaces < len(line) && spaces < 4 && line[spaces] == ' ' {
		spaces++
	}
	if spaces >= 4 || spaces >= len(line) || line[spaces] != '#' {
		return 0
	}

	level := 0
	for spaces+level < len(line) && level < 7 && line[spaces+level] == '#' {
		level++
	}
	if level >= 1 && level <= 6 && spaces+level < len(line) && line[spaces+level] == ' ' {
		return level
	}
	return 0
}

// setextHeadingLevel returns the heading level for setext-style headings
// (1 for === underline, 2 for --- underline), or 0 if not a setext heading.
func setextHeadingLevel(lines [][]byte, lineIdx int, trimmed []byte) int {
	if lineIdx+1 >= len(lines) || len(trimmed) == 0 {
		return 0
	}
	nextTrimmed := bytes.TrimSpace(lines[lineIdx+1])
	if allSameChar(nextTrimmed, '=') {
		return setextH1Level
	}
	if allSameChar(nextTrimmed, '-') {
		return setextH2Level
	}
	return 0
}

func allSameChar(b []byte, ch byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c != ch {
			return false
		}
	}
	return true
}

func buildDescription(fmTitle, fmDesc, firstH1, paragraphAfterH1, firstParagraph string) string {
	if fmTitle != "" && fmDesc != "" {
		return fmTitle + " - " + fmDesc
	}
	if fmTitle != "" {
		return fmTitle
	}
	if fmDesc != "" {
		return fmDesc
	}
	if firstH1 != "" {
		if paragraphAfterH1 != "" {
			return firstH1 + " - " + paragraphAfterH1
		}
		return firstH1
	}
	return firstParagraph
}

package parser

import (
	"bytes"
	"regexp"

	"github.com/mitkury/markpage/internal/lexer"
)

var (
	importLineRegex = regexp.MustCompile(`^\s*import\s+`)
	exportMetaRegex = regexp.MustCompile(`^\s*export\s+(const|let|var)\s+\w+\s*=`)
)

// MDXParser handles .mdx files: ESM import and export statements are blanked
// out before the body is lexed like markdown.
type MDXParser struct {
	md MarkdownParser
}

func NewMDXParser(lx *lexer.Lexer) *MDXParser {
	return &MDXParser{md: MarkdownParser{lx: lx}}
}

func (p *MDXParser) CanParse(path string) bool {
	return PageType(path) == TypeMDX
}

func (p *MDXParser) Parse(_ string, content []byte) (*ParseResult, error) {
	src := SplitSource(content)
	src.Body = stripMDXSyntax(src.Body)
	return p.md.parseSource(src), nil
}

// stripMDXSyntax replaces import and export statements with blank lines so
// line numbers still match the source. A statement continues while its
// braces are unbalanced.
func stripMDXSyntax(content []byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	cleaned := make([][]byte, 0, len(lines))

	depth := 0
	for _, line := range lines {
		if depth > 0 || importLineRegex.Match(line) || exportMetaRegex.Match(line) {
			depth += bytes.Count(line, []byte("{")) - bytes.Count(line, []byte("}"))
			depth = max(depth, 0)
			cleaned = append(cleaned, nil)
			continue
		}
		cleaned = append(cleaned, line)
	}

	return bytes.Join(cleaned, []byte("\n"))
}

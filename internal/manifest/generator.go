package manifest

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/samber/oops"

	"github.com/mitkury/markpage/internal/lexer"
	"github.com/mitkury/markpage/internal/navigation"
	"github.com/mitkury/markpage/internal/parser"
)

const (
	maxParseSize = 50 * 1024 * 1024 // 50MB

	WarningTooLarge   = "file_too_large"
	WarningInvalidUTF = "invalid_utf8"
)

// Parsers returns the page parsers, all lexing with lx.
func Parsers(lx *lexer.Lexer) []parser.Parser {
	return []parser.Parser{
		parser.NewMarkdownParser(lx),
		parser.NewMDXParser(lx),
	}
}

// HTMLFile maps a source path to the path of its rendered page.
func HTMLFile(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, path.Ext(sourcePath)) + ".html"
}

// ParsePage reads the file behind item and builds its page record. The parse
// result is nil when the file is too large to parse.
func ParsePage(contentDir string, item *navigation.Item, parsers []parser.Parser) (*Page, *parser.ParseResult, error) {
	page, content, err := ReadPage(contentDir, item)
	if err != nil || content == nil {
		return page, nil, err
	}
	result, err := page.Parse(content, parsers)
	if err != nil {
		return nil, nil, err
	}
	return page, result, nil
}

// ReadPage stats and reads the file behind item. The returned content is nil
// when the file is over the parse size limit, in which case the page carries
// a warning instead.
func ReadPage(contentDir string, item *navigation.Item) (*Page, []byte, error) {
	absPath := filepath.Join(contentDir, filepath.FromSlash(item.Path))

	stat, err := os.Stat(absPath)
	if err != nil {
		return nil, nil, oops.
			Code("PAGE_READ_ERROR").
			With("path", absPath).
			Wrapf(err, "reading page")
	}

	page := &Page{
		Path:     item.Path,
		Name:     item.Name,
		Label:    item.Label,
		HTMLFile: HTMLFile(item.Path),
		Type:     parser.PageType(item.Path),
		Size:     stat.Size(),
		Modified: stat.ModTime(),
	}

	if stat.Size() > maxParseSize {
		page.Warning = WarningTooLarge
		return page, nil, nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, nil, oops.
			Code("PAGE_READ_ERROR").
			With("path", absPath).
			Wrapf(err, "reading page")
	}

	if parser.IsBinary(content) {
		return nil, nil, oops.
			Code("PAGE_BINARY").
			With("path", absPath).
			Errorf("binary file %s", item.Path)
	}
	if !parser.IsValidUTF8(content) {
		page.Warning = WarningInvalidUTF
	}

	return page, content, nil
}

// Parse runs the first parser that accepts the page and fills in the
// extracted metadata.
func (p *Page) Parse(content []byte, parsers []parser.Parser) (*parser.ParseResult, error) {
	var matchedParser parser.Parser
	for _, candidate := range parsers {
		if candidate.CanParse(p.Path) {
			matchedParser = candidate
			break
		}
	}

	if matchedParser == nil {
		return nil, oops.
			Code("PAGE_UNSUPPORTED").
			With("path", p.Path).
			Hint("Pages must be .md or .mdx files").
			Errorf("no parser for %s", p.Path)
	}

	result, err := matchedParser.Parse(p.Path, content)
	if err != nil {
		return nil, oops.
			Code("PAGE_PARSE_ERROR").
			With("path", p.Path).
			Wrapf(err, "parsing page")
	}

	p.Lines = result.Lines
	p.Title = result.Title
	p.Description = result.Description
	p.Outline = result.Outline
	p.Components = result.Components

	return result, nil
}

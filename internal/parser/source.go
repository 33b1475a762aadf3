package parser

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Page types, as stored in the page manifest.
const (
	TypeMarkdown = "md"
	TypeMDX      = "mdx"
)

const (
	binarySniffSize = 512
	frontmatterRule = "---"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PageType returns the page type for a source path, or "" when markpage
// does not build pages from that kind of file.
func PageType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return TypeMarkdown
	case ".mdx":
		return TypeMDX
	default:
		return ""
	}
}

// IsBinary reports whether the first bytes of content hold a NUL byte.
func IsBinary(content []byte) bool {
	size := min(len(content), binarySniffSize)
	return bytes.IndexByte(content[:size], 0) != -1
}

func IsValidUTF8(content []byte) bool {
	return utf8.Valid(content)
}

// Source is a page file split into its frontmatter fields and the markdown
// body that follows them.
type Source struct {
	Title       string
	Description string
	// Body is the markdown after the frontmatter, with a leading byte order
	// mark removed and line endings normalized to \n.
	Body []byte
	// BodyOffset is the number of source lines before Body.
	BodyOffset int
	// Lines counts the lines of the whole file.
	Lines int
}

// SplitSource separates the YAML frontmatter of a page, delimited by ---
// lines, from its body. Only the title and description keys are read.
func SplitSource(content []byte) Source {
	content = normalizeNewlines(bytes.TrimPrefix(content, utf8BOM))
	src := Source{
		Body:  content,
		Lines: bytes.Count(content, []byte("\n")) + 1,
	}

	fm, body, ok := cutFrontmatter(content)
	if !ok {
		return src
	}
	src.Body = body
	src.BodyOffset = bytes.Count(content[:len(content)-len(body)], []byte("\n"))
	src.Title, src.Description = frontmatterFields(fm)
	return src
}

// cutFrontmatter returns the lines between an opening --- on the first line
// and the next --- line, and the content after that closing line.
func cutFrontmatter(content []byte) (fm, body []byte, ok bool) {
	rest, found := bytes.CutPrefix(content, []byte(frontmatterRule+"\n"))
	if !found {
		return nil, content, false
	}

	for off := 0; off < len(rest); {
		end, next := len(rest), len(rest)
		if i := bytes.IndexByte(rest[off:], '\n'); i >= 0 {
			end, next = off+i, off+i+1
		}
		if string(bytes.TrimRight(rest[off:end], " \t")) == frontmatterRule {
			return rest[:off], rest[next:], true
		}
		off = next
	}
	return nil, content, false
}

func frontmatterFields(fm []byte) (title, description string) {
	for line := range bytes.Lines(fm) {
		key, value, ok := bytes.Cut(line, []byte(":"))
		if !ok {
			continue
		}
		v := strings.Trim(strings.TrimSpace(string(value)), `"'`)
		switch string(bytes.TrimSpace(key)) {
		case "title":
			title = v
		case "description":
			description = v
		}
	}
	return title, description
}

func normalizeNewlines(b []byte) []byte {
	if bytes.IndexByte(b, '\r') < 0 {
		return b
	}
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
}

package component

import "bytes"

// Level is the granularity a Tokenizer operates at.
type Level uint8

const (
	LevelBlock Level = iota + 1
	LevelInline
)

func (l Level) String() string {
	switch l {
	case LevelBlock:
		return "block"
	case LevelInline:
		return "inline"
	default:
		return "unknown"
	}
}

const maxBlockIndent = 3

// Match is one component occurrence recognized at the start of some input.
type Match struct {
	Name  string
	Attrs Attributes
	// Raw is the opening tag through the matching closer, or the opening
	// tag alone when the occurrence has no children.
	Raw []byte
	// Inner is the untrimmed text between the opening tag and the closer.
	Inner       []byte
	SelfClosing bool
	// Consumed is how many bytes of the input the occurrence accounts for.
	// At block level it includes leading indentation and, for paired tags,
	// the rest of the closer's line and its line break.
	Consumed int
}

// Tokenizer recognizes a single component occurrence at the start of its
// input. It has no state beyond its configuration and is safe for
// concurrent use.
type Tokenizer struct {
	Level   Level
	Dialect Dialect
}

func NewTokenizer(level Level, dialect Dialect) Tokenizer {
	return Tokenizer{Level: level, Dialect: dialect}
}

// Match tries to read one occurrence from the start of src. An opening tag
// without a matching closer degrades to a self-closing occurrence.
func (t Tokenizer) Match(src []byte) (Match, bool) {
	at := 0
	if t.Level == LevelBlock {
		for at < len(src) && at < maxBlockIndent && src[at] == ' ' {
			at++
		}
	}

	tag, ok := scanOpenTag(src, at)
	if !ok {
		return Match{}, false
	}

	m := Match{
		Name:  tag.name,
		Attrs: t.Dialect.Parse(tag.attrs),
	}

	if !tag.selfClosing {
		if closeStart, closeEnd, found := FindClose(src, tag.name, tag.end); found {
			m.Raw = src[at:closeEnd]
			m.Inner = src[tag.end:closeStart]
			m.Consumed = closeEnd
			if t.Level == LevelBlock {
				lineEnd, blank := restOfLine(src, closeEnd)
				if !blank {
					return Match{}, false
				}
				m.Consumed = lineEnd
			}
			return m, true
		}
	}

	m.Raw = src[at:tag.end]
	m.SelfClosing = true
	m.Consumed = tag.end
	if t.Level == LevelBlock {
		if _, blank := restOfLine(src, tag.end); !blank {
			return Match{}, false
		}
	}
	return m, true
}

// restOfLine returns the offset just past the line break ending the line
// that contains src[from], and whether the text in between is blank.
func restOfLine(src []byte, from int) (int, bool) {
	nl := bytes.IndexByte(src[from:], '\n')
	end := len(src)
	if nl >= 0 {
		end = from + nl + 1
	}
	return end, len(bytes.TrimSpace(src[from:end])) == 0
}

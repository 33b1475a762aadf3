package component

import "bytes"

// openTag is a scanned "<Name attrs>" or "<Name attrs/>".
type openTag struct {
	name        string
	attrs       string
	end         int
	selfClosing bool
}

// IsTagName reports whether name starts with an uppercase ASCII letter
// followed by letters, digits, ':', '_' or '-'.
func IsTagName(name string) bool {
	if name == "" || !isUpper(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isTagNameChar(name[i]) {
			return false
		}
	}
	return true
}

// scanOpenTag reads a component opening tag starting at src[at]. Attribute
// text may span lines and may contain '>' inside quotes or braces.
func scanOpenTag(src []byte, at int) (openTag, bool) {
	if at+1 >= len(src) || src[at] != '<' || !isUpper(src[at+1]) {
		return openTag{}, false
	}

	i := at + 1
	for i < len(src) && isTagNameChar(src[i]) {
		i++
	}
	if i >= len(src) {
		return openTag{}, false
	}
	if c := src[i]; c != '>' && c != '/' && !isSpace(c) {
		return openTag{}, false
	}
	name := string(src[at+1 : i])

	attrStart := i
	depth := 0
	var quote byte
	for ; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '<':
			if depth == 0 {
				return openTag{}, false
			}
		case '>':
			if depth > 0 {
				continue
			}
			body := bytes.TrimSpace(src[attrStart:i])
			selfClosing := len(body) > 0 && body[len(body)-1] == '/'
			if selfClosing {
				body = bytes.TrimSpace(body[:len(body)-1])
			}
			return openTag{
				name:        name,
				attrs:       string(body),
				end:         i + 1,
				selfClosing: selfClosing,
			}, true
		}
	}
	return openTag{}, false
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isTagNameChar(c byte) bool {
	return isWordChar(c) || c == ':' || c == '-'
}

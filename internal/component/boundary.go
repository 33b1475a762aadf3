package component

import "bytes"

const (
	escapedOpen  = "&lt;/"
	escapedClose = "&gt;"
)

// FindMatchingClose returns the offset just past the closing tag that
// balances an already consumed <name> opening tag, scanning from from.
// Both </name> and its entity-escaped form &lt;/name&gt; close the tag.
func FindMatchingClose(src []byte, name string, from int) (int, bool) {
	_, end, ok := FindClose(src, name, from)
	return end, ok
}

// FindClose is FindMatchingClose that also reports where the matching
// closer starts. Only openers with the same name change the depth;
// self-closing tags of that name do not.
func FindClose(src []byte, name string, from int) (start, end int, ok bool) {
	if from < 0 {
		from = 0
	}
	closer := []byte("</" + name + ">")
	escaped := []byte(escapedOpen + name + escapedClose)

	depth := 1
	i := from
	for i < len(src) {
		next := bytes.IndexAny(src[i:], "<&")
		if next < 0 {
			break
		}
		i += next

		rest := src[i:]
		switch {
		case bytes.HasPrefix(rest, closer):
			depth--
			if depth == 0 {
				return i, i + len(closer), true
			}
			i += len(closer)
		case bytes.HasPrefix(rest, escaped):
			depth--
			if depth == 0 {
				return i, i + len(escaped), true
			}
			i += len(escaped)
		case src[i] == '<':
			tag, isTag := scanOpenTag(src, i)
			if !isTag || tag.name != name {
				i++
				continue
			}
			if !tag.selfClosing {
				depth++
			}
			i = tag.end
		default:
			i++
		}
	}
	return -1, -1, false
}

package component

import "regexp"

var (
	blockStartRegex  = regexp.MustCompile(`(?m)^[ \t]*<[A-Z]`)
	inlineStartRegex = regexp.MustCompile(`<[A-Z]`)
)

// BlockStart returns the offset of the first line of src whose first
// non-blank characters open a capitalized tag. A reported line may still
// fail to tokenize.
func BlockStart(src []byte) (int, bool) {
	loc := blockStartRegex.FindIndex(src)
	if loc == nil {
		return 0, false
	}
	return loc[0], true
}

// InlineStart returns the offset of the first '<' followed by an
// uppercase letter anywhere in src.
func InlineStart(src []byte) (int, bool) {
	loc := inlineStartRegex.FindIndex(src)
	if loc == nil {
		return 0, false
	}
	return loc[0], true
}

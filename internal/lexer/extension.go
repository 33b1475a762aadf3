package lexer

import (
	"github.com/gomarkdown/markdown/ast"

	"github.com/mitkury/markpage/internal/component"
)

type Level = component.Level

const (
	LevelBlock  = component.LevelBlock
	LevelInline = component.LevelInline
)

// Host is the re-entry point handed to extensions while a document is being
// lexed.
type Host interface {
	// Block lexes src as a standalone run of block content with every
	// extension of the active Lexer enabled and returns its top-level nodes.
	Block(src []byte) ([]ast.Node, error)
	// Inline lexes src as inline content and appends the result to parent.
	Inline(parent ast.Node, src []byte) error
}

// Token is what an extension produced. Consumed is measured from the start
// of the input passed to Tokenize. A nil Node with a positive Consumed drops
// the consumed input.
type Token struct {
	Node     ast.Node
	Consumed int
}

type Extension struct {
	Name  string
	Level Level
	// Trigger is the byte that makes the host try an inline extension.
	// Block extensions ignore it.
	Trigger byte
	// Start is an optional cheap probe run on the current line before
	// Tokenize. The extension is only tried when Start reports offset 0.
	Start func(src []byte) (int, bool)
	// Tokenize reads one occurrence from the start of src.
	Tokenize func(h Host, src []byte) (Token, bool)
}

// ExtensionSet is an ordered, immutable list of extensions. Earlier
// extensions are tried first.
type ExtensionSet struct {
	exts []Extension
}

func NewExtensionSet(exts ...Extension) ExtensionSet {
	return ExtensionSet{exts: append([]Extension(nil), exts...)}
}

// With returns a new set with exts appended; s is left unchanged.
func (s ExtensionSet) With(exts ...Extension) ExtensionSet {
	out := make([]Extension, 0, len(s.exts)+len(exts))
	out = append(out, s.exts...)
	out = append(out, exts...)
	return ExtensionSet{exts: out}
}

func (s ExtensionSet) Extensions() []Extension {
	return append([]Extension(nil), s.exts...)
}

func (s ExtensionSet) Len() int {
	return len(s.exts)
}

func (s ExtensionSet) block() []Extension {
	var out []Extension
	for _, ext := range s.exts {
		if ext.Level == LevelBlock && ext.Tokenize != nil {
			out = append(out, ext)
		}
	}
	return out
}

// inline groups inline extensions by trigger byte, keeping set order.
func (s ExtensionSet) inline() (map[byte][]Extension, []byte) {
	byTrigger := map[byte][]Extension{}
	var triggers []byte
	for _, ext := range s.exts {
		if ext.Level != LevelInline || ext.Tokenize == nil || ext.Trigger == 0 {
			continue
		}
		if _, seen := byTrigger[ext.Trigger]; !seen {
			triggers = append(triggers, ext.Trigger)
		}
		byTrigger[ext.Trigger] = append(byTrigger[ext.Trigger], ext)
	}
	return byTrigger, triggers
}

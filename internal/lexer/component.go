package lexer

import (
	"bytes"

	"github.com/gomarkdown/markdown/ast"

	"github.com/mitkury/markpage/internal/component"
)

const ComponentExtensionName = "component"

// Component is a component occurrence in the AST. Paired occurrences keep
// their lexed inner content as children; self-closing ones have none.
type Component struct {
	ast.Container

	Name        string
	Attrs       component.Attributes
	Raw         []byte
	Inner       []byte
	SelfClosing bool
	Level       Level
}

func newComponent(m component.Match, level Level) *Component {
	return &Component{
		Name:        m.Name,
		Attrs:       m.Attrs,
		Raw:         m.Raw,
		Inner:       m.Inner,
		SelfClosing: m.SelfClosing,
		Level:       level,
	}
}

// ComponentExtensions returns the block and inline component extensions
// using the given attribute dialect.
func ComponentExtensions(dialect component.Dialect) ExtensionSet {
	return NewExtensionSet(
		BlockComponent(dialect),
		InlineComponent(dialect),
	)
}

func BlockComponent(dialect component.Dialect) Extension {
	tok := component.NewTokenizer(component.LevelBlock, dialect)
	return Extension{
		Name:  ComponentExtensionName,
		Level: LevelBlock,
		Start: component.BlockStart,
		Tokenize: func(h Host, src []byte) (Token, bool) {
			m, ok := tok.Match(src)
			if !ok {
				return Token{}, false
			}
			node := newComponent(m, LevelBlock)
			if inner := bytes.TrimSpace(m.Inner); !m.SelfClosing && len(inner) > 0 {
				children, err := h.Block(inner)
				if err != nil {
					appendText(node, inner)
				} else {
					appendFlattened(node, children)
				}
			}
			return Token{Node: node, Consumed: m.Consumed}, true
		},
	}
}

func InlineComponent(dialect component.Dialect) Extension {
	tok := component.NewTokenizer(component.LevelInline, dialect)
	return Extension{
		Name:    ComponentExtensionName,
		Level:   LevelInline,
		Trigger: '<',
		Start:   component.InlineStart,
		Tokenize: func(h Host, src []byte) (Token, bool) {
			m, ok := tok.Match(src)
			if !ok {
				return Token{}, false
			}
			node := newComponent(m, LevelInline)
			if inner := bytes.TrimSpace(m.Inner); !m.SelfClosing && len(inner) > 0 {
				if err := h.Inline(node, inner); err != nil {
					node.SetChildren(nil)
					appendText(node, inner)
				}
			}
			return Token{Node: node, Consumed: m.Consumed}, true
		},
	}
}

// appendFlattened splices top-level paragraphs into node. Consecutive
// paragraphs are separated by a hard break so they do not run together.
func appendFlattened(node ast.Node, children []ast.Node) {
	prevPara := false
	for _, child := range children {
		para, isPara := child.(*ast.Paragraph)
		if !isPara {
			adopt(node, child)
			prevPara = false
			continue
		}
		if prevPara {
			ast.AppendChild(node, &ast.Hardbreak{})
		}
		grandchildren := append([]ast.Node(nil), para.GetChildren()...)
		for _, gc := range grandchildren {
			adopt(node, gc)
		}
		prevPara = true
	}
}

// adopt moves child under parent. Detaching first keeps ast.AppendChild from
// clearing the child's own children.
func adopt(parent, child ast.Node) {
	child.SetParent(nil)
	ast.AppendChild(parent, child)
}

func appendText(node ast.Node, text []byte) {
	ast.AppendChild(node, &ast.Text{Leaf: ast.Leaf{Literal: append([]byte(nil), text...)}})
}

// Components returns every component node under root in document order,
// including nested ones.
func Components(root ast.Node) []*Component {
	var out []*Component
	ast.WalkFunc(root, func(n ast.Node, entering bool) ast.WalkStatus {
		if c, ok := n.(*Component); ok && entering {
			out = append(out, c)
		}
		return ast.GoToNext
	})
	return out
}

package lexer

import (
	"reflect"
	"strings"

	"github.com/gomarkdown/markdown/ast"

	"github.com/mitkury/markpage/internal/component"
)

// DumpNode is a plain, serializable view of an AST node.
type DumpNode struct {
	Type        string               `json:"type"`
	Name        string               `json:"name,omitempty"`
	Level       string               `json:"level,omitempty"`
	Attrs       component.Attributes `json:"attrs,omitempty"`
	SelfClosing bool                 `json:"self_closing,omitempty"`
	Raw         string               `json:"raw,omitempty"`
	Text        string               `json:"text,omitempty"`
	Children    []DumpNode           `json:"children,omitempty"`
}

// Dump converts the tree under n into DumpNodes. Text is the literal of leaf
// nodes; Raw is only set for components.
func Dump(n ast.Node) DumpNode {
	d := DumpNode{Type: nodeType(n)}

	if c, ok := n.(*Component); ok {
		d.Name = c.Name
		d.Level = c.Level.String()
		d.Attrs = c.Attrs
		d.SelfClosing = c.SelfClosing
		d.Raw = string(c.Raw)
	} else if leaf := n.AsLeaf(); leaf != nil {
		d.Text = string(leaf.Literal)
	}

	for _, child := range n.GetChildren() {
		d.Children = append(d.Children, Dump(child))
	}
	return d
}

func nodeType(n ast.Node) string {
	t := reflect.TypeOf(n)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.ToLower(t.Name())
}

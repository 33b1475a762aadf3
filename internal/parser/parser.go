package parser

import (
	"github.com/gomarkdown/markdown/ast"

	"github.com/mitkury/markpage/internal/component"
)

// Parser extracts description, outline and component usage from file content.
type Parser interface {
	Parse(path string, content []byte) (*ParseResult, error)
	CanParse(path string) bool
}

type ParseResult struct {
	Title       string
	Description string
	Outline     *Outline
	Components  []ComponentRef
	Lines       int
	// Doc is the lexed body, ready to be rendered.
	Doc ast.Node
}

type Outline struct {
	Headings []Heading `json:"headings,omitempty"`
}

type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Line  int    `json:"line"`
}

// ComponentRef records one component occurrence on a page.
type ComponentRef struct {
	Name        string               `json:"name"`
	Level       string               `json:"level"`
	Attrs       component.Attributes `json:"attrs,omitempty"`
	SelfClosing bool                 `json:"self_closing,omitempty"`
	Line        int                  `json:"line,omitempty"`
}

// ComponentNames returns the distinct component names in first-use order.
func (r *ParseResult) ComponentNames() []string {
	seen := make(map[string]struct{}, len(r.Components))
	var names []string
	for _, ref := range r.Components {
		if _, ok := seen[ref.Name]; ok {
			continue
		}
		seen[ref.Name] = struct{}{}
		names = append(names, ref.Name)
	}
	return names
}

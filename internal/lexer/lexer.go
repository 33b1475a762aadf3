package lexer

import (
	"bytes"
	"log/slog"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
	"github.com/samber/oops"
)

const (
	// DefaultMaxDepth bounds how many block passes may be nested inside one
	// another. A goroutine stack overflow cannot be recovered, so nesting
	// past this depth keeps the inner content as text instead.
	DefaultMaxDepth = 64

	// maxInlineDepth stays below the host parser's own inline nesting limit,
	// which silently drops content once reached.
	maxInlineDepth = 8
)

// Lexer turns markdown into a gomarkdown AST with extensions applied.
type Lexer struct {
	exts     ExtensionSet
	flags    parser.Extensions
	logger   *slog.Logger
	maxDepth int
}

type Option func(*Lexer)

// WithExtensions sets the extension set. It replaces any previous set.
func WithExtensions(set ExtensionSet) Option {
	return func(l *Lexer) { l.exts = set }
}

// WithFlags sets the host parser's markdown extensions.
func WithFlags(flags parser.Extensions) Option {
	return func(l *Lexer) { l.flags = flags }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Lexer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithMaxDepth(depth int) Option {
	return func(l *Lexer) {
		if depth > 0 {
			l.maxDepth = depth
		}
	}
}

func New(opts ...Option) *Lexer {
	l := &Lexer{
		flags:    parser.CommonExtensions,
		logger:   slog.Default(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Lexer) Extensions() ExtensionSet {
	return l.exts
}

// Lex parses src into a document node.
func (l *Lexer) Lex(src []byte) ast.Node {
	return l.lex(src, 0)
}

func (l *Lexer) lex(src []byte, depth int) ast.Node {
	ps := &pass{lexer: l, depth: depth}
	ps.p = parser.NewWithExtensions(l.flags)
	ps.install()

	// The host rewrites line endings in place and keeps slices of its input,
	// so it always gets a private copy.
	buf := make([]byte, len(src), len(src)+1)
	copy(buf, src)
	buf = markdown.NormalizeNewlines(buf)
	if len(buf) == 0 || buf[len(buf)-1] != '\n' {
		buf = append(buf, '\n')
	}
	return ps.p.Parse(buf)
}

// pass is the state of one host parser run. It implements Host.
type pass struct {
	lexer       *Lexer
	p           *parser.Parser
	depth       int
	inlineDepth int
}

func (ps *pass) install() {
	if blocks := ps.lexer.exts.block(); len(blocks) > 0 {
		ps.p.Opts.ParserHook = func(data []byte) (ast.Node, []byte, int) {
			return ps.block(blocks, data)
		}
	}

	byTrigger, triggers := ps.lexer.exts.inline()
	for _, c := range triggers {
		exts := byTrigger[c]
		var prev parser.InlineParser
		prev = ps.p.RegisterInline(c, func(p *parser.Parser, data []byte, offset int) (int, ast.Node) {
			if n, node := ps.inline(exts, data[offset:]); n > 0 {
				return n, node
			}
			if prev != nil {
				return prev(p, data, offset)
			}
			return 0, nil
		})
	}
}

func (ps *pass) block(exts []Extension, data []byte) (ast.Node, []byte, int) {
	line := firstLine(data)
	for _, ext := range exts {
		if !probe(ext, line) {
			continue
		}
		tok, ok := ext.Tokenize(ps, data)
		if !ok || tok.Consumed <= 0 {
			continue
		}
		if tok.Node == nil {
			return nil, nil, tok.Consumed
		}
		// Non-nil empty block data makes the host close the node right away
		// instead of treating it as an open container.
		return tok.Node, []byte{}, tok.Consumed
	}
	return nil, nil, 0
}

func (ps *pass) inline(exts []Extension, data []byte) (int, ast.Node) {
	line := firstLine(data)
	for _, ext := range exts {
		if !probe(ext, line) {
			continue
		}
		tok, ok := ext.Tokenize(ps, data)
		if ok && tok.Consumed > 0 {
			return tok.Consumed, tok.Node
		}
	}
	return 0, nil
}

func (ps *pass) Block(src []byte) ([]ast.Node, error) {
	depth := ps.depth + 1
	if depth > ps.lexer.maxDepth {
		return nil, ps.fail(oops.
			Code("NESTING_TOO_DEEP").
			With("depth", depth).
			Hint("Close component tags sooner or flatten the content").
			Errorf("component nesting exceeds %d levels", ps.lexer.maxDepth))
	}

	var doc ast.Node
	err := oops.
		Code("NESTED_LEX_FAILED").
		With("depth", depth).
		With("bytes", len(src)).
		Recoverf(func() {
			doc = ps.lexer.lex(src, depth)
		}, "lexing nested block content")
	if err != nil {
		return nil, ps.fail(err)
	}

	children := doc.GetChildren()
	nodes := make([]ast.Node, len(children))
	copy(nodes, children)
	return nodes, nil
}

func (ps *pass) Inline(parent ast.Node, src []byte) error {
	if ps.inlineDepth >= maxInlineDepth {
		return ps.fail(oops.
			Code("NESTING_TOO_DEEP").
			With("inline_depth", ps.inlineDepth).
			Errorf("inline component nesting exceeds %d levels", maxInlineDepth))
	}

	ps.inlineDepth++
	defer func() { ps.inlineDepth-- }()

	err := oops.
		Code("NESTED_LEX_FAILED").
		With("bytes", len(src)).
		Recoverf(func() {
			ps.p.Inline(parent, src)
		}, "lexing nested inline content")
	if err != nil {
		return ps.fail(err)
	}
	return nil
}

func (ps *pass) fail(err error) error {
	ps.lexer.logger.Warn("nested content kept as text", slog.Any("error", err))
	return err
}

func probe(ext Extension, line []byte) bool {
	if ext.Start == nil {
		return true
	}
	off, ok := ext.Start(line)
	return ok && off == 0
}

func firstLine(data []byte) []byte {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[:i]
	}
	return data
}

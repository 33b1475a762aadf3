// Package lexer drives the gomarkdown parser with pluggable block and inline
// extensions and ships the component extension that turns capitalized tags
// into Component nodes.
//
// A Lexer is configured once with an immutable ExtensionSet. Every call to
// Lex builds its own host parser, so a single Lexer can be shared between
// goroutines. Extensions that need to lex nested content do so through the
// Host they are handed, which re-enters the same Lexer with the same
// extensions active.
package lexer

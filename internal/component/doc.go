// Package component recognizes capitalized, JSX-like component tags such as
// <Alert type="warning">…</Alert> in markdown source and in rendered HTML.
//
// Tokenizer matches one occurrence at the start of its input and is what a
// markdown lexer calls from its block and inline hooks. HTMLScanner works on
// finished HTML and splits it into text and component segments while leaving
// anything inside <pre> or <code> alone.
package component

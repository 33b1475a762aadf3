// Package parser extracts page metadata from markdown and MDX sources: a
// description, the heading outline and the components a page uses.
package parser

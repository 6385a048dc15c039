// Package token defines source positions attached to IR nodes.
package token

import "fmt"

// Position points to a particular location in the source a node was lowered
// from.
type Position struct {
	Char   int    // byte offset within the file
	Line   int    // 0-indexed line number
	Column int    // 0-indexed column number
	File   string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// String returns "file:line:column" using 1-indexed numbers, or "unknown"
// for an unset position.
func (p Position) String() string {
	if !p.IsValid() {
		return "unknown"
	}
	file := p.File
	if file == "" {
		file = "unknown"
	}
	return fmt.Sprintf("%s:%d:%d", file, p.LineNumber(), p.ColumnNumber())
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Span is the source range covered by a node. Nodes synthesized during
// lowering copy the span of the node they replace.
type Span struct {
	Start Position `json:"start,omitempty"`
	Stop  Position `json:"stop,omitempty"`
}

// Pos returns the position of the first character belonging to the node.
func (s Span) Pos() Position { return s.Start }

// End returns the position of the first character immediately after the node.
func (s Span) End() Position { return s.Stop }

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosition(t *testing.T) {
	pos := Position{Line: 2, Column: 0, File: "main.kt"}
	// Switches to 1-indexed
	assert.Equal(t, 3, pos.LineNumber())
	assert.Equal(t, 1, pos.ColumnNumber())
	assert.Equal(t, "main.kt:3:1", pos.String())
}

func TestNoPos(t *testing.T) {
	assert.False(t, NoPos.IsValid())
	assert.Equal(t, "unknown", NoPos.String())
	assert.True(t, Position{Char: 1}.IsValid())
}

func TestSpan(t *testing.T) {
	s := Span{Start: Position{Column: 1}, Stop: Position{Column: 5}}
	assert.Equal(t, 1, s.Pos().Column)
	assert.Equal(t, 5, s.End().Column)
}

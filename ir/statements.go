package ir

import "github.com/risor-io/decompose/internal/token"

// Var declares a variable with an optional initial value.
type Var struct {
	token.Span
	Name  string
	Type  Type
	Value Expr // nil when the variable is declared without an initializer
}

func (s *Var) stmtNode() {}

func (s *Var) String() string { return Sprint(s) }

// Read returns an expression reading the declared variable.
func (s *Var) Read() *Ident {
	return &Ident{Span: s.Span, Name: s.Name, Type: s.Type}
}

// Assign writes a value to a previously declared variable.
type Assign struct {
	token.Span
	Name  string
	Value Expr
}

func (s *Assign) stmtNode() {}

func (s *Assign) String() string { return Sprint(s) }

// SetField writes a value to a field. Receiver is nil for fields of the
// enclosing scope.
type SetField struct {
	token.Span
	Receiver Expr
	Field    string
	Value    Expr
}

func (s *SetField) stmtNode() {}

func (s *SetField) String() string { return Sprint(s) }

// Field declares a field with an optional initializer.
type Field struct {
	token.Span
	Name  string
	Type  Type
	Value Expr
}

func (s *Field) stmtNode() {}

func (s *Field) String() string { return Sprint(s) }

// While is a pre-test loop.
type While struct {
	token.Span
	ID    LoopID
	Label string
	Cond  Expr
	Body  *Block
}

func (s *While) stmtNode() {}

func (s *While) LoopID() LoopID    { return s.ID }
func (s *While) LoopLabel() string { return s.Label }
func (s *While) LoopBody() *Block  { return s.Body }

func (s *While) String() string { return Sprint(s) }

// DoWhile is a post-test loop: the body runs before each condition check.
type DoWhile struct {
	token.Span
	ID    LoopID
	Label string
	Body  *Block
	Cond  Expr
}

func (s *DoWhile) stmtNode() {}

func (s *DoWhile) LoopID() LoopID    { return s.ID }
func (s *DoWhile) LoopLabel() string { return s.Label }
func (s *DoWhile) LoopBody() *Block  { return s.Body }

func (s *DoWhile) String() string { return Sprint(s) }

// If is a two way conditional statement. Else may be nil.
type If struct {
	token.Span
	Cond Expr
	Then *Block
	Else *Block
}

func (s *If) stmtNode() {}

func (s *If) String() string { return Sprint(s) }

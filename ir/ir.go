// Package ir defines the tree shaped intermediate representation consumed and
// produced by the lowering passes.
//
// The representation is a closed set of node types. Statement lists hold any
// Node, so an expression may stand as a statement whose value is discarded.
// Statement-only nodes implement Stmt; value producing nodes implement Expr.
//
// Loops are referenced by Break and Continue through a LoopID rather than a
// pointer, so a pass that replaces a loop retargets its jumps by rewriting ids.
package ir

import "github.com/risor-io/decompose/internal/token"

// Node represents a portion of the IR tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node.
	String() string
}

// Stmt represents a statement-only node. Statements cause side effects but
// do not evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value of
// a static type and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()

	// ValueType returns the static type of the expression.
	ValueType() Type
}

// Type names a type of the already checked program. The pass only needs to
// distinguish unit from everything else and to build typed null sentinels.
type Type string

// Builtin types.
const (
	UnitType    Type = "Unit"
	BoolType    Type = "Boolean"
	IntType     Type = "Int"
	StringType  Type = "String"
	AnyType     Type = "Any"
	NothingType Type = "Nothing"
)

// LoopID identifies a loop within one function.
type LoopID int

// Loop is implemented by While and DoWhile.
type Loop interface {
	Stmt
	LoopID() LoopID
	LoopLabel() string
	LoopBody() *Block
}

// Param is a function parameter.
type Param struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Function is a lowered function: a name, parameters and a root block body.
type Function struct {
	token.Span
	Name       string
	Params     []Param
	ReturnType Type
	Body       *Block
}

func (f *Function) String() string { return Sprint(f) }

// Module groups functions that are lowered together.
type Module struct {
	Name      string
	Functions []*Function
}

// Function returns the function with the given name, or nil.
func (m *Module) Function(name string) *Function {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

package ir

import "github.com/risor-io/decompose/internal/token"

// BlockKind distinguishes the block shapes produced by the front end.
type BlockKind int

const (
	// BlockPlain is an ordinary scoped block.
	BlockPlain BlockKind = iota
	// BlockComposite groups statements without introducing a scope.
	BlockComposite
	// BlockReturnable is an inlined function body that can be returned from.
	BlockReturnable
)

func (k BlockKind) String() string {
	switch k {
	case BlockPlain:
		return "block"
	case BlockComposite:
		return "composite"
	case BlockReturnable:
		return "returnable"
	default:
		return "unknown"
	}
}

// Block is a sequence of statements. Used as an expression, its last
// statement supplies the value.
type Block struct {
	token.Span
	Kind  BlockKind
	Type  Type
	Stmts []Node
}

func (x *Block) exprNode() {}

func (x *Block) ValueType() Type { return x.Type }

func (x *Block) String() string { return Sprint(x) }

// Branch is one guarded alternative of a When.
type Branch struct {
	token.Span
	Cond   Expr
	Result Expr
	Else   bool // the default arm; Cond is the constant true
}

// When is a multi-way conditional expression. The first branch whose
// condition holds supplies the value.
type When struct {
	token.Span
	Type     Type
	Branches []*Branch
}

func (x *When) exprNode() {}

func (x *When) ValueType() Type { return x.Type }

func (x *When) String() string { return Sprint(x) }

// Call invokes a function. Operands are evaluated in the order dispatch
// receiver, extension receiver, then Args.
type Call struct {
	token.Span
	Fn        string
	Type      Type
	Dispatch  Expr // nil if absent
	Extension Expr // nil if absent
	Args      []Expr
}

func (x *Call) exprNode() {}

func (x *Call) ValueType() Type { return x.Type }

func (x *Call) String() string { return Sprint(x) }

// Concat is a string concatenation of its operands, evaluated left to right.
type Concat struct {
	token.Span
	Args []Expr
}

func (x *Concat) exprNode() {}

func (x *Concat) ValueType() Type { return StringType }

func (x *Concat) String() string { return Sprint(x) }

// GetField reads a field. Receiver is nil for fields of the enclosing scope.
type GetField struct {
	token.Span
	Receiver Expr
	Field    string
	Type     Type
}

func (x *GetField) exprNode() {}

func (x *GetField) ValueType() Type { return x.Type }

func (x *GetField) String() string { return Sprint(x) }

// Ident reads a variable.
type Ident struct {
	token.Span
	Name string
	Type Type
}

func (x *Ident) exprNode() {}

func (x *Ident) ValueType() Type { return x.Type }

func (x *Ident) String() string { return Sprint(x) }

// Int is an integer literal.
type Int struct {
	token.Span
	Value int64
}

func (x *Int) exprNode() {}

func (x *Int) ValueType() Type { return IntType }

func (x *Int) String() string { return Sprint(x) }

// Bool is a boolean literal.
type Bool struct {
	token.Span
	Value bool
}

func (x *Bool) exprNode() {}

func (x *Bool) ValueType() Type { return BoolType }

func (x *Bool) String() string { return Sprint(x) }

// String is a string literal.
type String struct {
	token.Span
	Value string
}

func (x *String) exprNode() {}

func (x *String) ValueType() Type { return StringType }

func (x *String) String() string { return Sprint(x) }

// Null is the null value of a type. Lowering uses it to initialize
// temporaries that are never read.
type Null struct {
	token.Span
	Type Type
}

func (x *Null) exprNode() {}

func (x *Null) ValueType() Type { return x.Type }

func (x *Null) String() string { return Sprint(x) }

// TypeOperator is the operator of a TypeOp.
type TypeOperator int

const (
	Cast TypeOperator = iota
	SafeCast
	InstanceOf
	NotInstanceOf
	ImplicitCast
	CoercionToUnit
)

var typeOperatorNames = map[TypeOperator]string{
	Cast:           "as",
	SafeCast:       "as?",
	InstanceOf:     "is",
	NotInstanceOf:  "!is",
	ImplicitCast:   "as!",
	CoercionToUnit: "coerce",
}

func (op TypeOperator) String() string {
	if name, ok := typeOperatorNames[op]; ok {
		return name
	}
	return "unknown"
}

// TypeOp is a type check or cast of X against Operand.
type TypeOp struct {
	token.Span
	Op      TypeOperator
	Operand Type
	X       Expr
	Type    Type
}

func (x *TypeOp) exprNode() {}

func (x *TypeOp) ValueType() Type { return x.Type }

func (x *TypeOp) String() string { return Sprint(x) }

// Return exits the enclosing function. Value may be nil for a unit return.
type Return struct {
	token.Span
	Value Expr
}

func (x *Return) exprNode() {}

func (x *Return) ValueType() Type { return NothingType }

func (x *Return) String() string { return Sprint(x) }

// Throw raises Value.
type Throw struct {
	token.Span
	Value Expr
}

func (x *Throw) exprNode() {}

func (x *Throw) ValueType() Type { return NothingType }

func (x *Throw) String() string { return Sprint(x) }

// Break exits the loop identified by Loop.
type Break struct {
	token.Span
	Loop LoopID
}

func (x *Break) exprNode() {}

func (x *Break) ValueType() Type { return NothingType }

func (x *Break) String() string { return Sprint(x) }

// Continue starts the next iteration of the loop identified by Loop.
type Continue struct {
	token.Span
	Loop LoopID
}

func (x *Continue) exprNode() {}

func (x *Continue) ValueType() Type { return NothingType }

func (x *Continue) String() string { return Sprint(x) }

package lower

import (
	"github.com/risor-io/decompose/errz"
	"github.com/risor-io/decompose/ir"
)

// Status is the outcome of visiting one node.
type Status int

const (
	// Kept means the node is unchanged.
	Kept Status = iota
	// Decomposed means the node was rewritten into Stmts, with the value
	// (if still needed) held by Tmp.
	Decomposed
	// Terminated is like Decomposed, but Stmts end in a non-local exit.
	// Tmp is declared only to keep the enclosing code well formed and is
	// never read.
	Terminated
)

func (s Status) String() string {
	switch s {
	case Kept:
		return "kept"
	case Decomposed:
		return "decomposed"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Result is what every visit reports. Stmts must be spliced immediately
// before the original position of the node.
type Result struct {
	Status Status
	Stmts  []ir.Node
	Tmp    *ir.Var
}

var kept = &Result{Status: Kept}

func decomposed(stmts []ir.Node, tmp *ir.Var) *Result {
	return &Result{Status: Decomposed, Stmts: stmts, Tmp: tmp}
}

func terminated(stmts []ir.Node, tmp *ir.Var) *Result {
	return &Result{Status: Terminated, Stmts: stmts, Tmp: tmp}
}

// Changed reports whether the node was rewritten.
func (r *Result) Changed() bool { return r.Status != Kept }

func (r *Result) terminated() bool { return r.Status == Terminated }

// Value returns a read of the temporary holding the result.
func (r *Result) Value() ir.Expr {
	if r.Tmp == nil {
		panic(errz.New(errz.ErrInvariant, "%s result has no value", r.Status))
	}
	return r.Tmp.Read()
}

// Process returns r unchanged if it is Kept, and f(r) otherwise.
func (r *Result) Process(f func(r *Result) *Result) *Result {
	if r.Status == Kept {
		return r
	}
	return f(r)
}

// Execute runs f for its effect when r changed something, and returns r.
func (r *Result) Execute(f func(r *Result)) *Result {
	if r.Status != Kept {
		f(r)
	}
	return r
}

// evaluate returns def if r is Kept and f(r) otherwise. f typically moves
// r.Stmts into the caller's list and returns the value to use in place of
// the original.
func evaluate[T any](r *Result, def T, f func(r *Result) T) T {
	if r.Status == Kept {
		return def
	}
	return f(r)
}

// original returns the node itself as a one element list, for use as the
// default of evaluate in statement context.
func original(n ir.Node) []ir.Node { return []ir.Node{n} }

func stmtsOf(r *Result) []ir.Node { return r.Stmts }

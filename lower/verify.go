package lower

import (
	"strings"

	"github.com/risor-io/decompose/errz"
	"github.com/risor-io/decompose/ir"
)

// Verify checks that fn has the shape the pass produces: no block, when or
// non-local exit in value position, no statement after an exit, and every
// temporary named with prefix declared exactly once before it is read. An
// empty prefix means DefaultTempPrefix.
func Verify(fn *ir.Function, prefix string) error {
	if prefix == "" {
		prefix = DefaultTempPrefix
	}
	v := &verifier{prefix: prefix, declared: map[string]bool{}}
	for _, p := range fn.Params {
		v.declared[p.Name] = true
	}
	if fn.Body != nil {
		ir.Inspect(fn.Body, v.visit)
	}
	if v.err != nil {
		return v.err.WithFunction(fn.Name)
	}
	return nil
}

type verifier struct {
	prefix   string
	declared map[string]bool
	err      *errz.InternalError
}

func (v *verifier) fail(n ir.Node, format string, args ...any) {
	if v.err == nil {
		v.err = errz.New(errz.ErrInvariant, format, args...).WithNode(n.Pos(), n)
	}
}

func (v *verifier) value(parent ir.Node, x ir.Expr) {
	switch x.(type) {
	case *ir.Block, *ir.When, *ir.Return, *ir.Throw, *ir.Break, *ir.Continue:
		v.fail(parent, "%T in value position", x)
	}
}

func (v *verifier) values(parent ir.Node, xs ...ir.Expr) {
	for _, x := range xs {
		if x != nil {
			v.value(parent, x)
		}
	}
}

func (v *verifier) visit(n ir.Node) bool {
	if v.err != nil {
		return false
	}
	switch n := n.(type) {
	case *ir.Block:
		for i, stmt := range n.Stmts {
			if isExit(stmt) && i != len(n.Stmts)-1 {
				v.fail(n.Stmts[i+1], "statement after %s", stmt)
			}
		}
	case *ir.Var:
		if strings.HasPrefix(n.Name, v.prefix) && v.declared[n.Name] {
			v.fail(n, "%s declared twice", n.Name)
		}
		v.declared[n.Name] = true
		v.values(n, n.Value)
	case *ir.Ident:
		if strings.HasPrefix(n.Name, v.prefix) && !v.declared[n.Name] {
			v.fail(n, "%s read before its declaration", n.Name)
		}
	case *ir.Assign:
		v.values(n, n.Value)
	case *ir.SetField:
		v.values(n, n.Receiver, n.Value)
	case *ir.Call:
		v.values(n, n.Dispatch, n.Extension)
		v.values(n, n.Args...)
	case *ir.Concat:
		v.values(n, n.Args...)
	case *ir.GetField:
		v.values(n, n.Receiver)
	case *ir.TypeOp:
		v.values(n, n.X)
	case *ir.If:
		v.values(n, n.Cond)
	case *ir.While:
		v.values(n, n.Cond)
	case *ir.DoWhile:
		v.values(n, n.Cond)
	case *ir.Return:
		v.values(n, n.Value)
	case *ir.Throw:
		v.values(n, n.Value)
	}
	return true
}

func isExit(n ir.Node) bool {
	switch n.(type) {
	case *ir.Return, *ir.Throw, *ir.Break, *ir.Continue:
		return true
	}
	return false
}

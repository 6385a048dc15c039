package lower

import (
	"github.com/risor-io/decompose/errz"
	"github.com/risor-io/decompose/ir"
)

// statement visits a node whose value, if any, is discarded. A changed
// result's statements replace the node in its enclosing sequence.
func (d *decomposer) statement(n ir.Node) *Result {
	switch n := n.(type) {
	case *ir.Block:
		if n == nil {
			panic(errz.New(errz.ErrInvariant, "nil block"))
		}
		d.statements(n)
		return kept
	case *ir.Var:
		if n.Value == nil {
			return kept
		}
		return d.expression(n.Value).Process(func(r *Result) *Result {
			if r.terminated() {
				return r
			}
			n.Value = r.Value()
			return decomposed(append(r.Stmts, n), nil)
		})
	case *ir.Assign:
		return d.expression(n.Value).Process(func(r *Result) *Result {
			if r.terminated() {
				return r
			}
			n.Value = r.Value()
			return decomposed(append(r.Stmts, n), nil)
		})
	case *ir.SetField:
		return d.setField(n)
	case *ir.Return:
		if n.Value == nil {
			return kept
		}
		return d.expression(n.Value).Process(func(r *Result) *Result {
			if r.terminated() {
				return r
			}
			return decomposed(append(r.Stmts, &ir.Return{Span: n.Span, Value: r.Value()}), nil)
		})
	case *ir.Throw:
		return d.expression(n.Value).Process(func(r *Result) *Result {
			if r.terminated() {
				return r
			}
			return decomposed(append(r.Stmts, &ir.Throw{Span: n.Span, Value: r.Value()}), nil)
		})
	case *ir.Break, *ir.Continue:
		return kept
	case *ir.When:
		stmts, status := d.branches(n, d.statementBody, statementBuilder, false)
		if status == Kept {
			return kept
		}
		return decomposed(stmts, nil)
	case *ir.If:
		return d.ifStatement(n)
	case *ir.While:
		return d.while(n)
	case *ir.DoWhile:
		return d.doWhile(n)
	case *ir.TypeOp:
		return d.typeOpStatement(n)
	case *ir.Field:
		if n.Value == nil {
			return kept
		}
		return d.expression(n.Value).Process(func(r *Result) *Result {
			panic(d.fail(errz.ErrUnsupportedField, n, "initializer of field %q needs decomposition", n.Name))
		})
	case ir.Expr:
		return d.expression(n)
	default:
		panic(d.fail(errz.ErrUnexpectedNode, n, "no statement rule for %T", n))
	}
}

// statements lowers the statement list of b in place, splicing each changed
// statement's replacement over it. Statements following a Terminated one are
// dropped.
func (d *decomposer) statements(b *ir.Block) {
	var out []ir.Node
	changed := false
	for i, stmt := range b.Stmts {
		r := d.statement(stmt)
		if !r.Changed() {
			if changed {
				out = append(out, stmt)
			}
			continue
		}
		if !changed {
			out = make([]ir.Node, 0, len(b.Stmts)+len(r.Stmts))
			out = append(out, b.Stmts[:i]...)
			changed = true
		}
		out = append(out, r.Stmts...)
		if r.terminated() {
			break
		}
	}
	if changed {
		b.Stmts = out
	}
}

func (d *decomposer) statementBody(x ir.Expr) *Result { return d.statement(x) }

func statementBuilder(r *Result, orig ir.Expr) []ir.Node {
	return evaluate(r, original(orig), stmtsOf)
}

func (d *decomposer) setField(n *ir.SetField) *Result {
	ops, changed := d.visitOperands(n.Receiver, n.Value)
	if changed == 0 {
		return kept
	}
	values, stmts, term := d.rewriteOperands(ops, changed)
	if term != nil {
		return term
	}
	n.Receiver, n.Value = values[0], values[1]
	return decomposed(append(stmts, n), nil)
}

func (d *decomposer) ifStatement(n *ir.If) *Result {
	cond := d.expression(n.Cond)
	if n.Then != nil {
		d.statements(n.Then)
	}
	if n.Else != nil {
		d.statements(n.Else)
	}
	return cond.Process(func(r *Result) *Result {
		if r.terminated() {
			return r
		}
		n.Cond = r.Value()
		return decomposed(append(r.Stmts, n), nil)
	})
}

func (d *decomposer) typeOpStatement(n *ir.TypeOp) *Result {
	return d.expression(n.X).Process(func(r *Result) *Result {
		if r.terminated() {
			return r
		}
		op := &ir.TypeOp{Span: n.Span, Op: n.Op, Operand: n.Operand, X: r.Value(), Type: n.Type}
		if d.isUnit(n.Type) {
			return decomposed(append(r.Stmts, op), nil)
		}
		tmp := d.newTemp(n.Type, n.Span)
		tmp.Value = op
		return decomposed(append(r.Stmts, tmp), tmp)
	})
}

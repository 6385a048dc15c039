package lower

import (
	"github.com/risor-io/decompose/errz"
	"github.com/risor-io/decompose/ir"
)

// expression visits a node whose value is used by its parent. A changed
// result always carries a temporary holding the value.
func (d *decomposer) expression(x ir.Expr) *Result {
	switch x := x.(type) {
	case nil:
		return kept
	case *ir.Block:
		return d.blockExpression(x)
	case *ir.When:
		return d.whenExpression(x)
	case *ir.Call:
		return d.call(x)
	case *ir.Concat:
		return d.concat(x)
	case *ir.GetField:
		if x.Receiver == nil {
			return kept
		}
		return d.expression(x.Receiver).Process(func(r *Result) *Result {
			if r.terminated() {
				return r
			}
			tmp := d.newTemp(x.Type, x.Span)
			tmp.Value = &ir.GetField{Span: x.Span, Receiver: r.Value(), Field: x.Field, Type: x.Type}
			return decomposed(append(r.Stmts, tmp), tmp)
		})
	case *ir.TypeOp:
		return d.expression(x.X).Process(func(r *Result) *Result {
			if r.terminated() {
				return r
			}
			tmp := d.newTemp(x.Type, x.Span)
			tmp.Value = &ir.TypeOp{Span: x.Span, Op: x.Op, Operand: x.Operand, X: r.Value(), Type: x.Type}
			return decomposed(append(r.Stmts, tmp), tmp)
		})
	case *ir.Return:
		return d.terminate(x, x.Value, func(v ir.Expr) ir.Node {
			return &ir.Return{Span: x.Span, Value: v}
		})
	case *ir.Throw:
		return d.terminate(x, x.Value, func(v ir.Expr) ir.Node {
			return &ir.Throw{Span: x.Span, Value: v}
		})
	case *ir.Break:
		return d.terminate(x, nil, func(ir.Expr) ir.Node { return x })
	case *ir.Continue:
		return d.terminate(x, nil, func(ir.Expr) ir.Node { return x })
	case *ir.Ident, *ir.Int, *ir.Bool, *ir.String, *ir.Null:
		return kept
	default:
		panic(d.fail(errz.ErrUnexpectedNode, x, "no expression rule for %T", x))
	}
}

// blockExpression always decomposes: the block's statements move into a
// nested block whose last value is assigned to a fresh temporary.
func (d *decomposer) blockExpression(b *ir.Block) *Result {
	if b.Kind != ir.BlockPlain && b.Kind != ir.BlockComposite {
		panic(d.fail(errz.ErrUnsupportedBlock, b, "cannot decompose %s block", b.Kind))
	}
	tmp := d.newTemp(b.Type, b.Span)
	body := &ir.Block{Span: b.Span, Kind: b.Kind, Type: d.target.Unit()}
	result := []ir.Node{tmp, body}

	n := len(b.Stmts)
	if n == 0 {
		// never leave the temporary uninitialized
		tmp.Value = d.target.Null(b.Type)
		return decomposed(result, tmp)
	}
	for _, stmt := range b.Stmts[:n-1] {
		r := d.statement(stmt)
		body.Stmts = append(body.Stmts, evaluate(r, original(stmt), stmtsOf)...)
		if r.terminated() {
			// The rest of the block, its value included, is unreachable.
			tmp.Value = d.target.Null(b.Type)
			return terminated(result, tmp)
		}
	}

	last := b.Stmts[n-1]
	value, ok := last.(ir.Expr)
	if !ok {
		// A trailing declaration leaves the block without a value.
		r := d.statement(last)
		body.Stmts = append(body.Stmts, evaluate(r, original(last), stmtsOf)...)
		tmp.Value = d.target.Null(b.Type)
		if r.terminated() {
			return terminated(result, tmp)
		}
		return decomposed(result, tmp)
	}
	r := d.expression(value)
	if r.terminated() {
		body.Stmts = append(body.Stmts, r.Stmts...)
		tmp.Value = d.target.Null(b.Type)
		return terminated(result, tmp)
	}
	v := evaluate(r, value, func(r *Result) ir.Expr {
		body.Stmts = append(body.Stmts, r.Stmts...)
		return r.Value()
	})
	body.Stmts = append(body.Stmts, &ir.Assign{Span: spanOf(value), Name: tmp.Name, Value: v})
	return decomposed(result, tmp)
}

// whenExpression always decomposes into a collective temporary assigned by
// every arm.
func (d *decomposer) whenExpression(w *ir.When) *Result {
	tmp := d.newTemp(w.Type, w.Span)
	build := func(r *Result, orig ir.Expr) []ir.Node {
		if r.terminated() {
			return r.Stmts
		}
		var out []ir.Node
		v := evaluate(r, orig, func(r *Result) ir.Expr {
			out = append(out, r.Stmts...)
			return r.Value()
		})
		return append(out, &ir.Assign{Span: spanOf(orig), Name: tmp.Name, Value: v})
	}
	stmts, status := d.branches(w, d.expression, build, true)
	result := append([]ir.Node{tmp}, stmts...)
	if status == Terminated {
		return terminated(result, tmp)
	}
	return decomposed(result, tmp)
}

func (d *decomposer) call(c *ir.Call) *Result {
	exprs := make([]ir.Expr, 0, len(c.Args)+2)
	exprs = append(exprs, c.Dispatch, c.Extension)
	exprs = append(exprs, c.Args...)
	ops, changed := d.visitOperands(exprs...)
	if changed == 0 {
		return kept
	}
	values, stmts, term := d.rewriteOperands(ops, changed)
	if term != nil {
		return term
	}
	c.Dispatch, c.Extension = values[0], values[1]
	copy(c.Args, values[2:])
	tmp := d.newTemp(c.Type, c.Span)
	tmp.Value = c
	return decomposed(append(stmts, tmp), tmp)
}

func (d *decomposer) concat(c *ir.Concat) *Result {
	ops, changed := d.visitOperands(c.Args...)
	if changed == 0 {
		return kept
	}
	values, stmts, term := d.rewriteOperands(ops, changed)
	if term != nil {
		return term
	}
	tmp := d.newTemp(ir.StringType, c.Span)
	tmp.Value = &ir.Concat{Span: c.Span, Args: values}
	return decomposed(append(stmts, tmp), tmp)
}

// terminate lowers a non-local exit in value position. The placeholder
// temporary is declared before the exit so that the exit stays last.
func (d *decomposer) terminate(exit ir.Expr, payload ir.Expr, rebuild func(ir.Expr) ir.Node) *Result {
	var stmts []ir.Node
	var value ir.Expr
	if payload != nil {
		r := d.expression(payload)
		if r.terminated() {
			return r
		}
		value = evaluate(r, payload, func(r *Result) ir.Expr {
			stmts = append(stmts, r.Stmts...)
			return r.Value()
		})
	}
	d.stats.Terminations++
	tmp := d.newTemp(exit.ValueType(), spanOf(exit))
	tmp.Value = d.target.Null(exit.ValueType())
	stmts = append(stmts, tmp, rebuild(value))
	return terminated(stmts, tmp)
}

package lower

import "github.com/risor-io/decompose/ir"

// operand is one ordered operand of a call, concatenation or field write
// together with the result of visiting it. A nil expr marks an absent
// operand, such as a call without a dispatch receiver.
type operand struct {
	expr ir.Expr
	res  *Result
}

// visitOperands visits exprs in evaluation order and returns how many of
// them changed. Operands after one that terminates are never evaluated, so
// they are not visited either.
func (d *decomposer) visitOperands(exprs ...ir.Expr) ([]operand, int) {
	ops := make([]operand, len(exprs))
	changed := 0
	for i, x := range exprs {
		ops[i].expr = x
		if x == nil {
			continue
		}
		ops[i].res = d.expression(x).Execute(func(*Result) { changed++ })
		if ops[i].res.terminated() {
			ops = ops[:i+1]
			break
		}
	}
	return ops, changed
}

// rewriteOperands substitutes each operand with the value to use and
// collects the statements that must run first.
//
// Every unchanged operand that precedes a decomposed one is captured into a
// temporary, because the decomposed operand's statements would otherwise
// run before it. remaining counts the decomposed operands not yet consumed;
// while it is positive, unchanged operands are captured.
//
// If an operand terminates, the returned result holds everything emitted up
// to and including its exit and the values are nil.
func (d *decomposer) rewriteOperands(ops []operand, changed int) ([]ir.Expr, []ir.Node, *Result) {
	var stmts []ir.Node
	values := make([]ir.Expr, len(ops))
	remaining := changed
	for i, op := range ops {
		if op.expr == nil {
			continue
		}
		if op.res.Changed() {
			stmts = append(stmts, op.res.Stmts...)
			if op.res.terminated() {
				return nil, nil, terminated(stmts, op.res.Tmp)
			}
			values[i] = op.res.Value()
			remaining--
			continue
		}
		if remaining > 0 {
			tmp := d.newTemp(op.expr.ValueType(), spanOf(op.expr))
			tmp.Value = op.expr
			stmts = append(stmts, tmp)
			values[i] = tmp.Read()
			continue
		}
		values[i] = op.expr
	}
	return values, stmts, nil
}

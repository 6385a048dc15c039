package lower

import (
	"github.com/risor-io/decompose/errz"
	"github.com/risor-io/decompose/ir"
)

// lowerLoopBody lowers the body of loop in place. Loop bodies are blocks and
// therefore always lower in place; anything else means the tree is broken.
func (d *decomposer) lowerLoopBody(loop ir.Loop) {
	body := loop.LoopBody()
	if body == nil {
		panic(d.fail(errz.ErrInvariant, loop, "loop #%d has no body", loop.LoopID()))
	}
	if r := d.statement(body); r.Status != Kept {
		panic(d.fail(errz.ErrInvariant, loop, "body of loop #%d reported %s", loop.LoopID(), r.Status))
	}
}

//	while (<cond statements>; c) { body }
//
// becomes
//
//	<hoisted declarations>
//	while (true) {
//	  <cond statements>
//	  if (!c) break
//	  { body }
//	}
func (d *decomposer) while(loop *ir.While) *Result {
	cond := d.expression(loop.Cond)
	d.lowerLoopBody(loop)
	return cond.Process(func(r *Result) *Result {
		var decls []ir.Node
		stmts := d.hoist(r.Stmts, &decls)
		if r.terminated() {
			// The first condition check exits, so the loop never runs.
			return decomposed(append(decls, stmts...), nil)
		}
		d.stats.Loops++
		newLoop := &ir.While{Span: loop.Span, ID: d.newLoopID(), Label: loop.Label, Cond: d.target.True()}
		exit := &ir.If{
			Span: spanOf(loop.Cond),
			Cond: d.target.Not(r.Value()),
			Then: d.unitBlock(spanOf(loop.Cond), &ir.Break{Span: spanOf(loop.Cond), Loop: newLoop.ID}),
		}
		body := append(stmts, exit, loop.Body)
		newLoop.Body = d.unitBlock(loop.Body.Span, body...)
		retarget(loop.Body, loop.ID, newLoop.ID, newLoop.ID)
		return decomposed(append(decls, newLoop), nil)
	})
}

//	do { body } while (<cond statements>; c)
//
// becomes
//
//	<hoisted declarations>
//	outer@do {
//	  inner@do { body } while (false)
//	  <cond statements>
//	} while (c)
//
// A break in body leaves the outer loop. A continue leaves only the inner
// single pass loop, so the condition statements still run before the next
// iteration.
func (d *decomposer) doWhile(loop *ir.DoWhile) *Result {
	d.lowerLoopBody(loop)
	cond := d.expression(loop.Cond)
	return cond.Process(func(r *Result) *Result {
		var decls []ir.Node
		stmts := d.hoist(r.Stmts, &decls)
		d.stats.Loops++
		inner := &ir.DoWhile{
			Span:  loop.Span,
			ID:    d.newLoopID(),
			Label: d.newLabel(),
			Body:  loop.Body,
			Cond:  d.target.False(),
		}
		label := loop.Label
		if label == "" {
			label = d.newLabel()
		}
		outer := &ir.DoWhile{
			Span:  loop.Span,
			ID:    d.newLoopID(),
			Label: label,
			Body:  d.unitBlock(loop.Body.Span, append([]ir.Node{inner}, stmts...)...),
			Cond:  r.Value(),
		}
		retarget(loop.Body, loop.ID, outer.ID, inner.ID)
		return decomposed(append(decls, outer), nil)
	})
}

// retarget points the jumps in body that referenced loop from at their
// replacements.
func retarget(body *ir.Block, from, breakTo, continueTo ir.LoopID) {
	ir.Inspect(body, func(n ir.Node) bool {
		switch j := n.(type) {
		case *ir.Break:
			if j.Loop == from {
				j.Loop = breakTo
			}
		case *ir.Continue:
			if j.Loop == from {
				j.Loop = continueTo
			}
		}
		return true
	})
}

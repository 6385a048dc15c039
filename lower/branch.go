package lower

import (
	"strings"

	"github.com/risor-io/decompose/ir"
)

// bodyBuilder turns the visit result of one arm back into statements. orig is
// the arm's original result expression.
type bodyBuilder func(r *Result, orig ir.Expr) []ir.Node

type branchResult struct {
	cond *Result
	body *Result
}

// branches decomposes a when. Arm bodies are visited with visit and rebuilt
// with build. Unless force is set, a when in which nothing changed is Kept.
//
// If only bodies changed, the when keeps its shape and every arm becomes a
// block. If any condition changed, the when becomes an if/else chain in which
// the statements of each condition run inside the else block of the previous
// arm. Declarations made while computing conditions are hoisted ahead of
// the chain.
func (d *decomposer) branches(w *ir.When, visit func(ir.Expr) *Result, build bodyBuilder, force bool) ([]ir.Node, Status) {
	results := make([]branchResult, len(w.Branches))
	condsChanged, bodiesChanged := false, false
	for i, br := range w.Branches {
		results[i].cond = d.expression(br.Cond).Execute(func(*Result) { condsChanged = true })
		results[i].body = visit(br.Result).Execute(func(*Result) { bodiesChanged = true })
	}
	if !force && !condsChanged && !bodiesChanged {
		return nil, Kept
	}
	if condsChanged {
		return d.chain(w, results, build)
	}

	nw := &ir.When{Span: w.Span, Type: d.target.Unit()}
	allTerminated, hasElse := true, false
	for i, br := range w.Branches {
		body := d.unitBlock(spanOf(br.Result), build(results[i].body, br.Result)...)
		nw.Branches = append(nw.Branches, &ir.Branch{Span: br.Span, Cond: br.Cond, Result: body, Else: br.Else})
		allTerminated = allTerminated && results[i].body.terminated()
		hasElse = hasElse || br.Else
	}
	if hasElse && allTerminated {
		return []ir.Node{nw}, Terminated
	}
	return []ir.Node{nw}, Decomposed
}

//	when {
//	  c1 -> b1
//	  c2 -> b2
//	  else -> b3
//	}
//
// becomes
//
//	<c1 statements>
//	if (c1) { b1 } else {
//	  <c2 statements>
//	  if (c2) { b2 } else { b3 }
//	}
func (d *decomposer) chain(w *ir.When, results []branchResult, build bodyBuilder) ([]ir.Node, Status) {
	d.stats.Chains++
	var hoisted []ir.Node
	root := d.unitBlock(w.Span)
	cur := root
	var last *ir.If
	exhaustive, allTerminated := false, true
	for i, br := range w.Branches {
		cr := results[i].cond
		cond := evaluate(cr, br.Cond, func(r *Result) ir.Expr {
			cur.Stmts = append(cur.Stmts, d.hoist(r.Stmts, &hoisted)...)
			return r.Value()
		})
		if cr.terminated() {
			// Evaluating this condition exits, so later arms are unreachable.
			exhaustive = true
			break
		}
		body := build(results[i].body, br.Result)
		allTerminated = allTerminated && results[i].body.terminated()
		if br.Else {
			cur.Stmts = append(cur.Stmts, body...)
			exhaustive = true
			break
		}
		next := d.unitBlock(br.Span)
		last = &ir.If{Span: br.Span, Cond: cond, Then: d.unitBlock(spanOf(br.Result), body...), Else: next}
		cur.Stmts = append(cur.Stmts, last)
		cur = next
	}
	if !exhaustive && last != nil {
		last.Else = nil
	}
	out := append(hoisted, root.Stmts...)
	if exhaustive && allTerminated {
		return out, Terminated
	}
	return out, Decomposed
}

// hoist moves the temporaries declared at the top level of stmts into decls,
// turning initialized ones into assignments. Only these are read by the
// condition value; declarations nested in blocks belong to the scope of their
// block and stay where they are.
func (d *decomposer) hoist(stmts []ir.Node, decls *[]ir.Node) []ir.Node {
	out := make([]ir.Node, 0, len(stmts))
	for _, stmt := range stmts {
		v, ok := stmt.(*ir.Var)
		if !ok || !strings.HasPrefix(v.Name, d.tempPrefix) {
			out = append(out, stmt)
			continue
		}
		*decls = append(*decls, &ir.Var{Span: v.Span, Name: v.Name, Type: v.Type})
		if v.Value != nil {
			out = append(out, &ir.Assign{Span: v.Span, Name: v.Name, Value: v.Value})
		}
	}
	return out
}

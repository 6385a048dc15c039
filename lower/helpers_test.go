package lower

import (
	"strings"
	"testing"

	"github.com/risor-io/decompose/ir"
	"github.com/stretchr/testify/require"
)

func unit(stmts ...ir.Node) *ir.Block { return &ir.Block{Type: ir.UnitType, Stmts: stmts} }

func val(t ir.Type, stmts ...ir.Node) *ir.Block { return &ir.Block{Type: t, Stmts: stmts} }

func fun(stmts ...ir.Node) *ir.Function { return &ir.Function{Name: "f", Body: unit(stmts...)} }

func call(fn string, t ir.Type, args ...ir.Expr) *ir.Call {
	return &ir.Call{Fn: fn, Type: t, Args: args}
}

func id(name string, t ir.Type) *ir.Ident { return &ir.Ident{Name: name, Type: t} }

func num(v int64) *ir.Int { return &ir.Int{Value: v} }

func str(s string) *ir.String { return &ir.String{Value: s} }

func arm(cond, result ir.Expr) *ir.Branch { return &ir.Branch{Cond: cond, Result: result} }

func otherwise(result ir.Expr) *ir.Branch {
	return &ir.Branch{Cond: &ir.Bool{Value: true}, Result: result, Else: true}
}

func when(t ir.Type, branches ...*ir.Branch) *ir.When {
	return &ir.When{Type: t, Branches: branches}
}

func mustLower(t *testing.T, fn *ir.Function) Stats {
	t.Helper()
	stats, err := Function(fn, nil)
	require.NoError(t, err)
	return stats
}

// printBody renders the top level statements of fn, one per line.
func printBody(fn *ir.Function) string {
	lines := make([]string, len(fn.Body.Stmts))
	for i, stmt := range fn.Body.Stmts {
		lines[i] = stmt.String()
	}
	return strings.Join(lines, "\n")
}

// requireLowered checks the output shape of the pass.
func requireLowered(t *testing.T, fn *ir.Function) {
	t.Helper()
	require.NoError(t, Verify(fn, ""), "lowered:\n%s", fn)
}

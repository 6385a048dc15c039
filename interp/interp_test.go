package interp

import (
	"testing"

	"github.com/risor-io/decompose/ir"
	"github.com/stretchr/testify/require"
)

func call(fn string, args ...ir.Expr) *ir.Call {
	return &ir.Call{Fn: fn, Type: ir.IntType, Args: args}
}

func ident(name string) *ir.Ident { return &ir.Ident{Name: name, Type: ir.IntType} }

func num(v int64) *ir.Int { return &ir.Int{Value: v} }

func body(stmts ...ir.Node) *ir.Block {
	return &ir.Block{Type: ir.UnitType, Stmts: stmts}
}

func echo(dispatch, extension any, args []any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	return args[0], nil
}

func TestRunArithmetic(t *testing.T) {
	fn := &ir.Function{
		Name:   "f",
		Params: []ir.Param{{Name: "a", Type: ir.IntType}},
		Body: body(
			&ir.Var{Name: "x", Type: ir.IntType, Value: call("+", ident("a"), num(2))},
			&ir.Return{Value: call("*", ident("x"), num(3))},
		),
	}
	v, err := New().Run(fn, int64(4))
	require.NoError(t, err)
	require.Equal(t, int64(18), v)
}

func TestRunArgumentCount(t *testing.T) {
	fn := &ir.Function{Name: "f", Params: []ir.Param{{Name: "a"}}, Body: body()}
	_, err := New().Run(fn)
	require.Error(t, err)
}

func TestTraceRecordsCallsInOrder(t *testing.T) {
	fn := &ir.Function{
		Name: "f",
		Body: body(
			call("log", num(1), call("log", num(2))),
			&ir.SetField{Field: "count", Value: num(3)},
		),
	}
	in := New(WithFunc("log", echo))
	_, err := in.Run(fn)
	require.NoError(t, err)
	require.Equal(t, "log(2)\nlog(1, 2)\nset count = 3", in.TraceString())
}

func TestWhileWithBreakAndContinue(t *testing.T) {
	// var i = 0; while (i < 10) { i = i + 1; when { i == 2 -> continue; i == 4 -> break }; log(i) }
	loop := &ir.While{ID: 1, Cond: call("<", ident("i"), num(10))}
	loop.Body = body(
		&ir.Assign{Name: "i", Value: call("+", ident("i"), num(1))},
		&ir.When{Type: ir.UnitType, Branches: []*ir.Branch{
			{Cond: call("==", ident("i"), num(2)), Result: &ir.Continue{Loop: 1}},
			{Cond: call("==", ident("i"), num(4)), Result: &ir.Break{Loop: 1}},
		}},
		call("log", ident("i")),
	)
	fn := &ir.Function{Name: "f", Body: body(
		&ir.Var{Name: "i", Type: ir.IntType, Value: num(0)},
		loop,
		&ir.Return{Value: ident("i")},
	)}
	in := New(WithFunc("log", echo))
	v, err := in.Run(fn)
	require.NoError(t, err)
	require.Equal(t, int64(4), v)
	require.Equal(t, "log(1)\nlog(3)", in.TraceString())
}

func TestDoWhileRunsBodyFirst(t *testing.T) {
	loop := &ir.DoWhile{ID: 1, Cond: &ir.Bool{Value: false}, Body: body(call("log", num(7)))}
	fn := &ir.Function{Name: "f", Body: body(loop)}
	in := New(WithFunc("log", echo))
	_, err := in.Run(fn)
	require.NoError(t, err)
	require.Equal(t, "log(7)", in.TraceString())
}

func TestStepLimit(t *testing.T) {
	loop := &ir.While{ID: 1, Cond: &ir.Bool{Value: true}, Body: body()}
	fn := &ir.Function{Name: "f", Body: body(loop)}
	_, err := New(WithStepLimit(50)).Run(fn)
	require.ErrorIs(t, err, ErrStepLimit)
}

func TestThrow(t *testing.T) {
	fn := &ir.Function{Name: "f", Body: body(&ir.Throw{Value: &ir.String{Value: "boom"}})}
	_, err := New().Run(fn)
	var thrown *Thrown
	require.ErrorAs(t, err, &thrown)
	require.Equal(t, "boom", thrown.Value)
}

func TestEscapedJump(t *testing.T) {
	fn := &ir.Function{Name: "f", Body: body(&ir.Break{Loop: 9})}
	_, err := New().Run(fn)
	require.ErrorContains(t, err, "break of loop #9 escaped")
}

func TestBlockExpressionScopes(t *testing.T) {
	// var x = { var y = 2; y + 1 }; return x
	fn := &ir.Function{Name: "f", Body: body(
		&ir.Var{Name: "x", Type: ir.IntType, Value: &ir.Block{Type: ir.IntType, Stmts: []ir.Node{
			&ir.Var{Name: "y", Type: ir.IntType, Value: num(2)},
			call("+", ident("y"), num(1)),
		}}},
		&ir.Return{Value: ident("x")},
	)}
	v, err := New().Run(fn)
	require.NoError(t, err)
	require.Equal(t, int64(3), v)

	leak := &ir.Function{Name: "g", Body: body(
		&ir.Block{Type: ir.UnitType, Stmts: []ir.Node{&ir.Var{Name: "y", Value: num(1)}}},
		&ir.Return{Value: ident("y")},
	)}
	_, err = New().Run(leak)
	require.ErrorContains(t, err, `undefined variable "y"`)
}

func TestCompositeBlockSharesScope(t *testing.T) {
	fn := &ir.Function{Name: "f", Body: body(
		&ir.Block{Kind: ir.BlockComposite, Type: ir.UnitType, Stmts: []ir.Node{&ir.Var{Name: "y", Value: num(1)}}},
		&ir.Return{Value: ident("y")},
	)}
	v, err := New().Run(fn)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

func TestFields(t *testing.T) {
	obj := NewObject("Point")
	fn := &ir.Function{
		Name:   "f",
		Params: []ir.Param{{Name: "p", Type: "Point"}},
		Body: body(
			&ir.SetField{Receiver: &ir.Ident{Name: "p", Type: "Point"}, Field: "x", Value: num(5)},
			&ir.Return{Value: &ir.GetField{Receiver: &ir.Ident{Name: "p", Type: "Point"}, Field: "x", Type: ir.IntType}},
		),
	}
	in := New()
	v, err := in.Run(fn, obj)
	require.NoError(t, err)
	require.Equal(t, int64(5), v)
	require.Equal(t, "set Point.x = 5", in.TraceString())

	decl := &ir.Function{Name: "g", Body: body(
		&ir.Field{Name: "z", Type: ir.IntType, Value: num(1)},
		&ir.Return{Value: &ir.GetField{Field: "z", Type: ir.IntType}},
	)}
	v, err = New().Run(decl)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

func TestTypeOperators(t *testing.T) {
	tests := []struct {
		op   ir.TypeOperator
		in   any
		want any
	}{
		{ir.InstanceOf, int64(1), true},
		{ir.InstanceOf, "s", false},
		{ir.NotInstanceOf, "s", true},
		{ir.SafeCast, "s", nil},
		{ir.SafeCast, int64(2), int64(2)},
		{ir.ImplicitCast, "s", "s"},
		{ir.CoercionToUnit, int64(3), nil},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got, err := typeOp(tt.op, ir.IntType, tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
	_, err := typeOp(ir.Cast, ir.IntType, "s")
	var thrown *Thrown
	require.ErrorAs(t, err, &thrown)
}

func TestConcatAndWhen(t *testing.T) {
	fn := &ir.Function{
		Name:   "f",
		Params: []ir.Param{{Name: "n", Type: ir.IntType}},
		Body: body(&ir.Return{Value: &ir.When{Type: ir.StringType, Branches: []*ir.Branch{
			{Cond: call(">", ident("n"), num(0)), Result: &ir.Concat{Args: []ir.Expr{&ir.String{Value: "n="}, ident("n")}}},
			{Cond: &ir.Bool{Value: true}, Result: &ir.Concat{Args: []ir.Expr{&ir.String{Value: "none "}, &ir.Null{}}}, Else: true},
		}}}),
	}
	v, err := New().Run(fn, int64(3))
	require.NoError(t, err)
	require.Equal(t, "n=3", v)
	v, err = New().Run(fn, int64(0))
	require.NoError(t, err)
	require.Equal(t, "none null", v)
}

func TestFallback(t *testing.T) {
	fn := &ir.Function{Name: "f", Body: body(
		&ir.Return{Value: call("+", call("anything", num(1)), num(1))},
	)}
	_, err := New().Run(fn)
	require.ErrorContains(t, err, `unknown function "anything"`)

	in := New(WithFallback(func(_, _ any, args []any) (any, error) { return int64(41), nil }))
	v, err := in.Run(fn)
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
	require.Equal(t, "anything(1)", in.TraceString())
}

package lower

import (
	"testing"

	"github.com/risor-io/decompose/ir"
	"github.com/stretchr/testify/require"
)

func i() *ir.Ident { return id("i", ir.IntType) }

// var i: Int = 0
// while#1 ({ tick(); i } < 3) { i = i + 1; when { i == 2 -> continue#1 }; log(i) }
// return i
func countingWhile() *ir.Function {
	return fun(
		&ir.Var{Name: "i", Type: ir.IntType, Value: num(0)},
		&ir.While{
			ID:   1,
			Cond: call("<", ir.BoolType, val(ir.IntType, call("tick", ir.UnitType), i()), num(3)),
			Body: unit(
				&ir.Assign{Name: "i", Value: call("+", ir.IntType, i(), num(1))},
				when(ir.UnitType, arm(call("==", ir.BoolType, i(), num(2)), &ir.Continue{Loop: 1})),
				call("log", ir.UnitType, i()),
			),
		},
		&ir.Return{Value: i()},
	)
}

// var i: Int = 0
// do#1 {
//   i = i + 1
//   when { i == 2 -> continue#1; i == 4 -> break#1 }
//   log(i)
// } while ({ tick(); i } < 5)
// return i
func countingDoWhile() *ir.Function {
	return fun(
		&ir.Var{Name: "i", Type: ir.IntType, Value: num(0)},
		&ir.DoWhile{
			ID: 1,
			Body: unit(
				&ir.Assign{Name: "i", Value: call("+", ir.IntType, i(), num(1))},
				when(ir.UnitType,
					arm(call("==", ir.BoolType, i(), num(2)), &ir.Continue{Loop: 1}),
					arm(call("==", ir.BoolType, i(), num(4)), &ir.Break{Loop: 1}),
				),
				call("log", ir.UnitType, i()),
			),
			Cond: call("<", ir.BoolType, val(ir.IntType, call("tick", ir.UnitType), i()), num(5)),
		},
		&ir.Return{Value: i()},
	)
}

func TestWhileDecomposedCondition(t *testing.T) {
	fn := countingWhile()
	stats := mustLower(t, fn)
	require.Len(t, fn.Body.Stmts, 5)
	require.Equal(t, "var tmp$0: Int", fn.Body.Stmts[1].String())
	require.Equal(t, "var tmp$1: Boolean", fn.Body.Stmts[2].String())
	require.Equal(t, `while#2 (true) {
  {
    tick()
    tmp$0 = i
  }
  tmp$1 = <(tmp$0, 3)
  if (!(tmp$1)) {
    break#2
  }
  {
    i = +(i, 1)
    when {
      ==(i, 2) -> continue#2
    }
    log(i)
  }
}`, fn.Body.Stmts[3].String())
	require.Equal(t, 1, stats.Loops)
	require.Equal(t, 2, stats.Temporaries)
	requireLowered(t, fn)
}

func TestWhileKeptLoopStaysInPlace(t *testing.T) {
	// while#1 (p) { foo({ a(); 1 }) }
	loop := &ir.While{ID: 1, Cond: id("p", ir.BoolType), Body: unit(
		call("foo", ir.IntType, val(ir.IntType, call("a", ir.UnitType), num(1))),
	)}
	fn := fun(loop)
	stats := mustLower(t, fn)
	require.Same(t, loop, fn.Body.Stmts[0])
	require.Len(t, loop.Body.Stmts, 3)
	require.Zero(t, stats.Loops)
}

func TestWhileConditionTerminates(t *testing.T) {
	fn := fun(&ir.While{ID: 1, Cond: &ir.Return{Value: num(0)}, Body: unit(call("log", ir.UnitType, num(1)))})
	stats := mustLower(t, fn)
	require.Equal(t, "var tmp$0: Nothing\ntmp$0 = null\nreturn 0", printBody(fn))
	require.Zero(t, stats.Loops)
	requireLowered(t, fn)
}

func TestDoWhileDecomposedCondition(t *testing.T) {
	fn := countingDoWhile()
	stats := mustLower(t, fn)
	require.Len(t, fn.Body.Stmts, 5)
	require.Equal(t, "var tmp$0: Int", fn.Body.Stmts[1].String())
	require.Equal(t, "var tmp$1: Boolean", fn.Body.Stmts[2].String())
	require.Equal(t, `loop$3@do#3 {
  loop$2@do#2 {
    i = +(i, 1)
    when {
      ==(i, 2) -> continue#2
      ==(i, 4) -> break#3
    }
    log(i)
  } while (false)
  {
    tick()
    tmp$0 = i
  }
  tmp$1 = <(tmp$0, 5)
} while (tmp$1)`, fn.Body.Stmts[3].String())
	require.Equal(t, Stats{Temporaries: 2, Labels: 2, Loops: 1}, stats)
	requireLowered(t, fn)
}

func TestDoWhileKeepsLabel(t *testing.T) {
	fn := fun(&ir.DoWhile{
		ID:    1,
		Label: "outer",
		Body:  unit(),
		Cond:  val(ir.BoolType, id("p", ir.BoolType)),
	})
	_, err := Function(fn, &Config{LabelPrefix: "L"})
	require.NoError(t, err)
	outer := fn.Body.Stmts[1].(*ir.DoWhile)
	require.Equal(t, "outer", outer.Label)
	inner := outer.Body.Stmts[0].(*ir.DoWhile)
	require.Equal(t, "L1", inner.Label)
}

func TestNestedLoopsGetFreshIDs(t *testing.T) {
	fn := nestedLoops()
	mustLower(t, fn)
	ids := map[ir.LoopID]bool{}
	for n := range ir.Preorder(fn) {
		if loop, ok := n.(ir.Loop); ok {
			require.False(t, ids[loop.LoopID()], "loop id %d reused", loop.LoopID())
			require.Greater(t, loop.LoopID(), ir.LoopID(2))
			ids[loop.LoopID()] = true
		}
	}
	require.Len(t, ids, 3)
	for n := range ir.Preorder(fn) {
		switch j := n.(type) {
		case *ir.Break:
			require.True(t, ids[j.Loop], "break#%d has no loop", j.Loop)
		case *ir.Continue:
			require.True(t, ids[j.Loop], "continue#%d has no loop", j.Loop)
		}
	}
}

func TestRetarget(t *testing.T) {
	body := unit(
		&ir.Break{Loop: 1},
		&ir.Continue{Loop: 1},
		&ir.Break{Loop: 7},
		unit(&ir.Continue{Loop: 1}),
	)
	retarget(body, 1, 10, 11)
	require.Equal(t, "{\n  break#10\n  continue#11\n  break#7\n  {\n    continue#11\n  }\n}", body.String())
}

package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fun f() { var x: Int = plus(1, 2) }
func sampleFunction() *Function {
	return &Function{
		Name: "f",
		Body: &Block{Type: UnitType, Stmts: []Node{
			&Var{Name: "x", Type: IntType, Value: &Call{
				Fn:   "plus",
				Type: IntType,
				Args: []Expr{&Int{Value: 1}, &Int{Value: 2}},
			}},
		}},
	}
}

func TestWalk(t *testing.T) {
	var visited []string
	Inspect(sampleFunction(), func(n Node) bool {
		switch node := n.(type) {
		case *Function:
			visited = append(visited, "Function")
		case *Block:
			visited = append(visited, "Block")
		case *Var:
			visited = append(visited, "Var")
		case *Call:
			visited = append(visited, "Call:"+node.Fn)
		case *Int:
			visited = append(visited, "Int")
		}
		return true
	})
	require.Equal(t, []string{"Function", "Block", "Var", "Call:plus", "Int", "Int"}, visited)
}

func TestInspectPrune(t *testing.T) {
	var count int
	Inspect(sampleFunction(), func(n Node) bool {
		count++
		_, isVar := n.(*Var)
		return !isVar
	})
	// Function, Block, Var
	require.Equal(t, 3, count)
}

func TestWalkEvaluationOrder(t *testing.T) {
	call := &Call{
		Fn:        "m",
		Dispatch:  &Ident{Name: "d"},
		Extension: &Ident{Name: "e"},
		Args:      []Expr{&Ident{Name: "a"}, &Ident{Name: "b"}},
	}
	var names []string
	for n := range Preorder(call) {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
	}
	require.Equal(t, []string{"d", "e", "a", "b"}, names)
}

func TestPreorderStops(t *testing.T) {
	var count int
	for range Preorder(sampleFunction()) {
		count++
		if count == 2 {
			break
		}
	}
	require.Equal(t, 2, count)
}

func TestChildrenSkipsNil(t *testing.T) {
	require.Empty(t, Children(&Return{}))
	require.Len(t, Children(&If{Cond: &Bool{Value: true}, Then: &Block{}}), 2)
	require.Len(t, Children(&GetField{Field: "f"}), 0)
}

func TestMaxLoopID(t *testing.T) {
	body := &Block{Stmts: []Node{
		&While{ID: 3, Cond: &Bool{Value: true}, Body: &Block{Stmts: []Node{
			&Break{Loop: 7},
		}}},
		&DoWhile{ID: 5, Body: &Block{}, Cond: &Bool{}},
	}}
	require.Equal(t, LoopID(7), MaxLoopID(body))
	require.Equal(t, LoopID(0), MaxLoopID(&Block{}))
}

package ir

import "iter"

// Visitor defines the interface for IR traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses the tree in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
}

// Inspect traverses the tree in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// non-nil children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the tree rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range Children(n) {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}

// Children returns the non-nil direct children of n in evaluation order.
func Children(n Node) []Node {
	var out []Node
	add := func(x Expr) {
		if x != nil {
			out = append(out, x)
		}
	}
	addBlock := func(b *Block) {
		if b != nil {
			out = append(out, b)
		}
	}
	switch n := n.(type) {
	case *Function:
		addBlock(n.Body)

	// Statements
	case *Var:
		add(n.Value)
	case *Assign:
		add(n.Value)
	case *SetField:
		add(n.Receiver)
		add(n.Value)
	case *Field:
		add(n.Value)
	case *While:
		add(n.Cond)
		addBlock(n.Body)
	case *DoWhile:
		addBlock(n.Body)
		add(n.Cond)
	case *If:
		add(n.Cond)
		addBlock(n.Then)
		addBlock(n.Else)

	// Expressions
	case *Block:
		for _, stmt := range n.Stmts {
			if stmt != nil {
				out = append(out, stmt)
			}
		}
	case *When:
		for _, br := range n.Branches {
			add(br.Cond)
			add(br.Result)
		}
	case *Call:
		add(n.Dispatch)
		add(n.Extension)
		for _, arg := range n.Args {
			add(arg)
		}
	case *Concat:
		for _, arg := range n.Args {
			add(arg)
		}
	case *GetField:
		add(n.Receiver)
	case *TypeOp:
		add(n.X)
	case *Return:
		add(n.Value)
	case *Throw:
		add(n.Value)
	case *Ident, *Int, *Bool, *String, *Null, *Break, *Continue:
		// No children
	}
	return out
}

// MaxLoopID returns the largest loop id found in the tree rooted at n, or
// zero if there are no loops or jumps.
func MaxLoopID(n Node) LoopID {
	var max LoopID
	for node := range Preorder(n) {
		var id LoopID
		switch node := node.(type) {
		case Loop:
			id = node.LoopID()
		case *Break:
			id = node.Loop
		case *Continue:
			id = node.Loop
		}
		if id > max {
			max = id
		}
	}
	return max
}

package ir

// Clone returns a deep copy of fn. Lowering mutates a function in place, so
// callers that need the original afterwards lower a clone.
func Clone(fn *Function) *Function {
	cp := *fn
	cp.Params = append([]Param(nil), fn.Params...)
	cp.Body = cloneBlock(fn.Body)
	return &cp
}

// CloneNode returns a deep copy of n.
func CloneNode(n Node) Node {
	switch n := n.(type) {
	case nil:
		return nil
	case Expr:
		return cloneExpr(n)
	case *Var:
		cp := *n
		cp.Value = cloneExpr(n.Value)
		return &cp
	case *Assign:
		cp := *n
		cp.Value = cloneExpr(n.Value)
		return &cp
	case *SetField:
		cp := *n
		cp.Receiver = cloneExpr(n.Receiver)
		cp.Value = cloneExpr(n.Value)
		return &cp
	case *Field:
		cp := *n
		cp.Value = cloneExpr(n.Value)
		return &cp
	case *While:
		cp := *n
		cp.Cond = cloneExpr(n.Cond)
		cp.Body = cloneBlock(n.Body)
		return &cp
	case *DoWhile:
		cp := *n
		cp.Body = cloneBlock(n.Body)
		cp.Cond = cloneExpr(n.Cond)
		return &cp
	case *If:
		cp := *n
		cp.Cond = cloneExpr(n.Cond)
		cp.Then = cloneBlock(n.Then)
		cp.Else = cloneBlock(n.Else)
		return &cp
	}
	panic("ir: cannot clone node of unknown type")
}

func cloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	cp := *b
	cp.Stmts = make([]Node, len(b.Stmts))
	for i, stmt := range b.Stmts {
		cp.Stmts[i] = CloneNode(stmt)
	}
	return &cp
}

func cloneExprs(exprs []Expr) []Expr {
	if exprs == nil {
		return nil
	}
	out := make([]Expr, len(exprs))
	for i, x := range exprs {
		out[i] = cloneExpr(x)
	}
	return out
}

func cloneExpr(x Expr) Expr {
	switch x := x.(type) {
	case nil:
		return nil
	case *Block:
		return cloneBlock(x)
	case *When:
		cp := *x
		cp.Branches = make([]*Branch, len(x.Branches))
		for i, br := range x.Branches {
			b := *br
			b.Cond = cloneExpr(br.Cond)
			b.Result = cloneExpr(br.Result)
			cp.Branches[i] = &b
		}
		return &cp
	case *Call:
		cp := *x
		cp.Dispatch = cloneExpr(x.Dispatch)
		cp.Extension = cloneExpr(x.Extension)
		cp.Args = cloneExprs(x.Args)
		return &cp
	case *Concat:
		cp := *x
		cp.Args = cloneExprs(x.Args)
		return &cp
	case *GetField:
		cp := *x
		cp.Receiver = cloneExpr(x.Receiver)
		return &cp
	case *TypeOp:
		cp := *x
		cp.X = cloneExpr(x.X)
		return &cp
	case *Return:
		cp := *x
		cp.Value = cloneExpr(x.Value)
		return &cp
	case *Throw:
		cp := *x
		cp.Value = cloneExpr(x.Value)
		return &cp
	case *Ident:
		cp := *x
		return &cp
	case *Int:
		cp := *x
		return &cp
	case *Bool:
		cp := *x
		return &cp
	case *String:
		cp := *x
		return &cp
	case *Null:
		cp := *x
		return &cp
	case *Break:
		cp := *x
		return &cp
	case *Continue:
		cp := *x
		return &cp
	}
	panic("ir: cannot clone expression of unknown type")
}

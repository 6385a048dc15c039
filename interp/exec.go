package interp

import (
	"fmt"

	"github.com/risor-io/decompose/ir"
)

func (in *Interpreter) execBlock(b *ir.Block, sc *scope) error {
	if b.Kind != ir.BlockComposite {
		sc = newScope(sc)
	}
	for _, stmt := range b.Stmts {
		if err := in.exec(stmt, sc); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) exec(n ir.Node, sc *scope) error {
	switch n := n.(type) {
	case *ir.Block:
		return in.execBlock(n, sc)
	case *ir.Var:
		var v any
		if n.Value != nil {
			var err error
			if v, err = in.eval(n.Value, sc); err != nil {
				return err
			}
		}
		sc.declare(n.Name, v)
	case *ir.Assign:
		v, err := in.eval(n.Value, sc)
		if err != nil {
			return err
		}
		if !sc.assign(n.Name, v) {
			return fmt.Errorf("assignment to undeclared variable %q", n.Name)
		}
	case *ir.SetField:
		var recv any
		if n.Receiver != nil {
			var err error
			if recv, err = in.eval(n.Receiver, sc); err != nil {
				return err
			}
		}
		v, err := in.eval(n.Value, sc)
		if err != nil {
			return err
		}
		return in.setField(recv, n.Receiver != nil, n.Field, v)
	case *ir.Field:
		var v any
		if n.Value != nil {
			var err error
			if v, err = in.eval(n.Value, sc); err != nil {
				return err
			}
		}
		in.fields[n.Name] = v
	case *ir.If:
		ok, err := in.evalBool(n.Cond, sc)
		if err != nil {
			return err
		}
		if ok {
			return in.execBlock(n.Then, sc)
		}
		if n.Else != nil {
			return in.execBlock(n.Else, sc)
		}
	case *ir.While:
		for {
			if err := in.step(); err != nil {
				return err
			}
			ok, err := in.evalBool(n.Cond, sc)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			err = in.execBlock(n.Body, sc)
			if brk, cont := loopSignal(err, n.ID); brk {
				return nil
			} else if !cont && err != nil {
				return err
			}
		}
	case *ir.DoWhile:
		for {
			if err := in.step(); err != nil {
				return err
			}
			err := in.execBlock(n.Body, sc)
			if brk, cont := loopSignal(err, n.ID); brk {
				return nil
			} else if !cont && err != nil {
				return err
			}
			ok, err := in.evalBool(n.Cond, sc)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
	case ir.Expr:
		_, err := in.eval(n, sc)
		return err
	default:
		return fmt.Errorf("cannot execute %T", n)
	}
	return nil
}

func (in *Interpreter) evalBool(x ir.Expr, sc *scope) (bool, error) {
	v, err := in.eval(x, sc)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("condition %s is %s, not a boolean", x, show(v))
	}
	return b, nil
}

func (in *Interpreter) eval(x ir.Expr, sc *scope) (any, error) {
	switch x := x.(type) {
	case *ir.Int:
		return x.Value, nil
	case *ir.Bool:
		return x.Value, nil
	case *ir.String:
		return x.Value, nil
	case *ir.Null:
		return nil, nil
	case *ir.Ident:
		v, ok := sc.lookup(x.Name)
		if !ok {
			return nil, fmt.Errorf("undefined variable %q", x.Name)
		}
		return v, nil
	case *ir.Block:
		return in.evalBlock(x, sc)
	case *ir.When:
		for _, br := range x.Branches {
			ok, err := in.evalBool(br.Cond, sc)
			if err != nil {
				return nil, err
			}
			if ok {
				return in.eval(br.Result, sc)
			}
		}
		return nil, nil
	case *ir.Call:
		return in.call(x, sc)
	case *ir.Concat:
		var out string
		for _, arg := range x.Args {
			v, err := in.eval(arg, sc)
			if err != nil {
				return nil, err
			}
			out += plain(v)
		}
		return out, nil
	case *ir.GetField:
		var recv any
		if x.Receiver != nil {
			var err error
			if recv, err = in.eval(x.Receiver, sc); err != nil {
				return nil, err
			}
		}
		return in.getField(recv, x.Receiver != nil, x.Field)
	case *ir.TypeOp:
		v, err := in.eval(x.X, sc)
		if err != nil {
			return nil, err
		}
		return typeOp(x.Op, x.Operand, v)
	case *ir.Return:
		var v any
		if x.Value != nil {
			var err error
			if v, err = in.eval(x.Value, sc); err != nil {
				return nil, err
			}
		}
		return nil, &returnSignal{value: v}
	case *ir.Throw:
		v, err := in.eval(x.Value, sc)
		if err != nil {
			return nil, err
		}
		return nil, &Thrown{Value: v}
	case *ir.Break:
		return nil, &jumpSignal{kind: "break", loop: x.Loop}
	case *ir.Continue:
		return nil, &jumpSignal{kind: "continue", loop: x.Loop}
	default:
		return nil, fmt.Errorf("cannot evaluate %T", x)
	}
}

func (in *Interpreter) evalBlock(b *ir.Block, sc *scope) (any, error) {
	if b.Kind != ir.BlockComposite {
		sc = newScope(sc)
	}
	for i, stmt := range b.Stmts {
		last := i == len(b.Stmts)-1
		if x, ok := stmt.(ir.Expr); ok && last {
			return in.eval(x, sc)
		}
		if err := in.exec(stmt, sc); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (in *Interpreter) getField(recv any, hasRecv bool, name string) (any, error) {
	if !hasRecv {
		return in.fields[name], nil
	}
	obj, ok := recv.(*Object)
	if !ok {
		return nil, fmt.Errorf("cannot read field %q of %s", name, show(recv))
	}
	return obj.Fields[name], nil
}

func (in *Interpreter) setField(recv any, hasRecv bool, name string, v any) error {
	if !hasRecv {
		in.record("set", name, v)
		in.fields[name] = v
		return nil
	}
	obj, ok := recv.(*Object)
	if !ok {
		return fmt.Errorf("cannot write field %q of %s", name, show(recv))
	}
	in.record("set", obj.Class+"."+name, v)
	obj.Fields[name] = v
	return nil
}

package interp

import (
	"fmt"

	"github.com/risor-io/decompose/ir"
)

func (in *Interpreter) call(x *ir.Call, sc *scope) (any, error) {
	if err := in.step(); err != nil {
		return nil, err
	}
	var dispatch, extension any
	var err error
	if x.Dispatch != nil {
		if dispatch, err = in.eval(x.Dispatch, sc); err != nil {
			return nil, err
		}
	}
	if x.Extension != nil {
		if extension, err = in.eval(x.Extension, sc); err != nil {
			return nil, err
		}
	}
	args := make([]any, 0, len(x.Args))
	for _, arg := range x.Args {
		v, err := in.eval(arg, sc)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	operands := args
	if x.Dispatch != nil {
		operands = append([]any{dispatch}, args...)
	}
	fn, ok := in.funcs[x.Fn]
	if !ok && (isBuiltin(x.Fn) || in.fallback == nil) {
		return builtin(x.Fn, operands)
	}
	if !ok {
		fn = in.fallback
	}
	in.record("call", x.Fn, operands...)
	return fn(dispatch, extension, args)
}

var builtins = map[string]bool{
	"!": true, "+": true, "-": true, "*": true,
	"<": true, ">": true, "<=": true, ">=": true, "==": true, "!=": true,
}

func isBuiltin(name string) bool { return builtins[name] }

func builtin(name string, args []any) (any, error) {
	if name == "!" {
		if len(args) != 1 {
			return nil, fmt.Errorf("!: expected 1 operand, got %d", len(args))
		}
		b, ok := args[0].(bool)
		if !ok {
			return nil, fmt.Errorf("!: operand %s is not a boolean", show(args[0]))
		}
		return !b, nil
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	a, b := args[0], args[1]
	switch name {
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	case "+":
		if as, ok := a.(string); ok {
			return as + plain(b), nil
		}
	}
	x, xok := a.(int64)
	y, yok := b.(int64)
	if !xok || !yok {
		return nil, fmt.Errorf("%s: unsupported operands %s and %s", name, show(a), show(b))
	}
	switch name {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "<":
		return x < y, nil
	case ">":
		return x > y, nil
	case "<=":
		return x <= y, nil
	case ">=":
		return x >= y, nil
	}
	return nil, fmt.Errorf("unknown function %q", name)
}

// plain formats v the way string templates do.
func plain(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return show(v)
}

func typeOf(v any) ir.Type {
	switch v := v.(type) {
	case nil:
		return ""
	case bool:
		return ir.BoolType
	case int64:
		return ir.IntType
	case string:
		return ir.StringType
	case *Object:
		return ir.Type(v.Class)
	default:
		return ir.AnyType
	}
}

func isInstance(v any, t ir.Type) bool {
	if v == nil {
		return false
	}
	return t == ir.AnyType || typeOf(v) == t
}

func typeOp(op ir.TypeOperator, t ir.Type, v any) (any, error) {
	switch op {
	case ir.InstanceOf:
		return isInstance(v, t), nil
	case ir.NotInstanceOf:
		return !isInstance(v, t), nil
	case ir.SafeCast:
		if isInstance(v, t) {
			return v, nil
		}
		return nil, nil
	case ir.Cast:
		if !isInstance(v, t) {
			return nil, &Thrown{Value: fmt.Sprintf("ClassCastException: %s cannot be cast to %s", show(v), t)}
		}
		return v, nil
	case ir.ImplicitCast:
		return v, nil
	case ir.CoercionToUnit:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown type operator %s", op)
	}
}

// Package interp is a reference tree walking interpreter for ir functions.
//
// It exists to check lowering passes: running a function before and after a
// pass must return the same value and record the same Trace of host calls
// and field writes.
package interp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/risor-io/decompose/ir"
)

// ErrStepLimit is returned when a run exceeds its step budget.
var ErrStepLimit = errors.New("step limit exceeded")

// HostFunc implements a function called from IR. Receivers are nil when the
// call has none.
type HostFunc func(dispatch, extension any, args []any) (any, error)

// Object is a value with fields.
type Object struct {
	Class  string
	Fields map[string]any
}

// NewObject returns an empty object of the given class.
func NewObject(class string) *Object {
	return &Object{Class: class, Fields: map[string]any{}}
}

// Event is one observable effect of a run.
type Event struct {
	Kind string // "call" or "set"
	Name string
	Args []any
}

func (e Event) String() string {
	parts := make([]string, len(e.Args))
	for i, arg := range e.Args {
		parts[i] = show(arg)
	}
	if e.Kind == "set" {
		return fmt.Sprintf("set %s = %s", e.Name, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
}

// Thrown is the error returned when IR throws a value that is not caught.
type Thrown struct {
	Value any
}

func (t *Thrown) Error() string {
	return fmt.Sprintf("uncaught exception: %s", show(t.Value))
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithFunc registers a host function.
func WithFunc(name string, fn HostFunc) Option {
	return func(in *Interpreter) {
		in.funcs[name] = fn
	}
}

// WithFallback handles calls to functions that are neither registered nor
// builtin operators.
func WithFallback(fn HostFunc) Option {
	return func(in *Interpreter) {
		in.fallback = fn
	}
}

// WithStepLimit bounds the number of loop iterations and calls in one run.
func WithStepLimit(limit int) Option {
	return func(in *Interpreter) {
		in.limit = limit
	}
}

// WithField sets a field of the enclosing scope.
func WithField(name string, value any) Option {
	return func(in *Interpreter) {
		in.fields[name] = value
	}
}

// Interpreter runs ir functions. It is not safe for concurrent use.
type Interpreter struct {
	funcs    map[string]HostFunc
	fallback HostFunc
	fields   map[string]any
	limit    int
	steps    int
	trace    []Event
}

// DefaultStepLimit is the step budget used when none is configured.
const DefaultStepLimit = 100000

// New returns an interpreter configured with the given options.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		funcs:  map[string]HostFunc{},
		fields: map[string]any{},
		limit:  DefaultStepLimit,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Trace returns the effects recorded so far.
func (in *Interpreter) Trace() []Event {
	return in.trace
}

// TraceString renders the trace one event per line.
func (in *Interpreter) TraceString() string {
	lines := make([]string, len(in.trace))
	for i, e := range in.trace {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

// Run executes fn with the given arguments and returns its value.
func (in *Interpreter) Run(fn *ir.Function, args ...any) (any, error) {
	if len(args) != len(fn.Params) {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}
	in.steps = 0
	sc := newScope(nil)
	for i, p := range fn.Params {
		sc.declare(p.Name, args[i])
	}
	if fn.Body == nil {
		return nil, nil
	}
	err := in.execBlock(fn.Body, sc)
	var ret *returnSignal
	if errors.As(err, &ret) {
		return ret.value, nil
	}
	var jump *jumpSignal
	if errors.As(err, &jump) {
		return nil, fmt.Errorf("%s: %s of loop #%d escaped the function", fn.Name, jump.kind, jump.loop)
	}
	return nil, err
}

func (in *Interpreter) step() error {
	in.steps++
	if in.limit > 0 && in.steps > in.limit {
		return ErrStepLimit
	}
	return nil
}

func (in *Interpreter) record(kind, name string, args ...any) {
	in.trace = append(in.trace, Event{Kind: kind, Name: name, Args: args})
}

func show(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	case *Object:
		return fmt.Sprintf("<%s>", v.Class)
	default:
		return fmt.Sprint(v)
	}
}

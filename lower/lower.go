// Package lower implements block decomposition: a lowering pass that
// flattens every expression able to contain control flow into a straight
// line of statements followed by a simple value reference.
//
// # Shapes
//
// A block used as a value becomes a temporary assigned at the end of the
// block:
//
//	foo({ a(); b() })
//
//	var tmp$0
//	{ a(); tmp$0 = b() }
//	var tmp$1 = foo(tmp$0)
//
// A when used as a value assigns a collective temporary in every arm. When a
// condition needs decomposition the when becomes an if/else chain so that the
// statements of a later condition only run once the earlier conditions failed.
//
// Loops whose condition decomposes move the condition into the body. A while
// becomes while (true) { cond; if (!c) break; body } and a do-while becomes
// an outer do-while around a single pass do { body } while (false) followed
// by the condition statements.
//
// # Evaluation order
//
// Once an operand of a call or concatenation is decomposed, the operands
// before it are captured into temporaries so that they are still evaluated
// first. Operands after the last decomposed operand are left in place.
//
// # Termination
//
// return, throw, break and continue used as values yield a Terminated result.
// Whoever combines such a result emits its statements and nothing after
// them, so the pass never produces code following a non-local exit.
//
// # Errors
//
// The pass assumes type checked input and has no user facing diagnostics.
// Contract violations raise an *errz.InternalError which aborts lowering of
// the function and is returned by Function.
package lower

import (
	"fmt"

	"github.com/risor-io/decompose/errz"
	"github.com/risor-io/decompose/internal/token"
	"github.com/risor-io/decompose/ir"
	"github.com/rs/zerolog"
)

const (
	// DefaultTempPrefix prefixes the names of generated temporaries.
	DefaultTempPrefix = "tmp$"

	// DefaultLabelPrefix prefixes the names of generated loop labels.
	DefaultLabelPrefix = "loop$"
)

// Target supplies the facts about the target type system that the pass
// needs in order to synthesize nodes.
type Target interface {
	True() ir.Expr
	False() ir.Expr
	Null(t ir.Type) ir.Expr
	Not(x ir.Expr) ir.Expr
	Unit() ir.Type
}

type defaultTarget struct{}

// DefaultTarget builds boolean literals, typed nulls and a "!" call.
var DefaultTarget Target = defaultTarget{}

func (defaultTarget) True() ir.Expr  { return &ir.Bool{Value: true} }
func (defaultTarget) False() ir.Expr { return &ir.Bool{Value: false} }

func (defaultTarget) Null(t ir.Type) ir.Expr { return &ir.Null{Type: t} }

func (defaultTarget) Not(x ir.Expr) ir.Expr {
	return &ir.Call{Span: spanOf(x), Fn: "!", Type: ir.BoolType, Args: []ir.Expr{x}}
}

func (defaultTarget) Unit() ir.Type { return ir.UnitType }

// Config holds lowering options. Pass nil to Function to use defaults.
type Config struct {
	// Target builds literals and operators. Defaults to DefaultTarget.
	Target Target

	// Logger receives debug output. Defaults to a disabled logger.
	Logger *zerolog.Logger

	// TempPrefix and LabelPrefix name generated temporaries and labels.
	TempPrefix  string
	LabelPrefix string
}

// Stats describes what one invocation of the pass produced.
type Stats struct {
	Temporaries  int `json:"temporaries"`  // temporaries declared
	Labels       int `json:"labels"`       // loop labels generated
	Loops        int `json:"loops"`        // loops rewritten
	Chains       int `json:"chains"`       // whens converted into if/else chains
	Terminations int `json:"terminations"` // non-local exits found in value position
}

// Function lowers the body of fn in place. Each call uses fresh counters,
// so distinct functions may be lowered concurrently.
func Function(fn *ir.Function, cfg *Config) (stats Stats, err error) {
	d := newDecomposer(fn, cfg)
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*errz.InternalError)
			if !ok {
				panic(r)
			}
			d.log.Debug().Err(ie).Str("function", fn.Name).Msg("lowering failed")
			err = ie.WithFunction(fn.Name)
		}
	}()
	if fn.Body != nil {
		d.statement(fn.Body)
	}
	d.log.Debug().
		Str("function", fn.Name).
		Int("temporaries", d.stats.Temporaries).
		Int("loops", d.stats.Loops).
		Int("chains", d.stats.Chains).
		Msg("lowered function")
	return d.stats, nil
}

// decomposer is the per function state of one pass invocation.
type decomposer struct {
	fn          *ir.Function
	target      Target
	log         zerolog.Logger
	tempPrefix  string
	labelPrefix string
	counter     int
	nextLoop    ir.LoopID
	stats       Stats
}

func newDecomposer(fn *ir.Function, cfg *Config) *decomposer {
	d := &decomposer{
		fn:          fn,
		target:      DefaultTarget,
		log:         zerolog.Nop(),
		tempPrefix:  DefaultTempPrefix,
		labelPrefix: DefaultLabelPrefix,
	}
	if cfg != nil {
		if cfg.Target != nil {
			d.target = cfg.Target
		}
		if cfg.Logger != nil {
			d.log = *cfg.Logger
		}
		if cfg.TempPrefix != "" {
			d.tempPrefix = cfg.TempPrefix
		}
		if cfg.LabelPrefix != "" {
			d.labelPrefix = cfg.LabelPrefix
		}
	}
	if fn.Body != nil {
		d.nextLoop = ir.MaxLoopID(fn.Body)
	}
	return d
}

// newTemp returns an uninitialized declaration of a fresh temporary.
func (d *decomposer) newTemp(t ir.Type, span token.Span) *ir.Var {
	name := fmt.Sprintf("%s%d", d.tempPrefix, d.counter)
	d.counter++
	d.stats.Temporaries++
	return &ir.Var{Span: span, Name: name, Type: t}
}

func (d *decomposer) newLabel() string {
	label := fmt.Sprintf("%s%d", d.labelPrefix, d.counter)
	d.counter++
	d.stats.Labels++
	return label
}

func (d *decomposer) newLoopID() ir.LoopID {
	d.nextLoop++
	return d.nextLoop
}

func (d *decomposer) isUnit(t ir.Type) bool {
	return t == "" || t == d.target.Unit()
}

func (d *decomposer) unitBlock(span token.Span, stmts ...ir.Node) *ir.Block {
	return &ir.Block{Span: span, Type: d.target.Unit(), Stmts: stmts}
}

// fail builds the error raised for a node the pass cannot handle. Callers
// panic with the result; Function recovers it.
func (d *decomposer) fail(kind errz.ErrorKind, n ir.Node, format string, args ...any) *errz.InternalError {
	err := errz.New(kind, format, args...)
	if n != nil {
		err.WithNode(n.Pos(), n)
	}
	return err
}

func spanOf(n ir.Node) token.Span {
	if n == nil {
		return token.Span{}
	}
	return token.Span{Start: n.Pos(), Stop: n.End()}
}

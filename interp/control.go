package interp

import (
	"errors"
	"fmt"

	"github.com/risor-io/decompose/ir"
)

// Non-local exits travel up the Go call stack as errors.

type returnSignal struct {
	value any
}

func (r *returnSignal) Error() string { return "return outside of function" }

type jumpSignal struct {
	kind string // "break" or "continue"
	loop ir.LoopID
}

func (j *jumpSignal) Error() string {
	return fmt.Sprintf("%s#%d outside of its loop", j.kind, j.loop)
}

// loopSignal reports whether err is a break or continue aimed at loop.
func loopSignal(err error, loop ir.LoopID) (brk, cont bool) {
	var j *jumpSignal
	if !errors.As(err, &j) || j.loop != loop {
		return false, false
	}
	return j.kind == "break", j.kind == "continue"
}

type scope struct {
	vars   map[string]any
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: map[string]any{}, parent: parent}
}

func (s *scope) declare(name string, v any) {
	s.vars[name] = v
}

func (s *scope) lookup(name string) (any, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *scope) assign(name string, v any) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.vars[name]; ok {
			sc.vars[name] = v
			return true
		}
	}
	return false
}

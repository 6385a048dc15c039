// Package errz defines the fatal error raised when a lowering pass meets
// input that violates its contract.
package errz

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/risor-io/decompose/internal/token"
)

// ErrorKind represents the category of an internal error.
type ErrorKind int

const (
	// ErrUnexpectedNode indicates a node kind the pass has no rule for.
	ErrUnexpectedNode ErrorKind = iota
	// ErrUnsupportedBlock indicates a block shape the pass cannot decompose.
	ErrUnsupportedBlock
	// ErrUnsupportedField indicates a field initializer that needs decomposition.
	ErrUnsupportedField
	// ErrInvariant indicates an upstream invariant was broken, such as a loop
	// body that did not lower in place.
	ErrInvariant
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedNode:
		return "unexpected node"
	case ErrUnsupportedBlock:
		return "unsupported block"
	case ErrUnsupportedField:
		return "unsupported field initializer"
	case ErrInvariant:
		return "invariant violation"
	default:
		return "internal error"
	}
}

// InternalError reports a programming contract violation. It aborts lowering
// of the enclosing function and is never a user facing diagnostic.
type InternalError struct {
	Kind     ErrorKind
	Message  string
	Function string
	Location token.Position
	Node     string // printed form of the offending node
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	var msg bytes.Buffer
	msg.WriteString("internal error: ")
	msg.WriteString(e.Kind.String())
	if e.Message != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Message)
	}
	if e.Function != "" {
		fmt.Fprintf(&msg, " (in %s", e.Function)
		if e.Location.IsValid() {
			fmt.Fprintf(&msg, " at %s", e.Location)
		}
		msg.WriteString(")")
	}
	return msg.String()
}

// FriendlyErrorMessage returns the error followed by the offending node.
func (e *InternalError) FriendlyErrorMessage() string {
	if e.Node == "" {
		return e.Error()
	}
	return e.Error() + "\n | " + e.Node
}

// New creates an InternalError with a formatted message.
func New(kind ErrorKind, format string, args ...any) *InternalError {
	return &InternalError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithNode records the node that triggered the error.
func (e *InternalError) WithNode(pos token.Position, node fmt.Stringer) *InternalError {
	e.Location = pos
	if node != nil {
		e.Node = node.String()
	}
	return e
}

// WithFunction records the function being lowered.
func (e *InternalError) WithFunction(name string) *InternalError {
	e.Function = name
	return e
}

// Is reports whether err is an InternalError of the given kind.
func Is(err error, kind ErrorKind) bool {
	var ie *InternalError
	return errors.As(err, &ie) && ie.Kind == kind
}

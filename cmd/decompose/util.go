package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/risor-io/decompose/ir"
)

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// readModule decodes the module named by args[0], or the one on stdin when
// --stdin is set. Exactly one source must be given.
func (a *app) readModule(args []string) (*ir.Module, error) {
	stdinFlagSet := a.v.GetBool("stdin")
	pathSupplied := len(args) > 0
	var data []byte
	var err error
	switch {
	case pathSupplied && stdinFlagSet:
		return nil, errors.New("multiple input sources specified")
	case stdinFlagSet:
		if f, ok := a.stdin.(*os.File); ok && isTerminal(f) {
			return nil, errors.New("refusing to read a module from a terminal")
		}
		data, err = io.ReadAll(a.stdin)
	case pathSupplied:
		data, err = os.ReadFile(args[0])
	default:
		return nil, errors.New("no input: pass a file or --stdin")
	}
	if err != nil {
		return nil, err
	}
	var m ir.Module
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding module: %w", err)
	}
	return &m, nil
}

func (a *app) outputJSON(v any) ([]byte, error) {
	if a.v.GetBool("no-color") {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}

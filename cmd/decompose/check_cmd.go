package main

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/risor-io/decompose/interp"
	"github.com/risor-io/decompose/ir"
	"github.com/risor-io/decompose/lower"
	"github.com/spf13/cobra"
)

func (a *app) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Lower a module and compare the behavior of every function before and after",
		Long: `Lowers a copy of every function, verifies the shape of the result and,
for functions without parameters, runs the original and the lowered copy in
the reference interpreter. Calls to unknown functions return null and are
recorded, so both runs must perform the same calls in the same order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args)
		},
	}
	cmd.Flags().Int("step-limit", interp.DefaultStepLimit, "maximum loop iterations and calls per run")
	return cmd
}

type checkStatus int

const (
	checkOK checkStatus = iota
	checkSkipped
	checkFailed
)

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	m, err := a.readModule(args)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("step-limit")
	cfg := a.lowerConfig()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	var errs *multierror.Error
	for _, fn := range m.Functions {
		status, err := a.checkFunction(fn, cfg, limit)
		switch status {
		case checkOK:
			fmt.Fprintf(a.stdout, "%s %s\n", green("ok  "), fn.Name)
		case checkSkipped:
			fmt.Fprintf(a.stdout, "%s %s (%v)\n", yellow("skip"), fn.Name, err)
		case checkFailed:
			fmt.Fprintf(a.stdout, "%s %s: %v\n", red("FAIL"), fn.Name, err)
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", fn.Name, err))
		}
	}
	return errs.ErrorOrNil()
}

var errHasParams = errors.New("takes parameters")

func (a *app) checkFunction(fn *ir.Function, cfg lower.Config, limit int) (checkStatus, error) {
	lowered := ir.Clone(fn)
	log := a.log.With().Str("function", fn.Name).Logger()
	cfg.Logger = &log
	if _, err := lower.Function(lowered, &cfg); err != nil {
		return checkFailed, err
	}
	if err := lower.Verify(lowered, cfg.TempPrefix); err != nil {
		return checkFailed, err
	}
	if len(fn.Params) > 0 {
		return checkSkipped, errHasParams
	}
	want := run(fn, limit)
	got := run(lowered, limit)
	if !reflect.DeepEqual(want, got) {
		return checkFailed, fmt.Errorf("behavior changed\n  before: %s\n  after:  %s", want, got)
	}
	return checkOK, nil
}

type runResult struct {
	value any
	err   string
	trace string
}

func (r runResult) String() string {
	s := fmt.Sprintf("value=%v", r.value)
	if r.err != "" {
		s += " error=" + r.err
	}
	if r.trace != "" {
		s += " trace=[" + r.trace + "]"
	}
	return s
}

func run(fn *ir.Function, limit int) runResult {
	in := interp.New(
		interp.WithStepLimit(limit),
		interp.WithFallback(func(_, _ any, _ []any) (any, error) { return nil, nil }),
	)
	v, err := in.Run(fn)
	r := runResult{value: v, trace: in.TraceString()}
	if err != nil {
		r.err = err.Error()
	}
	return r
}

func verifyModule(m *ir.Module, prefix string) error {
	var errs *multierror.Error
	for _, fn := range m.Functions {
		if err := lower.Verify(fn, prefix); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

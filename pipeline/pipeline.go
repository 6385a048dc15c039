// Package pipeline lowers every function of a module concurrently.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/risor-io/decompose/ir"
	"github.com/risor-io/decompose/lower"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Runner lowers modules. A Runner may be used for several runs, including
// concurrent ones.
type Runner struct {
	cfg      *config
	counters *counters
}

// New returns a Runner configured with the given options.
func New(opts ...Option) *Runner {
	cfg := newConfig(opts...)
	return &Runner{cfg: cfg, counters: newCounters(cfg.metrics)}
}

// FunctionReport is the outcome of lowering one function.
type FunctionReport struct {
	Name     string        `json:"name"`
	Stats    lower.Stats   `json:"stats"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Report is the outcome of one run.
type Report struct {
	RunID     uuid.UUID        `json:"run_id"`
	Module    string           `json:"module"`
	Functions []FunctionReport `json:"functions"`
	Totals    lower.Stats      `json:"totals"`
	Failed    int              `json:"failed"`
}

// Lower lowers the functions of m in place. Every function gets its own
// counters, so temporary names are unique per function only.
//
// Failures do not stop the run: the returned error lists every function
// that failed. Cancelling ctx stops scheduling further functions; the
// functions that were not lowered are absent from the report and ctx.Err()
// is included in the returned error.
func (r *Runner) Lower(ctx context.Context, m *ir.Module) (*Report, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("run id: %w", err)
	}
	log := r.cfg.logger.With().Str("run_id", id.String()).Str("module", m.Name).Logger()
	log.Debug().Int("functions", len(m.Functions)).Int("concurrency", r.cfg.concurrency).Msg("run started")

	var fns []*ir.Function
	for _, fn := range m.Functions {
		if r.cfg.filter == nil || r.cfg.filter(fn.Name) {
			fns = append(fns, fn)
		}
	}
	results := make([]*FunctionReport, len(fns))

	var g errgroup.Group
	g.SetLimit(r.cfg.concurrency)
	for i, fn := range fns {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i] = r.lowerFunction(fn, log)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{RunID: id, Module: m.Name}
	var errs *multierror.Error
	for _, res := range results {
		if res == nil {
			continue
		}
		report.Functions = append(report.Functions, *res)
		if res.Err != nil {
			report.Failed++
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
			continue
		}
		report.Totals = add(report.Totals, res.Stats)
	}
	if err := ctx.Err(); err != nil {
		errs = multierror.Append(errs, err)
	}
	log.Info().
		Int("lowered", len(report.Functions)-report.Failed).
		Int("failed", report.Failed).
		Int("temporaries", report.Totals.Temporaries).
		Msg("run finished")
	return report, errs.ErrorOrNil()
}

func (r *Runner) lowerFunction(fn *ir.Function, log zerolog.Logger) *FunctionReport {
	log = log.With().Str("function", fn.Name).Logger()
	lc := r.cfg.lower
	lc.Logger = &log

	start := time.Now()
	stats, err := lower.Function(fn, &lc)
	res := &FunctionReport{Name: fn.Name, Stats: stats, Duration: time.Since(start), Err: err}

	r.counters.functions.Inc()
	r.counters.duration.UpdateDuration(start)
	if err != nil {
		r.counters.failures.Inc()
		log.Error().Err(err).Msg("lowering failed")
		return res
	}
	r.counters.temporaries.Add(stats.Temporaries)
	r.counters.loops.Add(stats.Loops)
	r.counters.chains.Add(stats.Chains)
	r.counters.terminations.Add(stats.Terminations)
	return res
}

func add(a, b lower.Stats) lower.Stats {
	return lower.Stats{
		Temporaries:  a.Temporaries + b.Temporaries,
		Labels:       a.Labels + b.Labels,
		Loops:        a.Loops + b.Loops,
		Chains:       a.Chains + b.Chains,
		Terminations: a.Terminations + b.Terminations,
	}
}

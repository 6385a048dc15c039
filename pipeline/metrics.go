package pipeline

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

const (
	metricFunctions    = "decompose_functions_total"
	metricTemporaries  = "decompose_temporaries_total"
	metricFailures     = "decompose_failures_total"
	metricLoops        = "decompose_loops_rewritten_total"
	metricChains       = "decompose_chains_total"
	metricDuration     = "decompose_function_duration_seconds"
	metricTerminations = "decompose_terminations_total"
)

type counters struct {
	functions    *metrics.Counter
	temporaries  *metrics.Counter
	failures     *metrics.Counter
	loops        *metrics.Counter
	chains       *metrics.Counter
	terminations *metrics.Counter
	duration     *metrics.Histogram
}

func newCounters(set *metrics.Set) *counters {
	return &counters{
		functions:    set.GetOrCreateCounter(metricFunctions),
		temporaries:  set.GetOrCreateCounter(metricTemporaries),
		failures:     set.GetOrCreateCounter(metricFailures),
		loops:        set.GetOrCreateCounter(metricLoops),
		chains:       set.GetOrCreateCounter(metricChains),
		terminations: set.GetOrCreateCounter(metricTerminations),
		duration:     set.GetOrCreateHistogram(metricDuration),
	}
}

// WritePrometheus writes the runner's metrics in Prometheus text format.
func (r *Runner) WritePrometheus(w io.Writer) {
	r.cfg.metrics.WritePrometheus(w)
}

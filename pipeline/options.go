package pipeline

import (
	"runtime"

	"github.com/VictoriaMetrics/metrics"
	"github.com/risor-io/decompose/lower"
	"github.com/rs/zerolog"
)

// Option describes a function used to configure a Runner.
type Option func(*config)

type config struct {
	concurrency int
	logger      zerolog.Logger
	metrics     *metrics.Set
	lower       lower.Config
	filter      func(name string) bool
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		concurrency: runtime.GOMAXPROCS(0),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}
	if cfg.metrics == nil {
		cfg.metrics = metrics.NewSet()
	}
	return cfg
}

// WithConcurrency sets how many functions are lowered at the same time.
// Values below one mean one.
func WithConcurrency(n int) Option {
	return func(cfg *config) {
		cfg.concurrency = n
	}
}

// WithLogger supplies the logger used for run and failure messages. Each
// function is lowered with a child logger carrying the run id.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithMetrics publishes counters to the given set instead of a private one.
func WithMetrics(set *metrics.Set) Option {
	return func(cfg *config) {
		cfg.metrics = set
	}
}

// WithLowerConfig sets the options passed to lower.Function. The Logger
// field is replaced by the runner's per function logger.
func WithLowerConfig(lc lower.Config) Option {
	return func(cfg *config) {
		cfg.lower = lc
	}
}

// WithFilter restricts lowering to the functions for which keep returns
// true. Other functions are left untouched and omitted from the report.
func WithFilter(keep func(name string) bool) Option {
	return func(cfg *config) {
		cfg.filter = keep
	}
}

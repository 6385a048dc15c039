package main

import (
	"slices"

	"github.com/risor-io/decompose/lower"
	"github.com/risor-io/decompose/pipeline"
)

func (a *app) lowerConfig() lower.Config {
	return lower.Config{
		TempPrefix:  a.v.GetString("temp-prefix"),
		LabelPrefix: a.v.GetString("label-prefix"),
	}
}

func (a *app) pipelineOptions() []pipeline.Option {
	opts := []pipeline.Option{
		pipeline.WithLogger(a.log),
		pipeline.WithLowerConfig(a.lowerConfig()),
	}
	if n := a.v.GetInt("concurrency"); n > 0 {
		opts = append(opts, pipeline.WithConcurrency(n))
	}
	if names := a.v.GetStringSlice("function"); len(names) > 0 {
		opts = append(opts, pipeline.WithFilter(func(name string) bool {
			return slices.Contains(names, name)
		}))
	}
	return opts
}

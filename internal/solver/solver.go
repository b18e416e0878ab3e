// Package solver adapts binary quadratic models to samplers: exhaustive
// search, classical simulated annealing, or a remote sampling service.
package solver

import (
	"context"
	"sort"
	"time"

	"entry-optimizer/internal/bqm"
)

// DefaultNumReads is the number of candidate assignments requested per solve.
const DefaultNumReads = 100

// Options control a single solve.
type Options struct {
	// NumReads is the number of candidate assignments requested (default 100).
	NumReads int
	// Seed makes classical samplers reproducible. 0 picks a time-based seed.
	Seed int64
	// Timeout bounds the solve on top of the caller's context. 0 = none.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.NumReads <= 0 {
		o.NumReads = DefaultNumReads
	}
	return o
}

// Sample is one candidate assignment with its energy.
type Sample struct {
	Assignment     bqm.Assignment `json:"assignment"`
	Energy         float64        `json:"energy"`
	NumOccurrences int            `json:"num_occurrences"`
}

// Info describes how a sample set was produced.
type Info struct {
	Solver   string        `json:"solver"`
	NumReads int           `json:"num_reads"`
	Elapsed  time.Duration `json:"elapsed"`
	Cached   bool          `json:"cached,omitempty"`
}

// SampleSet is what a solver returns: samples plus the variable order they
// were produced over. Samples are sorted by ascending energy.
type SampleSet struct {
	Variables []bqm.Var `json:"variables"`
	Samples   []Sample  `json:"samples"`
	Info      Info      `json:"info"`
}

// Lowest returns the minimum-energy sample. ok is false for an empty set.
func (s *SampleSet) Lowest() (Sample, bool) {
	if s == nil || len(s.Samples) == 0 {
		return Sample{}, false
	}
	return s.Samples[0], true
}

// TotalReads sums NumOccurrences over all samples.
func (s *SampleSet) TotalReads() int {
	n := 0
	for _, smp := range s.Samples {
		n += smp.NumOccurrences
	}
	return n
}

// Solver finds low-energy assignments of a model.
type Solver interface {
	Name() string
	Sample(ctx context.Context, m *bqm.Model, opts Options) (*SampleSet, error)
}

// withTimeout applies opts.Timeout to ctx.
func withTimeout(ctx context.Context, opts Options) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return context.WithCancel(ctx)
}

// sortSamples orders by energy, breaking ties on the assignment bit pattern
// so identical inputs always produce identical output order.
func sortSamples(vars []bqm.Var, samples []Sample) {
	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].Energy != samples[j].Energy {
			return samples[i].Energy < samples[j].Energy
		}
		for _, v := range vars {
			a, b := samples[i].Assignment[v], samples[j].Assignment[v]
			if a != b {
				return a < b
			}
		}
		return false
	})
}

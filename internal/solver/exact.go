package solver

import (
	"container/heap"
	"context"
	"fmt"
	"time"

	"entry-optimizer/internal/bqm"
)

// MaxExactVariables caps exhaustive enumeration (2^20 states).
const MaxExactVariables = 20

// ExactSolver enumerates every assignment and returns the NumReads
// lowest-energy ones. Deterministic; meant for small models and tests.
type ExactSolver struct{}

func NewExact() *ExactSolver { return &ExactSolver{} }

func (s *ExactSolver) Name() string { return "exact" }

func (s *ExactSolver) Sample(ctx context.Context, m *bqm.Model, opts Options) (*SampleSet, error) {
	opts = opts.withDefaults()
	if m == nil || m.IsEmpty() {
		return nil, ErrEmptyModel
	}
	n := m.NumVariables()
	if n > MaxExactVariables {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyVariables, n, MaxExactVariables)
	}

	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()
	start := time.Now()

	p := newProblem(m)
	vars := p.vars
	masks := make([]uint64, len(p.quad))
	for i, c := range p.quad {
		masks[i] = 1<<c.i | 1<<c.j
	}

	k := opts.NumReads
	top := &stateHeap{}
	total := uint64(1) << n
	for mask := uint64(0); mask < total; mask++ {
		if mask&0xffff == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("exact: %w", err)
			}
		}
		e := p.offset
		for i, b := range p.h {
			if mask&(1<<i) != 0 {
				e += b
			}
		}
		for i, c := range p.quad {
			if mask&masks[i] == masks[i] {
				e += c.bias
			}
		}
		st := state{mask: mask, energy: e}
		if top.Len() < k {
			heap.Push(top, st)
		} else if st.before((*top)[0]) {
			(*top)[0] = st
			heap.Fix(top, 0)
		}
	}

	samples := make([]Sample, 0, top.Len())
	for _, st := range *top {
		x := make([]int8, n)
		for i := range x {
			x[i] = int8(st.mask >> i & 1)
		}
		samples = append(samples, Sample{Assignment: p.assignment(x), Energy: st.energy, NumOccurrences: 1})
	}
	sortSamples(vars, samples)

	return &SampleSet{
		Variables: vars,
		Samples:   samples,
		Info: Info{
			Solver:   s.Name(),
			NumReads: len(samples),
			Elapsed:  time.Since(start),
		},
	}, nil
}

type state struct {
	mask   uint64
	energy float64
}

func (a state) before(b state) bool {
	if a.energy != b.energy {
		return a.energy < b.energy
	}
	return a.mask < b.mask
}

// stateHeap is a max-heap: the worst kept state sits at the root.
type stateHeap []state

func (h stateHeap) Len() int           { return len(h) }
func (h stateHeap) Less(i, j int) bool { return h[j].before(h[i]) }
func (h stateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *stateHeap) Push(x any)        { *h = append(*h, x.(state)) }
func (h *stateHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

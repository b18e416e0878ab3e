package solver

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"entry-optimizer/internal/bqm"
)

// DefaultSweeps is the number of Metropolis sweeps per read.
const DefaultSweeps = 1000

// AnnealingSolver is a classical simulated annealing sampler. Each read starts
// from a random state and cools along a geometric inverse-temperature schedule.
// Identical final states are aggregated into one Sample with NumOccurrences.
type AnnealingSolver struct {
	Sweeps int
	// BetaRange is [hot, cold]. Zero value derives it from the model biases.
	BetaRange [2]float64
}

func NewAnnealing(sweeps int, betaRange [2]float64) *AnnealingSolver {
	if sweeps <= 0 {
		sweeps = DefaultSweeps
	}
	return &AnnealingSolver{Sweeps: sweeps, BetaRange: betaRange}
}

func (s *AnnealingSolver) Name() string { return "anneal" }

func (s *AnnealingSolver) Sample(ctx context.Context, m *bqm.Model, opts Options) (*SampleSet, error) {
	opts = opts.withDefaults()
	if m == nil || m.IsEmpty() {
		return nil, ErrEmptyModel
	}
	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()
	start := time.Now()

	p := newProblem(m)
	vars, h, adj := p.vars, p.h, p.adj
	n := len(vars)

	sweeps := s.Sweeps
	if sweeps <= 0 {
		sweeps = DefaultSweeps
	}
	hot, cold := s.BetaRange[0], s.BetaRange[1]
	if hot <= 0 || cold <= 0 {
		hot, cold = defaultBetaRange(h, adj)
	}
	betas := geometricSchedule(hot, cold, sweeps)

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	x := make([]int8, n)
	counts := make(map[string]int)
	order := make([]string, 0)
	for r := 0; r < opts.NumReads; r++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("anneal: %w", err)
		}
		for i := range x {
			x[i] = int8(rng.Intn(2))
		}
		for _, beta := range betas {
			for i := 0; i < n; i++ {
				field := h[i]
				for _, e := range adj[i] {
					if x[e.j] != 0 {
						field += e.bias
					}
				}
				// Energy change of flipping x[i].
				delta := field
				if x[i] != 0 {
					delta = -field
				}
				if delta <= 0 || rng.Float64() < math.Exp(-beta*delta) {
					x[i] ^= 1
				}
			}
		}
		key := stateKey(x)
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	samples := make([]Sample, 0, len(order))
	for _, key := range order {
		for i := range x {
			x[i] = int8(key[i] - '0')
		}
		samples = append(samples, Sample{
			Assignment:     p.assignment(x),
			Energy:         p.energy(x),
			NumOccurrences: counts[key],
		})
	}
	sortSamples(vars, samples)

	return &SampleSet{
		Variables: vars,
		Samples:   samples,
		Info: Info{
			Solver:   s.Name(),
			NumReads: opts.NumReads,
			Elapsed:  time.Since(start),
		},
	}, nil
}

// defaultBetaRange picks a hot beta where the largest possible flip is
// accepted with probability 1/2 and a cold beta where the smallest non-zero
// bias is accepted with probability 1/100.
func defaultBetaRange(h []float64, adj [][]edge) (float64, float64) {
	maxField := 0.0
	minBias := math.Inf(1)
	for i := range h {
		f := math.Abs(h[i])
		if a := math.Abs(h[i]); a > 0 && a < minBias {
			minBias = a
		}
		for _, e := range adj[i] {
			a := math.Abs(e.bias)
			f += a
			if a > 0 && a < minBias {
				minBias = a
			}
		}
		if f > maxField {
			maxField = f
		}
	}
	if maxField == 0 {
		return 0.1, 1
	}
	return math.Ln2 / maxField, math.Log(100) / minBias
}

func geometricSchedule(hot, cold float64, steps int) []float64 {
	out := make([]float64, steps)
	if steps == 1 {
		out[0] = cold
		return out
	}
	ratio := math.Pow(cold/hot, 1/float64(steps-1))
	b := hot
	for i := range out {
		out[i] = b
		b *= ratio
	}
	return out
}

func stateKey(x []int8) string {
	var sb strings.Builder
	sb.Grow(len(x))
	for _, b := range x {
		if b != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

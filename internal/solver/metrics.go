package solver

import (
	"context"
	"errors"
	"time"

	"entry-optimizer/internal/bqm"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// solveTotal counts solves by solver and result
	solveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entry_solver_solves_total",
		Help: "Total solves by solver and result",
	}, []string{"solver", "result"})

	// solveDuration tracks solve latency
	solveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "entry_solver_solve_duration_seconds",
		Help:    "Solve duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16), // 0.5ms to ~16s
	}, []string{"solver"})

	// modelVariables tracks model size per solve
	modelVariables = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "entry_solver_model_variables",
		Help:    "Number of decision variables per solved model",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 500},
	})
)

// Instrumented records Prometheus metrics around another solver.
type Instrumented struct {
	next Solver
}

func NewInstrumented(next Solver) *Instrumented { return &Instrumented{next: next} }

func (s *Instrumented) Name() string { return s.next.Name() }

func (s *Instrumented) Sample(ctx context.Context, m *bqm.Model, opts Options) (*SampleSet, error) {
	start := time.Now()
	set, err := s.next.Sample(ctx, m, opts)
	solveDuration.WithLabelValues(s.Name()).Observe(time.Since(start).Seconds())
	solveTotal.WithLabelValues(s.Name(), resultLabel(err)).Inc()
	if m != nil {
		modelVariables.Observe(float64(m.NumVariables()))
	}
	return set, err
}

func resultLabel(err error) string {
	var se *ServiceError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEmptyModel):
		return "empty"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &se):
		return se.Code
	default:
		return "error"
	}
}

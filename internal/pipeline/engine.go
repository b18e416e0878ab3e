// Package pipeline runs an optimization end to end: signals, model, solve
// and extract.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entry-optimizer/internal/bqm"
	"entry-optimizer/internal/extract"
	"entry-optimizer/internal/logger"
	"entry-optimizer/internal/model"
	"entry-optimizer/internal/signal"
	"entry-optimizer/internal/solver"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrNothingToOptimize is returned when the rule leaves no eligible index.
// It also matches extract.ErrNoBuyPrice.
var ErrNothingToOptimize = fmt.Errorf("nothing to optimize: %w", extract.ErrNoBuyPrice)

type Engine struct {
	solver solver.Solver
	opts   solver.Options
	log    *logger.Logger
}

func New(s solver.Solver, opts solver.Options, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{solver: s, opts: opts, log: log}
}

// Run optimizes a single series. For ErrNothingToOptimize and
// extract.ErrNoBuyPrice a partial Result is returned with the error.
func (e *Engine) Run(ctx context.Context, series model.Series, rule signal.Rule) (*Result, error) {
	if e.solver == nil {
		return nil, fmt.Errorf("solver is nil")
	}
	if rule == nil {
		return nil, fmt.Errorf("signal rule is nil")
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("series %s: %w", series.Symbol, err)
	}

	start := time.Now()
	res := &Result{
		ID:     uuid.NewString(),
		Symbol: series.Symbol,
		Rule:   rule.Name(),
		Solver: e.solver.Name(),
		Series: series,
	}
	log := e.log.WithFields(map[string]interface{}{
		"run_id": res.ID,
		"symbol": series.Symbol,
		"rule":   res.Rule,
	})

	res.Signals = signal.Generate(series, rule)
	m, err := bqm.Build(series, res.Signals)
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}
	res.NumVariables = m.NumVariables()
	res.NumInteractions = m.NumInteractions()

	if m.IsEmpty() {
		res.Ledger = buildLedger(series, res.Signals, nil)
		res.Elapsed = time.Since(start)
		log.Warn("No eligible index, skipping solve")
		return res, ErrNothingToOptimize
	}

	set, err := e.solver.Sample(ctx, m, e.opts)
	if err != nil {
		log.WithError(err).Error("Solve failed")
		return nil, fmt.Errorf("solve: %w", err)
	}
	res.SampleSet = set

	rep, err := extract.Summarize(set, series)
	res.Report = rep
	res.Ledger = buildLedger(series, res.Signals, rep.Selected)
	res.Elapsed = time.Since(start)
	if err != nil {
		log.Warn("Solver selected no buy variable")
		return res, err
	}

	log.WithFields(map[string]interface{}{
		"variables":  res.NumVariables,
		"samples":    len(set.Samples),
		"best_entry": rep.BestEntry,
		"best_index": rep.BestIndex,
		"duration":   res.Elapsed,
	}).Info("Optimization completed")
	return res, nil
}

// Job is one unit of a batch.
type Job struct {
	Series model.Series
	Rule   signal.Rule
}

// BatchItem pairs a job's symbol with its outcome. Result may be non-nil
// alongside Err for partial results.
type BatchItem struct {
	Symbol string
	Result *Result
	Err    error
}

// RunBatch runs jobs concurrently, at most limit at a time (<= 0 means
// unlimited). Each job gets its own model and sample set; a failed job does
// not stop the others. The returned error is non-nil only when ctx ends.
func (e *Engine) RunBatch(ctx context.Context, jobs []Job, limit int) ([]BatchItem, error) {
	items := make([]BatchItem, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, job := range jobs {
		g.Go(func() error {
			res, err := e.Run(gctx, job.Series, job.Rule)
			items[i] = BatchItem{Symbol: job.Series.Symbol, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, err
	}
	if err := ctx.Err(); err != nil {
		return items, err
	}
	return items, nil
}

// IsPartial reports whether err still comes with a usable Result.
func IsPartial(err error) bool {
	return errors.Is(err, extract.ErrNoBuyPrice)
}

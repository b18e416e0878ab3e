package pipeline

import (
	"context"
	"errors"
	"testing"

	"entry-optimizer/internal/bqm"
	"entry-optimizer/internal/data"
	"entry-optimizer/internal/extract"
	"entry-optimizer/internal/model"
	"entry-optimizer/internal/signal"
	"entry-optimizer/internal/solver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zeroSolver returns the all-zero assignment.
type zeroSolver struct{}

func (zeroSolver) Name() string { return "zero" }

func (zeroSolver) Sample(_ context.Context, m *bqm.Model, _ solver.Options) (*solver.SampleSet, error) {
	asg := bqm.Assignment{}
	for _, v := range m.Variables() {
		asg[v] = 0
	}
	return &solver.SampleSet{
		Variables: m.Variables(),
		Samples:   []solver.Sample{{Assignment: asg, Energy: m.Offset(), NumOccurrences: 1}},
	}, nil
}

type failingSolver struct{ err error }

func (failingSolver) Name() string { return "failing" }

func (f failingSolver) Sample(context.Context, *bqm.Model, solver.Options) (*solver.SampleSet, error) {
	return nil, f.err
}

func TestRunDefaultSeries(t *testing.T) {
	e := New(solver.NewExact(), solver.Options{NumReads: 10}, nil)

	res, err := e.Run(context.Background(), data.DefaultSeries(), signal.OddIndexRule{})
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, data.DefaultSymbol, res.Symbol)
	assert.Equal(t, "odd-index", res.Rule)
	assert.Equal(t, 7, res.NumVariables)
	assert.Zero(t, res.NumInteractions)
	require.NotNil(t, res.Report)
	assert.Equal(t, 8.46, res.Report.BestEntry)
	assert.Equal(t, 3, res.Report.BestIndex)

	require.Len(t, res.Ledger, 14)
	for i, row := range res.Ledger {
		assert.Equal(t, i%2 == 1, row.Buy, "index %d", i)
		assert.False(t, row.Sell)
		assert.Equal(t, i%2 == 1, row.Selected, "index %d", i)
	}
}

func TestRunAnnealDefaultSeries(t *testing.T) {
	e := New(solver.NewAnnealing(100, [2]float64{}), solver.Options{NumReads: 100, Seed: 11}, nil)

	res, err := e.Run(context.Background(), data.DefaultSeries(), signal.OddIndexRule{})
	require.NoError(t, err)
	assert.Equal(t, 8.46, res.Report.BestEntry)
}

func TestRunIsRepeatable(t *testing.T) {
	e := New(solver.NewExact(), solver.Options{NumReads: 5}, nil)
	a, err := e.Run(context.Background(), data.DefaultSeries(), signal.OddIndexRule{})
	require.NoError(t, err)
	b, err := e.Run(context.Background(), data.DefaultSeries(), signal.OddIndexRule{})
	require.NoError(t, err)

	assert.Equal(t, a.Report.Prices, b.Report.Prices)
	assert.Equal(t, a.Report.Selected, b.Report.Selected)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRunNothingToOptimize(t *testing.T) {
	e := New(solver.NewExact(), solver.Options{}, nil)

	res, err := e.Run(context.Background(), data.DefaultSeries(), signal.NoneRule{})
	assert.ErrorIs(t, err, ErrNothingToOptimize)
	assert.ErrorIs(t, err, extract.ErrNoBuyPrice)
	assert.True(t, IsPartial(err))
	require.NotNil(t, res)
	assert.Zero(t, res.NumVariables)
	assert.Nil(t, res.SampleSet)
	assert.Len(t, res.Ledger, 14)
}

func TestRunNoBuySelected(t *testing.T) {
	e := New(zeroSolver{}, solver.Options{}, nil)

	res, err := e.Run(context.Background(), data.DefaultSeries(), signal.OddIndexRule{})
	assert.ErrorIs(t, err, extract.ErrNoBuyPrice)
	assert.NotErrorIs(t, err, ErrNothingToOptimize)
	require.NotNil(t, res)
	assert.Empty(t, res.Report.Prices)
}

func TestRunSolverError(t *testing.T) {
	boom := &solver.ServiceError{Code: solver.CodeUnauthorized, Message: "bad token"}
	e := New(failingSolver{err: boom}, solver.Options{}, nil)

	res, err := e.Run(context.Background(), data.DefaultSeries(), signal.OddIndexRule{})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, solver.ErrSolver)
	assert.False(t, IsPartial(err))

	var se *solver.ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, solver.CodeUnauthorized, se.Code)
}

func TestRunInvalidInput(t *testing.T) {
	e := New(solver.NewExact(), solver.Options{}, nil)

	_, err := e.Run(context.Background(), model.Series{Symbol: "EMPTY"}, signal.OddIndexRule{})
	assert.Error(t, err)

	_, err = e.Run(context.Background(), data.DefaultSeries(), nil)
	assert.Error(t, err)
}

func TestRunBatch(t *testing.T) {
	e := New(solver.NewExact(), solver.Options{NumReads: 3}, nil)
	other := data.DefaultSeries()
	other.Symbol = "OTHER"

	jobs := []Job{
		{Series: data.DefaultSeries(), Rule: signal.OddIndexRule{}},
		{Series: other, Rule: signal.NoneRule{}},
		{Series: model.Series{Symbol: "BAD"}, Rule: signal.OddIndexRule{}},
	}
	items, err := e.RunBatch(context.Background(), jobs, 2)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, data.DefaultSymbol, items[0].Symbol)
	require.NoError(t, items[0].Err)
	assert.Equal(t, 8.46, items[0].Result.Report.BestEntry)

	assert.Equal(t, "OTHER", items[1].Symbol)
	assert.ErrorIs(t, items[1].Err, ErrNothingToOptimize)

	assert.Error(t, items[2].Err)
	assert.Nil(t, items[2].Result)
}

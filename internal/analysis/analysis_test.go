package analysis

import (
	"context"
	"errors"
	"testing"

	"entry-optimizer/internal/data"
	"entry-optimizer/internal/model"
	"entry-optimizer/internal/pipeline"
	"entry-optimizer/internal/signal"
	"entry-optimizer/internal/solver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestComputeStats(t *testing.T) {
	series := data.DefaultSeries()
	p := ComputeStats(series)

	assert.Equal(t, data.DefaultSymbol, p.Symbol)
	assert.Equal(t, 14, p.Count)
	assert.Equal(t, 8.22, p.Min)
	assert.Equal(t, 8.96, p.Max)
	assert.InDelta(t, floats.Sum(series.Closes())/14, p.Mean, 1e-12)
	assert.Greater(t, p.StdDev, 0.0)
	assert.GreaterOrEqual(t, p.P05, p.Min)
	assert.LessOrEqual(t, p.P95, p.Max)
	assert.InDelta(t, p.P95-p.P05, p.SpreadP95P05, 1e-12)
	assert.Equal(t, series.Points[0].Timestamp, p.Start)
	assert.Equal(t, series.Points[13].Timestamp, p.End)
}

func TestComputeStatsEmpty(t *testing.T) {
	p := ComputeStats(model.Series{Symbol: "X"})
	assert.Zero(t, p.Count)
	assert.Equal(t, "X", p.Symbol)
}

func TestOracleEntry(t *testing.T) {
	series := data.DefaultSeries()

	price, idx, ok := OracleEntry(series, signal.Generate(series, signal.OddIndexRule{}))
	require.True(t, ok)
	assert.Equal(t, 8.46, price)
	assert.Equal(t, 3, idx)

	// index 0 is never a candidate
	price, idx, ok = OracleEntry(series, signal.Generate(series, signal.EveryIndexRule{}))
	require.True(t, ok)
	assert.Equal(t, 8.22, price)
	assert.Equal(t, 12, idx)

	_, _, ok = OracleEntry(series, signal.Generate(series, signal.NoneRule{}))
	assert.False(t, ok)
}

func TestRankByDiscount(t *testing.T) {
	e := pipeline.New(solver.NewExact(), solver.Options{NumReads: 1}, nil)

	cheap := data.DefaultSeries()
	cheap.Symbol = "CHEAP"
	cheap.Points[3].Close = 7.00

	items, err := e.RunBatch(context.Background(), []pipeline.Job{
		{Series: data.DefaultSeries(), Rule: signal.OddIndexRule{}},
		{Series: cheap, Rule: signal.OddIndexRule{}},
		{Series: data.DefaultSeries(), Rule: signal.NoneRule{}},
	}, 0)
	require.NoError(t, err)
	items = append(items, pipeline.BatchItem{Symbol: "FAILED", Err: errors.New("boom")})

	ranked := RankByDiscount(items)
	require.Len(t, ranked, 2)
	assert.Equal(t, "CHEAP", ranked[0].Symbol)
	assert.Equal(t, 7.00, ranked[0].BestEntry)
	assert.Equal(t, data.DefaultSymbol, ranked[1].Symbol)
	assert.Equal(t, 8.46, ranked[1].BestEntry)
	assert.Greater(t, ranked[0].Discount, ranked[1].Discount)
	assert.True(t, ranked[0].Optimal)
	assert.True(t, ranked[1].Optimal)
}

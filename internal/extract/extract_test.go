package extract

import (
	"context"
	"testing"

	"entry-optimizer/internal/bqm"
	"entry-optimizer/internal/data"
	"entry-optimizer/internal/model"
	"entry-optimizer/internal/solver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buy(i int) bqm.Var  { return bqm.Var{Kind: model.Buy, Index: i} }
func sell(i int) bqm.Var { return bqm.Var{Kind: model.Sell, Index: i} }

func TestOptimalBuyPrices(t *testing.T) {
	series := data.DefaultSeries()
	set := &solver.SampleSet{
		Variables: []bqm.Var{buy(1), sell(1), buy(3)},
		Samples: []solver.Sample{
			{Assignment: bqm.Assignment{buy(1): 0, sell(1): 1, buy(3): 1}},
			{Assignment: bqm.Assignment{buy(1): 1, sell(1): 0, buy(3): 1}},
		},
	}

	prices := OptimalBuyPrices(set, series)
	assert.Equal(t, []float64{8.46, 8.96, 8.46}, prices)

	best, err := BestEntryPrice(prices)
	require.NoError(t, err)
	assert.Equal(t, 8.46, best)
}

func TestBestEntryPriceEmpty(t *testing.T) {
	_, err := BestEntryPrice(nil)
	assert.ErrorIs(t, err, ErrNoBuyPrice)
}

func TestSummarizeDefaultSeries(t *testing.T) {
	series := data.DefaultSeries()
	signals := make([]model.Signal, series.Len())
	for i := range signals {
		signals[i] = model.Signal{Index: i, Buy: i%2 == 1}
	}
	m, err := bqm.Build(series, signals)
	require.NoError(t, err)

	set, err := solver.NewExact().Sample(context.Background(), m, solver.Options{NumReads: 1})
	require.NoError(t, err)

	rep, err := Summarize(set, series)
	require.NoError(t, err)
	assert.ElementsMatch(t, []float64{8.96, 8.46, 8.59, 8.53, 8.52, 8.52, 8.56}, rep.Prices)
	assert.Equal(t, 8.46, rep.BestEntry)
	assert.Equal(t, 3, rep.BestIndex)
	assert.Equal(t, series.Points[3].Timestamp, rep.BestTimestamp)
	assert.Len(t, rep.Selected, 7)
	assert.InDelta(t, -(8.96 + 8.46 + 8.59 + 8.53 + 8.52 + 8.52 + 8.56), rep.LowestEnergy, 1e-9)
}

func TestSummarizeNothingSelected(t *testing.T) {
	set := &solver.SampleSet{
		Variables: []bqm.Var{buy(1)},
		Samples:   []solver.Sample{{Assignment: bqm.Assignment{buy(1): 0}, Energy: 0}},
	}
	rep, err := Summarize(set, data.DefaultSeries())
	assert.ErrorIs(t, err, ErrNoBuyPrice)
	require.NotNil(t, rep)
	assert.Empty(t, rep.Prices)
	assert.Equal(t, -1, rep.BestIndex)
}

// Package extract turns solver output back into prices.
package extract

import (
	"errors"
	"time"

	"entry-optimizer/internal/bqm"
	"entry-optimizer/internal/model"
	"entry-optimizer/internal/solver"

	"gonum.org/v1/gonum/floats"
)

// ErrNoBuyPrice is returned when no sample selects any buy variable.
var ErrNoBuyPrice = errors.New("no optimal buy price found")

// OptimalBuyPrices collects close[i] for every (buy, i) set to 1, over every
// sample in the set. Samples are visited in set order (lowest energy first)
// and variables in index order within a sample. A price appears once per
// distinct sample that selects it.
func OptimalBuyPrices(set *solver.SampleSet, series model.Series) []float64 {
	if set == nil {
		return nil
	}
	var prices []float64
	for _, s := range set.Samples {
		for _, v := range set.Variables {
			if v.Kind != model.Buy || s.Assignment[v] != 1 {
				continue
			}
			if v.Index < 0 || v.Index >= series.Len() {
				continue
			}
			prices = append(prices, series.Close(v.Index))
		}
	}
	return prices
}

// BestEntryPrice is the minimum of prices.
func BestEntryPrice(prices []float64) (float64, error) {
	if len(prices) == 0 {
		return 0, ErrNoBuyPrice
	}
	return prices[floats.MinIdx(prices)], nil
}

// Report summarizes a solved model against its series.
type Report struct {
	Prices        []float64 `json:"optimal_buy_prices"`
	BestEntry     float64   `json:"best_entry_price"`
	BestIndex     int       `json:"best_index"`
	BestTimestamp time.Time `json:"best_timestamp"`
	LowestEnergy  float64   `json:"lowest_energy"`
	// Selected lists the buy variables set in the lowest-energy sample.
	Selected []bqm.Var `json:"selected"`
}

// Summarize builds a Report. On ErrNoBuyPrice the returned report still
// carries the energy and an empty price list.
func Summarize(set *solver.SampleSet, series model.Series) (*Report, error) {
	rep := &Report{
		Prices:    OptimalBuyPrices(set, series),
		BestIndex: -1,
		Selected:  []bqm.Var{},
	}
	if low, ok := set.Lowest(); ok {
		rep.LowestEnergy = low.Energy
		for _, v := range set.Variables {
			if v.Kind == model.Buy && low.Assignment[v] == 1 {
				rep.Selected = append(rep.Selected, v)
			}
		}
	}

	best, err := BestEntryPrice(rep.Prices)
	if err != nil {
		return rep, err
	}
	rep.BestEntry = best
	rep.BestIndex = bestIndex(set, series, best)
	if rep.BestIndex >= 0 {
		rep.BestTimestamp = series.Points[rep.BestIndex].Timestamp
	}
	return rep, nil
}

// bestIndex finds the earliest selected buy index whose close equals price.
func bestIndex(set *solver.SampleSet, series model.Series, price float64) int {
	idx := -1
	for _, s := range set.Samples {
		for _, v := range set.Variables {
			if v.Kind != model.Buy || s.Assignment[v] != 1 || v.Index >= series.Len() {
				continue
			}
			if series.Close(v.Index) == price && (idx < 0 || v.Index < idx) {
				idx = v.Index
			}
		}
	}
	return idx
}

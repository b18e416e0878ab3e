package analysis

import (
	"sort"

	"entry-optimizer/internal/pipeline"
)

// Candidate is one symbol's best entry measured against its own history.
type Candidate struct {
	PriceStats

	BestEntry float64 `json:"best_entry"`
	BestIndex int     `json:"best_index"`
	// Discount is (mean - best entry) / mean. Higher is a cheaper entry.
	Discount float64 `json:"discount"`
	// Optimal is true when the solver matched OracleEntry.
	Optimal bool `json:"optimal"`
}

// NewCandidate returns false when res carries no best entry.
func NewCandidate(res *pipeline.Result) (Candidate, bool) {
	if res == nil || res.Report == nil || res.Report.BestIndex < 0 || len(res.Report.Prices) == 0 {
		return Candidate{}, false
	}
	c := Candidate{
		PriceStats: ComputeStats(res.Series),
		BestEntry:  res.Report.BestEntry,
		BestIndex:  res.Report.BestIndex,
	}
	if c.Mean != 0 {
		c.Discount = (c.Mean - c.BestEntry) / c.Mean
	}
	if oracle, _, ok := OracleEntry(res.Series, res.Signals); ok {
		c.Optimal = oracle == c.BestEntry
	}
	return c, true
}

// RankByDiscount builds candidates from successful batch items and sorts
// them by descending Discount. Failed items are skipped.
func RankByDiscount(items []pipeline.BatchItem) []Candidate {
	out := make([]Candidate, 0, len(items))
	for _, it := range items {
		if it.Err != nil {
			continue
		}
		if c, ok := NewCandidate(it.Result); ok {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Discount != out[j].Discount {
			return out[i].Discount > out[j].Discount
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

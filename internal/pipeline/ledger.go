package pipeline

import (
	"time"

	"entry-optimizer/internal/bqm"
	"entry-optimizer/internal/extract"
	"entry-optimizer/internal/model"
	"entry-optimizer/internal/solver"
)

// LedgerRow is one row of per-index output: the price, its signals and
// whether the lowest-energy sample bought there.
type LedgerRow struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp"`
	Close     float64   `json:"close"`
	Buy       bool      `json:"buy_signal"`
	Sell      bool      `json:"sell_signal"`
	Selected  bool      `json:"selected"`
}

// Result is everything a single run produced.
type Result struct {
	ID      string          `json:"id"`
	Symbol  string          `json:"symbol"`
	Rule    string          `json:"rule"`
	Solver  string          `json:"solver"`
	Ledger  []LedgerRow     `json:"ledger"`
	Signals []model.Signal  `json:"-"`
	Series  model.Series    `json:"-"`
	Report  *extract.Report `json:"report,omitempty"`

	NumVariables    int `json:"num_variables"`
	NumInteractions int `json:"num_interactions"`

	SampleSet *solver.SampleSet `json:"-"`
	Elapsed   time.Duration     `json:"elapsed"`
}

func buildLedger(series model.Series, signals []model.Signal, selected []bqm.Var) []LedgerRow {
	picked := make(map[int]bool, len(selected))
	for _, v := range selected {
		if v.Kind == model.Buy {
			picked[v.Index] = true
		}
	}
	rows := make([]LedgerRow, series.Len())
	for i, p := range series.Points {
		rows[i] = LedgerRow{
			Index:     i,
			Timestamp: p.Timestamp,
			Close:     p.Close,
			Buy:       signals[i].Buy,
			Sell:      signals[i].Sell,
			Selected:  picked[i],
		}
	}
	return rows
}

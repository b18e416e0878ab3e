package analysis

import (
	"math"
	"sort"
	"time"

	"entry-optimizer/internal/model"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PriceStats is a symbol-level summary you can use for ranking.
type PriceStats struct {
	Symbol string    `json:"symbol"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Count  int       `json:"count"`

	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P05    float64 `json:"p05"`
	P95    float64 `json:"p95"`

	SpreadP95P05 float64 `json:"spread_p95_p05"`
}

func ComputeStats(series model.Series) PriceStats {
	p := PriceStats{Symbol: series.Symbol}
	if series.Len() == 0 {
		return p
	}
	p.Count = series.Len()
	p.Start = series.Points[0].Timestamp
	p.End = series.Points[series.Len()-1].Timestamp

	vals := series.Closes()
	p.Min = floats.Min(vals)
	p.Max = floats.Max(vals)
	p.Mean, p.StdDev = stat.MeanStdDev(vals, nil)
	if math.IsNaN(p.StdDev) {
		p.StdDev = 0
	}

	sort.Float64s(vals)
	p.P05 = stat.Quantile(0.05, stat.LinInterp, vals, nil)
	p.P95 = stat.Quantile(0.95, stat.LinInterp, vals, nil)
	p.SpreadP95P05 = p.P95 - p.P05
	return p
}

// OracleEntry is the cheapest close among buy-eligible indices >= 1, found
// by direct scan. A correct solve never reports a lower entry. ok is false
// when no index is eligible.
func OracleEntry(series model.Series, signals []model.Signal) (price float64, index int, ok bool) {
	index = -1
	for i := 1; i < series.Len() && i < len(signals); i++ {
		if !signals[i].Buy {
			continue
		}
		if !ok || series.Close(i) < price {
			price, index, ok = series.Close(i), i, true
		}
	}
	return price, index, ok
}

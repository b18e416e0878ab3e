package signal

// DipRule compares each close with the mean of the previous Lookback closes.
// A close at least Threshold (fraction, e.g. 0.01 = 1%) below the mean is
// buy-eligible; at least Threshold above is sell-eligible. Indices without a
// full lookback window are never eligible.
type DipRule struct {
	Lookback  int
	Threshold float64
}

func (r DipRule) Name() string { return "dip" }

func (r DipRule) Decide(ctx Context) Decision {
	n := r.Lookback
	if n <= 0 {
		n = 3
	}
	if ctx.Index < n {
		return Decision{}
	}
	sum := 0.0
	for i := ctx.Index - n; i < ctx.Index; i++ {
		sum += ctx.Series.Points[i].Close
	}
	mean := sum / float64(n)
	if mean == 0 {
		return Decision{}
	}
	dev := (ctx.Series.Points[ctx.Index].Close - mean) / mean
	return Decision{
		Buy:  dev <= -r.Threshold,
		Sell: dev >= r.Threshold,
	}
}

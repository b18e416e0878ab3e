package signal

import "entry-optimizer/internal/model"

// Context is what a rule sees for one index: the position and the full price
// history. Rules must only read Series.
type Context struct {
	Index  int
	Series model.Series
}

// Decision is a rule's verdict for one index.
type Decision struct {
	Buy  bool
	Sell bool
}

// Rule decides buy/sell eligibility per index. Implementations are
// substitutable without touching the model builder.
type Rule interface {
	Name() string
	Decide(ctx Context) Decision
}

// Generate runs rule over every index of series and returns one Signal per point.
func Generate(series model.Series, rule Rule) []model.Signal {
	out := make([]model.Signal, series.Len())
	for i := range series.Points {
		d := rule.Decide(Context{Index: i, Series: series})
		out[i] = model.Signal{Index: i, Buy: d.Buy, Sell: d.Sell}
	}
	return out
}

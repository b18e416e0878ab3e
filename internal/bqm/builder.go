package bqm

import (
	"fmt"

	"entry-optimizer/internal/model"
)

// ConflictPenalty is the interaction weight discouraging a buy and a sell at
// the same index. It is a soft penalty, not a hard constraint.
const ConflictPenalty = 1.0

// Build converts a price series and its signals into a model.
//
// For every index i >= 1 (index 0 is never modeled):
//   - a buy-eligible index gets (buy, i) with bias -close[i], so cheaper
//     closes are more attractive to select;
//   - a sell-eligible index gets (sell, i) with bias +close[i];
//   - an index eligible for both gets a ConflictPenalty interaction between them.
//
// No eligible index yields an empty model, not an error.
func Build(series model.Series, signals []model.Signal) (*Model, error) {
	if len(signals) != series.Len() {
		return nil, fmt.Errorf("signals length (%d) does not match series length (%d)", len(signals), series.Len())
	}

	m := New()
	for i := 1; i < series.Len(); i++ {
		if signals[i].Eligible(model.Buy) {
			m.AddVariable(Var{Kind: model.Buy, Index: i}, -series.Close(i))
		}
		if signals[i].Eligible(model.Sell) {
			m.AddVariable(Var{Kind: model.Sell, Index: i}, series.Close(i))
		}
	}

	for i := 1; i < series.Len(); i++ {
		if signals[i].Eligible(model.Buy) && signals[i].Eligible(model.Sell) {
			if err := m.AddInteraction(
				Var{Kind: model.Buy, Index: i},
				Var{Kind: model.Sell, Index: i},
				ConflictPenalty,
			); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

package signal

// OddIndexRule marks every odd index buy-eligible and never sells.
type OddIndexRule struct{}

func (OddIndexRule) Name() string { return "odd-index" }

func (OddIndexRule) Decide(ctx Context) Decision {
	return Decision{Buy: ctx.Index%2 != 0}
}

// NoneRule never marks anything eligible.
type NoneRule struct{}

func (NoneRule) Name() string { return "none" }

func (NoneRule) Decide(Context) Decision { return Decision{} }

// EveryIndexRule marks every index both buy- and sell-eligible, which makes the
// model builder emit the buy/sell conflict interaction at every index.
type EveryIndexRule struct{}

func (EveryIndexRule) Name() string { return "every-index" }

func (EveryIndexRule) Decide(Context) Decision { return Decision{Buy: true, Sell: true} }

package model

// Signal flags whether a buy and/or a sell may be modeled at Index.
type Signal struct {
	Index int
	Buy   bool
	Sell  bool
}

// Eligible reports whether the signal permits the given action.
func (s Signal) Eligible(k Kind) bool {
	switch k {
	case Buy:
		return s.Buy
	case Sell:
		return s.Sell
	}
	return false
}

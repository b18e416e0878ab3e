package model

import "fmt"

// Kind is the trade action a decision variable stands for.
// Keep the string forms stable; they are used as variable labels on the wire.
type Kind uint8

const (
	Buy Kind = iota
	Sell
)

func (k Kind) String() string {
	switch k {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

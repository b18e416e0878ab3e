package signal

import (
	"fmt"
	"strings"
)

// DefaultRule is used when no rule is configured.
const DefaultRule = "odd-index"

// ParamInfo describes one rule parameter.
type ParamInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "float", "int", "string"
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
}

// Info describes a rule for listings (CLI and API).
type Info struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []ParamInfo `json:"parameters"`
}

// Catalog lists the rules FromConfig understands.
func Catalog() []Info {
	return []Info{
		{
			Name:        "odd-index",
			Description: "Every odd index is buy-eligible; nothing is sell-eligible.",
			Parameters:  []ParamInfo{},
		},
		{
			Name:        "none",
			Description: "Nothing is eligible. Useful to exercise the empty-model path.",
			Parameters:  []ParamInfo{},
		},
		{
			Name:        "every-index",
			Description: "Every index is both buy- and sell-eligible, so each gets a conflict interaction.",
			Parameters:  []ParamInfo{},
		},
		{
			Name:        "schedule",
			Description: "Daily time windows for buying and selling.",
			Parameters: []ParamInfo{
				{Name: "buy_start", Type: "string", Description: "Start of the buy window (HH:MM)"},
				{Name: "buy_end", Type: "string", Description: "End of the buy window (HH:MM, exclusive)"},
				{Name: "sell_start", Type: "string", Description: "Start of the sell window (HH:MM)"},
				{Name: "sell_end", Type: "string", Description: "End of the sell window (HH:MM, exclusive)"},
			},
		},
		{
			Name:        "dip",
			Description: "Buy below, sell above the trailing mean by a relative threshold.",
			Parameters: []ParamInfo{
				{Name: "lookback", Type: "int", Description: "Number of previous closes in the mean", Default: 3},
				{Name: "threshold", Type: "float", Description: "Relative deviation from the mean (0.01 = 1%)", Default: 0.005},
			},
		},
	}
}

// FromConfig builds a rule by name. An empty name selects DefaultRule.
func FromConfig(name string, params map[string]any) (Rule, error) {
	switch strings.TrimSpace(name) {
	case "", DefaultRule:
		return OddIndexRule{}, nil
	case "none":
		return NoneRule{}, nil
	case "every-index":
		return EveryIndexRule{}, nil
	case "schedule":
		return NewScheduleRule(ScheduleParams{
			BuyStart:  strParam(params, "buy_start", ""),
			BuyEnd:    strParam(params, "buy_end", ""),
			SellStart: strParam(params, "sell_start", ""),
			SellEnd:   strParam(params, "sell_end", ""),
		})
	case "dip":
		lookback := int(numParam(params, "lookback", 3))
		if lookback <= 0 {
			return nil, fmt.Errorf("dip: lookback must be > 0")
		}
		threshold := numParam(params, "threshold", 0.005)
		if threshold < 0 {
			return nil, fmt.Errorf("dip: threshold must be >= 0")
		}
		return DipRule{Lookback: lookback, Threshold: threshold}, nil
	default:
		return nil, fmt.Errorf("unsupported signal rule: %q", name)
	}
}

func numParam(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key]; ok && v != nil {
		switch x := v.(type) {
		case float64:
			return x
		case float32:
			return float64(x)
		case int:
			return float64(x)
		case int64:
			return float64(x)
		}
	}
	return def
}

func strParam(m map[string]any, key string, def string) string {
	if v, ok := m[key]; ok && v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return def
}

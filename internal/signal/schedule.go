package signal

import (
	"fmt"
	"strings"
)

// ScheduleParams implements a simple daily time-window rule:
// - Buy-eligible during [BuyStart, BuyEnd)
// - Sell-eligible during [SellStart, SellEnd)
//
// Times are "HH:MM" in the series' timestamp location. An empty end means the
// window is empty.
type ScheduleParams struct {
	BuyStart  string
	BuyEnd    string
	SellStart string
	SellEnd   string
}

type ScheduleRule struct {
	Params ScheduleParams

	bsMins int
	beMins int
	ssMins int
	seMins int
}

// NewScheduleRule parses the windows up front so Decide cannot fail.
func NewScheduleRule(p ScheduleParams) (*ScheduleRule, error) {
	r := &ScheduleRule{Params: p}
	var err error
	if r.bsMins, r.beMins, err = parseWindow(p.BuyStart, p.BuyEnd); err != nil {
		return nil, fmt.Errorf("buy window: %w", err)
	}
	if r.ssMins, r.seMins, err = parseWindow(p.SellStart, p.SellEnd); err != nil {
		return nil, fmt.Errorf("sell window: %w", err)
	}
	return r, nil
}

func (r *ScheduleRule) Name() string { return "schedule" }

func (r *ScheduleRule) Decide(ctx Context) Decision {
	ts := ctx.Series.Points[ctx.Index].Timestamp
	mins := ts.Hour()*60 + ts.Minute()
	return Decision{
		Buy:  inWindow(mins, r.bsMins, r.beMins),
		Sell: inWindow(mins, r.ssMins, r.seMins),
	}
}

func parseWindow(start, end string) (int, int, error) {
	if strings.TrimSpace(start) == "" {
		return 0, 0, nil
	}
	s, err := parseHHMM(start)
	if err != nil {
		return 0, 0, err
	}
	e := s
	if strings.TrimSpace(end) != "" {
		if e, err = parseHHMM(end); err != nil {
			return 0, 0, err
		}
	}
	return s, e, nil
}

func parseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// inWindow checks whether tMins is in [start, end) on a 24h clock.
// If start == end, the window is empty (always false).
// If start > end, it wraps across midnight.
func inWindow(tMins, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return tMins >= start && tMins < end
	}
	return tMins >= start || tMins < end
}

package signal

import (
	"testing"
	"time"

	"entry-optimizer/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(closes ...float64) model.Series {
	start := time.Date(2024, 3, 5, 16, 45, 0, 0, time.UTC)
	s := model.Series{Symbol: "T"}
	for i, c := range closes {
		s.Points = append(s.Points, model.PricePoint{Timestamp: start.Add(time.Duration(i) * 15 * time.Minute), Close: c})
	}
	return s
}

func TestGenerateOddIndex(t *testing.T) {
	sigs := Generate(series(1, 2, 3, 4, 5), OddIndexRule{})

	require.Len(t, sigs, 5)
	for i, s := range sigs {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, i%2 == 1, s.Buy, "index %d", i)
		assert.False(t, s.Sell, "index %d", i)
	}
}

func TestNoneAndEveryIndex(t *testing.T) {
	s := series(1, 2, 3)
	for _, sig := range Generate(s, NoneRule{}) {
		assert.False(t, sig.Buy)
		assert.False(t, sig.Sell)
	}
	for _, sig := range Generate(s, EveryIndexRule{}) {
		assert.True(t, sig.Buy)
		assert.True(t, sig.Sell)
	}
}

func TestScheduleRule(t *testing.T) {
	// 16:45, 17:00, 17:15, 17:30, 17:45
	s := series(1, 2, 3, 4, 5)
	r, err := NewScheduleRule(ScheduleParams{BuyStart: "17:00", BuyEnd: "17:30", SellStart: "17:30", SellEnd: "18:00"})
	require.NoError(t, err)

	sigs := Generate(s, r)
	buys := []bool{false, true, true, false, false}
	sells := []bool{false, false, false, true, true}
	for i := range sigs {
		assert.Equal(t, buys[i], sigs[i].Buy, "buy at %d", i)
		assert.Equal(t, sells[i], sigs[i].Sell, "sell at %d", i)
	}
}

func TestScheduleRuleInvalid(t *testing.T) {
	_, err := NewScheduleRule(ScheduleParams{BuyStart: "25:00"})
	assert.Error(t, err)
	_, err = NewScheduleRule(ScheduleParams{SellStart: "10", SellEnd: "11:00"})
	assert.Error(t, err)
}

func TestInWindow(t *testing.T) {
	assert.False(t, inWindow(600, 600, 600))
	assert.True(t, inWindow(600, 600, 601))
	assert.False(t, inWindow(601, 600, 601))
	// wraps midnight
	assert.True(t, inWindow(23*60+30, 23*60, 60))
	assert.True(t, inWindow(30, 23*60, 60))
	assert.False(t, inWindow(120, 23*60, 60))
}

func TestDipRule(t *testing.T) {
	s := series(10, 10, 10, 9, 11, 10)
	sigs := Generate(s, DipRule{Lookback: 3, Threshold: 0.05})

	// no full window for the first three indices
	for i := 0; i < 3; i++ {
		assert.False(t, sigs[i].Buy)
		assert.False(t, sigs[i].Sell)
	}
	assert.True(t, sigs[3].Buy)  // 9 vs 10
	assert.True(t, sigs[4].Sell) // 11 vs 9.67
	assert.False(t, sigs[5].Buy)
	assert.False(t, sigs[5].Sell)
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		want    string
		wantErr bool
	}{
		{name: "", want: "odd-index"},
		{name: "odd-index", want: "odd-index"},
		{name: "none", want: "none"},
		{name: "every-index", want: "every-index"},
		{name: "schedule", params: map[string]any{"buy_start": "10:00", "buy_end": "12:00"}, want: "schedule"},
		{name: "schedule", params: map[string]any{"buy_start": "noon"}, wantErr: true},
		{name: "dip", params: map[string]any{"lookback": 5, "threshold": 0.01}, want: "dip"},
		{name: "dip", params: map[string]any{"lookback": 0}, wantErr: true},
		{name: "macd", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.want, func(t *testing.T) {
			r, err := FromConfig(tt.name, tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Name())
		})
	}
}

func TestCatalogMatchesFromConfig(t *testing.T) {
	for _, info := range Catalog() {
		r, err := FromConfig(info.Name, nil)
		require.NoError(t, err, info.Name)
		assert.Equal(t, info.Name, r.Name())
	}
}

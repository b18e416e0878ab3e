package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeries(t *testing.T) {
	s := DefaultSeries()

	require.Equal(t, 14, s.Len())
	assert.Equal(t, DefaultSymbol, s.Symbol)
	assert.Equal(t, 8.94, s.Close(0))
	assert.Equal(t, 8.46, s.Close(3))
	assert.Equal(t, 8.56, s.Close(13))
	assert.Equal(t, time.Date(2024, 3, 5, 16, 45, 0, 0, time.UTC), s.Points[0].Timestamp)

	// Callers get their own copy.
	s.Points[0].Close = 1
	assert.Equal(t, 8.94, DefaultSeries().Close(0))
}

func TestReadCSV(t *testing.T) {
	in := "Date,Open,Close\n2024.03.05 16:45,1,8.94\n2024-03-05T17:00:00Z,1,8.96\n"
	s, err := ReadCSV(strings.NewReader(in), "ACME")
	require.NoError(t, err)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, "ACME", s.Symbol)
	assert.Equal(t, []float64{8.94, 8.96}, s.Closes())
}

func TestReadCSVErrors(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"missing column": "timestamp,open\n2024.03.05 16:45,1\n",
		"bad close":      "timestamp,close\n2024.03.05 16:45,abc\n",
		"bad timestamp":  "timestamp,close\nyesterday,8.5\n",
		"no rows":        "timestamp,close\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(in), "X")
			assert.Error(t, err)
		})
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "acme.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"data":[{"timestamp":"2024-03-05","close":3.5}]}`), 0o644))
	s, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "ACME", s.Symbol)
	assert.Equal(t, 3.5, s.Close(0))

	csvPath := filepath.Join(dir, "beta.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("timestamp,close\n2024-03-05,4.25\n"), 0o644))
	s, err = Load(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "BETA", s.Symbol)

	_, err = Load(filepath.Join(dir, "prices.txt"))
	assert.Error(t, err)
}

func TestWatchlistRoundTripAndLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("timestamp,close\n2024-03-05,1\n2024-03-06,2\n"), 0o644))

	list := &Watchlist{Name: "test", Symbols: []WatchSymbol{{Symbol: "AAA", Path: "a.csv"}}}
	path := filepath.Join(dir, "lists", "watch.json")
	require.NoError(t, SaveWatchlist(list, path))

	loaded, err := LoadWatchlist(path)
	require.NoError(t, err)
	assert.Equal(t, list, loaded)

	series, err := loaded.LoadSeries(dir)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "AAA", series[0].Symbol)
	assert.Equal(t, 2, series[0].Len())

	loaded.Symbols = append(loaded.Symbols, WatchSymbol{Symbol: "MISSING", Path: "nope.csv"})
	_, err = loaded.LoadSeries(dir)
	assert.ErrorContains(t, err, "MISSING")
}

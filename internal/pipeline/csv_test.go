package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"entry-optimizer/internal/data"
	"entry-optimizer/internal/signal"
	"entry-optimizer/internal/solver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteSignalsCSV(t *testing.T) {
	series := data.DefaultSeries()
	res, err := New(solver.NewExact(), solver.Options{NumReads: 1}, nil).
		Run(context.Background(), series, signal.OddIndexRule{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "trading_signals.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale\ncontent\n"), 0o644))
	require.NoError(t, WriteSignalsCSV(path, res.Ledger))

	rows := readCSV(t, path)
	require.Len(t, rows, series.Len()+1)
	assert.Equal(t, []string{"timestamp", "close", "buy_signal", "sell_signal"}, rows[0])
	assert.Equal(t, []string{"2024.03.05 16:45", "8.94", "false", "false"}, rows[1])

	for i, row := range rows[1:] {
		assert.Equal(t, strconv.FormatBool(res.Signals[i].Buy), row[2], "row %d", i)
		assert.Equal(t, strconv.FormatBool(res.Signals[i].Sell), row[3], "row %d", i)
	}
}

func TestWriteLedgerCSV(t *testing.T) {
	res, err := New(solver.NewExact(), solver.Options{NumReads: 1}, nil).
		Run(context.Background(), data.DefaultSeries(), signal.OddIndexRule{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, WriteLedgerCSV(path, res.Ledger))

	rows := readCSV(t, path)
	require.Len(t, rows, 15)
	assert.Equal(t, []string{"index", "timestamp", "close", "buy_signal", "sell_signal", "selected"}, rows[0])
	assert.Equal(t, []string{"3", "2024.03.05 17:30", "8.46", "true", "false", "true"}, rows[4])
}

func TestPrintReport(t *testing.T) {
	res, err := New(solver.NewExact(), solver.Options{NumReads: 1}, nil).
		Run(context.Background(), data.DefaultSeries(), signal.OddIndexRule{})
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintReport(&buf, res, "trading_signals.csv")
	out := buf.String()
	assert.Contains(t, out, "Optimal Buy Prices: [")
	assert.Contains(t, out, "8.96")
	assert.Contains(t, out, "The optimal entry price to buy is: 8.46")
	assert.Contains(t, out, "Trading signals saved to 'trading_signals.csv'.")

	buf.Reset()
	PrintReport(&buf, &Result{}, "")
	assert.Contains(t, buf.String(), "none")
}

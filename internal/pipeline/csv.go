package pipeline

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"entry-optimizer/internal/model"

	"github.com/shopspring/decimal"
)

// SignalsHeader is the header row of the signals export.
var SignalsHeader = []string{"timestamp", "close", "buy_signal", "sell_signal"}

// WriteSignalsCSV writes one row per price point, overwriting path.
func WriteSignalsCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteSignals(f, ledger)
}

func WriteSignals(out io.Writer, ledger []LedgerRow) error {
	w := csv.NewWriter(out)

	if err := w.Write(SignalsHeader); err != nil {
		return err
	}
	for _, r := range ledger {
		row := []string{
			fmtTime(r.Timestamp),
			fmtPrice(r.Close),
			strconv.FormatBool(r.Buy),
			strconv.FormatBool(r.Sell),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteLedgerCSV writes the signals export plus the index and the selection
// made by the lowest-energy sample.
func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"index"}, SignalsHeader...)
	header = append(header, "selected")
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(r.Timestamp),
			fmtPrice(r.Close),
			strconv.FormatBool(r.Buy),
			strconv.FormatBool(r.Sell),
			strconv.FormatBool(r.Selected),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.TimestampLayout)
}

// fmtPrice prints the shortest decimal that round-trips, so 8.94 stays 8.94.
func fmtPrice(x float64) string {
	return decimal.NewFromFloat(x).String()
}

package data

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"entry-optimizer/internal/model"
)

// DefaultSymbol labels the bundled sample table.
const DefaultSymbol = "DEMO"

// Sample closing prices, 15 minute bars. Replace with a real feed for live use.
var defaultTable = []struct {
	ts    string
	close float64
}{
	{"2024.03.05 16:45", 8.94},
	{"2024.03.05 17:00", 8.96},
	{"2024.03.05 17:15", 8.55},
	{"2024.03.05 17:30", 8.46},
	{"2024.03.05 17:45", 8.49},
	{"2024.03.05 18:00", 8.59},
	{"2024.03.05 18:15", 8.53},
	{"2024.03.05 18:30", 8.53},
	{"2024.03.05 18:45", 8.71},
	{"2024.03.05 19:00", 8.52},
	{"2024.03.05 19:15", 8.47},
	{"2024.03.05 19:30", 8.52},
	{"2024.03.05 19:45", 8.22},
	{"2024.03.05 20:00", 8.56},
}

// DefaultSeries returns a fresh copy of the bundled 14 row price table.
func DefaultSeries() model.Series {
	pts := make([]model.PricePoint, len(defaultTable))
	for i, row := range defaultTable {
		ts, err := time.Parse(model.TimestampLayout, row.ts)
		if err != nil {
			// The table is a literal; a bad row is a programming error.
			panic(fmt.Sprintf("default table row %d: %v", i, err))
		}
		pts[i] = model.PricePoint{Timestamp: ts, Close: row.close}
	}
	return model.Series{Symbol: DefaultSymbol, Points: pts}
}

// SeriesFile is the on-disk JSON shape of a price series.
//
// Example:
//
//	{
//	  "symbol": "ACME",
//	  "data": [{"timestamp": "2024.03.05 16:45", "close": 8.94}]
//	}
type SeriesFile struct {
	Symbol string        `json:"symbol"`
	Data   []PointRecord `json:"data"`
}

// PointRecord is one row of a series file. Timestamp accepts the bundled
// layout, RFC3339 or a plain date.
type PointRecord struct {
	Timestamp string  `json:"timestamp"`
	Close     float64 `json:"close"`
}

// Load reads a series from path, choosing the decoder by extension.
// Files without a symbol are labelled with the file's base name.
func Load(path string) (model.Series, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return model.Series{}, fmt.Errorf("unsupported series file %q (want .json or .csv)", path)
	}
}

func LoadJSON(path string) (model.Series, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Series{}, err
	}
	var f SeriesFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return model.Series{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Symbol == "" {
		f.Symbol = symbolFromPath(path)
	}
	return FromRecords(f.Symbol, f.Data)
}

// FromRecords converts decoded rows into a validated series.
func FromRecords(symbol string, rows []PointRecord) (model.Series, error) {
	s := model.Series{Symbol: symbol, Points: make([]model.PricePoint, 0, len(rows))}
	for i, r := range rows {
		ts, err := ParseTimestamp(r.Timestamp)
		if err != nil {
			return model.Series{}, fmt.Errorf("row %d: %w", i, err)
		}
		s.Points = append(s.Points, model.PricePoint{Timestamp: ts, Close: r.Close})
	}
	if err := s.Validate(); err != nil {
		return model.Series{}, err
	}
	return s, nil
}

// LoadCSV reads a series with at least the columns timestamp and close
// (the header is matched case-insensitively; other columns are ignored).
func LoadCSV(path string) (model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Series{}, err
	}
	defer f.Close()

	s, err := ReadCSV(f, symbolFromPath(path))
	if err != nil {
		return model.Series{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

func ReadCSV(r io.Reader, symbol string) (model.Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.Series{}, errors.New("empty csv")
		}
		return model.Series{}, err
	}
	tsCol, closeCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "timestamp", "date", "time":
			tsCol = i
		case "close":
			closeCol = i
		}
	}
	if tsCol < 0 || closeCol < 0 {
		return model.Series{}, fmt.Errorf("csv header %v must contain timestamp and close columns", header)
	}

	var rows []PointRecord
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Series{}, err
		}
		c, err := strconv.ParseFloat(strings.TrimSpace(rec[closeCol]), 64)
		if err != nil {
			return model.Series{}, fmt.Errorf("line %d: invalid close %q", line, rec[closeCol])
		}
		rows = append(rows, PointRecord{Timestamp: rec[tsCol], Close: c})
	}
	return FromRecords(symbol, rows)
}

var timestampLayouts = []string{
	model.TimestampLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func symbolFromPath(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

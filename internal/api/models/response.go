package models

import "time"

// OptimizeResponse represents the response from an optimization run
type OptimizeResponse struct {
	ID      string          `json:"id,omitempty"`
	Status  string          `json:"status"` // "ok", "no_buy_price"
	Symbol  string          `json:"symbol"`
	Rule    string          `json:"rule"`
	Solver  string          `json:"solver"`
	Summary OptimizeSummary `json:"summary"`
	Ledger  []LedgerRow     `json:"ledger,omitempty"`
	Samples []SampleRow     `json:"samples,omitempty"`
}

// OptimizeSummary contains the extracted prices and model statistics
type OptimizeSummary struct {
	OptimalBuyPrices []float64  `json:"optimal_buy_prices"`
	BestEntryPrice   *float64   `json:"best_entry_price"`
	BestIndex        int        `json:"best_index"`
	BestTimestamp    *time.Time `json:"best_timestamp,omitempty"`
	Selected         []string   `json:"selected"`
	LowestEnergy     float64    `json:"lowest_energy"`
	NumVariables     int        `json:"num_variables"`
	NumInteractions  int        `json:"num_interactions"`
	NumSamples       int        `json:"num_samples"`
	Cached           bool       `json:"cached"`
	ElapsedMS        int64      `json:"elapsed_ms"`
}

// LedgerRow represents one index of the price series
type LedgerRow struct {
	Index      int       `json:"index"`
	Timestamp  time.Time `json:"timestamp"`
	Close      float64   `json:"close"`
	BuySignal  bool      `json:"buy_signal"`
	SellSignal bool      `json:"sell_signal"`
	Selected   bool      `json:"selected"`
}

// SampleRow is one solver sample, keyed by variable label (e.g. "buy_3")
type SampleRow struct {
	Assignment     map[string]int8 `json:"assignment"`
	Energy         float64         `json:"energy"`
	NumOccurrences int             `json:"num_occurrences"`
}

// BatchResponse represents the response from a batch run
type BatchResponse struct {
	Results  []BatchResult `json:"results"`
	Rankings []Ranking     `json:"rankings"`
}

// BatchResult is one series' outcome. Exactly one of Result and Error is set,
// except for partial results which carry both.
type BatchResult struct {
	Symbol string            `json:"symbol"`
	Result *OptimizeResponse `json:"result,omitempty"`
	Error  *ErrorDetail      `json:"error,omitempty"`
}

// Ranking represents one ranked symbol
type Ranking struct {
	Rank      int     `json:"rank"`
	Symbol    string  `json:"symbol"`
	BestEntry float64 `json:"best_entry"`
	BestIndex int     `json:"best_index"`
	Mean      float64 `json:"mean"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Discount  float64 `json:"discount"`
	Optimal   bool    `json:"optimal"`
}

// SeriesInfo represents a series the server knows about
type SeriesInfo struct {
	Symbol string    `json:"symbol"`
	Count  int       `json:"count"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// SeriesDetail is a series with its statistics
type SeriesDetail struct {
	SeriesInfo
	Stats  SeriesStats  `json:"stats"`
	Points []PointInput `json:"points"`
}

// SeriesStats mirrors analysis.PriceStats
type SeriesStats struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
	P05          float64 `json:"p05"`
	P95          float64 `json:"p95"`
	SpreadP95P05 float64 `json:"spread_p95_p05"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

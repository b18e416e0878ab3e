package models

// OptimizeRequest represents the request body for POST /api/v1/optimize
type OptimizeRequest struct {
	// Symbol selects a series loaded by the server. Ignored when Series is set.
	Symbol string `json:"symbol,omitempty"`
	// Series is optional; omitting both uses the bundled sample table.
	Series  *SeriesInput    `json:"series,omitempty"`
	Signal  SignalConfig    `json:"signal,omitempty"`
	Solver  SolverOptions   `json:"solver,omitempty"`
	Options OptimizeOptions `json:"options,omitempty"`
}

// SeriesInput is an inline price series
type SeriesInput struct {
	Symbol string       `json:"symbol"`
	Data   []PointInput `json:"data" binding:"required,min=1,dive"`
}

// PointInput is one closing price. Timestamp accepts "2006.01.02 15:04",
// RFC3339 or YYYY-MM-DD.
type PointInput struct {
	Timestamp string  `json:"timestamp" binding:"required"`
	Close     float64 `json:"close"`
}

// SignalConfig selects the signal rule and its parameters
type SignalConfig struct {
	Name   string                 `json:"name,omitempty"` // default: odd-index
	Params map[string]interface{} `json:"params,omitempty"`
}

// SolverOptions overrides the server's solve options for one request
type SolverOptions struct {
	NumReads  int   `json:"num_reads,omitempty"`
	Seed      int64 `json:"seed,omitempty"`
	TimeoutMS int   `json:"timeout_ms,omitempty"`
}

// OptimizeOptions controls the response shape
type OptimizeOptions struct {
	IncludeLedger  bool `json:"include_ledger,omitempty"`  // default: false
	IncludeSamples bool `json:"include_samples,omitempty"` // default: false
}

// BatchRequest represents a request to optimize several series with one rule
type BatchRequest struct {
	Series  []SeriesInput   `json:"series" binding:"required,min=1,dive"`
	Signal  SignalConfig    `json:"signal,omitempty"`
	Solver  SolverOptions   `json:"solver,omitempty"`
	Options OptimizeOptions `json:"options,omitempty"`
}

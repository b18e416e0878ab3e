package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"entry-optimizer/internal/model"
)

// WatchSymbol points a symbol at its series file.
type WatchSymbol struct {
	Symbol string `json:"symbol"`
	Path   string `json:"path"`
}

// Watchlist is a set of symbols optimized together by the batch runner.
type Watchlist struct {
	Name      string        `json:"name"`
	UpdatedAt string        `json:"updated_at"` // ISO 8601 timestamp
	Symbols   []WatchSymbol `json:"symbols"`
}

// LoadWatchlist loads a watchlist from a JSON file
func LoadWatchlist(filePath string) (*Watchlist, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist file: %w", err)
	}

	var list Watchlist
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist file: %w", err)
	}

	return &list, nil
}

// SaveWatchlist saves a watchlist to a JSON file
func SaveWatchlist(list *Watchlist, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal watchlist: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write watchlist file: %w", err)
	}

	return nil
}

// LoadSeries loads every series in the list. Relative paths are resolved
// against baseDir (normally the watchlist's own directory).
func (w *Watchlist) LoadSeries(baseDir string) ([]model.Series, error) {
	out := make([]model.Series, 0, len(w.Symbols))
	for _, sym := range w.Symbols {
		p := sym.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		s, err := Load(p)
		if err != nil {
			return nil, fmt.Errorf("symbol %s: %w", sym.Symbol, err)
		}
		if sym.Symbol != "" {
			s.Symbol = sym.Symbol
		}
		out = append(out, s)
	}
	return out, nil
}

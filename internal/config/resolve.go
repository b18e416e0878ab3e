package config

import (
	"fmt"
	"path/filepath"

	"entry-optimizer/internal/data"
	"entry-optimizer/internal/model"
)

// Resolve loads path (or the defaults when path is empty), applies the
// environment and validates the result. Entry points start here.
func Resolve(path string) (*Config, error) {
	var c *Config
	if path == "" {
		c = Default()
	} else {
		loaded, err := LoadUnchecked(path)
		if err != nil {
			return nil, err
		}
		c = loaded
	}
	ApplyEnv(c)
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// Series loads the configured series, or the bundled table when Data is empty.
func (c *Config) Series() (model.Series, error) {
	if c.Data == "" {
		s := data.DefaultSeries()
		if c.Symbol != "" {
			s.Symbol = c.Symbol
		}
		return s, nil
	}
	s, err := data.Load(c.Data)
	if err != nil {
		return model.Series{}, err
	}
	if c.Symbol != "" {
		s.Symbol = c.Symbol
	}
	return s, nil
}

// WatchlistSeries loads every series of the configured watchlist.
func (c *Config) WatchlistSeries() ([]model.Series, error) {
	if c.Watchlist == "" {
		return nil, fmt.Errorf("no watchlist configured")
	}
	list, err := data.LoadWatchlist(c.Watchlist)
	if err != nil {
		return nil, err
	}
	return list.LoadSeries(filepath.Dir(c.Watchlist))
}

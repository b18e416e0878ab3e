package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, DefaultOutput, c.Output)
	assert.Equal(t, "odd-index", c.Signal.Name)
	assert.Equal(t, "anneal", c.Solver.Name)
	assert.Equal(t, 100, c.Solver.NumReads)

	rule, err := c.Rule()
	require.NoError(t, err)
	assert.Equal(t, "odd-index", rule.Name())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prices.csv", "timestamp,close\n2024.03.05 16:45,8.94\n")
	path := writeFile(t, dir, "config.yaml", `
symbol: ACME
data: prices.csv
output: out.csv
signal:
  name: dip
  params:
    lookback: 4
solver:
  name: exact
  num_reads: 10
  seed: 42
  timeout: 30s
  cache_ttl: 5m
log:
  level: debug
  format: json
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ACME", c.Symbol)
	assert.Equal(t, filepath.Join(dir, "prices.csv"), c.Data)
	assert.Equal(t, "out.csv", c.Output)
	assert.Equal(t, "dip", c.Signal.Name)
	assert.Equal(t, 4, c.Signal.Params["lookback"])
	assert.Equal(t, 30*time.Second, c.Solver.Timeout)
	assert.Equal(t, 5*time.Minute, c.Solver.CacheTTL)

	opts := c.Solver.ToOptions()
	assert.Equal(t, 10, opts.NumReads)
	assert.Equal(t, int64(42), opts.Seed)

	spec := c.Solver.ToSpec()
	assert.Equal(t, "exact", spec.Name)
	assert.Equal(t, 5*time.Minute, spec.CacheTTL)
}

func TestLoadSignalFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rule.yaml", `
signal:
  name: schedule
  params:
    buy_start: "09:00"
    buy_end: "12:00"
`)
	path := writeFile(t, dir, "config.yaml", `
signal_file: rule.yaml
signal:
  params:
    buy_end: "11:00"
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "schedule", c.Signal.Name)
	assert.Equal(t, "09:00", c.Signal.Params["buy_start"])
	assert.Equal(t, "11:00", c.Signal.Params["buy_end"])
}

func TestMergeSignal(t *testing.T) {
	base := SignalConfig{Name: "dip", Params: map[string]any{"lookback": 3, "threshold": 0.01}}

	same := MergeSignal(base, SignalConfig{Params: map[string]any{"threshold": 0.02}})
	assert.Equal(t, "dip", same.Name)
	assert.Equal(t, 3, same.Params["lookback"])
	assert.Equal(t, 0.02, same.Params["threshold"])
	assert.Equal(t, 0.01, base.Params["threshold"], "base is not mutated")

	other := MergeSignal(base, SignalConfig{Name: "none"})
	assert.Equal(t, "none", other.Name)
	assert.Empty(t, other.Params)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown rule", func(c *Config) { c.Signal.Name = "moon-phase" }},
		{"bad rule params", func(c *Config) {
			c.Signal = SignalConfig{Name: "dip", Params: map[string]any{"lookback": 0}}
		}},
		{"unknown solver", func(c *Config) { c.Solver.Name = "quantum" }},
		{"negative reads", func(c *Config) { c.Solver.NumReads = -1 }},
		{"beta range length", func(c *Config) { c.Solver.BetaRange = []float64{1} }},
		{"beta range sign", func(c *Config) { c.Solver.BetaRange = []float64{0, 1} }},
		{"remote without url", func(c *Config) { c.Solver.Name = "remote" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SOLVER_API_TOKEN", "secret")
	t.Setenv("SOLVER_URL", "https://sampler.example.com")
	t.Setenv("SOLVER_NAME", "remote")
	t.Setenv("SOLVER_NUM_READS", "25")
	t.Setenv("LOG_LEVEL", "warn")

	c := Default()
	ApplyEnv(c)
	assert.Equal(t, "secret", c.Solver.Remote.Token)
	assert.Equal(t, "https://sampler.example.com", c.Solver.Remote.URL)
	assert.Equal(t, "remote", c.Solver.Name)
	assert.Equal(t, 25, c.Solver.NumReads)
	assert.Equal(t, "warn", c.Log.Level)
	require.NoError(t, c.Validate())
}

func TestLoadServer(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	s := LoadServer()
	assert.Equal(t, "9000", s.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, s.CORSAllowedOrigins)
	assert.Equal(t, 4, s.BatchConcurrency)
}

func TestResolveDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	c, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "error", c.Log.Level)

	s, err := c.Series()
	require.NoError(t, err)
	assert.Equal(t, 14, s.Len())
	assert.Equal(t, "DEMO", s.Symbol)
}

func TestResolveRejectsInvalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "solver:\n  name: quantum\n")
	_, err := Resolve(path)
	assert.Error(t, err)
}

func TestWatchlistSeries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "timestamp,close\n2024-01-01,10\n2024-01-02,9\n")
	writeFile(t, dir, "list.json", `{"name":"test","symbols":[{"symbol":"AAA","path":"a.csv"}]}`)
	path := writeFile(t, dir, "config.yaml", "watchlist: list.json\n")

	c, err := Load(path)
	require.NoError(t, err)
	series, err := c.WatchlistSeries()
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "AAA", series[0].Symbol)
	assert.Equal(t, 2, series[0].Len())

	_, err = Default().WatchlistSeries()
	assert.Error(t, err)
}

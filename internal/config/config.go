package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entry-optimizer/internal/signal"
	"entry-optimizer/internal/solver"

	"gopkg.in/yaml.v3"
)

// DefaultOutput is where the signals CSV goes when no output is configured.
const DefaultOutput = "trading_signals.csv"

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Symbol labels the bundled table when Data is empty.
	Symbol string `yaml:"symbol"`
	// Data is a .csv or .json series file. Empty uses the bundled table.
	Data string `yaml:"data"`
	// Watchlist is used by batch runs.
	Watchlist string `yaml:"watchlist"`
	Output    string `yaml:"output"`

	// Optional: load the signal rule from a separate YAML (e.g. examples/rules/*.yaml).
	// If both SignalFile and Signal are provided, Signal overrides SignalFile.
	SignalFile string       `yaml:"signal_file"`
	Signal     SignalConfig `yaml:"signal"`
	Solver     SolverConfig `yaml:"solver"`
	Log        LogConfig    `yaml:"log"`
}

type SignalConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

type SolverConfig struct {
	Name      string        `yaml:"name"`
	NumReads  int           `yaml:"num_reads"`
	Seed      int64         `yaml:"seed"`
	Timeout   time.Duration `yaml:"timeout"`
	Sweeps    int           `yaml:"sweeps"`
	BetaRange []float64     `yaml:"beta_range"`
	Remote    RemoteConfig  `yaml:"remote"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
	Metrics   bool          `yaml:"metrics"`
}

type RemoteConfig struct {
	URL        string  `yaml:"url"`
	Token      string  `yaml:"token"`
	RatePerSec float64 `yaml:"rate_per_sec"`
	MaxRetries int     `yaml:"max_retries"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default is the configuration used when no file is given: the bundled
// table, the odd-index rule and a seeded annealer.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Signal.Name == "" {
		c.Signal.Name = signal.DefaultRule
	}
	if c.Solver.Name == "" {
		c.Solver.Name = solver.DefaultSolver
	}
	if c.Solver.NumReads == 0 {
		c.Solver.NumReads = solver.DefaultNumReads
	}
	if c.Solver.Remote.MaxRetries == 0 {
		c.Solver.Remote.MaxRetries = 3
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it or fill
// defaults. Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.SignalFile != "" {
		loaded, err := loadSignalFile(resolve(path, c.SignalFile))
		if err != nil {
			return nil, err
		}
		c.Signal = MergeSignal(loaded, c.Signal)
	}
	c.Data = resolve(path, c.Data)
	c.Watchlist = resolve(path, c.Watchlist)
	return &c, nil
}

// resolve prefers interpreting rel relative to the config file directory,
// falling back to the provided path (relative to cwd) if that doesn't exist.
func resolve(configPath, rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	cand := filepath.Join(filepath.Dir(configPath), rel)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return rel
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Signal.Name == "" {
		return errors.New("signal.name is required")
	}
	if _, err := c.Rule(); err != nil {
		return fmt.Errorf("signal config invalid: %w", err)
	}
	if c.Solver.NumReads < 0 {
		return errors.New("solver.num_reads must be >= 0")
	}
	if c.Solver.Timeout < 0 {
		return errors.New("solver.timeout must be >= 0")
	}
	if n := len(c.Solver.BetaRange); n != 0 && n != 2 {
		return fmt.Errorf("solver.beta_range must have 2 values, got %d", n)
	}
	for _, b := range c.Solver.BetaRange {
		if b <= 0 {
			return errors.New("solver.beta_range values must be > 0")
		}
	}
	if c.Solver.Name == "remote" && c.Solver.Remote.URL == "" {
		return errors.New("solver.remote.url is required for the remote solver")
	}
	if c.Solver.Remote.RatePerSec < 0 {
		return errors.New("solver.remote.rate_per_sec must be >= 0")
	}
	known := false
	for _, d := range solver.Catalog() {
		if d.Name == c.Solver.Name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unsupported solver: %q", c.Solver.Name)
	}
	return nil
}

// Rule builds the configured signal rule.
func (c *Config) Rule() (signal.Rule, error) {
	return signal.FromConfig(c.Signal.Name, c.Signal.Params)
}

// ToSpec converts the solver section for solver.New.
func (s SolverConfig) ToSpec() solver.Spec {
	spec := solver.Spec{
		Name:   s.Name,
		Sweeps: s.Sweeps,
		Remote: solver.RemoteConfig{
			URL:        s.Remote.URL,
			Token:      s.Remote.Token,
			RatePerSec: s.Remote.RatePerSec,
			MaxRetries: s.Remote.MaxRetries,
		},
		CacheTTL: s.CacheTTL,
		Metrics:  s.Metrics,
	}
	if len(s.BetaRange) == 2 {
		spec.BetaRange = [2]float64{s.BetaRange[0], s.BetaRange[1]}
	}
	return spec
}

func (s SolverConfig) ToOptions() solver.Options {
	return solver.Options{NumReads: s.NumReads, Seed: s.Seed, Timeout: s.Timeout}
}

type signalFileWrapper struct {
	Signal SignalConfig `yaml:"signal"`
}

func loadSignalFile(path string) (SignalConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SignalConfig{}, err
	}
	var w signalFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return SignalConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Signal, nil
}

// MergeSignal overlays override onto base. A different rule name replaces
// base entirely; the same (or empty) name merges params key by key.
func MergeSignal(base, override SignalConfig) SignalConfig {
	if override.Name != "" && override.Name != base.Name {
		return override
	}
	out := SignalConfig{Name: base.Name, Params: map[string]any{}}
	for k, v := range base.Params {
		out.Params[k] = v
	}
	for k, v := range override.Params {
		out.Params[k] = v
	}
	return out
}

package commands

import (
	"io"

	"entry-optimizer/internal/config"
	"entry-optimizer/internal/logger"
	"entry-optimizer/internal/solver"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	solverName string
	numReads   int
	seed       int64
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "entry",
	Short: "Pick the best entry price of a price series with a binary quadratic model",
	Long: `entry builds a binary quadratic model from a price series and its
buy/sell signals, samples it with a solver and reports the cheapest
selected entry.

Examples:
  entry run
  entry run --config examples/config.yaml --solver exact
  entry batch --config examples/config.yaml --out results/
  entry rank --config examples/config.yaml
  entry rules`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (default: bundled table, odd-index rule)")
	rootCmd.PersistentFlags().StringVar(&solverName, "solver", "", "solver override (anneal|exact|remote)")
	rootCmd.PersistentFlags().IntVar(&numReads, "num-reads", 0, "samples per solve (0 = config value)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "sampler seed (0 = config value)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// setup resolves config, flags and environment into a logger and a solver.
// Logs go to logOut so stdout carries only command output.
func setup(logOut io.Writer) (*config.Config, *logger.Logger, solver.Solver, error) {
	cfg, err := config.Resolve(configFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if solverName != "" {
		cfg.Solver.Name = solverName
	}
	if numReads > 0 {
		cfg.Solver.NumReads = numReads
	}
	if seed != 0 {
		cfg.Solver.Seed = seed
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	log := logger.NewWithWriter(cfg.Log.Level, cfg.Log.Format, logOut)
	s, err := solver.New(cfg.Solver.ToSpec(), log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, s, nil
}

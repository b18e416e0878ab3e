package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"entry-optimizer/internal/config"
	"entry-optimizer/internal/extract"
	"entry-optimizer/internal/logger"
	"entry-optimizer/internal/pipeline"
	"entry-optimizer/internal/solver"
)

// Demo:
// - Load the bundled 14 row price table
// - Mark odd indices buy-eligible and build the model
// - Solve, print the optimal buy prices and the best entry price
// - Write trading_signals.csv
//
// No flags. SOLVER_NAME, SOLVER_URL, SOLVER_API_TOKEN and LOG_LEVEL are read
// from the environment (or .env).
func main() {
	if err := run(os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(stdout, stderr io.Writer) error {
	cfg, err := config.Resolve("")
	if err != nil {
		return err
	}
	log := logger.NewWithWriter(cfg.Log.Level, cfg.Log.Format, stderr)

	series, err := cfg.Series()
	if err != nil {
		return err
	}
	rule, err := cfg.Rule()
	if err != nil {
		return err
	}
	s, err := solver.New(cfg.Solver.ToSpec(), log)
	if err != nil {
		return err
	}

	engine := pipeline.New(s, cfg.Solver.ToOptions(), log)
	res, err := engine.Run(context.Background(), series, rule)
	if res == nil {
		return err
	}

	if werr := pipeline.WriteSignalsCSV(cfg.Output, res.Ledger); werr != nil {
		return fmt.Errorf("write %s: %w", cfg.Output, werr)
	}
	pipeline.PrintReport(stdout, res, cfg.Output)

	if errors.Is(err, extract.ErrNoBuyPrice) {
		return err
	}
	return nil
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"entry-optimizer/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	runOut    string
	runLedger string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Optimize one series and write the signals CSV",
	Long: `Optimize the configured series (the bundled table by default), print
the optimal buy prices and the best entry, and write the signals CSV.

Example:
  entry run
  entry run --out results/signals.csv --ledger results/ledger.csv`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runOut, "out", "", "signals CSV path (default: config output)")
	runCmd.Flags().StringVar(&runLedger, "ledger", "", "optional ledger CSV with the selected indices")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, log, s, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	series, err := cfg.Series()
	if err != nil {
		return err
	}
	rule, err := cfg.Rule()
	if err != nil {
		return err
	}

	engine := pipeline.New(s, cfg.Solver.ToOptions(), log)
	res, err := engine.Run(cmd.Context(), series, rule)
	if res == nil {
		return err
	}

	out := runOut
	if out == "" {
		out = cfg.Output
	}
	if werr := writeCSV(out, res.Ledger, pipeline.WriteSignalsCSV); werr != nil {
		return werr
	}
	if runLedger != "" {
		if werr := writeCSV(runLedger, res.Ledger, pipeline.WriteLedgerCSV); werr != nil {
			return werr
		}
	}
	pipeline.PrintReport(cmd.OutOrStdout(), res, out)
	return err
}

// writeCSV ensures the output directory exists before writing.
func writeCSV(path string, ledger []pipeline.LedgerRow, write func(string, []pipeline.LedgerRow) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := write(path, ledger); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

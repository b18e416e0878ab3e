package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"entry-optimizer/internal/analysis"
	"entry-optimizer/internal/logger"
	"entry-optimizer/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	batchOut         string
	batchConcurrency int
	rankTop          int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Optimize every series of the configured watchlist",
	Long: `Optimize each watchlist series concurrently and write one signals CSV
per symbol into --out. A failing symbol is reported and does not stop the rest.

Example:
  entry batch --config examples/config.yaml --out results/`,
	RunE: runBatch,
}

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank watchlist symbols by how cheap their best entry is",
	Long: `Optimize each watchlist series and rank symbols by the discount of the
best entry price to the series mean.

Example:
  entry rank --config examples/config.yaml --top 5`,
	RunE: runRank,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(rankCmd)

	batchCmd.Flags().StringVar(&batchOut, "out", "results", "output directory")
	for _, c := range []*cobra.Command{batchCmd, rankCmd} {
		c.Flags().IntVar(&batchConcurrency, "concurrency", 4, "parallel solves (0 = unlimited)")
	}
	rankCmd.Flags().IntVar(&rankTop, "top", 0, "show only the first N symbols (0 = all)")
}

func runWatchlist(cmd *cobra.Command) (*logger.Logger, []pipeline.BatchItem, error) {
	cfg, log, s, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	series, err := cfg.WatchlistSeries()
	if err != nil {
		return nil, nil, err
	}
	rule, err := cfg.Rule()
	if err != nil {
		return nil, nil, err
	}

	jobs := make([]pipeline.Job, len(series))
	for i, sr := range series {
		jobs[i] = pipeline.Job{Series: sr, Rule: rule}
	}
	engine := pipeline.New(s, cfg.Solver.ToOptions(), log)
	items, err := engine.RunBatch(cmd.Context(), jobs, batchConcurrency)
	return log, items, err
}

func runBatch(cmd *cobra.Command, args []string) error {
	log, items, err := runWatchlist(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, it := range items {
		fmt.Fprintf(out, "== %s ==\n", it.Symbol)
		if it.Result == nil {
			failed++
			fmt.Fprintf(out, "error: %v\n\n", it.Err)
			continue
		}
		path := filepath.Join(batchOut, strings.ToLower(it.Symbol)+"_signals.csv")
		if werr := writeCSV(path, it.Result.Ledger, pipeline.WriteSignalsCSV); werr != nil {
			return werr
		}
		pipeline.PrintReport(out, it.Result, path)
		if it.Err != nil {
			failed++
			log.WithError(it.Err).WithField("symbol", it.Symbol).Warn("Partial result")
		}
		fmt.Fprintln(out)
	}
	printRanking(out, analysis.RankByDiscount(items), 0)

	if failed > 0 {
		return fmt.Errorf("%d of %d symbols failed", failed, len(items))
	}
	return nil
}

func runRank(cmd *cobra.Command, args []string) error {
	_, items, err := runWatchlist(cmd)
	if err != nil {
		return err
	}
	printRanking(cmd.OutOrStdout(), analysis.RankByDiscount(items), rankTop)
	return nil
}

func printRanking(w io.Writer, ranked []analysis.Candidate, top int) {
	if top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}
	fmt.Fprintf(w, "%-4s %-10s %10s %10s %10s %9s %s\n", "rank", "symbol", "best", "mean", "min", "discount", "optimal")
	for i, c := range ranked {
		fmt.Fprintf(w, "%-4d %-10s %10.4f %10.4f %10.4f %8.2f%% %v\n",
			i+1, c.Symbol, c.BestEntry, c.Mean, c.Min, c.Discount*100, c.Optimal)
	}
}


package pipeline

import (
	"fmt"
	"io"
	"strings"

	"entry-optimizer/internal/extract"
)

// PrintReport writes the console summary of a run. csvPath may be empty.
func PrintReport(w io.Writer, res *Result, csvPath string) {
	var prices []float64
	if res.Report != nil {
		prices = res.Report.Prices
	}
	fmt.Fprintf(w, "Optimal Buy Prices: [%s]\n", joinPrices(prices))

	if best, err := extract.BestEntryPrice(prices); err == nil {
		fmt.Fprintf(w, "The optimal entry price to buy is: %s\n", fmtPrice(best))
	} else {
		fmt.Fprintf(w, "The optimal entry price to buy is: none (%v)\n", err)
	}

	if csvPath != "" {
		fmt.Fprintf(w, "Trading signals saved to '%s'.\n", csvPath)
	}
}

func joinPrices(prices []float64) string {
	parts := make([]string, len(prices))
	for i, p := range prices {
		parts[i] = fmtPrice(p)
	}
	return strings.Join(parts, ", ")
}

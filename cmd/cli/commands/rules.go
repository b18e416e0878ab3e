package commands

import (
	"fmt"

	"entry-optimizer/internal/signal"
	"entry-optimizer/internal/solver"

	"github.com/spf13/cobra"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List signal rules and solvers",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Signal rules:")
		for _, r := range signal.Catalog() {
			marker := " "
			if r.Name == signal.DefaultRule {
				marker = "*"
			}
			fmt.Fprintf(out, " %s %-12s %s\n", marker, r.Name, r.Description)
			for _, p := range r.Parameters {
				fmt.Fprintf(out, "      %-10s %-6s %s\n", p.Name, p.Type, p.Description)
			}
		}

		fmt.Fprintln(out, "\nSolvers:")
		for _, d := range solver.Catalog() {
			marker := " "
			if d.Name == solver.DefaultSolver {
				marker = "*"
			}
			fmt.Fprintf(out, " %s %-12s %s\n", marker, d.Name, d.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

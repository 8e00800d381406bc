package cli

import "github.com/spf13/cobra"

// NewRootCommand creates the mdpopt root command
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdpopt",
		Short: "Inventory replenishment policy optimizer",
		Long: `mdpopt computes an optimal periodic-review replenishment policy for a
single-product inventory system using MDP value iteration, validates the
policy with a Monte-Carlo rollout, and exports the results.

Examples:
  # Solve with the reference defaults and export mdp_results.json
  mdpopt solve

  # Solve a custom problem, reproducible simulation
  mdpopt solve --config inventory.yaml --seed 42 --out results.json

  # Run the HTTP daemon
  mdpopt serve --http-addr :8080`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newSolveCommand())
	cmd.AddCommand(newServeCommand())

	return cmd
}

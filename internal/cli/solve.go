package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/invsim/mdp-optimizer/internal/export"
	"github.com/invsim/mdp-optimizer/internal/sim"
	"github.com/invsim/mdp-optimizer/internal/solver"
	"github.com/invsim/mdp-optimizer/pkg/config"
	"github.com/invsim/mdp-optimizer/pkg/logger"
	"github.com/invsim/mdp-optimizer/pkg/utils"
)

// newSolveCommand creates the solve subcommand: run value iteration, report
// convergence, print the head of the policy table, roll out one simulation
// episode and export the result artifact.
func newSolveCommand() *cobra.Command {
	var (
		configPath    string
		epsilon       float64
		maxIterations int
		initialState  int
		steps         int
		transport     string
		seed          int64
		outPath       string
		policyHead    int
		parallel      int
		logLevel      string
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Run value iteration and export the optimal policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.SetDefault(logger.NewText(logLevel, os.Stderr))

			cfg := config.DefaultConfig()
			if configPath != "" {
				var err error
				cfg, err = config.LoadConfig(configPath)
				if err != nil {
					return err
				}
			}

			engine, err := solver.NewEngine(cfg)
			if err != nil {
				return err
			}
			if parallel > 1 {
				engine.WithParallelSweep(parallel)
			}

			trace, err := engine.Run(epsilon, maxIterations)
			if err != nil {
				return err
			}

			logger.Info("convergence summary",
				"converged", trace.Converged,
				"iterations", trace.Iterations,
				"final_delta", trace.FinalDelta)

			ss := engine.ComputeSS()
			fmt.Printf("\nOptimal (s,S) policy: s=%d, S=%d\n", ss.ReorderPoint, ss.OrderUpTo)

			printPolicyTable(engine, policyHead)

			initial := utils.Clamp(initialState, 0, cfg.MaxInventory)
			simulator := sim.NewSimulator(cfg, engine.Policy(), utils.NewRandSource(seed))
			result, err := simulator.Run(initial, steps, transport)
			if err != nil {
				return err
			}

			rewards := make([]float64, len(result.Trajectory))
			for i, step := range result.Trajectory {
				rewards[i] = step.Reward
			}
			fmt.Printf("\nSimulation (%d steps from state %d, %s):\n", steps, initial, transport)
			fmt.Printf("  Total reward:   %.2f\n", result.TotalReward)
			fmt.Printf("  Average reward: %.2f\n", result.AverageReward)
			fmt.Printf("  Reward stddev:  %.2f\n", utils.StdDev(rewards))

			if err := export.Build(engine).WriteFile(outPath); err != nil {
				return err
			}
			logger.Info("results exported", "path", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults to the reference parameters)")
	cmd.Flags().Float64Var(&epsilon, "epsilon", 0.01, "convergence tolerance on the per-sweep delta")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", 1000, "value-iteration budget")
	cmd.Flags().IntVar(&initialState, "initial-state", 50, "inventory level the simulation starts from")
	cmd.Flags().IntVar(&steps, "steps", 30, "simulation episode length")
	cmd.Flags().StringVar(&transport, "transport", "truck", "transport mode applied to simulated orders")
	cmd.Flags().Int64Var(&seed, "seed", 0, "simulation seed (0 picks a time-based seed)")
	cmd.Flags().StringVar(&outPath, "out", "mdp_results.json", "result artifact path")
	cmd.Flags().IntVar(&policyHead, "policy-head", 20, "number of leading states to print")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "worker count for the double-buffered sweep variant (0 = default in-place sweep)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

func printPolicyTable(engine *solver.Engine, head int) {
	policy := engine.Policy()
	values := engine.Values()
	n := utils.Min(head, len(policy))

	fmt.Printf("\nOptimal policy (first %d states):\n", n)
	fmt.Printf("%8s %12s %15s\n", "State", "Action", "Value")
	for state := 0; state < n; state++ {
		fmt.Printf("%8d %12d %15.2f\n", state, policy[state], values[state])
	}
}

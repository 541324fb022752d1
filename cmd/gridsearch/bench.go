package main

import (
	"github.com/spf13/cobra"

	"github.com/pdrpinto/gridsearch/internal/scenario"
)

func newBenchCmd(a *app) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "bench <scenarios.toml>",
		Short: "Run a batch of scenarios from a TOML file",
		Long: `Run every [[scenario]] of a TOML file on the worker pool and print one
row per scenario and strategy.

Example file:
  workers = 4

  [[scenario]]
  name = "demo"
  maze = "mazes/demo.txt"
  strategies = ["bfs", "astar"]

  [[scenario]]
  name = "random"
  generate = { width = 60, height = 30, seed = 42 }`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			results, runErr := a.solver.SolveAll(cmd.Context(), "gridsearch.bench", suite.Jobs(), suite.Options()...)
			if err := writeSummaries(cmd, suite.Summarize(results), jsonOut); err != nil {
				return err
			}
			return runErr
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print summaries as JSON")
	return cmd
}

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/gridsearch/maze"
	"github.com/pdrpinto/gridsearch/report"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		names   []string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "compare <maze.txt>",
		Short: "Run several strategies on one maze side by side",
		Long: `Run every strategy (or those given with --strategies) on the same maze
concurrently and print a comparison table.

Examples:
  gridsearch compare maze.txt
  gridsearch compare maze.txt --strategies bfs,astar`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := strategies(names)
			if err != nil {
				return err
			}
			m, err := maze.Load(args[0])
			if err != nil {
				return err
			}
			summaries, runErr := a.solver.Compare(cmd.Context(), m, list)
			if err := writeSummaries(cmd, summaries, jsonOut); err != nil {
				return err
			}
			return runErr
		},
	}
	cmd.Flags().StringSliceVar(&names, "strategies", nil, "strategies to run (default all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print summaries as JSON")
	return cmd
}

func writeSummaries(cmd *cobra.Command, summaries []report.Summary, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}
	return report.WriteTable(cmd.OutOrStdout(), summaries)
}

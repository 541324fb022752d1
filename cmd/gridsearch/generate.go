package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdrpinto/gridsearch/maze"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		opts   maze.GenerateOptions
		output string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random maze",
		Long: `Generate a random maze by growing wall clusters with random walks,
then placing the start and goal on free cells. The result may be unsolvable.

Examples:
  gridsearch generate --width 60 --height 30 --seed 7 > maze.txt
  gridsearch generate --density 0.4 -o dense.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := maze.Generate(opts)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), m.String())
				return err
			}
			if err := os.WriteFile(output, []byte(m.String()), 0o644); err != nil {
				return fmt.Errorf("write maze: %w", err)
			}
			a.logger.Info(cmd.Context(), "maze written", zap.String("path", output),
				zap.Int("width", m.Grid.Width()), zap.Int("height", m.Grid.Height()))
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Width, "width", maze.DefaultWidth, "maze width in cells")
	cmd.Flags().IntVar(&opts.Height, "height", maze.DefaultHeight, "maze height in cells")
	cmd.Flags().IntVar(&opts.Clusters, "clusters", maze.DefaultClusters, "number of wall clusters")
	cmd.Flags().IntVar(&opts.Steps, "steps", maze.DefaultSteps, "random walk steps per cluster")
	cmd.Flags().Float64Var(&opts.Density, "density", maze.DefaultDensity, "wall probability per walk step")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 uses the clock)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

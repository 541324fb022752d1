package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdrpinto/gridsearch"
	"github.com/pdrpinto/gridsearch/internal/service"
	"github.com/pdrpinto/gridsearch/maze"
	"github.com/pdrpinto/gridsearch/render"
	"github.com/pdrpinto/gridsearch/report"
)

type solveFlags struct {
	strategy string
	explored bool
	color    bool
	png      string
	jsonOut  bool
}

func newSolveCmd(a *app) *cobra.Command {
	flags := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve <maze.txt>",
		Short: "Solve a maze and print the path",
		Long: `Solve a maze with one strategy, then print the maze with the path
marked and a one-line summary.

Examples:
  gridsearch solve maze.txt
  gridsearch solve maze.txt --strategy greedy --explored --color
  gridsearch solve maze.txt --png maze.png
  gridsearch solve maze.txt --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSolve(cmd, args[0], flags)
		},
	}
	cmd.Flags().StringVarP(&flags.strategy, "strategy", "s", "", "dfs, bfs, greedy or astar (default from config)")
	cmd.Flags().BoolVarP(&flags.explored, "explored", "e", false, "mark explored cells")
	cmd.Flags().BoolVar(&flags.color, "color", false, "print coloured blocks instead of glyphs")
	cmd.Flags().StringVar(&flags.png, "png", "", "also write the rendering to this PNG file")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "print the result as JSON")
	return cmd
}

func (a *app) runSolve(cmd *cobra.Command, path string, flags *solveFlags) error {
	strategy, err := a.strategy(flags.strategy)
	if err != nil {
		return err
	}
	m, err := maze.Load(path)
	if err != nil {
		return err
	}

	started := time.Now()
	res, err := a.solver.Solve(cmd.Context(), service.Request{Maze: m, Strategy: strategy})
	if err != nil && !errors.Is(err, gridsearch.ErrNotFound) {
		return err
	}
	elapsed := time.Since(started)

	opts := render.Options{ShowSolution: true, ShowExplored: flags.explored}
	if flags.png != "" {
		if err := render.SavePNG(flags.png, m, res, render.ImageOptions{Options: opts}); err != nil {
			return err
		}
		a.logger.Info(cmd.Context(), "image written", zap.String("path", flags.png))
	}

	out := cmd.OutOrStdout()
	if flags.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if flags.color {
		_, err = fmt.Fprint(out, render.Styled(m, res, opts))
	} else {
		err = render.Text(out, m, res, opts)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, report.Summarize(res, elapsed))
	return err
}

package main

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pdrpinto/gridsearch/internal/tui"
	"github.com/pdrpinto/gridsearch/maze"
)

func newViewCmd(a *app) *cobra.Command {
	var (
		strategy string
		watch    bool
		delay    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "view <maze.txt>",
		Short: "Watch a search explore a maze in the terminal",
		Long: `Animate a search on a maze. Keys: s stop, r restart, n next strategy,
e toggle explored cells, q quit. Arrows or hjkl move the edit cursor; w toggles
a wall, a and b move the start and goal, c clears walls, + and - resize the
grid. Every edit restarts the search.

Examples:
  gridsearch view maze.txt
  gridsearch view maze.txt --strategy dfs --delay 20ms
  gridsearch view maze.txt --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.strategy(strategy)
			if err != nil {
				return err
			}
			m, err := maze.Load(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("delay") {
				delay = a.cfg.Viewer.StepDelay.Duration()
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			cfg := tui.Config{
				Maze:      m,
				Name:      filepath.Base(args[0]),
				Strategy:  s,
				StepDelay: delay,
				Options:   a.cfg.Search.Options(),
				Solver:    a.solver,
				Logger:    a.logger,
			}
			if watch {
				w, err := tui.NewWatcher(args[0], a.logger)
				if err != nil {
					return err
				}
				defer w.Close()
				w.Start(ctx)
				cfg.Reloads = w.Reloads()
			}

			model := tui.NewModel(cfg)
			final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if fm, ok := final.(tui.Model); ok {
				fm.Close()
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "dfs, bfs, greedy or astar (default from config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "restart when the maze file changes")
	cmd.Flags().DurationVar(&delay, "delay", 0, "pause between expansions (default from config)")
	return cmd
}

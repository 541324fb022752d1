package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/pdrpinto/gridsearch"
	"github.com/pdrpinto/gridsearch/maze"
)

// run drives one Stepper in its own goroutine and hands snapshots to the
// model over a channel, one per limiter token.
type run struct {
	id       int
	strategy gridsearch.Strategy
	started  time.Time

	stop      context.CancelFunc
	abandon   context.CancelFunc
	snapshots chan snapshotMsg
}

type snapshotMsg struct {
	run  int
	snap gridsearch.StepSnapshot
	// result is set on the terminal snapshot.
	result *gridsearch.Result
}

func limiterFor(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

func startRun(id int, m *maze.Maze, strategy gridsearch.Strategy, delay time.Duration, options []gridsearch.Option) (*run, error) {
	stepper, err := gridsearch.NewStepper(m.Grid, m.Start, m.Goal, strategy, options...)
	if err != nil {
		return nil, err
	}
	abandonCtx, abandon := context.WithCancel(context.Background())
	stopCtx, stop := context.WithCancel(abandonCtx)
	r := &run{
		id:        id,
		strategy:  strategy,
		started:   time.Now(),
		stop:      stop,
		abandon:   abandon,
		snapshots: make(chan snapshotMsg),
	}
	go r.loop(stopCtx, abandonCtx, stepper, limiterFor(delay))
	return r, nil
}

func (r *run) loop(ctx, abandonCtx context.Context, stepper *gridsearch.Stepper, limiter *rate.Limiter) {
	defer close(r.snapshots)
	defer stepper.Close()
	for {
		// A failed wait means ctx is done; the next Step records the cancellation.
		_ = limiter.Wait(ctx)
		snap, _ := stepper.Step(ctx)
		msg := snapshotMsg{run: r.id, snap: snap}
		if snap.Done() {
			res, _ := stepper.Result()
			msg.result = &res
		}
		select {
		case r.snapshots <- msg:
		case <-abandonCtx.Done():
			return
		}
		if snap.Done() {
			return
		}
	}
}

// next waits for the following snapshot.
func (r *run) next() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-r.snapshots
		if !ok {
			return nil
		}
		return msg
	}
}

// close cancels the run and drops any snapshot not yet delivered.
func (r *run) close() {
	r.stop()
	r.abandon()
}

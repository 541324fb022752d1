package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pdrpinto/gridsearch"
)

// Summary is the outcome of one run in reportable form.
type Summary struct {
	Name       string              `json:"name,omitempty"`
	Strategy   gridsearch.Strategy `json:"strategy"`
	Status     gridsearch.Status   `json:"status"`
	PathLength int                 `json:"path_length"`
	Explored   int                 `json:"explored"`
	Duration   time.Duration       `json:"duration"`
	// Shortest is set by Compare when the path is as short as any other
	// path found in the same comparison.
	Shortest bool `json:"shortest"`
}

// Summarize reduces a result to its summary.
func Summarize(res gridsearch.Result, duration time.Duration) Summary {
	return Summary{
		Strategy:   res.Strategy,
		Status:     res.Status,
		PathLength: res.Len(),
		Explored:   res.ExploredCount,
		Duration:   duration,
	}
}

func (s Summary) String() string {
	switch s.Status {
	case gridsearch.StatusSolved:
		return fmt.Sprintf("%s: path found! Explored %d cells. Path length: %d", s.Strategy.Title(), s.Explored, s.PathLength)
	case gridsearch.StatusCancelled:
		return fmt.Sprintf("%s: search stopped after exploring %d cells.", s.Strategy.Title(), s.Explored)
	}
	return fmt.Sprintf("%s: no path found! Explored %d cells.", s.Strategy.Title(), s.Explored)
}

// Compare runs every strategy on the same grid concurrently and returns one
// summary per strategy, in the given order. Unsolvable grids are not an
// error; any other failure is returned together with the summaries.
func Compare(
	ctx context.Context,
	grid *gridsearch.Grid,
	start, goal gridsearch.State,
	strategies []gridsearch.Strategy,
	options ...gridsearch.Option,
) ([]Summary, error) {
	jobs := make([]gridsearch.Job, len(strategies))
	for i, strategy := range strategies {
		jobs[i] = gridsearch.Job{Name: strategy.String(), Grid: grid, Start: start, Goal: goal, Strategy: strategy}
	}
	results := gridsearch.SolveAll(ctx, jobs, options...)
	summaries := Summaries(results)

	var errs []error
	for _, jr := range results {
		if jr.Err != nil && !errors.Is(jr.Err, gridsearch.ErrNotFound) {
			errs = append(errs, fmt.Errorf("%s: %w", jr.Job.Strategy, jr.Err))
		}
	}
	return summaries, errors.Join(errs...)
}

// Summaries converts batch results and marks the shortest paths among them.
func Summaries(results []gridsearch.JobResult) []Summary {
	summaries := make([]Summary, len(results))
	shortest := 0
	for i, jr := range results {
		summaries[i] = Summarize(jr.Result, jr.Duration)
		summaries[i].Name = jr.Job.Name
		if jr.Result.Found() && (shortest == 0 || jr.Result.Len() < shortest) {
			shortest = jr.Result.Len()
		}
	}
	for i := range summaries {
		summaries[i].Shortest = summaries[i].Status == gridsearch.StatusSolved && summaries[i].PathLength == shortest
	}
	return summaries
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// WriteTable prints summaries as a bordered comparison table.
func WriteTable(w io.Writer, summaries []Summary) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Name", "Strategy", "Status", "Path length", "Explored", "Shortest", "Time").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, s := range summaries {
		shortest := "no"
		if s.Shortest {
			shortest = "yes"
		}
		length := "-"
		if s.Status == gridsearch.StatusSolved {
			length = strconv.Itoa(s.PathLength)
		}
		t.Row(s.Name, s.Strategy.Title(), s.Status.String(), length, strconv.Itoa(s.Explored), shortest, s.Duration.Round(time.Microsecond).String())
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

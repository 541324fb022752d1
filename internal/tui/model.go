// Package tui is the terminal viewer: it replays a search cell by cell on
// a coloured maze, with live counters and a frontier-size sparkline. The
// maze can be edited under a cursor; every edit restarts the search.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/pdrpinto/gridsearch"
	"github.com/pdrpinto/gridsearch/internal/logging"
	"github.com/pdrpinto/gridsearch/internal/service"
	"github.com/pdrpinto/gridsearch/maze"
	"github.com/pdrpinto/gridsearch/render"
	"github.com/pdrpinto/gridsearch/report"
)

const (
	sparklineWidth  = 40
	sparklineHeight = 3
	historySize     = 120
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	solvedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))
)

// Config sets up a viewer.
type Config struct {
	Maze *maze.Maze
	// Name labels the maze in the header, usually its file name.
	Name     string
	Strategy gridsearch.Strategy
	// StepDelay is the pause between drawn expansions. Zero draws as fast
	// as the terminal keeps up.
	StepDelay time.Duration
	// Options are passed to every run.
	Options []gridsearch.Option
	// Solver records finished runs. Optional.
	Solver *service.Solver
	Logger *logging.Logger
	// Reloads restarts the run on a new maze. Optional, see Watcher.
	Reloads <-chan Reload
}

// Model is the bubbletea model of the viewer.
type Model struct {
	cfg        Config
	maze       *maze.Maze
	strategies []gridsearch.Strategy
	current    int

	runs    int
	run     *run
	snap    gridsearch.StepSnapshot
	summary *report.Summary
	history []float64

	cursor       gridsearch.State
	showExplored bool
	err          error
	quitting     bool

	keys     keyMap
	help     help.Model
	progress progress.Model
}

// NewModel creates a viewer that starts searching on Init.
func NewModel(cfg Config) Model {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	cfg.Logger = cfg.Logger.Named("tui")

	strategies := gridsearch.Strategies()
	current := 0
	for i, s := range strategies {
		if s == cfg.Strategy {
			current = i
		}
	}
	return Model{
		cfg:          cfg,
		maze:         cfg.Maze,
		strategies:   strategies,
		current:      current,
		showExplored: true,
		keys:         defaultKeys,
		help:         help.New(),
		progress: progress.New(
			progress.WithGradient("#00ffff", "#ff00ff"),
			progress.WithWidth(40),
		),
	}
}

type restartMsg struct{}

func restart() tea.Msg { return restartMsg{} }

// Init starts the first run and listens for maze reloads.
func (m Model) Init() tea.Cmd {
	return tea.Batch(restart, waitForReload(m.cfg.Reloads))
}

// Maze returns the maze being searched, edits included.
func (m Model) Maze() *maze.Maze { return m.maze }

// Cursor returns the cell edits apply to.
func (m Model) Cursor() gridsearch.State { return m.cursor }

// Strategy returns the strategy of the current run.
func (m Model) Strategy() gridsearch.Strategy { return m.strategies[m.current] }

// Snapshot returns the latest snapshot received.
func (m Model) Snapshot() gridsearch.StepSnapshot { return m.snap }

// Summary returns the outcome of the current run once it has terminated.
func (m Model) Summary() (report.Summary, bool) {
	if m.summary == nil {
		return report.Summary{}, false
	}
	return *m.summary, true
}

// Close cancels the run in progress.
func (m Model) Close() {
	if m.run != nil {
		m.run.close()
	}
}

func (m Model) start() (Model, tea.Cmd) {
	m.Close()
	m.runs++
	m.snap = gridsearch.StepSnapshot{}
	m.summary = nil
	m.history = m.history[:0]
	m.err = nil

	r, err := startRun(m.runs, m.maze, m.Strategy(), m.cfg.StepDelay, m.cfg.Options)
	if err != nil {
		m.run = nil
		m.err = err
		return m, nil
	}
	m.run = r
	m.cfg.Logger.Debug(context.Background(), "viewer run started", zap.Stringer("strategy", r.strategy), zap.Int("run", r.id))
	return m, r.next()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Stop):
			if m.run != nil {
				m.run.stop()
			}
			return m, nil
		case key.Matches(msg, m.keys.Restart):
			return m.start()
		case key.Matches(msg, m.keys.Next):
			m.current = (m.current + 1) % len(m.strategies)
			return m.start()
		case key.Matches(msg, m.keys.Explored):
			m.showExplored = !m.showExplored
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Up):
			return m.moveCursor(-1, 0), nil
		case key.Matches(msg, m.keys.Down):
			return m.moveCursor(1, 0), nil
		case key.Matches(msg, m.keys.Left):
			return m.moveCursor(0, -1), nil
		case key.Matches(msg, m.keys.Right):
			return m.moveCursor(0, 1), nil
		case key.Matches(msg, m.keys.Wall):
			return m.edit(m.maze.ToggleWall(m.cursor))
		case key.Matches(msg, m.keys.Start):
			return m.edit(m.maze.MoveStart(m.cursor))
		case key.Matches(msg, m.keys.Goal):
			return m.edit(m.maze.MoveGoal(m.cursor))
		case key.Matches(msg, m.keys.Clear):
			return m.edit(m.maze.Cleared(), nil)
		case key.Matches(msg, m.keys.Grow):
			return m.edit(m.maze.Resized(m.maze.Grid.Height()+1, m.maze.Grid.Width()+1))
		case key.Matches(msg, m.keys.Shrink):
			return m.edit(m.maze.Resized(m.maze.Grid.Height()-1, m.maze.Grid.Width()-1))
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case restartMsg:
		return m.start()

	case snapshotMsg:
		if m.run == nil || msg.run != m.run.id {
			return m, nil
		}
		m.snap = msg.snap
		m.history = appendToHistory(m.history, float64(len(msg.snap.Frontier)))
		if msg.result == nil {
			return m, m.run.next()
		}
		duration := time.Since(m.run.started)
		summary := report.Summarize(*msg.result, duration)
		m.summary = &summary
		if m.cfg.Solver != nil {
			m.cfg.Solver.Observe(context.Background(), *msg.result, duration)
		}
		return m, nil

	case reloadMsg:
		next := waitForReload(m.cfg.Reloads)
		if msg.Err != nil {
			m.err = msg.Err
			return m, next
		}
		m.maze = msg.Maze
		m.cursor = m.clampCursor(m.cursor)
		var cmd tea.Cmd
		m, cmd = m.start()
		return m, tea.Batch(cmd, next)
	}
	return m, nil
}

func (m Model) clampCursor(s gridsearch.State) gridsearch.State {
	return gridsearch.State{
		Row: max(0, min(s.Row, m.maze.Grid.Height()-1)),
		Col: max(0, min(s.Col, m.maze.Grid.Width()-1)),
	}
}

func (m Model) moveCursor(dRow, dCol int) Model {
	m.cursor = m.clampCursor(gridsearch.State{Row: m.cursor.Row + dRow, Col: m.cursor.Col + dCol})
	return m
}

// edit swaps in an edited maze and restarts the search on it. A rejected
// edit keeps the current run and shows the error.
func (m Model) edit(edited *maze.Maze, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.err = err
		return m, nil
	}
	m.maze = edited
	m.cursor = m.clampCursor(m.cursor)
	m.cfg.Logger.Debug(context.Background(), "maze edited",
		zap.Int("height", edited.Grid.Height()),
		zap.Int("width", edited.Grid.Width()),
	)
	return m.start()
}

func appendToHistory(history []float64, value float64) []float64 {
	history = append(history, value)
	if len(history) > historySize {
		history = history[1:]
	}
	return history
}

func createSparkline(data []float64) string {
	if len(data) == 0 {
		return dimStyle.Render(fmt.Sprintf("%*s", sparklineWidth, "no data"))
	}
	spark := sparkline.New(sparklineWidth, sparklineHeight)
	for _, v := range data {
		spark.Push(v)
	}
	spark.Draw()
	return sparklineStyle.Render(spark.View())
}

func statusBadge(status gridsearch.Status) string {
	switch status {
	case gridsearch.StatusSolved:
		return solvedStyle.Render("✓ solved")
	case gridsearch.StatusNotFound:
		return failedStyle.Render("✗ no path")
	case gridsearch.StatusCancelled:
		return failedStyle.Render("■ stopped")
	case gridsearch.StatusRunning:
		return runningStyle.Render("… searching")
	}
	return dimStyle.Render("ready")
}

// View renders the viewer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	title := "gridsearch"
	if m.cfg.Name != "" {
		title += " · " + m.cfg.Name
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("  " + valueStyle.Render(m.Strategy().Title()))
	b.WriteString("  " + statusBadge(m.snap.Status) + "\n\n")

	opts := render.Options{ShowSolution: true, ShowExplored: m.showExplored}
	b.WriteString(render.Styled(m.maze, render.SnapshotMarks(m.snap), opts))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Step: ") + valueStyle.Render(fmt.Sprint(m.snap.Index)))
	b.WriteString(labelStyle.Render("   Explored: ") + valueStyle.Render(fmt.Sprint(m.snap.ExploredCount)))
	b.WriteString(labelStyle.Render("   Frontier: ") + valueStyle.Render(fmt.Sprint(len(m.snap.Frontier))))
	if m.snap.Found() {
		b.WriteString(labelStyle.Render("   Path: ") + valueStyle.Render(fmt.Sprint(len(m.snap.Path))))
	}
	b.WriteString(labelStyle.Render("   Cursor: ") + valueStyle.Render(m.cursor.String()))
	b.WriteString("\n")

	coverage := 0.0
	if free := m.maze.Grid.FreeCells(); free > 0 {
		coverage = float64(m.snap.ExploredCount) / float64(free)
	}
	b.WriteString(labelStyle.Render("Coverage: ") + m.progress.ViewAs(coverage) + "\n")
	b.WriteString(labelStyle.Render("Frontier size") + "\n" + createSparkline(m.history) + "\n")

	if m.summary != nil {
		b.WriteString("\n" + valueStyle.Render(m.summary.String()) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + failedStyle.Render("⚠ "+m.err.Error()) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return containerStyle.Render(b.String())
}

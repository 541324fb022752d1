package tui

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/pdrpinto/gridsearch/internal/logging"
	"github.com/pdrpinto/gridsearch/maze"
)

// Reload is a maze file that changed on disk. Err is set when the new
// contents did not parse; the viewer keeps the previous maze then.
type Reload struct {
	Maze *maze.Maze
	Err  error
}

// Watcher reloads a maze file whenever it is written.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	reloads chan Reload
	logger  *logging.Logger
}

// NewWatcher watches the directory holding path, since editors often
// replace a file rather than write it in place.
func NewWatcher(path string, logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &Watcher{
		path:    abs,
		watcher: w,
		reloads: make(chan Reload, 1),
		logger:  logger.Named("watch"),
	}, nil
}

// Start processes file events until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Reloads delivers parsed mazes. It is closed when the watcher stops.
func (w *Watcher) Reloads() <-chan Reload { return w.reloads }

// Close stops watching.
func (w *Watcher) Close() error { return w.watcher.Close() }

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.reloads)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			m, err := maze.Load(w.path)
			if err != nil {
				w.logger.Warn(ctx, "maze reload failed", zap.String("path", w.path), zap.Error(err))
			} else {
				w.logger.Info(ctx, "maze reloaded", zap.String("path", w.path))
			}
			select {
			case w.reloads <- Reload{Maze: m, Err: err}:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "watch error", zap.Error(err))
		}
	}
}

// waitForReload turns the next reload into a message.
func waitForReload(reloads <-chan Reload) tea.Cmd {
	if reloads == nil {
		return nil
	}
	return func() tea.Msg {
		reload, ok := <-reloads
		if !ok {
			return nil
		}
		return reloadMsg(reload)
	}
}

type reloadMsg Reload

package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/atomicstack/tmx/internal/backend"
	"github.com/atomicstack/tmx/internal/logging"
	"github.com/atomicstack/tmx/internal/tags"
	"github.com/atomicstack/tmx/internal/tmux"
	"github.com/atomicstack/tmx/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const startupTimeout = 5 * time.Second

// Config describes user-provided application options.
type Config struct {
	SocketPath     string
	ConfigPath     string
	Refresh        time.Duration
	PreviewRefresh time.Duration
}

// Run bootstraps and executes the Bubble Tea program. When the operator
// attaches from outside tmux, Run replaces the process with tmux once the
// terminal has been restored and only returns if that fails.
func Run(cfg Config) error {
	socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}
	client := tmux.NewClient(socketPath)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	_, err = client.ListTopology(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("connect to tmux on %s: %w", socketPath, err)
	}

	store, warning, err := loadTags(cfg.ConfigPath)
	if err != nil {
		return err
	}

	var tagChanges <-chan struct{}
	if fileWatcher, err := tags.Watch(store.Path()); err != nil {
		logging.Error(fmt.Errorf("watch tags: %w", err))
	} else {
		defer fileWatcher.Close()
		tagChanges = fileWatcher.Changes()
	}

	watcher := backend.NewWatcher(client, cfg.Refresh, tagChanges)
	defer watcher.Stop()

	model := ui.NewModel(ui.Options{
		Gateway:         client,
		Tags:            store,
		Watcher:         watcher,
		Inside:          tmux.InsideTmux(os.Environ()),
		PreviewInterval: cfg.PreviewRefresh,
		Warning:         warning,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	if err != nil {
		return err
	}

	if m, ok := final.(*ui.Model); ok {
		if handover, ok := m.Handover(); ok {
			return handover.Exec()
		}
	}
	return nil
}

// loadTags opens the tag file. A malformed file is not fatal: the store
// starts empty and the parse error becomes a one-off warning.
func loadTags(configPath string) (*tags.Store, string, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = tags.DefaultPath()
		if err != nil {
			return nil, "", err
		}
	}
	store, err := tags.Load(path)
	var perr *tags.ParseError
	switch {
	case err == nil:
		return store, "", nil
	case errors.As(err, &perr):
		logging.Warn("tags: %v", err)
		return store, perr.Error(), nil
	default:
		return nil, "", fmt.Errorf("load tags: %w", err)
	}
}

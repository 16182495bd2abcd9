package ui

import (
	"errors"
	"fmt"

	"github.com/atomicstack/tmx/internal/backend"
	"github.com/atomicstack/tmx/internal/logging"
	"github.com/atomicstack/tmx/internal/tags"
	"github.com/atomicstack/tmx/internal/tmux"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	switch evt.Kind {
	case backend.KindTopology:
		return m.applyTopology(evt.Topology, evt.Err)
	case backend.KindTags:
		return m.reloadTags()
	}
	return nil
}

// applyTopology merges a refresh into the session model. A failed refresh
// keeps the last good topology on screen.
func (m *Model) applyTopology(topology []tmux.Session, err error) tea.Cmd {
	if err != nil {
		if errors.Is(err, tmux.ErrGatewayUnavailable) {
			m.backendErr = "tmux server is not reachable"
		} else {
			m.backendErr = err.Error()
		}
		logging.Error(err)
		return nil
	}
	m.backendErr = ""
	before := m.sessions.SelectedName()
	m.sessions.Apply(topology)
	live := m.sessions.LiveNames()
	m.previews.Retain(live)
	m.sessions.EnsureCursorVisible(m.maxVisibleRows())
	first := !m.loaded
	m.loaded = true
	if first || m.sessions.SelectedName() != before {
		return m.capturePreviewCmd()
	}
	return nil
}

func (m *Model) reloadTags() tea.Cmd {
	if m.tags == nil {
		return nil
	}
	changed, err := m.tags.Reload()
	if err != nil {
		logging.Error(err)
		var perr *tags.ParseError
		switch {
		case errors.As(err, &perr):
			m.setError(fmt.Errorf("ignoring edited tag file: %w", err))
		case errors.Is(err, tags.ErrUnsavedChanges):
			m.setError(errors.New("tag file changed on disk; keeping unsaved tags until the next save"))
		}
		return nil
	}
	if changed {
		m.sessions.RefreshTags()
		m.setInfo("Reloaded tags")
	}
	return nil
}

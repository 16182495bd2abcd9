package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/tmx/internal/logging"
	"github.com/atomicstack/tmx/internal/logging/events"
	"github.com/atomicstack/tmx/internal/tmux"
	"github.com/atomicstack/tmx/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	actionSwitch = "switch"
	actionRename = "rename"
	actionCreate = "create"
	actionKill   = "kill"
	actionDetach = "detach"
)

// actionResultMsg reports the outcome of a gateway action.
type actionResultMsg struct {
	action string
	target string
	// result is the new session name for create and rename.
	result string
	info   string
	err    error
}

type topologyLoadedMsg struct {
	topology []tmux.Session
	err      error
}

type tagsSavedMsg struct {
	err error
}

func (m *Model) runAction(action, target string, run func(ctx context.Context) (string, error)) tea.Cmd {
	return m.bus.Execute(command.Request{
		ID:    action,
		Label: target,
		Run: func(ctx context.Context) tea.Msg {
			result, err := run(ctx)
			return actionResultMsg{action: action, target: target, result: result, err: err}
		},
	})
}

func (m *Model) switchSession(name string) tea.Cmd {
	events.Session.Switch(name)
	gw := m.gateway
	return m.runAction(actionSwitch, name, func(ctx context.Context) (string, error) {
		return name, gw.SwitchClient(ctx, name)
	})
}

func (m *Model) createSession(name string) tea.Cmd {
	events.Session.Create(name)
	gw := m.gateway
	return m.runAction(actionCreate, name, func(ctx context.Context) (string, error) {
		return gw.NewSession(ctx, name)
	})
}

func (m *Model) renameSession(target, newName string) tea.Cmd {
	events.Session.Rename(target, newName)
	gw := m.gateway
	return m.runAction(actionRename, target, func(ctx context.Context) (string, error) {
		return newName, gw.RenameSession(ctx, target, newName)
	})
}

func (m *Model) killSession(name string) tea.Cmd {
	events.Session.Kill(name)
	gw := m.gateway
	return m.runAction(actionKill, name, func(ctx context.Context) (string, error) {
		return "", gw.KillSession(ctx, name)
	})
}

func (m *Model) detachSession(name string) tea.Cmd {
	events.Session.Detach(name)
	gw := m.gateway
	return m.runAction(actionDetach, name, func(ctx context.Context) (string, error) {
		return "", gw.DetachClients(ctx, name)
	})
}

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(actionResultMsg)
	if !ok {
		return nil
	}
	if result.err != nil {
		events.Action.Error(result.err)
		m.setError(result.err)
		return m.refreshTopologyCmd()
	}
	var cmds []tea.Cmd
	switch result.action {
	case actionSwitch:
		m.setInfo(fmt.Sprintf("Switched to %s", result.target))
	case actionCreate:
		m.sessions.ExpectSelection(result.result)
		m.setInfo(fmt.Sprintf("Created %s", result.result))
	case actionRename:
		m.sessions.RenameIdentity(result.target, result.result)
		if m.tags != nil && m.tags.RenameSession(result.target, result.result) {
			m.sessions.RefreshTags()
			cmds = append(cmds, m.saveTagsCmd())
		}
		m.setInfo(fmt.Sprintf("Renamed %s to %s", result.target, result.result))
	case actionKill:
		m.setInfo(fmt.Sprintf("Killed %s", result.target))
	case actionDetach:
		m.setInfo(fmt.Sprintf("Detached clients from %s", result.target))
	}
	events.Action.Success(m.infoMsg)
	cmds = append(cmds, m.refreshTopologyCmd())
	return tea.Batch(cmds...)
}

func (m *Model) refreshTopologyCmd() tea.Cmd {
	gw := m.gateway
	if gw == nil {
		return nil
	}
	return m.bus.Execute(command.Request{
		ID:    "refresh",
		Label: "topology",
		Run: func(ctx context.Context) tea.Msg {
			topology, err := gw.ListTopology(ctx)
			return topologyLoadedMsg{topology: topology, err: err}
		},
	})
}

func (m *Model) handleTopologyLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(topologyLoadedMsg)
	if !ok {
		return nil
	}
	return m.applyTopology(loaded.topology, loaded.err)
}

func (m *Model) saveTagsCmd() tea.Cmd {
	store := m.tags
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return tagsSavedMsg{err: store.Save()}
	}
}

func (m *Model) handleTagsSavedMsg(msg tea.Msg) tea.Cmd {
	saved, ok := msg.(tagsSavedMsg)
	if !ok || saved.err == nil {
		return nil
	}
	logging.Error(saved.err)
	m.setError(fmt.Errorf("save tags: %w", saved.err))
	return nil
}

// describeError turns gateway errors into status-line text.
func describeError(err error) string {
	var rejected *tmux.ActionRejectedError
	switch {
	case errors.As(err, &rejected):
		return rejected.Error()
	case errors.Is(err, tmux.ErrGatewayUnavailable):
		return "tmux server is not reachable"
	default:
		return err.Error()
	}
}

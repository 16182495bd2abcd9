package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/tmx/internal/logging/events"
	"github.com/atomicstack/tmx/internal/preview"
	"github.com/atomicstack/tmx/internal/state"
	"github.com/atomicstack/tmx/internal/tmux"
	tea "github.com/charmbracelet/bubbletea"
)

const captureTimeout = 3 * time.Second

// errCaptureThrottled marks a capture abandoned while waiting on the limiter.
var errCaptureThrottled = errors.New("capture throttled")

type previewTickMsg struct{}

type previewLoadedMsg struct {
	key  preview.Key
	seq  uint64
	text string
	err  error
}

type sequenceTimeoutMsg struct{}

func previewKey(target tmux.PaneTarget) preview.Key {
	return preview.Key{Session: target.Session, Window: target.Window, Pane: target.Pane}
}

func rowTarget(row state.Row) (tmux.PaneTarget, bool) {
	return row.Session.ActiveTarget()
}

func (m *Model) schedulePreviewTick() tea.Cmd {
	return m.schedule(m.previewInterval, func(time.Time) tea.Msg {
		return previewTickMsg{}
	})
}

func (m *Model) scheduleSequenceTimeout() tea.Cmd {
	return m.schedule(m.keys.Timeout(), func(time.Time) tea.Msg {
		return sequenceTimeoutMsg{}
	})
}

func (m *Model) handleSequenceTimeoutMsg(msg tea.Msg) tea.Cmd {
	m.keys.Expire(m.now())
	return nil
}

// handlePreviewTickMsg refreshes the selected row first, then the other
// visible rows as the capture limiter allows.
func (m *Model) handlePreviewTickMsg(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{m.capturePreviewCmd()}
	selected := m.sessions.SelectedName()
	for _, row := range m.visibleRows() {
		if row.Name() == selected {
			continue
		}
		if !m.limiter.Allow() {
			break
		}
		if target, ok := rowTarget(row); ok {
			cmds = append(cmds, m.captureCmd(target, false))
		}
	}
	cmds = append(cmds, m.schedulePreviewTick())
	return tea.Batch(cmds...)
}

// capturePreviewCmd captures the selected session's active pane.
func (m *Model) capturePreviewCmd() tea.Cmd {
	row, ok := m.sessions.Selected()
	if !ok {
		return nil
	}
	target, ok := rowTarget(row)
	if !ok {
		return nil
	}
	return m.captureCmd(target, true)
}

func (m *Model) captureCmd(target tmux.PaneTarget, wait bool) tea.Cmd {
	if m.gateway == nil {
		return nil
	}
	key := previewKey(target)
	seq := m.previews.Begin(key)
	gw, limiter := m.gateway, m.limiter
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
		defer cancel()
		if wait {
			if err := limiter.Wait(ctx); err != nil {
				return previewLoadedMsg{key: key, seq: seq, err: fmt.Errorf("%w: %v", errCaptureThrottled, err)}
			}
		}
		text, err := gw.CapturePane(ctx, target)
		return previewLoadedMsg{key: key, seq: seq, text: text, err: err}
	}
}

func (m *Model) handlePreviewLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(previewLoadedMsg)
	if !ok {
		return nil
	}
	if loaded.err != nil {
		events.Preview.Drop(loaded.key.String(), loaded.err)
		if errors.Is(loaded.err, tmux.ErrPaneNotFound) || errors.Is(loaded.err, errCaptureThrottled) {
			return nil
		}
		m.previews.Fail(loaded.key, loaded.seq, describeError(loaded.err))
		return nil
	}
	m.previews.Store(loaded.key, loaded.seq, loaded.text)
	return nil
}

// selectedPreview returns what the preview panel should show.
func (m *Model) selectedPreview() PreviewPane {
	row, ok := m.sessions.Selected()
	if !ok {
		return PreviewPane{}
	}
	pane := PreviewPane{Title: row.Name()}
	target, ok := rowTarget(row)
	if !ok {
		pane.Err = "no active pane"
		return pane
	}
	pane.Title = target.Session
	if w, ok := row.Session.ActiveWindow(); ok && w.Name != "" {
		pane.Title += " · " + w.Name
	}
	entry, ok := m.previews.Get(previewKey(target))
	if !ok {
		pane.Loading = true
		return pane
	}
	if entry.Err != "" {
		pane.Err = entry.Err
		return pane
	}
	pane.Lines = previewLines(entry.Text)
	return pane
}

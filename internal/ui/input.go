package ui

import (
	"strings"
	"unicode"

	"github.com/atomicstack/tmx/internal/logging/events"
	"github.com/atomicstack/tmx/internal/ui/keyseq"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Type == tea.KeyCtrlC {
		return m.quit("interrupt")
	}
	switch {
	case m.mode == ModeHelp:
		m.setMode(ModeNormal)
		return nil
	case m.mode == ModeConfirmKill:
		return m.handleConfirmKey(key)
	case m.mode == ModeSearch:
		return m.handleSearchKey(key)
	case m.mode.prompting():
		return m.handlePromptKey(key)
	}
	return m.handleNormalKey(key)
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	outcome := m.keys.Feed(key, m.now())
	switch outcome.Kind {
	case keyseq.Pending:
		return m.scheduleSequenceTimeout()
	case keyseq.Complete:
		switch outcome.Sequence {
		case sequenceGG:
			return m.moved(m.sessions.First())
		case sequenceDD:
			return m.startConfirmKill()
		}
		return nil
	}

	switch key {
	case "q":
		return m.quit("quit")
	case "j", "down":
		return m.moved(m.sessions.MoveCursor(1))
	case "k", "up":
		return m.moved(m.sessions.MoveCursor(-1))
	case "G", "end":
		return m.moved(m.sessions.Last())
	case "home":
		return m.moved(m.sessions.First())
	case "pgup":
		return m.moved(m.sessions.PageUp(m.maxVisibleRows()))
	case "pgdown":
		return m.moved(m.sessions.PageDown(m.maxVisibleRows()))
	case "/":
		m.clearStatus()
		changed := m.sessions.SetQuery("")
		if changed {
			events.Filter.Cleared()
		}
		m.setMode(ModeSearch)
		return m.filtered(changed)
	case "enter":
		return m.attachSelected()
	case "tab":
		if name, expanded, ok := m.sessions.ToggleExpanded(); ok {
			events.Session.Expand(name, expanded)
		}
		return nil
	case "?":
		m.setMode(ModeHelp)
		return nil
	case "n":
		return m.createSession("")
	case "N":
		events.Session.NewPrompt(m.sessions.Len())
		return m.openPrompt(ModeNewSession, "", "", "session name")
	case "r":
		name := m.sessions.SelectedName()
		if name == "" {
			return nil
		}
		events.Session.RenamePrompt(name)
		return m.openPrompt(ModeRename, name, name, "new name")
	case "t":
		name := m.sessions.SelectedName()
		if name == "" {
			return nil
		}
		return m.openPrompt(ModeTag, name, "", "tag")
	case "T":
		return m.startUntag()
	case "f":
		return m.openPrompt(ModeTagFilter, "", "", strings.Join(m.tagNames(), " "))
	case "F":
		return m.applyTagFilter("")
	case "D":
		if name := m.sessions.SelectedName(); name != "" {
			return m.detachSession(name)
		}
		return nil
	case "esc":
		queryChanged := m.sessions.SetQuery("")
		tagChanged := m.sessions.SetTagFilter("")
		if queryChanged || tagChanged {
			events.Filter.Cleared()
		}
		m.clearStatus()
		return m.filtered(queryChanged || tagChanged)
	}
	return nil
}

// moved reacts to a cursor change.
func (m *Model) moved(changed bool) tea.Cmd {
	if !changed {
		return nil
	}
	m.sessions.EnsureCursorVisible(m.maxVisibleRows())
	events.UI.Cursor(m.sessions.SelectedName(), m.sessions.Cursor())
	return m.capturePreviewCmd()
}

// filtered reacts to a query or tag filter change.
func (m *Model) filtered(changed bool) tea.Cmd {
	if !changed {
		return nil
	}
	m.sessions.EnsureCursorVisible(m.maxVisibleRows())
	return m.capturePreviewCmd()
}

// attachSelected switches the current client inside tmux. Outside tmux the
// program quits and the caller replaces the process with an attach.
func (m *Model) attachSelected() tea.Cmd {
	name := m.sessions.SelectedName()
	if name == "" || m.gateway == nil {
		return nil
	}
	if m.inside {
		return m.switchSession(name)
	}
	events.Session.Attach(name)
	h := m.gateway.Handover(name)
	m.handover = &h
	return m.quit("attach")
}

func (m *Model) startConfirmKill() tea.Cmd {
	name := m.sessions.SelectedName()
	if name == "" {
		return nil
	}
	events.Session.ConfirmKill(name)
	m.confirmFor = name
	m.setMode(ModeConfirmKill)
	return nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	target := m.confirmFor
	m.confirmFor = ""
	m.setMode(ModeNormal)
	switch msg.String() {
	case "y", "Y":
		return m.killSession(target)
	case "esc":
		events.Session.CancelKill(target, events.SessionReasonEscape)
	default:
		events.Session.CancelKill(target, events.SessionReasonAbort)
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	query := m.sessions.Query()
	switch msg.Type {
	case tea.KeyEnter:
		m.setMode(ModeNormal)
		return nil
	case tea.KeyEsc:
		m.setMode(ModeNormal)
		changed := m.sessions.SetQuery("")
		if changed {
			events.Filter.Cleared()
		}
		return m.filtered(changed)
	case tea.KeyUp, tea.KeyCtrlP:
		return m.moved(m.sessions.MoveCursor(-1))
	case tea.KeyDown, tea.KeyCtrlN:
		return m.moved(m.sessions.MoveCursor(1))
	case tea.KeyCtrlU:
		if query == "" {
			return nil
		}
		events.Filter.Cleared()
		return m.filtered(m.sessions.SetQuery(""))
	case tea.KeyCtrlW:
		next := deleteWordBackward(query)
		if next == query {
			return nil
		}
		events.Filter.WordBackspace(next)
		return m.filtered(m.sessions.SetQuery(next))
	case tea.KeyBackspace, tea.KeyCtrlH:
		if query == "" {
			return nil
		}
		runes := []rune(query)
		next := string(runes[:len(runes)-1])
		events.Filter.Backspace(next)
		return m.filtered(m.sessions.SetQuery(next))
	case tea.KeySpace:
		return m.appendQuery(query, " ")
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return nil
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return nil
			}
		}
		return m.appendQuery(query, string(msg.Runes))
	}
	return nil
}

func (m *Model) appendQuery(query, text string) tea.Cmd {
	next := query + text
	events.Filter.Append(next)
	return m.filtered(m.sessions.SetQuery(next))
}

func deleteWordBackward(s string) string {
	runes := []rune(s)
	i := len(runes)
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return string(runes[:i])
}

package ui

import (
	"time"

	"github.com/atomicstack/tmx/internal/state"
	tea "github.com/charmbracelet/bubbletea"
)

var helpEntries = []HelpEntry{
	{Keys: "j/k ↑/↓", Desc: "move"},
	{Keys: "gg / G", Desc: "first / last session"},
	{Keys: "pgup/pgdown", Desc: "page"},
	{Keys: "enter", Desc: "attach (switch when inside tmux)"},
	{Keys: "tab", Desc: "expand windows and panes"},
	{Keys: "/", Desc: "fuzzy search"},
	{Keys: "esc", Desc: "clear search and tag filter"},
	{Keys: "n / N", Desc: "new session / new named session"},
	{Keys: "r", Desc: "rename session"},
	{Keys: "t / T", Desc: "add tag / remove tag"},
	{Keys: "f / F", Desc: "filter by tag / clear tag filter"},
	{Keys: "D", Desc: "detach clients"},
	{Keys: "dd", Desc: "kill session"},
	{Keys: "q", Desc: "quit"},
}

// View renders the current frame.
func (m *Model) View() string {
	return m.renderer.Render(m.frame())
}

func (m *Model) frame() Frame {
	status := Status{}
	if text, isErr := m.currentStatus(); text != "" {
		status = Status{Text: text, Error: isErr}
	}
	f := Frame{
		Width:     m.width,
		Height:    m.height,
		Mode:      m.mode,
		Loaded:    m.loaded,
		Query:     m.sessions.Query(),
		TagFilter: m.sessions.TagFilter(),
		Total:     len(m.sessions.LiveNames()),
		Rows:      m.sessions.Rows(),
		Cursor:    m.sessions.Cursor(),
		Offset:    m.sessions.Offset(),
		Preview:   m.selectedPreview(),
		Confirm:   m.confirmFor,
		Pending:   m.keys.Pending(),
		Status:    status,
		Warning:   m.currentWarning(),
	}
	if m.mode.prompting() {
		f.Prompt = m.input.View()
	}
	if m.mode == ModeHelp {
		f.Help = helpEntries
	}
	return f
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.sessions.EnsureCursorVisible(m.maxVisibleRows())
	return nil
}

// maxVisibleRows is the number of session rows that fit above the bottom
// bar. Zero means the height is unknown.
func (m *Model) maxVisibleRows() int {
	if m.height <= 0 {
		return 0
	}
	return max(m.height-1-bottomBarRows, 1)
}

func (m *Model) visibleRows() []state.Row {
	rows := m.sessions.Rows()
	start := min(m.sessions.Offset(), len(rows))
	end := len(rows)
	if limit := m.maxVisibleRows(); limit > 0 && start+limit < end {
		end = start + limit
	}
	return rows[start:end]
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.errMsg = ""
	m.infoExpire = m.now().Add(infoTimeout)
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.errMsg = describeError(err)
	m.infoMsg = ""
	m.infoExpire = m.now().Add(infoTimeout)
}

func (m *Model) clearStatus() {
	m.infoMsg = ""
	m.errMsg = ""
	m.infoExpire = time.Time{}
	m.warning = ""
}

// currentWarning prefers a backend failure over the startup warning, which
// expires like any other status message.
func (m *Model) currentWarning() string {
	if m.backendErr != "" {
		return m.backendErr
	}
	if m.warning != "" && m.now().After(m.warnExpire) {
		m.warning = ""
	}
	return m.warning
}

// currentStatus returns the live status text and whether it is an error.
func (m *Model) currentStatus() (string, bool) {
	if !m.infoExpire.IsZero() && m.now().After(m.infoExpire) {
		m.clearStatus()
	}
	if m.errMsg != "" {
		return m.errMsg, true
	}
	return m.infoMsg, false
}

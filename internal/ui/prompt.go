package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tmx/internal/fuzzy"
	"github.com/atomicstack/tmx/internal/logging/events"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var promptLabels = map[Mode]string{
	ModeNewSession: "new session: ",
	ModeRename:     "rename to: ",
	ModeTag:        "add tag: ",
	ModeUntag:      "remove tag: ",
	ModeTagFilter:  "filter tag: ",
}

func newPromptInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 128
	ti.Cursor.SetMode(cursor.CursorStatic)
	if styles.FilterPrompt != nil {
		ti.PromptStyle = *styles.FilterPrompt
	}
	if styles.Filter != nil {
		ti.TextStyle = *styles.Filter
	}
	return ti
}

// openPrompt switches to a text-entry mode acting on target.
func (m *Model) openPrompt(mode Mode, target, value, placeholder string) tea.Cmd {
	m.clearStatus()
	m.promptFor = target
	m.input.Reset()
	m.input.Prompt = promptLabels[mode]
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.setMode(mode)
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.input.Blur()
	m.input.Reset()
	m.promptFor = ""
	m.setMode(ModeNormal)
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.cancelPrompt()
		return nil
	case tea.KeyEnter:
		return m.submitPrompt()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) cancelPrompt() {
	switch m.mode {
	case ModeNewSession:
		events.Session.CancelNew(events.SessionReasonEscape)
	case ModeRename:
		events.Session.CancelRename(m.promptFor, events.SessionReasonEscape)
	}
	m.closePrompt()
}

func (m *Model) submitPrompt() tea.Cmd {
	value := strings.TrimSpace(m.input.Value())
	mode, target := m.mode, m.promptFor
	m.closePrompt()
	switch mode {
	case ModeNewSession:
		if value == "" {
			events.Session.CancelNew(events.SessionReasonEmpty)
			return nil
		}
		return m.createSession(value)
	case ModeRename:
		if value == "" || value == target {
			events.Session.CancelRename(target, events.SessionReasonEmpty)
			return nil
		}
		return m.renameSession(target, value)
	case ModeTag:
		return m.addTag(target, value)
	case ModeUntag:
		return m.removeTag(target, value)
	case ModeTagFilter:
		return m.applyTagFilter(value)
	}
	return nil
}

func normaliseTag(tag string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

func (m *Model) addTag(session, tag string) tea.Cmd {
	tag = normaliseTag(tag)
	if tag == "" || session == "" || m.tags == nil {
		return nil
	}
	if strings.ContainsFunc(tag, func(r rune) bool { return r == ' ' || r == '\t' }) {
		m.setError(fmt.Errorf("tag %q must not contain spaces", tag))
		return nil
	}
	if !m.tags.AddTag(session, tag) {
		m.setInfo(fmt.Sprintf("%s is already tagged #%s", session, tag))
		return nil
	}
	m.sessions.RefreshTags()
	m.setInfo(fmt.Sprintf("Tagged %s #%s", session, tag))
	return m.saveTagsCmd()
}

func (m *Model) startUntag() tea.Cmd {
	name := m.sessions.SelectedName()
	if name == "" || m.tags == nil {
		return nil
	}
	current := m.tags.TagsFor(name)
	if len(current) == 0 {
		m.setInfo(fmt.Sprintf("%s has no tags", name))
		return nil
	}
	return m.openPrompt(ModeUntag, name, "", strings.Join(current, " "))
}

// removeTag removes the tag on session that best matches input.
func (m *Model) removeTag(session, input string) tea.Cmd {
	input = normaliseTag(input)
	if input == "" || session == "" || m.tags == nil {
		return nil
	}
	tag, ok := fuzzy.ResolveTag(input, m.tags.TagsFor(session))
	if !ok {
		m.setError(fmt.Errorf("%s has no tag matching %q", session, input))
		return nil
	}
	if !m.tags.RemoveTag(session, tag) {
		return nil
	}
	m.sessions.RefreshTags()
	m.setInfo(fmt.Sprintf("Removed #%s from %s", tag, session))
	return m.saveTagsCmd()
}

// applyTagFilter restricts the list to the tag that best matches input.
// An empty input clears the filter.
func (m *Model) applyTagFilter(input string) tea.Cmd {
	input = normaliseTag(input)
	if input == "" {
		if m.sessions.SetTagFilter("") {
			events.Filter.Tag("")
			return m.filtered(true)
		}
		return nil
	}
	tag, ok := fuzzy.ResolveTag(input, m.tagNames())
	if !ok {
		m.setError(fmt.Errorf("no tag matching %q", input))
		return nil
	}
	events.Filter.Tag(tag)
	return m.filtered(m.sessions.SetTagFilter(tag))
}

func (m *Model) tagNames() []string {
	if m.tags == nil {
		return nil
	}
	return m.tags.TagNames()
}

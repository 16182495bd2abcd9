package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives the UI model programmatically for integration tests.
// Commands run synchronously; timers are recorded instead of waited on.
type Harness struct {
	model  *Model
	timers []func(time.Time) tea.Msg
	quit   bool
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	h := &Harness{model: model}
	if model != nil {
		model.schedule = func(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
			h.timers = append(h.timers, fn)
			return nil
		}
	}
	return h
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

// Keys sends each key in order. Single characters become rune keys; other
// names such as "enter" or "esc" map to their special key.
func (h *Harness) Keys(keys ...string) {
	for _, k := range keys {
		h.Send(keyMsg(k))
	}
}

// Type sends text one rune at a time.
func (h *Harness) Type(text string) {
	for _, r := range text {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// FireTimers delivers every recorded timer message.
func (h *Harness) FireTimers() {
	timers := h.timers
	h.timers = nil
	for _, fn := range timers {
		h.Send(fn(time.Now()))
	}
}

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool {
	return h.quit
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.QuitMsg:
		h.quit = true
	case tea.BatchMsg:
		for _, c := range msg {
			h.processCmd(c)
		}
	default:
		h.Send(msg)
	}
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}

var specialKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"backspace": tea.KeyBackspace,
	"space":     tea.KeySpace,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+u":    tea.KeyCtrlU,
	"ctrl+w":    tea.KeyCtrlW,
}

func keyMsg(k string) tea.KeyMsg {
	if t, ok := specialKeys[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

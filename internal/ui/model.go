package ui

import (
	"reflect"
	"time"

	"github.com/atomicstack/tmx/internal/backend"
	"github.com/atomicstack/tmx/internal/logging/events"
	"github.com/atomicstack/tmx/internal/preview"
	"github.com/atomicstack/tmx/internal/state"
	"github.com/atomicstack/tmx/internal/theme"
	"github.com/atomicstack/tmx/internal/tmux"
	"github.com/atomicstack/tmx/internal/ui/command"
	"github.com/atomicstack/tmx/internal/ui/keyseq"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode is the input state of the UI.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeConfirmKill
	ModeHelp
	ModeNewSession
	ModeRename
	ModeTag
	ModeUntag
	ModeTagFilter
)

var modeNames = map[Mode]string{
	ModeNormal:      "normal",
	ModeSearch:      "search",
	ModeConfirmKill: "confirm-kill",
	ModeHelp:        "help",
	ModeNewSession:  "new-session",
	ModeRename:      "rename",
	ModeTag:         "tag",
	ModeUntag:       "untag",
	ModeTagFilter:   "tag-filter",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// prompting reports whether the mode owns a text input.
func (m Mode) prompting() bool {
	switch m {
	case ModeNewSession, ModeRename, ModeTag, ModeUntag, ModeTagFilter:
		return true
	}
	return false
}

const (
	defaultPreviewInterval = time.Second
	infoTimeout            = 5 * time.Second
	sequenceGG             = "gg"
	sequenceDD             = "dd"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// scheduler delays a message. Tests swap it out so timers never block.
type scheduler func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Model implements the Bubble Tea model for the session chooser.
type Model struct {
	gateway  Gateway
	tags     TagStore
	backend  *backend.Watcher
	sessions *state.Model
	previews *preview.Cache
	limiter  *preview.Limiter
	keys     *keyseq.Sequencer
	bus      *command.Bus
	renderer Renderer
	now      func() time.Time
	schedule scheduler

	inside          bool
	previewInterval time.Duration

	mode       Mode
	input      textinput.Model
	promptFor  string
	confirmFor string

	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	backendErr  string
	warning     string
	warnExpire  time.Time

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	loaded      bool
	handover    *tmux.Handover

	handlers map[reflect.Type]msgHandler
}

// NewModel wires the UI state around the gateway and tag store.
func NewModel(opts Options) *Model {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = NewRenderer(styles)
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = preview.NewLimiter(20, 4)
	}
	interval := opts.PreviewInterval
	if interval <= 0 {
		interval = defaultPreviewInterval
	}
	m := &Model{
		gateway:  opts.Gateway,
		tags:     opts.Tags,
		backend:  opts.Watcher,
		sessions: state.New(opts.Matcher, opts.Tags),
		previews: preview.New(),
		limiter:  limiter,
		keys: keyseq.New(opts.SequenceTimeout,
			keyseq.Sequence{Name: sequenceGG, Keys: []string{"g", "g"}},
			keyseq.Sequence{Name: sequenceDD, Keys: []string{"d", "d"}},
		),
		bus:             command.New(),
		renderer:        renderer,
		now:             now,
		schedule:        tea.Tick,
		inside:          opts.Inside,
		previewInterval: interval,
		mode:            ModeNormal,
		input:           newPromptInput(),
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	if opts.Warning != "" {
		m.warning = opts.Warning
		m.warnExpire = m.now().Add(infoTimeout)
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.schedulePreviewTick()}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	} else {
		cmds = append(cmds, m.refreshTopologyCmd())
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	if m.mode.prompting() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):         m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):  m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):    m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):     m.handleBackendDoneMsg,
		reflect.TypeOf(topologyLoadedMsg{}):  m.handleTopologyLoadedMsg,
		reflect.TypeOf(actionResultMsg{}):    m.handleActionResultMsg,
		reflect.TypeOf(tagsSavedMsg{}):       m.handleTagsSavedMsg,
		reflect.TypeOf(previewTickMsg{}):     m.handlePreviewTickMsg,
		reflect.TypeOf(previewLoadedMsg{}):   m.handlePreviewLoadedMsg,
		reflect.TypeOf(sequenceTimeoutMsg{}): m.handleSequenceTimeoutMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) setMode(next Mode) {
	if m.mode == next {
		return
	}
	events.UI.Mode(m.mode.String(), next.String())
	m.mode = next
}

// Mode returns the current input mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// Handover returns the attach to perform once the program has exited, if
// the operator chose one outside tmux.
func (m *Model) Handover() (tmux.Handover, bool) {
	if m.handover == nil {
		return tmux.Handover{}, false
	}
	return *m.handover, true
}

func (m *Model) quit(reason string) tea.Cmd {
	events.App.Exit(reason)
	if m.backend != nil {
		m.backend.Stop()
	}
	return tea.Quit
}

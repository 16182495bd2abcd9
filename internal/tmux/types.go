package tmux

import (
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// Session is a live tmux session with its windows in index order.
type Session struct {
	ID       string
	Name     string
	Attached bool
	Created  time.Time
	Windows  []Window
}

// Window belongs to exactly one session.
type Window struct {
	ID     string
	Index  int
	Name   string
	Active bool
	Panes  []Pane
}

// Pane belongs to exactly one window.
type Pane struct {
	ID      string
	Index   int
	Active  bool
	Command string
	Path    string
}

// PaneTarget addresses a pane by session name, window index and pane index.
type PaneTarget struct {
	Session string
	Window  int
	Pane    int
}

func (t PaneTarget) String() string {
	return fmt.Sprintf("=%s:%d.%d", t.Session, t.Window, t.Pane)
}

// ActiveWindow returns the window tmux reports as active, falling back to the
// first window.
func (s Session) ActiveWindow() (Window, bool) {
	for _, w := range s.Windows {
		if w.Active {
			return w, true
		}
	}
	if len(s.Windows) > 0 {
		return s.Windows[0], true
	}
	return Window{}, false
}

// ActivePane returns the active pane of the window, falling back to the first
// pane.
func (w Window) ActivePane() (Pane, bool) {
	for _, p := range w.Panes {
		if p.Active {
			return p, true
		}
	}
	if len(w.Panes) > 0 {
		return w.Panes[0], true
	}
	return Pane{}, false
}

// ActiveTarget resolves the pane shown when the session is focused.
func (s Session) ActiveTarget() (PaneTarget, bool) {
	w, ok := s.ActiveWindow()
	if !ok {
		return PaneTarget{}, false
	}
	p, ok := w.ActivePane()
	if !ok {
		return PaneTarget{}, false
	}
	return PaneTarget{Session: s.Name, Window: w.Index, Pane: p.Index}, true
}

const defaultCommandTimeout = 5 * time.Second

var (
	runExecCommand = func(ctx context.Context, name string, args ...string) commander {
		return realCommander{cmd: exec.CommandContext(ctx, name, args...)}
	}

	lookPath    = exec.LookPath
	execProcess = syscall.Exec
)

type commander interface {
	Run() error
	Output() ([]byte, error)
}

type realCommander struct {
	cmd *exec.Cmd
}

func (r realCommander) Run() error {
	return r.cmd.Run()
}

func (r realCommander) Output() ([]byte, error) {
	return r.cmd.Output()
}

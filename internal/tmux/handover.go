package tmux

import (
	"fmt"
	"os"

	"github.com/atomicstack/tmx/internal/logging/events"
)

// Handover is the terminal attach used outside tmux: once the UI has shut
// down and restored the terminal, Exec replaces the current process with
// `tmux attach-session`.
type Handover struct {
	Session    string
	SocketPath string
}

// Handover prepares an attach to session on the client's socket.
func (c *Client) Handover(session string) Handover {
	return Handover{Session: session, SocketPath: c.socketPath}
}

// Argv is the full argument vector of the replacement process.
func (h Handover) Argv() []string {
	argv := append([]string{"tmux"}, baseArgs(h.SocketPath)...)
	return append(argv, "attach-session", "-t", exactSession(h.Session))
}

// Exec replaces the running process. It only returns on failure.
func (h Handover) Exec() error {
	path, err := lookPath("tmux")
	if err != nil {
		return fmt.Errorf("attach %s: %w: %v", h.Session, ErrGatewayUnavailable, err)
	}
	argv := h.Argv()
	events.App.Handover(h.Session, argv)
	if err := execProcess(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("attach %s: %w", h.Session, err)
	}
	return nil
}

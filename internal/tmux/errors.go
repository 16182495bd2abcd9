package tmux

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// ErrGatewayUnavailable means the tmux binary is missing or no server is
	// reachable on the socket.
	ErrGatewayUnavailable = errors.New("tmux unavailable")
	// ErrActionRejected is matched by every ActionRejectedError.
	ErrActionRejected = errors.New("tmux rejected action")
	// ErrPaneNotFound is returned when a capture targets a pane that is gone.
	ErrPaneNotFound = errors.New("tmux pane not found")
)

// ActionRejectedError reports a non-zero exit from a session action.
type ActionRejectedError struct {
	Action string
	Target string
	Reason string
}

func (e *ActionRejectedError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s: %s", e.Action, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", e.Action, e.Target, e.Reason)
}

func (e *ActionRejectedError) Is(target error) bool {
	return target == ErrActionRejected
}

// CommandError carries the argv and stderr of a failed tmux invocation.
type CommandError struct {
	Argv   string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", e.Argv, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Argv, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func (e *CommandError) Is(target error) bool {
	return target == ErrGatewayUnavailable && e.unavailable()
}

func (e *CommandError) unavailable() bool {
	if errors.Is(e.Err, exec.ErrNotFound) {
		return true
	}
	msg := strings.ToLower(e.Stderr)
	return strings.Contains(msg, "no server running") ||
		strings.Contains(msg, "error connecting to") ||
		strings.Contains(msg, "server exited unexpectedly")
}

func (e *CommandError) missingTarget() bool {
	msg := strings.ToLower(e.Stderr)
	return strings.Contains(msg, "can't find") || strings.Contains(msg, "not found")
}

func newCommandError(argv string, err error) *CommandError {
	ce := &CommandError{Argv: argv, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ce.Stderr = strings.TrimSpace(string(exitErr.Stderr))
	}
	return ce
}

// reject converts an invocation failure into an ActionRejectedError while
// letting unavailability pass through untouched.
func reject(action, target string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrGatewayUnavailable) {
		return err
	}
	reason := err.Error()
	var ce *CommandError
	if errors.As(err, &ce) && ce.Stderr != "" {
		reason = ce.Stderr
	}
	return &ActionRejectedError{Action: action, Target: target, Reason: reason}
}

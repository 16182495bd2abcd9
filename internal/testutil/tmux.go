// Package testutil starts throwaway tmux servers for integration tests.
package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

// SeedSession is created with every test server so it stays up between
// test steps.
const SeedSession = "tmx-seed"

var ErrPaneUnavailable = errors.New("tmux pane unavailable")

// RequireTmux skips the calling test when tmux is not on PATH.
func RequireTmux(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("tmux")
	if err != nil {
		t.Skip("skipping: tmux binary not available")
	}
	return path
}

// StartTmuxServer boots a tmux server on a private socket holding
// SeedSession. It returns the socket, a cleanup that kills the server, and
// the directory holding the socket and any server logs.
func StartTmuxServer(t *testing.T) (string, func(), string) {
	t.Helper()
	RequireTmux(t)
	// Sockets live under /tmp; t.TempDir paths can exceed the sun_path limit.
	dir, err := os.MkdirTemp("/tmp", "tmx-*")
	if err != nil {
		t.Fatalf("create socket dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	socket := filepath.Join(dir, "tmux-test.sock")

	start := tmuxCommand(socket, "-f", "/dev/null", "new-session", "-d", "-s", SeedSession, "sleep", "600")
	start.Dir = dir
	if err := start.Run(); err != nil {
		t.Skipf("skipping: tmux server did not start: %v", err)
	}
	t.Logf("tmux test server on %s", socket)
	return socket, func() { _ = tmuxCommand(socket, "kill-server").Run() }, dir
}

// Tmux runs a tmux command against socket and fails the test on error.
func Tmux(t *testing.T, socket string, args ...string) string {
	t.Helper()
	out, err := tmuxCommand(socket, args...).CombinedOutput()
	if err != nil {
		t.Fatalf("tmux %s: %v: %s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// WaitForSession polls until the named session exists on socket.
func WaitForSession(t *testing.T, socket, name string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if tmuxCommand(socket, "has-session", "-t", "="+name).Run() == nil {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("session %q did not appear", name)
}

// AssertNoServerCrash fails when a tmux server log under logDir records an
// unexpected exit.
func AssertNoServerCrash(t *testing.T, logDir string) {
	t.Helper()
	if logDir == "" {
		return
	}
	logs, _ := filepath.Glob(filepath.Join(logDir, "tmux-server-*.log"))
	for _, path := range logs {
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if bytes.Contains(content, []byte("server exited unexpectedly")) {
			t.Fatalf("tmux server exited unexpectedly; see %s", path)
		}
	}
}

// CapturePane returns the plain text of target. ErrPaneUnavailable means the
// pane does not exist yet.
func CapturePane(t *testing.T, socket, target string) (string, error) {
	t.Helper()
	out, err := tmuxCommand(socket, "capture-pane", "-p", "-t", target).Output()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return string(out), nil
	case errors.As(err, &exitErr) && exitErr.ExitCode() == 1:
		return "", ErrPaneUnavailable
	default:
		return "", fmt.Errorf("capture-pane %s: %w", target, err)
	}
}

// tmuxCommand builds a tmux invocation detached from any enclosing client so
// tests behave the same inside and outside tmux.
func tmuxCommand(socket string, args ...string) *exec.Cmd {
	cmd := exec.Command("tmux", append([]string{"-S", socket}, args...)...)
	env := slices.DeleteFunc(os.Environ(), func(entry string) bool {
		return strings.HasPrefix(entry, "TMUX=") || strings.HasPrefix(entry, "TMUX_TMPDIR=")
	})
	cmd.Env = append(env, "TMUX=", "TMUX_TMPDIR="+filepath.Dir(socket))
	return cmd
}

package testutil

import "testing"

func TestStartTmuxServerLifecycle(t *testing.T) {
	socket, cleanup, _ := StartTmuxServer(t)
	defer cleanup()
	WaitForSession(t, socket, SeedSession)
	if out := Tmux(t, socket, "list-sessions", "-F", "#{session_name}"); out != SeedSession {
		t.Fatalf("expected seed session, got %q", out)
	}
}

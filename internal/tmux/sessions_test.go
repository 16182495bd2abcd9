package tmux

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/tmx/internal/logging"
)

func TestSessionActionsBuildExpectedArgs(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		call func(*Client) error
		want string
	}{
		{"switch", func(c *Client) error { return c.SwitchClient(ctx, "work") }, "switch-client -t =work"},
		{"rename", func(c *Client) error { return c.RenameSession(ctx, "work", "-dash") }, "rename-session -t =work -- -dash"},
		{"kill", func(c *Client) error { return c.KillSession(ctx, "work") }, "kill-session -t =work"},
		{"detach", func(c *Client) error { return c.DetachClients(ctx, "work") }, "detach-client -s =work"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := recordCalls(t, nil)
			if err := tc.call(NewClient("")); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := strings.Join(calls.last(), " "); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSessionActionsTraceOnlyTheCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmx.log")
	logging.Configure(path)
	logging.SetTraceEnabled(true)
	t.Cleanup(func() {
		logging.SetTraceEnabled(false)
		_ = logging.Close()
		logging.Configure("")
	})

	recordCalls(t, func([]string) *stubCommander {
		return &stubCommander{output: []byte("api\n")}
	})
	ctx := context.Background()
	client := NewClient("")
	_ = client.SwitchClient(ctx, "work")
	_ = client.RenameSession(ctx, "work", "api")
	_, _ = client.NewSession(ctx, "api")
	_ = client.KillSession(ctx, "api")
	_ = client.DetachClients(ctx, "api")
	_ = logging.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	log := string(data)
	if strings.Contains(log, `"event":"session.`) {
		t.Fatalf("session events belong to the caller, got %s", log)
	}
	if got := strings.Count(log, `"event":"tmux.exec"`); got != 5 {
		t.Fatalf("expected 5 tmux.exec events, got %d: %s", got, log)
	}
}

func TestNewSessionReturnsAssignedName(t *testing.T) {
	calls := recordCalls(t, func([]string) *stubCommander {
		return &stubCommander{output: []byte("7\n")}
	})
	name, err := NewClient("").NewSession(context.Background(), "")
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if name != "7" {
		t.Fatalf("expected tmux-assigned name 7, got %q", name)
	}
	args := strings.Join(calls.last(), " ")
	if !strings.HasPrefix(args, "new-session -d -P -F #{session_name}") {
		t.Fatalf("unexpected argv %q", args)
	}
	if strings.Contains(args, " -s ") {
		t.Fatalf("expected no -s for unnamed session, got %q", args)
	}
}

func TestNewSessionNamed(t *testing.T) {
	calls := recordCalls(t, func([]string) *stubCommander {
		return &stubCommander{output: []byte("api\n")}
	})
	name, err := NewClient("").NewSession(context.Background(), " api ")
	if err != nil || name != "api" {
		t.Fatalf("expected api, got %q err=%v", name, err)
	}
	if !strings.Contains(strings.Join(calls.last(), " "), "-s api") {
		t.Fatalf("expected -s api in %v", calls.last())
	}
}

func TestActionFailureIsRejected(t *testing.T) {
	recordCalls(t, func([]string) *stubCommander {
		return exitWith("duplicate session: personal")
	})
	err := NewClient("").RenameSession(context.Background(), "work", "personal")
	if !errors.Is(err, ErrActionRejected) {
		t.Fatalf("expected ErrActionRejected, got %v", err)
	}
	var rejected *ActionRejectedError
	if !errors.As(err, &rejected) || rejected.Reason != "duplicate session: personal" {
		t.Fatalf("expected stderr reason, got %#v", rejected)
	}
}

func TestRenameRejectsEmptyName(t *testing.T) {
	calls := recordCalls(t, nil)
	err := NewClient("").RenameSession(context.Background(), "work", "  ")
	if !errors.Is(err, ErrActionRejected) {
		t.Fatalf("expected ErrActionRejected, got %v", err)
	}
	if calls.last() != nil {
		t.Fatalf("expected no tmux call, got %v", calls.last())
	}
}

func TestActionUnavailablePassesThrough(t *testing.T) {
	recordCalls(t, func([]string) *stubCommander {
		return exitWith("error connecting to /tmp/sock (No such file or directory)")
	})
	err := NewClient("/tmp/sock").KillSession(context.Background(), "work")
	if !errors.Is(err, ErrGatewayUnavailable) || errors.Is(err, ErrActionRejected) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestInsideTmux(t *testing.T) {
	if !InsideTmux([]string{"HOME=/root", "TMUX=/tmp/tmux-0/default,123,0"}) {
		t.Fatalf("expected inside tmux")
	}
	if InsideTmux([]string{"TMUX="}) {
		t.Fatalf("empty TMUX must count as outside")
	}
	if InsideTmux(nil) {
		t.Fatalf("missing TMUX must count as outside")
	}
}

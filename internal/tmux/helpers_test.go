package tmux

import (
	"context"
	"os/exec"
	"sync"
	"testing"
)

type stubCommander struct {
	output []byte
	err    error
}

func (s *stubCommander) Run() error {
	return s.err
}

func (s *stubCommander) Output() ([]byte, error) {
	return s.output, s.err
}

func withStubCommander(t *testing.T, fn func(name string, args ...string) commander) {
	t.Helper()
	prev := runExecCommand
	runExecCommand = func(_ context.Context, name string, args ...string) commander {
		return fn(name, args...)
	}
	t.Cleanup(func() { runExecCommand = prev })
}

// recordCalls stubs tmux and records every argv; reply picks the response.
func recordCalls(t *testing.T, reply func(args []string) *stubCommander) *callLog {
	t.Helper()
	log := &callLog{}
	withStubCommander(t, func(name string, args ...string) commander {
		log.add(args)
		if reply == nil {
			return &stubCommander{}
		}
		return reply(args)
	})
	return log
}

type callLog struct {
	mu    sync.Mutex
	calls [][]string
}

func (l *callLog) add(args []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, append([]string(nil), args...))
}

func (l *callLog) last() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.calls) == 0 {
		return nil
	}
	return l.calls[len(l.calls)-1]
}

func exitWith(stderr string) *stubCommander {
	return &stubCommander{err: &exec.ExitError{Stderr: []byte(stderr)}}
}

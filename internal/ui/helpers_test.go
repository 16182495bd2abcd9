package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/tmx/internal/backend"
	"github.com/atomicstack/tmx/internal/tags"
	"github.com/atomicstack/tmx/internal/tmux"
)

type fakeGateway struct {
	mu       sync.Mutex
	sessions []tmux.Session
	captures map[string]string
	failures map[string]error
	nextName string
	calls    []string
}

func newFakeGateway(names ...string) *fakeGateway {
	g := &fakeGateway{captures: map[string]string{}, failures: map[string]error{}}
	for _, name := range names {
		g.sessions = append(g.sessions, fakeSession(name))
	}
	return g
}

func fakeSession(name string) tmux.Session {
	return tmux.Session{
		ID:   "$" + name,
		Name: name,
		Windows: []tmux.Window{{
			ID:     "@" + name,
			Index:  1,
			Name:   "main",
			Active: true,
			Panes:  []tmux.Pane{{ID: "%" + name, Index: 0, Active: true, Command: "zsh"}},
		}},
	}
}

func (g *fakeGateway) record(call string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
	verb, _, _ := strings.Cut(call, " ")
	return g.failures[verb]
}

func (g *fakeGateway) fail(verb string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[verb] = err
}

func (g *fakeGateway) called(call string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Contains(g.calls, call)
}

func (g *fakeGateway) callCount(verb string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c == verb || strings.HasPrefix(c, verb+" ") {
			n++
		}
	}
	return n
}

func (g *fakeGateway) ListTopology(ctx context.Context) ([]tmux.Session, error) {
	if err := g.record("list"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.sessions), nil
}

func (g *fakeGateway) CapturePane(ctx context.Context, target tmux.PaneTarget) (string, error) {
	if err := g.record("capture " + target.Session); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.captures[target.Session], nil
}

func (g *fakeGateway) SwitchClient(ctx context.Context, session string) error {
	return g.record("switch " + session)
}

func (g *fakeGateway) RenameSession(ctx context.Context, target, newName string) error {
	if err := g.record(fmt.Sprintf("rename %s %s", target, newName)); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.sessions {
		if g.sessions[i].Name == target {
			g.sessions[i].Name = newName
		}
	}
	return nil
}

func (g *fakeGateway) NewSession(ctx context.Context, name string) (string, error) {
	if err := g.record("new " + name); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if name == "" {
		name = g.nextName
	}
	g.sessions = append(g.sessions, fakeSession(name))
	return name, nil
}

func (g *fakeGateway) KillSession(ctx context.Context, target string) error {
	if err := g.record("kill " + target); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions = slices.DeleteFunc(g.sessions, func(s tmux.Session) bool { return s.Name == target })
	return nil
}

func (g *fakeGateway) DetachClients(ctx context.Context, target string) error {
	return g.record("detach " + target)
}

func (g *fakeGateway) Handover(session string) tmux.Handover {
	return tmux.Handover{Session: session, SocketPath: "/tmp/tmx-test.sock"}
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fixture struct {
	gw      *fakeGateway
	store   *tags.Store
	clock   *fakeClock
	harness *Harness
}

func newFixture(t *testing.T, inside bool, names ...string) *fixture {
	t.Helper()
	f := &fixture{
		gw:    newFakeGateway(names...),
		store: tags.New(filepath.Join(t.TempDir(), "config.toml")),
		clock: &fakeClock{now: time.Unix(1_700_000_000, 0)},
	}
	model := NewModel(Options{
		Gateway: f.gw,
		Tags:    f.store,
		Inside:  inside,
		Width:   100,
		Height:  20,
		Clock:   f.clock.Now,
	})
	f.harness = NewHarness(model)
	f.refresh()
	return f
}

// refresh delivers the fake topology the way the watcher would.
func (f *fixture) refresh() {
	topology, _ := f.gw.ListTopology(context.Background())
	f.harness.Send(backendEventMsg{event: backend.Event{Kind: backend.KindTopology, Topology: topology}})
}

func (f *fixture) model() *Model {
	return f.harness.Model()
}

func (f *fixture) rowNames() []string {
	rows := f.model().sessions.Rows()
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name()
	}
	return out
}

package ui

import (
	"context"
	"time"

	"github.com/atomicstack/tmx/internal/backend"
	"github.com/atomicstack/tmx/internal/fuzzy"
	"github.com/atomicstack/tmx/internal/preview"
	"github.com/atomicstack/tmx/internal/state"
	"github.com/atomicstack/tmx/internal/tmux"
)

// Gateway is the subset of *tmux.Client the UI drives.
type Gateway interface {
	ListTopology(ctx context.Context) ([]tmux.Session, error)
	CapturePane(ctx context.Context, target tmux.PaneTarget) (string, error)
	SwitchClient(ctx context.Context, session string) error
	RenameSession(ctx context.Context, target, newName string) error
	NewSession(ctx context.Context, name string) (string, error)
	KillSession(ctx context.Context, target string) error
	DetachClients(ctx context.Context, target string) error
	Handover(session string) tmux.Handover
}

// TagStore is the subset of *tags.Store the UI drives.
type TagStore interface {
	state.TagSource
	AddTag(session, tag string) bool
	RemoveTag(session, tag string) bool
	TagNames() []string
	RenameSession(oldName, newName string) bool
	Save() error
	Reload() (bool, error)
}

// Options configures NewModel. Gateway is required.
type Options struct {
	Gateway Gateway
	Tags    TagStore
	Watcher *backend.Watcher

	// Inside reports whether tmx runs inside a tmux client. It selects
	// switch-client over a process-replacing attach.
	Inside bool

	Width  int
	Height int

	PreviewInterval time.Duration
	SequenceTimeout time.Duration
	Limiter         *preview.Limiter
	Matcher         fuzzy.Matcher
	Renderer        Renderer
	Clock           func() time.Time

	// Warning is shown once on the status line at startup.
	Warning string
}

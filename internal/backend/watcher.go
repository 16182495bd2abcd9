package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/tmx/internal/tmux"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindTopology Kind = iota
	KindTags
)

// Event conveys a refreshed topology, a tag file change, or a poll error.
type Event struct {
	Kind     Kind
	Topology []tmux.Session
	Err      error
}

// Source lists the current tmux topology.
type Source interface {
	ListTopology(ctx context.Context) ([]tmux.Session, error)
}

// Watcher polls tmux at a fixed interval and publishes events.
type Watcher struct {
	source   Source
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a backend watcher that polls source every interval.
// tagChanges, when non-nil, is forwarded as KindTags events.
func NewWatcher(source Source, interval time.Duration, tagChanges <-chan struct{}) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		source:   source,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.startTopologyPoller()
	if tagChanges != nil {
		w.startTagForwarder(tagChanges)
	}

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all poller goroutines have exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startTopologyPoller() {
	throttle := newThrottle(w.interval / 2)
	w.wg.Add(1)
	go w.poll(func(ctx context.Context) Event {
		if err := throttle.wait(ctx); err != nil {
			return Event{Kind: KindTopology, Err: err}
		}
		topo, err := w.source.ListTopology(ctx)
		return Event{Kind: KindTopology, Topology: topo, Err: err}
	})
}

func (w *Watcher) startTagForwarder(changes <-chan struct{}) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				if !w.send(Event{Kind: KindTags}) {
					return
				}
			}
		}
	}()
}

func (w *Watcher) send(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}

func (w *Watcher) poll(fetch func(context.Context) Event) {
	defer w.wg.Done()

	if !w.send(fetch(w.ctx)) {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !w.send(fetch(w.ctx)) {
				return
			}
		}
	}
}

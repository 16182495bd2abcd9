package command

import (
	"context"
	"fmt"
	"time"

	"github.com/atomicstack/tmx/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout bounds a single request, gateway retries included.
const DefaultTimeout = 10 * time.Second

// Request encapsulates an action invocation.
type Request struct {
	ID    string
	Label string
	Run   func(ctx context.Context) tea.Msg
}

// Bus coordinates the execution of UI actions off the update loop.
type Bus struct {
	timeout time.Duration
}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{timeout: DefaultTimeout}
}

// Execute wraps a request into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	if req.Run == nil {
		return nil
	}
	timeout := b.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		msg := req.Run(ctx)
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}

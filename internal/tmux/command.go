package tmux

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/atomicstack/tmx/internal/logging/events"
)

// Client shells out to the tmux binary. It is the only component that talks
// to tmux.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient returns a client bound to socketPath. An empty path uses tmux's
// own default socket resolution.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath, timeout: defaultCommandTimeout}
}

// SocketPath reports the socket the client targets.
func (c *Client) SocketPath() string {
	return c.socketPath
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	argv := append(baseArgs(c.socketPath), args...)
	quoted := shellescape.QuoteCommand(append([]string{"tmux"}, argv...))
	events.Command.Exec(quoted)

	output, err := runExecCommand(ctx, "tmux", argv...).Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &CommandError{Argv: quoted, Err: fmt.Errorf("%w: %v", ctxErr, err)}
		}
		return nil, newCommandError(quoted, err)
	}
	return output, nil
}

func baseArgs(socketPath string) []string {
	if strings.TrimSpace(socketPath) == "" {
		return []string{}
	}
	return []string{"-S", socketPath}
}

// exactSession targets a session by exact name rather than tmux's prefix match.
func exactSession(name string) string {
	return "=" + name
}

// InsideTmux reports whether the environment carries the tmux client marker.
func InsideTmux(environ []string) bool {
	for _, entry := range environ {
		if value, ok := strings.CutPrefix(entry, "TMUX="); ok {
			return value != ""
		}
	}
	return false
}

// ResolveSocketPath picks the socket from the flag value, the TMX_SOCKET
// environment variable, the TMUX marker of an enclosing client, or the
// per-user default under TMUX_TMPDIR.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envSocket := os.Getenv("TMX_SOCKET"); envSocket != "" {
		return envSocket, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}

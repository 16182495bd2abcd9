package tmux

import (
	"context"
	"os"
	"strings"
)

// SwitchClient moves the calling tmux client to session. It is only valid
// when running inside a tmux client.
func (c *Client) SwitchClient(ctx context.Context, session string) error {
	if strings.TrimSpace(session) == "" {
		return &ActionRejectedError{Action: "switch-client", Reason: "session name required"}
	}
	_, err := c.run(ctx, "switch-client", "-t", exactSession(session))
	return reject("switch-client", session, err)
}

// RenameSession renames target to newName.
func (c *Client) RenameSession(ctx context.Context, target, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return &ActionRejectedError{Action: "rename-session", Target: target, Reason: "new name required"}
	}
	_, err := c.run(ctx, "rename-session", "-t", exactSession(target), "--", newName)
	return reject("rename-session", target, err)
}

// NewSession creates a detached session and returns the name tmux assigned.
// An empty name lets tmux choose one.
func (c *Client) NewSession(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	args := []string{"new-session", "-d", "-P", "-F", "#{session_name}"}
	if name != "" {
		args = append(args, "-s", name)
	}
	if cwd, err := os.Getwd(); err == nil {
		args = append(args, "-c", cwd)
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		return "", reject("new-session", name, err)
	}
	created := strings.TrimSpace(string(out))
	if created == "" {
		created = name
	}
	return created, nil
}

// KillSession destroys target.
func (c *Client) KillSession(ctx context.Context, target string) error {
	_, err := c.run(ctx, "kill-session", "-t", exactSession(target))
	return reject("kill-session", target, err)
}

// DetachClients detaches every client attached to target.
func (c *Client) DetachClients(ctx context.Context, target string) error {
	_, err := c.run(ctx, "detach-client", "-s", exactSession(target))
	return reject("detach-client", target, err)
}

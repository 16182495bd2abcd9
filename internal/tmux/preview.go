package tmux

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// CapturePane returns the visible content of the pane with escape sequences
// preserved. Trailing blank lines are dropped.
func (c *Client) CapturePane(ctx context.Context, target PaneTarget) (string, error) {
	if strings.TrimSpace(target.Session) == "" {
		return "", fmt.Errorf("capture-pane: %w", ErrPaneNotFound)
	}
	output, err := c.run(ctx, "capture-pane", "-ep", "-t", target.String())
	if err != nil {
		var ce *CommandError
		if errors.As(err, &ce) && ce.missingTarget() {
			return "", fmt.Errorf("capture-pane %s: %w", target, ErrPaneNotFound)
		}
		return "", fmt.Errorf("capture-pane %s: %w", target, err)
	}
	return strings.Join(splitPreviewLines(string(output), true), "\n"), nil
}

func splitPreviewLines(text string, keepEmpty bool) []string {
	if text == "" {
		return nil
	}
	normalised := strings.ReplaceAll(text, "\r\n", "\n")
	normalised = strings.ReplaceAll(normalised, "\r", "\n")
	normalised = strings.TrimRight(normalised, "\n")
	if normalised == "" {
		return nil
	}
	raw := strings.Split(normalised, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" && !keepEmpty {
			continue
		}
		lines = append(lines, trimmed)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

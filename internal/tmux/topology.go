package tmux

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const fieldSeparator = "\x01"

var (
	sessionFormat = strings.Join([]string{
		"#{session_id}",
		"#{session_name}",
		"#{session_attached}",
		"#{session_created}",
	}, fieldSeparator)
	windowFormat = strings.Join([]string{
		"#{session_id}",
		"#{window_id}",
		"#{window_index}",
		"#{window_name}",
		"#{window_active}",
	}, fieldSeparator)
	paneFormat = strings.Join([]string{
		"#{session_id}",
		"#{window_id}",
		"#{pane_id}",
		"#{pane_index}",
		"#{pane_active}",
		"#{pane_current_command}",
		"#{pane_current_path}",
	}, fieldSeparator)
)

// ListTopology returns every live session with nested windows and panes.
// Sessions keep tmux's listing order, windows and panes are ordered by index.
func (c *Client) ListTopology(ctx context.Context) ([]Session, error) {
	var sessionOut, windowOut, paneOut []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sessionOut, err = c.run(gctx, "list-sessions", "-F", sessionFormat)
		return err
	})
	g.Go(func() (err error) {
		windowOut, err = c.run(gctx, "list-windows", "-a", "-F", windowFormat)
		return err
	})
	g.Go(func() (err error) {
		paneOut, err = c.run(gctx, "list-panes", "-a", "-F", paneFormat)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return assembleTopology(
		parseSessionLines(string(sessionOut)),
		parseWindowLines(string(windowOut)),
		parsePaneLines(string(paneOut)),
	), nil
}

type windowRow struct {
	sessionID string
	window    Window
}

type paneRow struct {
	sessionID string
	windowID  string
	pane      Pane
}

func assembleTopology(sessions []Session, windows []windowRow, panes []paneRow) []Session {
	panesByWindow := make(map[string][]Pane)
	for _, row := range panes {
		key := row.sessionID + row.windowID
		panesByWindow[key] = append(panesByWindow[key], row.pane)
	}
	windowsBySession := make(map[string][]Window)
	for _, row := range windows {
		w := row.window
		w.Panes = panesByWindow[row.sessionID+w.ID]
		sort.SliceStable(w.Panes, func(i, j int) bool { return w.Panes[i].Index < w.Panes[j].Index })
		windowsBySession[row.sessionID] = append(windowsBySession[row.sessionID], w)
	}
	out := make([]Session, 0, len(sessions))
	seen := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		if _, dup := seen[s.Name]; dup {
			continue
		}
		seen[s.Name] = struct{}{}
		s.Windows = windowsBySession[s.ID]
		sort.SliceStable(s.Windows, func(i, j int) bool { return s.Windows[i].Index < s.Windows[j].Index })
		out = append(out, s)
	}
	return out
}

func parseSessionLines(output string) []Session {
	var sessions []Session
	for _, fields := range splitRecords(output, 4) {
		if fields[1] == "" {
			continue
		}
		attached, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		s := Session{ID: fields[0], Name: fields[1], Attached: attached > 0}
		if created, err := strconv.ParseInt(fields[3], 10, 64); err == nil {
			s.Created = time.Unix(created, 0)
		}
		sessions = append(sessions, s)
	}
	return sessions
}

func parseWindowLines(output string) []windowRow {
	var rows []windowRow
	for _, fields := range splitRecords(output, 5) {
		index, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		rows = append(rows, windowRow{
			sessionID: fields[0],
			window: Window{
				ID:     fields[1],
				Index:  index,
				Name:   fields[3],
				Active: fields[4] == "1",
			},
		})
	}
	return rows
}

func parsePaneLines(output string) []paneRow {
	var rows []paneRow
	for _, fields := range splitRecords(output, 7) {
		index, err := strconv.Atoi(fields[3])
		if err != nil {
			continue
		}
		rows = append(rows, paneRow{
			sessionID: fields[0],
			windowID:  fields[1],
			pane: Pane{
				ID:      fields[2],
				Index:   index,
				Active:  fields[4] == "1",
				Command: fields[5],
				Path:    fields[6],
			},
		})
	}
	return rows
}

// splitRecords splits tmux -F output into lines of exactly n fields. Lines
// with a different field count are skipped. Some tmux builds print the
// separator as the literal escape \001, which is accepted too.
func splitRecords(output string, n int) [][]string {
	var records [][]string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if !strings.Contains(line, fieldSeparator) && strings.Contains(line, `\001`) {
			line = strings.ReplaceAll(line, `\001`, fieldSeparator)
		}
		fields := strings.Split(line, fieldSeparator)
		if len(fields) != n {
			continue
		}
		records = append(records, fields)
	}
	return records
}

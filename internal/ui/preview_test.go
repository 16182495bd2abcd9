package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/atomicstack/tmx/internal/preview"
	"github.com/atomicstack/tmx/internal/tmux"
)

func TestSelectionChangeCapturesPreview(t *testing.T) {
	f := newFixture(t, true, "a", "b")
	f.gw.captures["b"] = "hello from b"
	f.harness.Keys("j")
	if !f.gw.called("capture b") {
		t.Fatalf("expected capture of b, calls: %v", f.gw.calls)
	}
	pane := f.model().selectedPreview()
	if len(pane.Lines) != 1 || pane.Lines[0] != "hello from b" {
		t.Fatalf("expected cached capture, got %+v", pane)
	}
	if !strings.Contains(f.harness.View(), "hello from b") {
		t.Fatalf("expected capture in the preview panel:\n%s", f.harness.View())
	}
}

func TestStalePreviewIsDiscarded(t *testing.T) {
	f := newFixture(t, true, "a")
	m := f.model()
	key := preview.Key{Session: "a", Window: 1, Pane: 0}
	older := m.previews.Begin(key)
	newer := m.previews.Begin(key)
	f.harness.Send(previewLoadedMsg{key: key, seq: newer, text: "new"})
	f.harness.Send(previewLoadedMsg{key: key, seq: older, text: "old"})
	entry, ok := m.previews.Get(key)
	if !ok || entry.Text != "new" {
		t.Fatalf("expected newer capture to win, got %+v", entry)
	}
}

func TestStaleCaptureErrorKeepsNewerPreview(t *testing.T) {
	f := newFixture(t, true, "a")
	m := f.model()
	key := preview.Key{Session: "a", Window: 1, Pane: 0}
	older := m.previews.Begin(key)
	newer := m.previews.Begin(key)
	f.harness.Send(previewLoadedMsg{key: key, seq: newer, text: "fresh"})
	f.harness.Send(previewLoadedMsg{key: key, seq: older, err: context.DeadlineExceeded})
	pane := m.selectedPreview()
	if pane.Err != "" || len(pane.Lines) != 1 || pane.Lines[0] != "fresh" {
		t.Fatalf("expected newer capture to stay visible, got %+v", pane)
	}
}

func TestThrottledCaptureIsDroppedSilently(t *testing.T) {
	f := newFixture(t, true, "a")
	m := f.model()
	key := preview.Key{Session: "a", Window: 1, Pane: 0}
	seq := m.previews.Begin(key)
	err := fmt.Errorf("%w: %v", errCaptureThrottled, context.DeadlineExceeded)
	f.harness.Send(previewLoadedMsg{key: key, seq: seq, err: err})
	if pane := m.selectedPreview(); pane.Err != "" {
		t.Fatalf("expected throttled capture to be dropped, got %q", pane.Err)
	}
}

func TestMissingPaneIsDroppedSilently(t *testing.T) {
	f := newFixture(t, true, "a")
	key := preview.Key{Session: "a", Window: 1, Pane: 0}
	seq := f.model().previews.Begin(key)
	f.harness.Send(previewLoadedMsg{key: key, seq: seq, err: fmt.Errorf("capture: %w", tmux.ErrPaneNotFound)})
	if pane := f.model().selectedPreview(); pane.Err != "" {
		t.Fatalf("expected missing pane to be dropped, got %q", pane.Err)
	}
	if text, _ := f.model().currentStatus(); text != "" {
		t.Fatalf("expected no status for a missing pane, got %q", text)
	}

	f.harness.Send(previewLoadedMsg{key: key, seq: seq + 1, err: errors.New("boom")})
	if pane := f.model().selectedPreview(); pane.Err != "boom" {
		t.Fatalf("expected other capture errors in the panel, got %q", pane.Err)
	}
}

func TestPreviewTickCapturesVisibleRows(t *testing.T) {
	f := newFixture(t, true, "a", "b", "c")
	f.harness.Send(previewTickMsg{})
	for _, name := range []string{"a", "b", "c"} {
		if !f.gw.called("capture " + name) {
			t.Fatalf("expected capture of %s, calls: %v", name, f.gw.calls)
		}
	}
	if len(f.harness.timers) == 0 {
		t.Fatalf("expected the next tick to be scheduled")
	}
}

func TestRefreshEvictsVanishedSessions(t *testing.T) {
	f := newFixture(t, true, "a", "b")
	f.harness.Send(previewTickMsg{})
	if f.model().previews.Len() != 2 {
		t.Fatalf("expected two cached captures, got %d", f.model().previews.Len())
	}
	f.gw.sessions = f.gw.sessions[:1]
	f.refresh()
	if f.model().previews.Len() != 1 {
		t.Fatalf("expected eviction of b, got %d entries", f.model().previews.Len())
	}
}

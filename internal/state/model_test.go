package state

import (
	"reflect"
	"testing"

	"github.com/atomicstack/tmx/internal/tmux"
)

func sessions(names ...string) []tmux.Session {
	out := make([]tmux.Session, len(names))
	for i, n := range names {
		out[i] = tmux.Session{Name: n, ID: "$" + n}
	}
	return out
}

func rowNames(m *Model) []string {
	rows := m.Rows()
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name()
	}
	return out
}

type mapTags map[string][]string

func (t mapTags) TagsFor(session string) []string {
	return t[session]
}

func selectName(t *testing.T, m *Model, name string) {
	t.Helper()
	m.First()
	for i := 0; i < m.Len(); i++ {
		if m.SelectedName() == name {
			return
		}
		m.MoveCursor(1)
	}
	t.Fatalf("%q is not visible in %v", name, rowNames(m))
}

func TestApplyKeepsSelectionOnSameName(t *testing.T) {
	m := New(nil, nil)
	m.Apply(sessions("a", "b", "c"))
	m.MoveCursor(1)
	if got := m.SelectedName(); got != "b" {
		t.Fatalf("expected b selected, got %q", got)
	}
	// b moves to the end of the list.
	m.Apply(sessions("a", "c", "d", "b"))
	if got := m.SelectedName(); got != "b" {
		t.Fatalf("expected selection to follow b, got %q", got)
	}
	if m.Cursor() != 3 {
		t.Fatalf("expected cursor 3, got %d", m.Cursor())
	}
}

func TestApplyClampsWhenSelectionVanishes(t *testing.T) {
	m := New(nil, nil)
	m.Apply(sessions("a", "b", "c"))
	m.Last()
	m.Apply(sessions("a", "b"))
	if got := m.SelectedName(); got != "b" {
		t.Fatalf("expected clamp to b, got %q", got)
	}
	m.Apply(nil)
	if _, ok := m.Selected(); ok {
		t.Fatalf("expected no selection on empty topology")
	}
	if m.Cursor() != 0 {
		t.Fatalf("expected cursor 0, got %d", m.Cursor())
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	m := New(nil, mapTags{"b": {"work"}})
	topo := sessions("a", "b", "c")
	m.Apply(topo)
	m.MoveCursor(1)
	m.ToggleExpanded()
	m.SetQuery("b")
	m.Apply(topo)
	first := m.Rows()
	cursor := m.Cursor()
	m.Apply(topo)
	if !reflect.DeepEqual(first, m.Rows()) || cursor != m.Cursor() {
		t.Fatalf("second apply changed state: %#v vs %#v", first, m.Rows())
	}
}

func TestExpansionSurvivesRefreshAndIsPruned(t *testing.T) {
	m := New(nil, nil)
	m.Apply(sessions("a", "b"))
	m.MoveCursor(1)
	if name, expanded, ok := m.ToggleExpanded(); !ok || !expanded || name != "b" {
		t.Fatalf("expected b expanded, got %q %v %v", name, expanded, ok)
	}
	m.Apply(sessions("b", "a"))
	if !m.Rows()[0].Expanded {
		t.Fatalf("expected b to stay expanded after reorder")
	}
	m.Apply(sessions("a"))
	if m.IsExpanded("b") {
		t.Fatalf("expected expansion of vanished b to be pruned")
	}
	m.Apply(sessions("a", "b"))
	if m.IsExpanded("b") {
		t.Fatalf("returning session must start collapsed")
	}
}

func TestQueryRanksAndResetsCursor(t *testing.T) {
	m := New(nil, nil)
	m.Apply(sessions("work", "personal", "wrk-2"))
	m.Last()
	m.SetQuery("wk")
	names := rowNames(m)
	if len(names) != 2 {
		t.Fatalf("expected two matches, got %v", names)
	}
	for _, n := range names {
		if n == "personal" {
			t.Fatalf("personal must not match wk")
		}
	}
	if m.Cursor() != 0 {
		t.Fatalf("expected cursor on best match, got %d", m.Cursor())
	}
	rows := m.Rows()
	if rows[0].Score < rows[1].Score {
		t.Fatalf("expected descending score, got %d then %d", rows[0].Score, rows[1].Score)
	}
	if len(rows[0].Highlights) != 2 {
		t.Fatalf("expected highlight positions, got %v", rows[0].Highlights)
	}

	m.SetQuery("")
	if got := rowNames(m); !reflect.DeepEqual(got, []string{"work", "personal", "wrk-2"}) {
		t.Fatalf("expected topology order for empty query, got %v", got)
	}
}

func TestRefreshKeepsSelectionUnderQuery(t *testing.T) {
	m := New(nil, nil)
	m.Apply(sessions("alpha", "alpine", "beta"))
	m.SetQuery("al")
	selectName(t, m, "alpine")
	m.Apply(sessions("beta", "alpine", "alpha", "altitude"))
	if got := m.SelectedName(); got != "alpine" {
		t.Fatalf("expected alpine to stay selected, got %q", got)
	}
}

func TestTagFilterCombinesWithQuery(t *testing.T) {
	tags := mapTags{"api": {"work"}, "web": {"work"}, "blog": {"home"}}
	m := New(nil, tags)
	m.Apply(sessions("api", "web", "blog"))
	m.SetTagFilter("work")
	if got := rowNames(m); !reflect.DeepEqual(got, []string{"api", "web"}) {
		t.Fatalf("expected work sessions, got %v", got)
	}
	m.SetQuery("we")
	if got := rowNames(m); !reflect.DeepEqual(got, []string{"web"}) {
		t.Fatalf("expected web only, got %v", got)
	}
	m.SetTagFilter("")
	m.SetQuery("")
	if m.Len() != 3 {
		t.Fatalf("expected all sessions after clearing filters, got %d", m.Len())
	}
}

func TestRefreshTagsPicksUpNewTags(t *testing.T) {
	tags := mapTags{}
	m := New(nil, tags)
	m.Apply(sessions("api"))
	if len(m.Rows()[0].Tags) != 0 {
		t.Fatalf("expected no tags")
	}
	tags["api"] = []string{"work"}
	m.RefreshTags()
	if got := m.Rows()[0].Tags; !reflect.DeepEqual(got, []string{"work"}) {
		t.Fatalf("expected work tag, got %v", got)
	}
}

func TestExpectSelectionFollowsCreatedSession(t *testing.T) {
	m := New(nil, nil)
	m.Apply(sessions("a", "b"))
	m.ExpectSelection("new")
	m.Apply(sessions("a", "b"))
	if got := m.SelectedName(); got != "a" {
		t.Fatalf("expected a until new appears, got %q", got)
	}
	m.Apply(sessions("a", "b", "new"))
	if got := m.SelectedName(); got != "new" {
		t.Fatalf("expected new selected, got %q", got)
	}
	m.First()
	m.Apply(sessions("a", "b", "new"))
	if got := m.SelectedName(); got != "a" {
		t.Fatalf("pending selection must apply once, got %q", got)
	}
}

func TestRenameIdentityCarriesState(t *testing.T) {
	m := New(nil, nil)
	m.Apply(sessions("a", "old"))
	m.MoveCursor(1)
	m.ToggleExpanded()
	m.RenameIdentity("old", "new")
	m.Apply(sessions("new", "a"))
	if got := m.SelectedName(); got != "new" {
		t.Fatalf("expected selection to follow rename, got %q", got)
	}
	if !m.IsExpanded("new") {
		t.Fatalf("expected expansion to follow rename")
	}
}

func TestRowsReturnsCopy(t *testing.T) {
	m := New(nil, nil)
	m.Apply(sessions("a"))
	rows := m.Rows()
	rows[0].Session.Name = "mutated"
	if m.Rows()[0].Name() != "a" {
		t.Fatalf("Rows must not alias model state")
	}
}

func TestCursorMovementClamps(t *testing.T) {
	m := New(nil, nil)
	m.Apply(sessions("a", "b", "c", "d", "e"))
	if m.MoveCursor(-1) {
		t.Fatalf("moving above the first row must be a no-op")
	}
	m.MoveCursor(10)
	if m.SelectedName() != "e" {
		t.Fatalf("expected clamp to last, got %q", m.SelectedName())
	}
	m.PageUp(2)
	if m.SelectedName() != "c" {
		t.Fatalf("expected page up to c, got %q", m.SelectedName())
	}
	m.First()
	m.PageDown(3)
	if m.SelectedName() != "d" {
		t.Fatalf("expected page down to d, got %q", m.SelectedName())
	}
}

func TestEnsureCursorVisibleScrolls(t *testing.T) {
	m := New(nil, nil)
	m.Apply(sessions("a", "b", "c", "d", "e"))
	m.Last()
	m.EnsureCursorVisible(2)
	if m.Offset() != 3 {
		t.Fatalf("expected offset 3, got %d", m.Offset())
	}
	m.First()
	m.EnsureCursorVisible(2)
	if m.Offset() != 0 {
		t.Fatalf("expected offset 0, got %d", m.Offset())
	}
}

// Package state holds the session model: the latest tmux topology plus the
// UI state keyed by session name (selection, expansion, tags, filter).
//
// Identity is the session name. Every refresh replaces the topology
// wholesale; reconciliation keeps the selection on the same name when it is
// still live and otherwise clamps the cursor to the nearest remaining row.
package state

import (
	"slices"

	"github.com/atomicstack/tmx/internal/fuzzy"
	"github.com/atomicstack/tmx/internal/logging/events"
	"github.com/atomicstack/tmx/internal/tmux"
)

// TagSource supplies tag associations for sessions.
type TagSource interface {
	TagsFor(session string) []string
}

// Row is one visible session with its derived presentation state.
type Row struct {
	Session    tmux.Session
	Tags       []string
	Expanded   bool
	Score      int64
	Highlights []int
}

// Name returns the session identity.
func (r Row) Name() string {
	return r.Session.Name
}

// Model is owned by the UI loop and is not safe for concurrent use.
type Model struct {
	matcher fuzzy.Matcher
	tags    TagSource

	topology   []tmux.Session
	tagsByName map[string][]string
	expanded   map[string]bool

	query     string
	tagFilter string

	rows     []Row
	cursor   int
	offset   int
	selected string
	pending  string
}

// New returns an empty model. A nil matcher uses fuzzy.Default.
func New(matcher fuzzy.Matcher, tags TagSource) *Model {
	if matcher == nil {
		matcher = fuzzy.Default
	}
	return &Model{
		matcher:    matcher,
		tags:       tags,
		tagsByName: map[string][]string{},
		expanded:   map[string]bool{},
	}
}

// Apply replaces the topology and reconciles UI state against it. Applying
// the same topology twice leaves the model unchanged.
func (m *Model) Apply(topology []tmux.Session) {
	m.topology = slices.Clone(topology)
	live := make(map[string]struct{}, len(m.topology))
	for _, s := range m.topology {
		live[s.Name] = struct{}{}
	}
	for name := range m.expanded {
		if _, ok := live[name]; !ok {
			delete(m.expanded, name)
		}
	}
	if m.pending != "" {
		if _, ok := live[m.pending]; ok {
			m.selected = m.pending
			m.pending = ""
		}
	}
	m.refreshTags()
	m.derive(false)
	events.Session.Reconcile(len(m.topology), m.selected)
}

// RefreshTags recomputes tag associations from the tag source.
func (m *Model) RefreshTags() {
	m.refreshTags()
	m.derive(false)
}

func (m *Model) refreshTags() {
	m.tagsByName = make(map[string][]string, len(m.topology))
	if m.tags == nil {
		return
	}
	for _, s := range m.topology {
		if tags := m.tags.TagsFor(s.Name); len(tags) > 0 {
			m.tagsByName[s.Name] = tags
		}
	}
}

// SetQuery updates the fuzzy query. The cursor moves to the best match.
func (m *Model) SetQuery(query string) bool {
	if query == m.query {
		return false
	}
	m.query = query
	m.derive(true)
	return true
}

// Query returns the active fuzzy query.
func (m *Model) Query() string {
	return m.query
}

// SetTagFilter restricts rows to sessions carrying tag. Empty clears it.
// The filter combines with the query.
func (m *Model) SetTagFilter(tag string) bool {
	if tag == m.tagFilter {
		return false
	}
	m.tagFilter = tag
	m.derive(true)
	return true
}

// TagFilter returns the active tag filter.
func (m *Model) TagFilter() string {
	return m.tagFilter
}

func (m *Model) derive(resetCursor bool) {
	candidates := make([]tmux.Session, 0, len(m.topology))
	for _, s := range m.topology {
		if m.tagFilter != "" && !slices.Contains(m.tagsByName[s.Name], m.tagFilter) {
			continue
		}
		candidates = append(candidates, s)
	}
	names := make([]string, len(candidates))
	for i, s := range candidates {
		names[i] = s.Name
	}
	ranked := fuzzy.Rank(m.matcher, m.query, names)
	rows := make([]Row, 0, len(ranked))
	for _, r := range ranked {
		s := candidates[r.Index]
		rows = append(rows, Row{
			Session:    s,
			Tags:       m.tagsByName[s.Name],
			Expanded:   m.expanded[s.Name],
			Score:      r.Match.Score,
			Highlights: r.Match.Positions,
		})
	}
	m.rows = rows
	m.reselect(resetCursor)
}

func (m *Model) reselect(resetCursor bool) {
	if len(m.rows) == 0 {
		m.cursor = 0
		m.offset = 0
		if resetCursor {
			m.selected = ""
		}
		return
	}
	if resetCursor {
		m.cursor = 0
	} else if idx := m.indexOf(m.selected); idx >= 0 {
		m.cursor = idx
	}
	m.cursor = clamp(m.cursor, 0, len(m.rows)-1)
	m.selected = m.rows[m.cursor].Name()
}

func (m *Model) indexOf(name string) int {
	if name == "" {
		return -1
	}
	for i, r := range m.rows {
		if r.Name() == name {
			return i
		}
	}
	return -1
}

// Rows returns a copy of the visible rows in display order.
func (m *Model) Rows() []Row {
	return slices.Clone(m.rows)
}

// Len returns the number of visible rows.
func (m *Model) Len() int {
	return len(m.rows)
}

// Cursor returns the index of the selected row.
func (m *Model) Cursor() int {
	return m.cursor
}

// Selected returns the selected row.
func (m *Model) Selected() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

// SelectedName returns the identity the selection is bound to.
func (m *Model) SelectedName() string {
	return m.selected
}

// ToggleExpanded flips expansion of the selected session.
func (m *Model) ToggleExpanded() (name string, expanded bool, ok bool) {
	row, ok := m.Selected()
	if !ok {
		return "", false, false
	}
	name = row.Name()
	if m.expanded[name] {
		delete(m.expanded, name)
	} else {
		m.expanded[name] = true
	}
	m.rows[m.cursor].Expanded = m.expanded[name]
	return name, m.expanded[name], true
}

// IsExpanded reports whether name is expanded.
func (m *Model) IsExpanded(name string) bool {
	return m.expanded[name]
}

// ExpectSelection makes the next refresh that contains name select it.
func (m *Model) ExpectSelection(name string) {
	m.pending = name
}

// RenameIdentity carries UI state from oldName to newName ahead of the
// refresh that will report the rename.
func (m *Model) RenameIdentity(oldName, newName string) {
	if oldName == newName || newName == "" {
		return
	}
	if m.expanded[oldName] {
		delete(m.expanded, oldName)
		m.expanded[newName] = true
	}
	if m.selected == oldName {
		m.pending = newName
	}
}

// LiveNames returns the names of every live session in topology order.
func (m *Model) LiveNames() []string {
	names := make([]string, len(m.topology))
	for i, s := range m.topology {
		names[i] = s.Name
	}
	return names
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

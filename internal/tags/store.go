// Package tags persists session tags and tag groups in a TOML file.
//
// The file holds two tables:
//
//	[tags]
//	work = ["api", "web"]
//
//	[groups]
//	dev = ["work"]
//
// Tags map to session names; groups map to tag names. Session names that no
// longer exist in tmux are kept as-is so a session that comes back under the
// same name picks its tags up again.
package tags

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/atomicstack/tmx/internal/logging/events"
)

const (
	appDir     = "tmx"
	configName = "config.toml"
	backupExt  = ".bak"
)

// ErrConfigParse is matched by every ParseError.
var ErrConfigParse = errors.New("config parse error")

// ErrUnsavedChanges is returned by Reload when the file changed on disk while
// local changes are still unsaved, usually because the last Save failed.
var ErrUnsavedChanges = errors.New("unsaved tag changes")

// ParseError reports a malformed config file. Backup names where the file was
// moved so the next save does not overwrite it.
type ParseError struct {
	Path   string
	Backup string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Backup != "" {
		return fmt.Sprintf("parse %s (moved to %s): %v", e.Path, e.Backup, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrConfigParse
}

type fileFormat struct {
	Tags   map[string][]string `toml:"tags"`
	Groups map[string][]string `toml:"groups"`
}

// Store is the in-memory tag state backed by a file. It is safe for
// concurrent use.
type Store struct {
	mu        sync.RWMutex
	path      string
	tags      map[string][]string
	groups    map[string][]string
	dirty     bool
	lastSaved []byte
}

// DefaultPath returns $XDG_CONFIG_HOME/tmx/config.toml, falling back to
// ~/.config/tmx/config.toml.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir, configName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return filepath.Join(home, ".config", appDir, configName), nil
}

// New returns an empty store bound to path.
func New(path string) *Store {
	return &Store{
		path:   path,
		tags:   map[string][]string{},
		groups: map[string][]string{},
	}
}

// Load reads path. A missing file yields an empty store. A malformed file
// yields an empty store and a *ParseError; the file is moved aside to
// path.bak first. The returned store is never nil.
func Load(path string) (*Store, error) {
	s := New(path)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		events.Tag.Load(path, 0, nil)
		return s, nil
	}
	if err != nil {
		events.Tag.Load(path, 0, err)
		return s, fmt.Errorf("read %s: %w", path, err)
	}
	parsed, err := decode(data)
	if err != nil {
		perr := &ParseError{Path: path, Err: err}
		backup := path + backupExt
		if rerr := os.Rename(path, backup); rerr == nil {
			perr.Backup = backup
		}
		events.Tag.Load(path, 0, perr)
		return s, perr
	}
	s.tags, s.groups = parsed.Tags, parsed.Groups
	s.lastSaved = data
	events.Tag.Load(path, len(s.tags), nil)
	return s, nil
}

// Reload re-reads the file after an external edit. Unsaved local changes
// win and the edit is reported as ErrUnsavedChanges until a Save succeeds.
// A malformed file leaves the current state untouched: it is moved to
// path.bak and the current state is written back in its place.
func (s *Store) Reload() (bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.path, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if bytes.Equal(data, s.lastSaved) {
		return false, nil
	}
	if s.dirty {
		return false, fmt.Errorf("reload %s: %w", s.path, ErrUnsavedChanges)
	}
	parsed, err := decode(data)
	if err != nil {
		perr := &ParseError{Path: s.path, Err: err}
		backup := s.path + backupExt
		if rerr := os.Rename(s.path, backup); rerr == nil {
			perr.Backup = backup
			serr := s.saveLocked()
			if serr != nil {
				s.dirty = true
			}
			events.Tag.Save(s.path, serr)
		}
		return false, perr
	}
	s.tags, s.groups = parsed.Tags, parsed.Groups
	s.lastSaved = data
	events.Tag.Reload(s.path)
	return true, nil
}

// Save writes the store atomically, creating the directory when needed.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.saveLocked()
	events.Tag.Save(s.path, err)
	return err
}

func (s *Store) saveLocked() error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(fileFormat{Tags: s.tags, Groups: s.groups}); err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, configName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp config: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace config: %w", err)
	}
	s.dirty = false
	s.lastSaved = buf.Bytes()
	return nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// AddTag associates tag with session. Duplicates are ignored; the return
// value reports whether anything changed.
func (s *Store) AddTag(session, tag string) bool {
	if session == "" || tag == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.tags[tag], session) {
		return false
	}
	s.tags[tag] = append(s.tags[tag], session)
	s.dirty = true
	events.Tag.Add(tag, session)
	return true
}

// RemoveTag drops session from tag, deleting the tag once it has no sessions.
func (s *Store) RemoveTag(session, tag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, ok := s.tags[tag]
	if !ok {
		return false
	}
	idx := slices.Index(sessions, session)
	if idx < 0 {
		return false
	}
	sessions = slices.Delete(slices.Clone(sessions), idx, idx+1)
	if len(sessions) == 0 {
		delete(s.tags, tag)
	} else {
		s.tags[tag] = sessions
	}
	s.dirty = true
	events.Tag.Remove(tag, session)
	return true
}

// TagsFor returns the sorted tags that reference session.
func (s *Store) TagsFor(session string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for tag, sessions := range s.tags {
		if slices.Contains(sessions, session) {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// SessionsWithTag returns the sessions referenced by tag in stored order,
// including names that are not currently live.
func (s *Store) SessionsWithTag(tag string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tags[tag])
}

// TagNames returns every tag name, sorted.
func (s *Store) TagNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tags))
	for tag := range s.tags {
		names = append(names, tag)
	}
	sort.Strings(names)
	return names
}

// RenameSession moves every tag reference from oldName to newName.
func (s *Store) RenameSession(oldName, newName string) bool {
	if oldName == newName || newName == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for tag, sessions := range s.tags {
		idx := slices.Index(sessions, oldName)
		if idx < 0 {
			continue
		}
		next := slices.Clone(sessions)
		if slices.Contains(next, newName) {
			next = slices.Delete(next, idx, idx+1)
		} else {
			next[idx] = newName
		}
		s.tags[tag] = next
		changed = true
	}
	if changed {
		s.dirty = true
		events.Tag.Migrate(oldName, newName)
	}
	return changed
}

// Groups returns a copy of the group table.
func (s *Store) Groups() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]string, len(s.groups))
	for name, tags := range s.groups {
		out[name] = slices.Clone(tags)
	}
	return out
}

func decode(data []byte) (fileFormat, error) {
	var parsed fileFormat
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return fileFormat{}, err
	}
	if parsed.Tags == nil {
		parsed.Tags = map[string][]string{}
	}
	if parsed.Groups == nil {
		parsed.Groups = map[string][]string{}
	}
	return parsed, nil
}

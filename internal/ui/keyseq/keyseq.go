// Package keyseq recognises multi-key sequences such as "g g" where the
// first key alone is ambiguous. A partial sequence is held for a bounded
// time; when it expires or the next key does not continue it, the partial
// input is dropped and the interrupting key is evaluated on its own.
package keyseq

import (
	"slices"
	"strings"
	"time"

	"github.com/atomicstack/tmx/internal/logging/events"
)

// DefaultTimeout bounds how long a partial sequence waits for its next key.
const DefaultTimeout = 500 * time.Millisecond

// Sequence names an ordered list of keys.
type Sequence struct {
	Name string
	Keys []string
}

// Kind classifies the result of feeding a key.
type Kind int

const (
	// Passthrough means the key is not part of any sequence and should be
	// handled normally.
	Passthrough Kind = iota
	// Pending means the key started or extended a sequence.
	Pending
	// Complete means a sequence finished; Outcome.Sequence names it.
	Complete
)

// Outcome is the result of Feed.
type Outcome struct {
	Kind     Kind
	Sequence string
}

// Sequencer is owned by the UI loop and is not safe for concurrent use.
type Sequencer struct {
	timeout   time.Duration
	sequences []Sequence
	buf       []string
	last      time.Time
}

// New returns a sequencer recognising sequences. A non-positive timeout uses
// DefaultTimeout.
func New(timeout time.Duration, sequences ...Sequence) *Sequencer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Sequencer{timeout: timeout, sequences: sequences}
}

// Timeout returns the pending-key window.
func (s *Sequencer) Timeout() time.Duration {
	return s.timeout
}

// Feed processes key received at now.
func (s *Sequencer) Feed(key string, now time.Time) Outcome {
	if len(s.buf) > 0 && now.Sub(s.last) >= s.timeout {
		events.Key.Expired(strings.Join(s.buf, " "))
		s.buf = nil
	}
	candidate := append(slices.Clone(s.buf), key)
	if name, ok := s.exact(candidate); ok {
		s.buf = nil
		events.Key.Sequence(name)
		return Outcome{Kind: Complete, Sequence: name}
	}
	if s.isPrefix(candidate) {
		s.buf = candidate
		s.last = now
		events.Key.Pending(key)
		return Outcome{Kind: Pending}
	}
	if len(s.buf) > 0 {
		s.buf = nil
		return s.Feed(key, now)
	}
	return Outcome{Kind: Passthrough}
}

// Expire drops a partial sequence whose window has elapsed at now.
func (s *Sequencer) Expire(now time.Time) bool {
	if len(s.buf) == 0 || now.Sub(s.last) < s.timeout {
		return false
	}
	events.Key.Expired(strings.Join(s.buf, " "))
	s.buf = nil
	return true
}

// Reset drops any partial sequence.
func (s *Sequencer) Reset() {
	s.buf = nil
}

// Pending returns the keys held so far.
func (s *Sequencer) Pending() []string {
	return slices.Clone(s.buf)
}

func (s *Sequencer) exact(keys []string) (string, bool) {
	for _, seq := range s.sequences {
		if slices.Equal(seq.Keys, keys) {
			return seq.Name, true
		}
	}
	return "", false
}

func (s *Sequencer) isPrefix(keys []string) bool {
	for _, seq := range s.sequences {
		if len(keys) < len(seq.Keys) && slices.Equal(seq.Keys[:len(keys)], keys) {
			return true
		}
	}
	return false
}

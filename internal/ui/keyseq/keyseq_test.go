package keyseq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	gg = Sequence{Name: "gg", Keys: []string{"g", "g"}}
	dd = Sequence{Name: "dd", Keys: []string{"d", "d"}}
)

func TestCompletesWithinTimeout(t *testing.T) {
	s := New(500*time.Millisecond, gg, dd)
	t0 := time.Unix(0, 0)
	assert.Equal(t, Outcome{Kind: Pending}, s.Feed("g", t0))
	assert.Equal(t, []string{"g"}, s.Pending())
	assert.Equal(t, Outcome{Kind: Complete, Sequence: "gg"}, s.Feed("g", t0.Add(100*time.Millisecond)))
	assert.Empty(t, s.Pending())
}

func TestTimeoutDiscardsPartialSequence(t *testing.T) {
	s := New(500*time.Millisecond, gg)
	t0 := time.Unix(0, 0)
	s.Feed("g", t0)
	// The second g arrives too late, so it starts a new sequence.
	assert.Equal(t, Outcome{Kind: Pending}, s.Feed("g", t0.Add(600*time.Millisecond)))
	assert.Equal(t, Outcome{Kind: Complete, Sequence: "gg"}, s.Feed("g", t0.Add(700*time.Millisecond)))
}

func TestInterruptingKeyIsProcessedFresh(t *testing.T) {
	s := New(0, gg, dd)
	t0 := time.Unix(0, 0)
	s.Feed("g", t0)
	assert.Equal(t, Outcome{Kind: Passthrough}, s.Feed("j", t0))
	assert.Empty(t, s.Pending())

	s.Feed("g", t0)
	assert.Equal(t, Outcome{Kind: Pending}, s.Feed("d", t0), "d starts its own sequence")
	assert.Equal(t, Outcome{Kind: Complete, Sequence: "dd"}, s.Feed("d", t0))
}

func TestExpire(t *testing.T) {
	s := New(500*time.Millisecond, dd)
	t0 := time.Unix(0, 0)
	assert.False(t, s.Expire(t0))
	s.Feed("d", t0)
	assert.False(t, s.Expire(t0.Add(499*time.Millisecond)))
	assert.True(t, s.Expire(t0.Add(500*time.Millisecond)))
	assert.Equal(t, Outcome{Kind: Passthrough}, s.Feed("x", t0.Add(time.Second)))
}

func TestUnrelatedKeysPassThrough(t *testing.T) {
	s := New(0, gg)
	assert.Equal(t, Outcome{Kind: Passthrough}, s.Feed("G", time.Now()))
	assert.Equal(t, DefaultTimeout, s.Timeout())
}

func TestReset(t *testing.T) {
	s := New(0, gg)
	s.Feed("g", time.Now())
	s.Reset()
	assert.Empty(t, s.Pending())
}

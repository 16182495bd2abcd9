// Package preview caches captured pane text keyed by session, window and
// pane. Captures are tagged with a monotonically increasing request number so
// a slow, older capture can never overwrite a newer one.
package preview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/tmx/internal/logging/events"
	"golang.org/x/time/rate"
)

// Key identifies a pane by position.
type Key struct {
	Session string
	Window  int
	Pane    int
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d.%d", k.Session, k.Window, k.Pane)
}

// Entry is the cached capture for a key. Err is set when the newest
// request for the key failed; Text then keeps the last good capture.
type Entry struct {
	Text     string
	Err      string
	Seq      uint64
	Captured time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	next    uint64
	entries map[Key]Entry
	now     func() time.Time
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: map[Key]Entry{}, now: time.Now}
}

// Begin issues the request number for a capture of key.
func (c *Cache) Begin(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	events.Preview.Request(key.String(), c.next)
	return c.next
}

// Store records text for key if seq is newer than what is cached. The
// return value reports whether the result was accepted.
func (c *Cache) Store(key Key, seq uint64, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok && existing.Seq >= seq {
		events.Preview.Stale(key.String(), seq)
		return false
	}
	c.entries[key] = Entry{Text: text, Seq: seq, Captured: c.now()}
	return true
}

// Fail records a failed capture for key if seq is newer than what is
// cached. Older failures are discarded like older results.
func (c *Cache) Fail(key Key, seq uint64, msg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.entries[key]
	if ok && existing.Seq >= seq {
		events.Preview.Stale(key.String(), seq)
		return false
	}
	existing.Err, existing.Seq = msg, seq
	c.entries[key] = existing
	return true
}

// Get returns the cached capture for key.
func (c *Cache) Get(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

// Retain evicts every entry whose session is not in live.
func (c *Cache) Retain(live []string) int {
	keep := make(map[string]struct{}, len(live))
	for _, name := range live {
		keep[name] = struct{}{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	evicted := 0
	for key := range c.entries {
		if _, ok := keep[key.Session]; !ok {
			delete(c.entries, key)
			evicted++
		}
	}
	if evicted > 0 {
		events.Preview.Evict(evicted)
	}
	return evicted
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Limiter bounds how often captures hit tmux.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter allows perSecond captures with the given burst. A non-positive
// rate disables limiting.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if perSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until a capture may run or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Allow reports whether a capture may run now without waiting.
func (l *Limiter) Allow() bool {
	if l == nil || l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}

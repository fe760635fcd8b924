// Package toast manages the lifecycle of transient user-facing messages:
// an insertion-ordered queue where each entry counts down independently
// and is removed on expiry or manual dismissal, whichever comes first.
package toast

import (
	"sync"
	"sync/atomic"
	"time"
)

// Option adjusts a notification before it is posted.
type Option func(*Notification)

// WithDuration overrides the kind's default auto-dismiss duration.
// Zero keeps the notification until it is dismissed manually.
func WithDuration(d time.Duration) Option {
	return func(n *Notification) {
		n.Duration = d
	}
}

// Center owns the notification queue. It is safe for concurrent use:
// the event loop and background refresher may post while the overlay
// reads. Presence of an entry is a pure function of elapsed time, so
// expiry and a racing manual dismissal both resolve to "gone" without
// ever double-removing or resurrecting an entry.
type Center struct {
	mu      sync.Mutex
	seq     atomic.Int64
	now     func() time.Time
	entries []Notification
}

// NewCenter returns an empty notification center on the wall clock.
func NewCenter() *Center {
	return &Center{now: time.Now}
}

// Post appends a notification to the tail of the queue and returns its
// ID. A negative duration is treated as zero (sticky).
func (c *Center) Post(message string, kind Kind, duration time.Duration) int64 {
	if duration < 0 {
		duration = 0
	}

	n := Notification{
		ID:        c.seq.Add(1),
		Message:   message,
		Kind:      kind,
		Duration:  duration,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	c.entries = append(c.entries, n)
	c.mu.Unlock()

	return n.ID
}

// Success posts a success notification with a 3s default duration.
func (c *Center) Success(message string, opts ...Option) int64 {
	return c.post(message, KindSuccess, DefaultSuccessDuration, opts)
}

// Error posts an error notification with a 5s default duration.
func (c *Center) Error(message string, opts ...Option) int64 {
	return c.post(message, KindError, DefaultErrorDuration, opts)
}

// Info posts an info notification with a 3s default duration.
func (c *Center) Info(message string, opts ...Option) int64 {
	return c.post(message, KindInfo, DefaultInfoDuration, opts)
}

// Warning posts a warning notification with a 4s default duration.
func (c *Center) Warning(message string, opts ...Option) int64 {
	return c.post(message, KindWarning, DefaultWarningDuration, opts)
}

// post applies options on top of the kind's default and delegates to Post.
func (c *Center) post(message string, kind Kind, defaultDuration time.Duration, opts []Option) int64 {
	n := Notification{Kind: kind, Duration: defaultDuration}
	for _, opt := range opts {
		opt(&n)
	}
	return c.Post(message, kind, n.Duration)
}

// Dismiss removes the notification with the given ID immediately.
// Dismissing an ID that is absent (expired, already dismissed, or never
// posted) is a no-op.
func (c *Center) Dismiss(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.entries {
		if n.ID == id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// DismissNewest removes the most recently posted live notification.
// It reports whether anything was removed.
func (c *Center) DismissNewest() bool {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(now)
	if len(c.entries) == 0 {
		return false
	}
	c.entries = c.entries[:len(c.entries)-1]
	return true
}

// Active prunes expired entries and returns a snapshot of the live
// queue in insertion order, oldest first.
func (c *Center) Active() []Notification {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(now)

	out := make([]Notification, len(c.entries))
	copy(out, c.entries)
	return out
}

// HasTimed reports whether any live notification still counts down.
// The overlay uses this to decide whether to keep ticking.
func (c *Center) HasTimed() bool {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(now)
	for _, n := range c.entries {
		if !n.Sticky() {
			return true
		}
	}
	return false
}

// Now returns the center's current clock reading. The overlay samples
// it so countdown rendering and pruning agree on one instant.
func (c *Center) Now() time.Time {
	return c.now()
}

// pruneLocked drops entries whose lifetime has elapsed. Caller holds mu.
func (c *Center) pruneLocked(now time.Time) {
	live := c.entries[:0]
	for _, n := range c.entries {
		if !n.expired(now) {
			live = append(live, n)
		}
	}
	c.entries = live
}

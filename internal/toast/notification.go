package toast

import "time"

// Kind classifies a notification for styling and default duration.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Default auto-dismiss durations per kind. A zero duration means the
// notification stays until manually dismissed.
const (
	DefaultSuccessDuration = 3 * time.Second
	DefaultErrorDuration   = 5 * time.Second
	DefaultInfoDuration    = 3 * time.Second
	DefaultWarningDuration = 4 * time.Second
)

// Notification is a transient user-facing message managed by a Center.
type Notification struct {
	// ID uniquely identifies this notification. IDs are monotonic, so
	// two notifications created in the same instant never collide.
	ID int64

	// Message is the display text.
	Message string

	// Kind classifies the notification.
	Kind Kind

	// Duration is how long the notification stays before auto-dismiss.
	// Zero means it persists until dismissed manually.
	Duration time.Duration

	// CreatedAt is when the notification was posted.
	CreatedAt time.Time
}

// Sticky reports whether the notification never auto-dismisses.
func (n Notification) Sticky() bool {
	return n.Duration <= 0
}

// ExpiresAt returns the instant the notification auto-dismisses.
// ok is false for sticky notifications.
func (n Notification) ExpiresAt() (expiry time.Time, ok bool) {
	if n.Sticky() {
		return time.Time{}, false
	}
	return n.CreatedAt.Add(n.Duration), true
}

// Remaining returns the time left before auto-dismiss at the given
// instant, clamped to zero. Sticky notifications report zero.
func (n Notification) Remaining(now time.Time) time.Duration {
	expiry, ok := n.ExpiresAt()
	if !ok {
		return 0
	}
	left := expiry.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Ratio returns the fraction of the notification's lifetime remaining
// at the given instant, decreasing from 1 to 0. Sticky notifications
// always report 1 so their progress bar renders full.
func (n Notification) Ratio(now time.Time) float64 {
	if n.Sticky() {
		return 1
	}
	r := float64(n.Remaining(now)) / float64(n.Duration)
	if r > 1 {
		return 1
	}
	return r
}

// expired reports whether the notification's lifetime has fully elapsed.
// A notification posted at T with duration D is live on [T, T+D).
func (n Notification) expired(now time.Time) bool {
	expiry, ok := n.ExpiresAt()
	if !ok {
		return false
	}
	return !now.Before(expiry)
}

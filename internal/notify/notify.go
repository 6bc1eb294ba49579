// Package notify implements the single transient notification ("toast") of the storefront.
//
// At most one notification is visible. Each [Notifier.Show] arms an expiry
// for that notification only; closing or replacing it makes the pending
// expiry stale, and a stale expiry is a no-op.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notification stays visible unless closed first.
const DefaultTTL = 5 * time.Second

// Kind is the notification severity.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notification is a transient user-facing message.
type Notification struct {
	ID      uint64
	Message string
	Kind    Kind
}

// Clock schedules expiries. [RealClock] uses the runtime timers.
type Clock interface {
	AfterFunc(d time.Duration, f func())
}

// RealClock is a [Clock] backed by [time.AfterFunc].
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// Notifier owns the visible notification.
type Notifier struct {
	mu       sync.Mutex
	clock    Clock
	ttl      time.Duration
	seq      uint64
	current  *Notification
	onChange func(*Notification)
}

// Options configures a [Notifier].
type Options struct {
	// Clock arms expiries. When nil the caller delivers [Notifier.Expire] itself
	// (the TUI does this with a tick message).
	Clock Clock
	// TTL defaults to [DefaultTTL].
	TTL time.Duration
	// OnChange is called, outside the lock, after the visible notification changes.
	OnChange func(*Notification)
}

// New creates a [Notifier].
func New(opts Options) *Notifier {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Notifier{clock: opts.Clock, ttl: opts.TTL, onChange: opts.OnChange}
}

// TTL returns the auto-dismiss window.
func (n *Notifier) TTL() time.Duration {
	return n.ttl
}

// Show replaces the visible notification and arms its expiry.
func (n *Notifier) Show(message string, kind Kind) Notification {
	n.mu.Lock()
	n.seq++
	note := Notification{ID: n.seq, Message: message, Kind: kind}
	n.current = &note
	n.mu.Unlock()

	if n.clock != nil {
		id := note.ID
		n.clock.AfterFunc(n.ttl, func() { n.Expire(id) })
	}
	n.changed()
	return note
}

// Close dismisses the visible notification. The pending expiry is left to fire as a no-op.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.current == nil {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.mu.Unlock()
	n.changed()
}

// Expire dismisses the notification with the given ID if it is still visible.
// It reports whether anything was dismissed.
func (n *Notifier) Expire(id uint64) bool {
	n.mu.Lock()
	if n.current == nil || n.current.ID != id {
		n.mu.Unlock()
		return false
	}
	n.current = nil
	n.mu.Unlock()
	n.changed()
	return true
}

// Current returns the visible notification.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

func (n *Notifier) changed() {
	if n.onChange == nil {
		return
	}
	n.mu.Lock()
	var cur *Notification
	if n.current != nil {
		c := *n.current
		cur = &c
	}
	n.mu.Unlock()
	n.onChange(cur)
}

package messaging

import "github.com/antikkorps/godaw/internal/ring"

// CommandRing carries Commands from a single producer thread (UI or MIDI)
// to the audio thread. Producers call TryPush; only the audio thread calls
// TryPop. A full ring is a Transient error the producer must report, never
// block on.
type CommandRing struct {
	buf *ring.Buffer[Command]
}

// NewCommandRing allocates a command ring with the given capacity, rounded
// up to the next power of two.
func NewCommandRing(capacity int) *CommandRing {
	return &CommandRing{buf: ring.NewBuffer[Command](capacity)}
}

// TryPush enqueues cmd, returning false if the ring is full.
func (r *CommandRing) TryPush(cmd Command) bool { return r.buf.TryPush(cmd) }

// TryPop dequeues the oldest command, if any.
func (r *CommandRing) TryPop() (Command, bool) { return r.buf.TryPop() }

// Len reports a racy snapshot of the queue depth (diagnostics only).
func (r *CommandRing) Len() int { return r.buf.Len() }

// NotificationRing carries Notifications from the audio thread (or other
// background producers) to the UI thread.
type NotificationRing struct {
	buf *ring.Buffer[Notification]
}

// NewNotificationRing allocates a notification ring with the given
// capacity.
func NewNotificationRing(capacity int) *NotificationRing {
	return &NotificationRing{buf: ring.NewBuffer[Notification](capacity)}
}

// TryPush enqueues n, returning false if the ring is full.
func (r *NotificationRing) TryPush(n Notification) bool { return r.buf.TryPush(n) }

// TryPop dequeues the oldest notification, if any.
func (r *NotificationRing) TryPop() (Notification, bool) { return r.buf.TryPop() }

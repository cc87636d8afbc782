// Package reconnect implements the MIDI input device-status state
// machine and its exponential-backoff reconnection strategy. The audio
// device is deliberately not monitored here — a documented limitation,
// not an oversight.
package reconnect

import (
	"math"
	"sync"
	"time"

	"github.com/antikkorps/godaw/pkg/messaging"
)

// Strategy computes backoff delays with a maximum attempt count; once
// NextDelay reports exhaustion, the Watcher falls back to the first
// available device.
type Strategy struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	MaxAttempt int

	attempt int
}

// NewStrategy returns a strategy starting at 250ms, capping at 30s,
// giving up after 8 attempts.
func NewStrategy() *Strategy {
	return &Strategy{BaseDelay: 250 * time.Millisecond, MaxDelay: 30 * time.Second, MaxAttempt: 8}
}

// NextDelay returns the delay before the next retry and whether
// attempts are exhausted. Each call advances the attempt counter.
func (s *Strategy) NextDelay() (delay time.Duration, exhausted bool) {
	if s.attempt >= s.MaxAttempt {
		return 0, true
	}
	backoff := float64(s.BaseDelay) * math.Pow(2, float64(s.attempt))
	s.attempt++
	d := time.Duration(backoff)
	if d > s.MaxDelay {
		d = s.MaxDelay
	}
	return d, false
}

// Reset zeroes the attempt counter, e.g. after a successful connection
// or when falling back to the first available device.
func (s *Strategy) Reset() { s.attempt = 0 }

// Watcher polls a MIDI device's connection status on an interval and
// drives reconnection attempts through Strategy, pushing Notifications
// on state changes.
type Watcher struct {
	PollInterval time.Duration

	status *messaging.AtomicDeviceStatus
	notify *messaging.NotificationRing
	dial   func(target string) error
	list   func() []string

	mu     sync.Mutex
	target string

	strategy *Strategy
	stop     chan struct{}
}

// NewWatcher creates a watcher against status, pushing reconnect
// outcomes onto notify. dial attempts to open the named device; list
// enumerates currently available device names (used for the
// first-available fallback once attempts are exhausted).
func NewWatcher(status *messaging.AtomicDeviceStatus, notify *messaging.NotificationRing, dial func(string) error, list func() []string) *Watcher {
	return &Watcher{
		PollInterval: 2 * time.Second,
		status:       status,
		notify:       notify,
		dial:         dial,
		list:         list,
		strategy:     NewStrategy(),
		stop:         make(chan struct{}),
	}
}

// SetTarget records which device name to prefer on reconnect.
func (w *Watcher) SetTarget(name string) {
	w.mu.Lock()
	w.target = name
	w.mu.Unlock()
}

// Run polls until Stop is called. Intended to run on its own goroutine.
func (w *Watcher) Run() {
	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

// Stop terminates Run. Safe to call once.
func (w *Watcher) Stop() { close(w.stop) }

func (w *Watcher) tick() {
	switch w.status.Load() {
	case messaging.DeviceDisconnected, messaging.DeviceError:
		w.attemptReconnect()
	}
}

func (w *Watcher) attemptReconnect() {
	w.mu.Lock()
	target := w.target
	w.mu.Unlock()

	delay, exhausted := w.strategy.NextDelay()
	if exhausted {
		w.fallbackToFirstAvailable()
		return
	}
	time.Sleep(delay)

	if target == "" {
		return
	}
	if err := w.dial(target); err != nil {
		w.status.Store(messaging.DeviceError)
		w.notify.TryPush(messaging.NewNotification(messaging.NotifyMidi, messaging.LevelWarning, "reconnect attempt failed: "+err.Error()))
		return
	}

	w.onConnected(target)
}

func (w *Watcher) fallbackToFirstAvailable() {
	devices := w.list()
	if len(devices) == 0 {
		w.strategy.Reset()
		return
	}
	first := devices[0]
	if err := w.dial(first); err != nil {
		w.strategy.Reset()
		return
	}
	w.SetTarget(first)
	w.onConnected(first)
}

func (w *Watcher) onConnected(name string) {
	w.strategy.Reset()
	w.status.Store(messaging.DeviceConnected)
	w.notify.TryPush(messaging.NewNotification(messaging.NotifyMidi, messaging.LevelInfo, "reconnected to "+name))
}

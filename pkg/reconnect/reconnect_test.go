package reconnect

import (
	"errors"
	"testing"
	"time"

	"github.com/antikkorps/godaw/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyBacksOffExponentiallyAndCaps(t *testing.T) {
	s := NewStrategy()
	s.BaseDelay = time.Millisecond
	s.MaxDelay = 10 * time.Millisecond
	s.MaxAttempt = 5

	prev := time.Duration(0)
	for i := 0; i < 3; i++ {
		d, exhausted := s.NextDelay()
		require.False(t, exhausted)
		assert.Greater(t, d, prev, "each successive delay should grow")
		prev = d
	}

	for i := 0; i < 2; i++ {
		d, _ := s.NextDelay()
		assert.LessOrEqual(t, d, s.MaxDelay)
	}

	_, exhausted := s.NextDelay()
	assert.True(t, exhausted, "strategy should report exhausted after MaxAttempt calls")
}

func TestStrategyResetClearsAttemptCount(t *testing.T) {
	s := NewStrategy()
	s.MaxAttempt = 2
	_, _ = s.NextDelay()
	_, _ = s.NextDelay()
	_, exhausted := s.NextDelay()
	require.True(t, exhausted)

	s.Reset()
	_, exhausted = s.NextDelay()
	assert.False(t, exhausted)
}

func TestWatcherFallsBackToFirstAvailableWhenExhausted(t *testing.T) {
	status := messaging.NewAtomicDeviceStatus()
	status.Store(messaging.DeviceError)
	notify := messaging.NewNotificationRing(8)

	var dialed string
	w := NewWatcher(status, notify, func(name string) error {
		dialed = name
		return nil
	}, func() []string {
		return []string{"fallback-device"}
	})
	w.strategy.BaseDelay = time.Millisecond
	w.strategy.MaxAttempt = 0 // already exhausted, go straight to fallback

	w.attemptReconnect()

	assert.Equal(t, "fallback-device", dialed)
	assert.Equal(t, messaging.DeviceConnected, status.Load())
}

func TestWatcherDialFailureSetsErrorStatus(t *testing.T) {
	status := messaging.NewAtomicDeviceStatus()
	status.Store(messaging.DeviceDisconnected)
	notify := messaging.NewNotificationRing(8)

	w := NewWatcher(status, notify, func(name string) error {
		return errors.New("device busy")
	}, func() []string { return nil })
	w.strategy.BaseDelay = time.Millisecond
	w.SetTarget("midi-in-1")

	w.attemptReconnect()

	assert.Equal(t, messaging.DeviceError, status.Load())
	n, ok := notify.TryPop()
	require.True(t, ok)
	assert.Equal(t, messaging.LevelWarning, n.Level)
}

func TestTickOnlyReconnectsWhenDisconnectedOrError(t *testing.T) {
	status := messaging.NewAtomicDeviceStatus()
	status.Store(messaging.DeviceConnected)
	notify := messaging.NewNotificationRing(8)

	called := false
	w := NewWatcher(status, notify, func(name string) error {
		called = true
		return nil
	}, func() []string { return nil })
	w.SetTarget("midi-in-1")

	w.tick()
	assert.False(t, called, "a connected device should not trigger a reconnect attempt")
}

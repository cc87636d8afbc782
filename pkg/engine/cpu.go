package engine

import "sync/atomic"

// CPUMeter accumulates callback time against available time across a
// sampled subset of callbacks, amortizing the cost of timing itself.
// Load() reports the ratio as a percentage.
type CPUMeter struct {
	sampleEvery   int
	callbackCount atomic.Uint64

	callbackNanos  atomic.Uint64
	availableNanos atomic.Uint64
}

// NewCPUMeter samples one in every sampleEvery callbacks.
func NewCPUMeter(sampleEvery int) *CPUMeter {
	if sampleEvery < 1 {
		sampleEvery = 1
	}
	return &CPUMeter{sampleEvery: sampleEvery}
}

// ShouldSample reports whether this callback should be timed, advancing
// the internal counter regardless.
func (m *CPUMeter) ShouldSample() bool {
	n := m.callbackCount.Add(1)
	return n%uint64(m.sampleEvery) == 0
}

// Record accumulates a sampled callback's elapsed/available time.
func (m *CPUMeter) Record(elapsedNanos, availableNanos uint64) {
	m.callbackNanos.Add(elapsedNanos)
	m.availableNanos.Add(availableNanos)
}

// Load returns the accumulated callback_time/available_time ratio as a
// percentage, or 0 if nothing has been sampled yet.
func (m *CPUMeter) Load() float64 {
	avail := m.availableNanos.Load()
	if avail == 0 {
		return 0
	}
	return float64(m.callbackNanos.Load()) / float64(avail) * 100.0
}

// Reset zeroes the accumulators.
func (m *CPUMeter) Reset() {
	m.callbackNanos.Store(0)
	m.availableNanos.Store(0)
}

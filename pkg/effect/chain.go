// Package effect implements the per-voice effect chain: an ordered list of
// bypassable effects, each able to report its processing latency and reset
// its internal state.
package effect

// Effect is a single bypassable mono audio effect.
type Effect interface {
	// Process runs one sample through the effect.
	Process(in float64) float64
	// Reset clears any internal delay lines/filter state.
	Reset()
	// LatencySamples reports the effect's processing latency, used to
	// compute the chain's total reported latency while it is enabled.
	LatencySamples() int
	// Name identifies the effect for diagnostics.
	Name() string
}

// Slot pairs an Effect with its bypass flag.
type Slot struct {
	Effect  Effect
	Enabled bool
}

// Chain is an ordered list of bypassable effects. Processing through a
// disabled effect leaves the signal unchanged, so the chain's output with
// every slot disabled equals its input exactly.
type Chain struct {
	slots []*Slot
}

// NewChain creates an empty effect chain.
func NewChain() *Chain {
	return &Chain{}
}

// Add appends an effect to the chain, enabled by default.
func (c *Chain) Add(e Effect) *Slot {
	slot := &Slot{Effect: e, Enabled: true}
	c.slots = append(c.slots, slot)
	return slot
}

// Slots returns the chain's slots in processing order.
func (c *Chain) Slots() []*Slot {
	return c.slots
}

// SetEnabled toggles bypass for the slot at index, if it exists.
func (c *Chain) SetEnabled(index int, enabled bool) {
	if index < 0 || index >= len(c.slots) {
		return
	}
	c.slots[index].Enabled = enabled
}

// Process runs in through every enabled effect in order; disabled slots
// pass their input straight through.
func (c *Chain) Process(in float64) float64 {
	out := in
	for _, slot := range c.slots {
		if slot.Enabled {
			out = slot.Effect.Process(out)
		}
	}
	return out
}

// Reset clears every effect's internal state, including disabled ones.
func (c *Chain) Reset() {
	for _, slot := range c.slots {
		slot.Effect.Reset()
	}
}

// TotalLatencySamples sums the latency of every enabled effect.
func (c *Chain) TotalLatencySamples() int {
	total := 0
	for _, slot := range c.slots {
		if slot.Enabled {
			total += slot.Effect.LatencySamples()
		}
	}
	return total
}

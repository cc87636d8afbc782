package effect_test

import (
	"testing"

	"github.com/antikkorps/godaw/pkg/effect"
	"github.com/stretchr/testify/assert"
)

// passthroughGain is a trivial Effect used to test Chain wiring without
// depending on dsp's actual delay/reverb math.
type passthroughGain struct{ gain float64 }

func (g *passthroughGain) Process(in float64) float64 { return in * g.gain }
func (g *passthroughGain) Reset()                      {}
func (g *passthroughGain) LatencySamples() int         { return 3 }
func (g *passthroughGain) Name() string                { return "gain" }

func TestChainDisabledSlotPassesThroughUnchanged(t *testing.T) {
	c := effect.NewChain()
	slot := c.Add(&passthroughGain{gain: 2.0})
	slot.Enabled = false

	assert.Equal(t, 1.0, c.Process(1.0))
}

func TestChainEnabledSlotAppliesEffect(t *testing.T) {
	c := effect.NewChain()
	c.Add(&passthroughGain{gain: 2.0})

	assert.Equal(t, 2.0, c.Process(1.0))
}

func TestChainProcessesInOrder(t *testing.T) {
	c := effect.NewChain()
	c.Add(&passthroughGain{gain: 2.0})
	c.Add(&passthroughGain{gain: 3.0})

	assert.Equal(t, 6.0, c.Process(1.0))
}

func TestChainTotalLatencyCountsOnlyEnabledSlots(t *testing.T) {
	c := effect.NewChain()
	c.Add(&passthroughGain{gain: 1.0})
	slot2 := c.Add(&passthroughGain{gain: 1.0})
	slot2.Enabled = false

	assert.Equal(t, 3, c.TotalLatencySamples())
}

func TestSetEnabledOutOfRangeIsNoop(t *testing.T) {
	c := effect.NewChain()
	c.Add(&passthroughGain{gain: 1.0})
	c.SetEnabled(5, false) // should not panic
	assert.Len(t, c.Slots(), 1)
}

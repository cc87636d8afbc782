package dawstate_test

import (
	"testing"

	"github.com/antikkorps/godaw/pkg/dawstate"
	"github.com/antikkorps/godaw/pkg/dsp"
	"github.com/antikkorps/godaw/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDawStateHasSaneDefaults(t *testing.T) {
	state := dawstate.New(messaging.NewCommandRing(8))
	assert.Equal(t, 0.5, state.Value.Volume)
	assert.Equal(t, dsp.WaveformSine, state.Value.Waveform)
}

func TestPushDeliversCommandToRing(t *testing.T) {
	ring := messaging.NewCommandRing(8)
	state := dawstate.New(ring)

	require.NoError(t, state.Push(messaging.SetVolumeCommand(0.9)))

	cmd, ok := ring.TryPop()
	require.True(t, ok)
	assert.Equal(t, messaging.CmdSetVolume, cmd.Kind)
	assert.Equal(t, 0.9, cmd.Float)
}

func TestPushReturnsErrRingFullWhenRingSaturated(t *testing.T) {
	ring := messaging.NewCommandRing(1)
	state := dawstate.New(ring)

	require.NoError(t, state.Push(messaging.SetVolumeCommand(0.1)))
	err := state.Push(messaging.SetVolumeCommand(0.2))
	assert.ErrorIs(t, err, dawstate.ErrRingFull)
}

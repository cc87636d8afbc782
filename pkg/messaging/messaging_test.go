package messaging_test

import (
	"testing"

	"github.com/antikkorps/godaw/pkg/dsp"
	"github.com/antikkorps/godaw/pkg/messaging"
	"github.com/stretchr/testify/assert"
)

func TestSetVolumeCommandCarriesKindAndFloat(t *testing.T) {
	cmd := messaging.SetVolumeCommand(0.75)
	assert.Equal(t, messaging.CmdSetVolume, cmd.Kind)
	assert.Equal(t, 0.75, cmd.Float)
}

func TestSetLfoCommandSelectsSlotByKind(t *testing.T) {
	lfo1 := messaging.SetLfoCommand(0, dsp.LfoParams{})
	assert.Equal(t, messaging.CmdSetLfo1, lfo1.Kind)

	lfo2 := messaging.SetLfoCommand(1, dsp.LfoParams{})
	assert.Equal(t, messaging.CmdSetLfo2, lfo2.Kind)
}

func TestSetTimeSignatureCommandPacksNumeratorAndDenominator(t *testing.T) {
	cmd := messaging.SetTimeSignatureCommand(3, 4)
	assert.Equal(t, messaging.CmdSetTimeSignature, cmd.Kind)
	assert.Equal(t, 3, cmd.Int)
	assert.Equal(t, uint32(4), cmd.Uint)
}

func TestSetTransportPositionCommandCarriesSamples(t *testing.T) {
	cmd := messaging.SetTransportPositionCommand(123456)
	assert.Equal(t, messaging.CmdSetTransportPosition, cmd.Kind)
	assert.Equal(t, uint64(123456), cmd.Uint64)
}

func TestQuitCommandHasNoPayload(t *testing.T) {
	cmd := messaging.QuitCommand()
	assert.Equal(t, messaging.CmdQuit, cmd.Kind)
}

func TestNoteOnConstructsEventWithVelocity(t *testing.T) {
	ev := messaging.NoteOn(60, 100)
	assert.Equal(t, messaging.MidiNoteOn, ev.Kind)
	assert.Equal(t, uint8(60), ev.Note)
	assert.Equal(t, uint8(100), ev.Velocity)
}

func TestNoteOffConstructsEventWithoutVelocity(t *testing.T) {
	ev := messaging.NoteOff(60)
	assert.Equal(t, messaging.MidiNoteOff, ev.Kind)
	assert.Equal(t, uint8(60), ev.Note)
}

func TestPolyAftertouchCarriesNoteAndValue(t *testing.T) {
	ev := messaging.PolyAftertouch(67, 0.5)
	assert.Equal(t, messaging.MidiPolyAftertouch, ev.Kind)
	assert.Equal(t, uint8(67), ev.Note)
	assert.Equal(t, 0.5, ev.Value)
}

func TestMicrosToSamplesRoundsToNearest(t *testing.T) {
	// 1000 microseconds at 44100Hz is 44.1 samples, rounds to 44.
	assert.Equal(t, uint32(44), messaging.MicrosToSamples(1000, 44100))
}

func TestMicrosToSamplesClampsNegative(t *testing.T) {
	assert.Equal(t, uint32(0), messaging.MicrosToSamples(-500, 44100))
}

func TestNewNotificationCarriesFields(t *testing.T) {
	n := messaging.NewNotification(messaging.NotifyPlugin, messaging.LevelWarning, "scan failed")
	assert.Equal(t, messaging.NotifyPlugin, n.Category)
	assert.Equal(t, messaging.LevelWarning, n.Level)
	assert.Equal(t, "scan failed", n.Message)
}

func TestAtomicF32RoundTrips(t *testing.T) {
	a := messaging.NewAtomicF32(0.25)
	assert.Equal(t, float32(0.25), a.Load())
	a.Store(0.9)
	assert.Equal(t, float32(0.9), a.Load())
}

func TestAtomicDeviceStatusDefaultsToDisconnected(t *testing.T) {
	a := messaging.NewAtomicDeviceStatus()
	assert.Equal(t, messaging.DeviceDisconnected, a.Load())
	a.Store(messaging.DeviceConnected)
	assert.Equal(t, messaging.DeviceConnected, a.Load())
	assert.Equal(t, "connected", a.Load().String())
}

func TestAtomicSamplePositionAddReturnsNewValue(t *testing.T) {
	a := &messaging.AtomicSamplePosition{}
	assert.Equal(t, uint64(100), a.Add(100))
	assert.Equal(t, uint64(150), a.Add(50))
	assert.Equal(t, uint64(150), a.Load())
}

package voice_test

import (
	"testing"

	"github.com/antikkorps/godaw/pkg/dsp"
	"github.com/antikkorps/godaw/pkg/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteOnAllocatesDistinctVoicesInPoly(t *testing.T) {
	m := voice.NewManager(44100)
	v1 := m.NoteOn(60, 1.0, 0)
	v2 := m.NoteOn(64, 1.0, 0)
	require.NotNil(t, v1)
	require.NotNil(t, v2)
	assert.NotSame(t, v1, v2)
	assert.Equal(t, 2, m.ActiveCount())
}

func TestNoteOffDeactivatesMatchingVoiceAfterRelease(t *testing.T) {
	m := voice.NewManager(44100)
	m.ApplyADSR(dsp.ADSRParams{Attack: 0.001, Decay: 0.001, Sustain: 0.5, Release: 0.001})
	m.NoteOn(60, 1.0, 0)
	m.NoteOff(60)

	// Drain the release tail so the voice settles back to idle.
	for i := 0; i < 10000; i++ {
		m.NextSample()
	}
	assert.Equal(t, 0, m.ActiveCount())
}

func TestPolyVoiceStealingPrefersOldestReleasing(t *testing.T) {
	m := voice.NewManager(44100)
	for i := 0; i < voice.MaxVoices; i++ {
		m.NoteOn(uint8(60+i), 1.0, 0)
	}
	assert.Equal(t, voice.MaxVoices, m.ActiveCount())

	// Release the very first voice allocated; a new NoteOn beyond
	// capacity should steal a voice rather than silently dropping.
	m.NoteOff(60)
	stolen := m.NoteOn(100, 1.0, 0)
	require.NotNil(t, stolen)
	assert.Equal(t, 0, stolen.Index(), "the released voice in slot 0 is the one stolen")
	assert.Equal(t, voice.MaxVoices, m.ActiveCount(), "stealing keeps total active voices at the polyphony limit")
}

func TestMonoModeKeepsAtMostOneActiveVoice(t *testing.T) {
	m := voice.NewManager(44100)
	m.PolyMode = voice.PolyModeMono

	m.NoteOn(60, 1.0, 0)
	m.NoteOn(64, 1.0, 0)
	assert.Equal(t, 1, m.ActiveCount(), "mono mode retriggers the single voice rather than allocating a second")
}

func TestPanicSilencesAllVoicesImmediately(t *testing.T) {
	m := voice.NewManager(44100)
	m.NoteOn(60, 1.0, 0)
	m.NoteOn(64, 1.0, 0)
	m.Panic()
	assert.Equal(t, 0, m.ActiveCount())
}

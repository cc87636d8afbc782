package sequencer_test

import (
	"testing"

	"github.com/antikkorps/godaw/pkg/sequencer"
	"github.com/antikkorps/godaw/pkg/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRate = 44100.0

func onePatternBarNote(t *testing.T, pitch uint8, startSamples, durationSamples uint64) (sequencer.Pattern, timeline.Tempo, timeline.TimeSignature) {
	t.Helper()
	tempo := timeline.DefaultTempo()
	sig := timeline.FourFour()
	p, err := sequencer.NewPattern(1, "t", 1)
	require.NoError(t, err)
	start := timeline.PositionFromSamples(startSamples, sampleRate, tempo, sig)
	p.AddNote(sequencer.NewNote(sequencer.GenerateNoteID(), pitch, start, durationSamples, 100))
	return p, tempo, sig
}

func TestPlayerEmitsNoteOnAndOffWithinBuffer(t *testing.T) {
	pattern, tempo, sig := onePatternBarNote(t, 60, 10, 100)
	player := sequencer.NewPlayer()

	events := player.Process(&pattern, 0, true, tempo, sig, sampleRate, 256)
	require.Len(t, events, 2)
	assert.Equal(t, sequencer.EventNoteOn, events[0].Kind)
	assert.Equal(t, uint32(10), events[0].SamplesFromNow)
	assert.Equal(t, sequencer.EventNoteOff, events[1].Kind)
	assert.Equal(t, uint32(110), events[1].SamplesFromNow)
}

func TestPlayerStopFlushesPendingNoteOff(t *testing.T) {
	// Note starts at sample 10 but its duration runs well past this
	// buffer's end, so the NoteOn fires but not the NoteOff.
	pattern, tempo, sig := onePatternBarNote(t, 60, 10, 100_000)
	player := sequencer.NewPlayer()

	events := player.Process(&pattern, 0, true, tempo, sig, sampleRate, 256)
	require.Len(t, events, 1)
	assert.Equal(t, sequencer.EventNoteOn, events[0].Kind)

	flushed := player.Process(&pattern, 256, false, tempo, sig, sampleRate, 256)
	require.Len(t, flushed, 1, "stopping playback mid-note must flush its pending NoteOff")
	assert.Equal(t, sequencer.EventNoteOff, flushed[0].Kind)
	assert.Equal(t, uint8(60), flushed[0].Pitch)
}

func TestPlayerLoopsAcrossPatternBoundary(t *testing.T) {
	tempo := timeline.DefaultTempo()
	sig := timeline.FourFour()
	p, err := sequencer.NewPattern(1, "loop", 1)
	require.NoError(t, err)
	length := p.LengthSamples(sampleRate, tempo, sig)

	// Note placed 5 samples before the loop boundary.
	start := timeline.PositionFromSamples(length-5, sampleRate, tempo, sig)
	p.AddNote(sequencer.NewNote(sequencer.GenerateNoteID(), 64, start, 2, 100))

	player := sequencer.NewPlayer()
	events := player.Process(&p, length-10, true, tempo, sig, sampleRate, 20)
	require.NotEmpty(t, events, "a note inside a buffer straddling the loop wraparound must still fire")
}

func TestPlayerResetClearsPendingNotes(t *testing.T) {
	pattern, tempo, sig := onePatternBarNote(t, 60, 0, 100_000)
	player := sequencer.NewPlayer()

	_ = player.Process(&pattern, 0, true, tempo, sig, sampleRate, 64)
	player.Reset()

	flushed := player.Process(&pattern, 64, false, tempo, sig, sampleRate, 64)
	assert.Empty(t, flushed, "Reset should drop pending NoteOn tracking entirely")
}

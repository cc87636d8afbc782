package sequencer_test

import (
	"testing"

	"github.com/antikkorps/godaw/pkg/sequencer"
	"github.com/antikkorps/godaw/pkg/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const patternSampleRate = 44100.0

func posAt(samples uint64) timeline.Position {
	return timeline.PositionFromSamples(samples, patternSampleRate, timeline.DefaultTempo(), timeline.FourFour())
}

func TestNewPatternRejectsZeroLength(t *testing.T) {
	_, err := sequencer.NewPattern(1, "empty", 0)
	assert.Error(t, err)
}

func TestNewDefaultPatternIsFourBars(t *testing.T) {
	p := sequencer.NewDefaultPattern(1, "demo")
	assert.Equal(t, uint32(4), p.LengthBars)
	assert.True(t, p.IsEmpty())
}

func TestAddNoteKeepsNotesSortedByStart(t *testing.T) {
	p := sequencer.NewDefaultPattern(1, "demo")
	p.AddNote(sequencer.NewNote(sequencer.GenerateNoteID(), 64, posAt(2000), 100, 100))
	p.AddNote(sequencer.NewNote(sequencer.GenerateNoteID(), 60, posAt(1000), 100, 100))
	p.AddNote(sequencer.NewNote(sequencer.GenerateNoteID(), 67, posAt(3000), 100, 100))

	notes := p.Notes()
	require.Len(t, notes, 3)
	assert.Equal(t, uint8(60), notes[0].Pitch)
	assert.Equal(t, uint8(64), notes[1].Pitch)
	assert.Equal(t, uint8(67), notes[2].Pitch)
}

func TestRemoveNoteDeletesMatchingID(t *testing.T) {
	p := sequencer.NewDefaultPattern(1, "demo")
	id := sequencer.GenerateNoteID()
	p.AddNote(sequencer.NewNote(id, 60, posAt(0), 100, 100))

	removed, ok := p.RemoveNote(id)
	require.True(t, ok)
	assert.Equal(t, uint8(60), removed.Pitch)
	assert.Equal(t, 0, p.NoteCount())

	_, ok = p.RemoveNote(id)
	assert.False(t, ok, "removing an already-removed id should report not found")
}

func TestGetNoteFindsByID(t *testing.T) {
	p := sequencer.NewDefaultPattern(1, "demo")
	id := sequencer.GenerateNoteID()
	p.AddNote(sequencer.NewNote(id, 72, posAt(0), 100, 100))

	found, ok := p.GetNote(id)
	require.True(t, ok)
	assert.Equal(t, uint8(72), found.Pitch)
}

func TestNotesAtSampleReturnsOverlappingNotes(t *testing.T) {
	p := sequencer.NewDefaultPattern(1, "demo")
	p.AddNote(sequencer.NewNote(sequencer.GenerateNoteID(), 60, posAt(1000), 500, 100))

	assert.Len(t, p.NotesAtSample(1200), 1)
	assert.Len(t, p.NotesAtSample(999), 0)
	assert.Len(t, p.NotesAtSample(1500), 0, "end sample is exclusive")
}

func TestNotesInRangeReturnsOverlapsOnly(t *testing.T) {
	p := sequencer.NewDefaultPattern(1, "demo")
	p.AddNote(sequencer.NewNote(sequencer.GenerateNoteID(), 60, posAt(1000), 500, 100))  // [1000,1500)
	p.AddNote(sequencer.NewNote(sequencer.GenerateNoteID(), 64, posAt(5000), 500, 100))  // [5000,5500)

	inRange := p.NotesInRange(900, 1600)
	assert.Len(t, inRange, 1)
	assert.Equal(t, uint8(60), inRange[0].Pitch)
}

func TestLengthSamplesScalesWithBarsAndTempo(t *testing.T) {
	p := sequencer.NewDefaultPattern(1, "demo")
	tempo := timeline.DefaultTempo()
	sig := timeline.FourFour()

	length := p.LengthSamples(patternSampleRate, tempo, sig)
	barDuration := tempo.BarDurationSamples(patternSampleRate, sig)
	assert.Equal(t, uint64(barDuration*4), length)
}

func TestClearRemovesAllNotes(t *testing.T) {
	p := sequencer.NewDefaultPattern(1, "demo")
	p.AddNote(sequencer.NewNote(sequencer.GenerateNoteID(), 60, posAt(0), 100, 100))
	p.Clear()
	assert.True(t, p.IsEmpty())
	assert.Equal(t, 0, p.NoteCount())
}

func TestQuantizeAllSnapsStartsAndKeepsNotesSorted(t *testing.T) {
	p := sequencer.NewDefaultPattern(1, "demo")
	tempo := timeline.DefaultTempo()
	sig := timeline.FourFour()
	beatSamples := uint64(tempo.BeatDurationSamples(patternSampleRate))

	// Slightly off sixteenth-note boundaries.
	p.AddNote(sequencer.NewNote(sequencer.GenerateNoteID(), 64, posAt(beatSamples/4+5), 100, 100))
	p.AddNote(sequencer.NewNote(sequencer.GenerateNoteID(), 60, posAt(5), 100, 100))

	p.QuantizeAll(4, patternSampleRate, tempo, sig)

	notes := p.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, uint8(60), notes[0].Pitch, "notes must remain sorted by start sample after quantizing")
	assert.LessOrEqual(t, notes[0].Start.Samples, notes[1].Start.Samples)
}

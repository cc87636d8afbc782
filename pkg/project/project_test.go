package project_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/antikkorps/godaw/pkg/dawstate"
	"github.com/antikkorps/godaw/pkg/messaging"
	"github.com/antikkorps/godaw/pkg/project"
	"github.com/antikkorps/godaw/pkg/sequencer"
	"github.com/antikkorps/godaw/pkg/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigratesV1_0DocumentToCurrentVersion(t *testing.T) {
	raw := `{
		"header": {"name": "old song", "version": 1},
		"sample_rate": 44100,
		"tempo_bpm": 120,
		"numerator": 4,
		"denominator": 4
	}`

	doc, err := project.Load(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, project.CurrentVersion, doc.Header.Version)
	assert.True(t, doc.Metronome.Enabled, "v1.0→v1.1 migration enables the metronome by default")
	assert.Equal(t, 0.5, doc.Metronome.Volume)
	assert.False(t, doc.Loop.Enabled, "v1.1→v1.2 migration adds loop disabled by default")
	assert.Equal(t, uint32(1), doc.Loop.StartBar)
	assert.Equal(t, uint32(8), doc.Loop.EndBar)
}

func TestLoadMigratesV1_1DocumentOnlyThroughRemainingSteps(t *testing.T) {
	raw := `{
		"header": {"name": "song", "version": 2},
		"sample_rate": 44100,
		"tempo_bpm": 140,
		"numerator": 3,
		"denominator": 4,
		"metronome": {"enabled": false, "volume": 0.1}
	}`

	doc, err := project.Load(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, project.CurrentVersion, doc.Header.Version)
	assert.False(t, doc.Metronome.Enabled, "a v1.1 document's explicit metronome choice must not be overwritten by the v1.0 default")
	assert.Equal(t, 0.1, doc.Metronome.Volume)
	assert.Equal(t, uint32(1), doc.Loop.StartBar)
}

func TestLoadRejectsVersionNewerThanCurrent(t *testing.T) {
	raw := `{"header": {"name": "future", "version": 99}}`
	_, err := project.Load(strings.NewReader(raw))
	assert.ErrorIs(t, err, project.ErrVersionTooNew)
}

func TestSaveLoadRoundTripsCurrentVersionDocument(t *testing.T) {
	doc := project.NewDocument("roundtrip", 48000)
	doc.TempoBPM = 128
	doc.Patterns = []project.PatternDoc{{ID: 1, Name: "verse", LengthBars: 4}}

	var buf bytes.Buffer
	require.NoError(t, project.Save(&buf, doc))

	loaded, err := project.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.Header.Name, loaded.Header.Name)
	assert.Equal(t, doc.TempoBPM, loaded.TempoBPM)
	assert.Equal(t, project.CurrentVersion, loaded.Header.Version)
}

func TestFromStateAndToStateRoundTripSynthAndPattern(t *testing.T) {
	state := dawstate.New(messaging.NewCommandRing(8)).Value
	state.Volume = 0.8
	start := timeline.PositionFromSamples(0, 44100, state.Tempo, state.TimeSignature)
	state.Pattern.AddNote(sequencer.NewNote(sequencer.GenerateNoteID(), 60, start, 22050, 100))

	doc := project.FromState("demo", 44100, state, nil, nil)
	restored, err := doc.ToState(44100)
	require.NoError(t, err)

	assert.Equal(t, 0.8, restored.Volume)
	assert.Equal(t, state.Tempo.BPM(), restored.Tempo.BPM())
	require.Len(t, restored.Pattern.Notes(), 1)
	assert.Equal(t, uint8(60), restored.Pattern.Notes()[0].Pitch)
}

package sequencer_test

import (
	"testing"

	"github.com/antikkorps/godaw/pkg/sequencer"
	"github.com/antikkorps/godaw/pkg/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetronomeTriggerClickProducesNonZeroSamples(t *testing.T) {
	m := sequencer.NewMetronome(44100)
	m.TriggerClick(sequencer.ClickAccent)

	var sawNonZero bool
	for i := 0; i < 500; i++ {
		if m.ProcessSample() != 0 {
			sawNonZero = true
			break
		}
	}
	assert.True(t, sawNonZero, "a triggered click should produce audible samples")
}

func TestMetronomeDisableClearsInFlightClick(t *testing.T) {
	m := sequencer.NewMetronome(44100)
	m.TriggerClick(sequencer.ClickRegular)
	m.SetEnabled(false)
	assert.Equal(t, 0.0, m.ProcessSample())
}

func TestMetronomeVolumeClamped(t *testing.T) {
	m := sequencer.NewMetronome(44100)
	m.SetVolume(2.0)
	assert.Equal(t, 1.0, m.Volume)
	m.SetVolume(-1.0)
	assert.Equal(t, 0.0, m.Volume)
}

func TestMetronomeClickEventuallyStops(t *testing.T) {
	m := sequencer.NewMetronome(44100)
	m.TriggerClick(sequencer.ClickAccent)
	for i := 0; i < 100000; i++ {
		m.ProcessSample()
	}
	assert.Equal(t, 0.0, m.ProcessSample(), "click buffer is short; it should finish well before 100k samples")
}

func TestSchedulerFiresOncePerBeatBoundary(t *testing.T) {
	s := sequencer.NewScheduler()
	tempo := timeline.DefaultTempo()
	sig := timeline.FourFour()
	beatSamples := tempo.BeatDurationSamples(44100)

	_, _, found := s.CheckForClick(0, int(beatSamples)+10, 44100, tempo, sig)
	require.True(t, found, "a buffer spanning a full beat should report a click")

	_, _, foundAgain := s.CheckForClick(uint64(beatSamples)+10, 50, 44100, tempo, sig)
	assert.False(t, foundAgain, "the same beat boundary should not fire twice")
}

func TestSchedulerAccentsDownbeat(t *testing.T) {
	s := sequencer.NewScheduler()
	tempo := timeline.DefaultTempo()
	sig := timeline.FourFour()
	beatSamples := tempo.BeatDurationSamples(44100)

	_, click, found := s.CheckForClick(0, int(beatSamples)+10, 44100, tempo, sig)
	require.True(t, found)
	assert.Equal(t, sequencer.ClickAccent, click, "beat 1 of the bar is the downbeat accent")
}

func TestSchedulerResetAllowsReplayingBoundary(t *testing.T) {
	s := sequencer.NewScheduler()
	tempo := timeline.DefaultTempo()
	sig := timeline.FourFour()
	beatSamples := tempo.BeatDurationSamples(44100)

	_, _, found := s.CheckForClick(0, int(beatSamples)+10, 44100, tempo, sig)
	require.True(t, found)

	s.Reset()
	_, _, found = s.CheckForClick(0, int(beatSamples)+10, 44100, tempo, sig)
	assert.True(t, found, "after Reset the same boundary should be reportable again")
}

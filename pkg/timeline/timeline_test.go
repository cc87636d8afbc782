package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewTempoValidatesRange(t *testing.T) {
	_, err := NewTempo(19.9)
	require.Error(t, err)

	_, err = NewTempo(999.1)
	require.Error(t, err)

	tempo, err := NewTempo(140)
	require.NoError(t, err)
	assert.Equal(t, 140.0, tempo.BPM())
}

func TestNewTimeSignatureValidatesDenominator(t *testing.T) {
	_, err := NewTimeSignature(4, 3)
	require.Error(t, err, "3 is not a power of two")

	sig, err := NewTimeSignature(6, 8)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), sig.Numerator)
	assert.Equal(t, uint8(8), sig.Denominator)
}

func TestMusicalTimeTicksRoundTrip(t *testing.T) {
	sig := FourFour()
	m := MusicalTime{Bar: 3, Beat: 2, Tick: 111}
	total := m.ToTotalTicks(sig)
	back := MusicalTimeFromTotalTicks(total, sig)
	assert.Equal(t, m, back)
}

func TestQuantizeToBeatSnapsToBoundary(t *testing.T) {
	sig := FourFour()
	m := MusicalTime{Bar: 1, Beat: 1, Tick: 300}
	q := m.QuantizeToBeat(sig)
	assert.Equal(t, uint16(0), q.Tick%TicksPerQuarter)
}

// Rapid property: converting an arbitrary sample count to a Position and
// back to samples via the musical time never drifts by more than one
// tick's worth of samples, since tick resolution is the conversion's
// only lossy step.
func TestPositionFromSamplesRoundTripBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		samples := rapid.Uint64Range(0, 100_000_000).Draw(rt, "samples")
		bpm := rapid.Float64Range(20, 999).Draw(rt, "bpm")
		tempo, err := NewTempo(bpm)
		require.NoError(rt, err)
		sig := FourFour()

		pos := PositionFromSamples(samples, 44100, tempo, sig)
		back := PositionFromMusical(pos.Musical, 44100, tempo, sig)

		tickSamples := tempo.BeatDurationSamples(44100) / float64(TicksPerQuarter)
		var diff float64
		if back.Samples > samples {
			diff = float64(back.Samples - samples)
		} else {
			diff = float64(samples - back.Samples)
		}
		assert.LessOrEqual(rt, diff, tickSamples+1)
	})
}

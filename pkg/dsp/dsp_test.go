package dsp_test

import (
	"math"
	"testing"

	"github.com/antikkorps/godaw/pkg/dsp"
	"github.com/stretchr/testify/assert"
)

func TestSoftClipBoundedOutput(t *testing.T) {
	assert.InDelta(t, 0, dsp.SoftClip(0), 1e-9)
	assert.Less(t, dsp.SoftClip(10), 1.0)
	assert.Greater(t, dsp.SoftClip(-10), -1.0)
}

func TestFlushDenormalZeroesTinyValues(t *testing.T) {
	assert.Equal(t, 0.0, dsp.FlushDenormal(1e-20))
	assert.Equal(t, 0.5, dsp.FlushDenormal(0.5))
}

func TestOscillatorSineStartsAtZero(t *testing.T) {
	osc := dsp.NewOscillator(44100)
	osc.SetFrequency(440)
	assert.InDelta(t, 0.0, osc.Process(), 1e-9)
}

func TestOscillatorPhaseWrapsToUnitInterval(t *testing.T) {
	osc := dsp.NewOscillator(44100)
	osc.SetFrequency(44100) // one full cycle per sample
	for i := 0; i < 5; i++ {
		osc.Process()
		assert.GreaterOrEqual(t, osc.Phase(), 0.0)
		assert.Less(t, osc.Phase(), 1.0)
	}
}

func TestOscillatorResetZeroesPhase(t *testing.T) {
	osc := dsp.NewOscillator(44100)
	osc.SetFrequency(1000)
	osc.Process()
	osc.Process()
	osc.Reset()
	assert.Equal(t, 0.0, osc.Phase())
}

func TestADSREnvelopeReachesSustainAndReleases(t *testing.T) {
	env := dsp.NewADSR(1000) // 1kHz for fast, exact-sample-count math
	env.SetParams(dsp.ADSRParams{Attack: 0.01, Decay: 0.01, Sustain: 0.5, Release: 0.01})
	env.NoteOn()

	for i := 0; i < 10; i++ {
		env.Process()
	}
	assert.Equal(t, dsp.StageDecay, env.Stage(), "the 10-sample attack has elapsed at sample 10; decay hasn't")

	for i := 0; i < 20; i++ {
		env.Process()
	}
	assert.InDelta(t, 0.5, env.Value(), 0.05, "should have settled into sustain by now")
	assert.Equal(t, dsp.StageSustain, env.Stage())

	env.NoteOff()
	assert.Equal(t, dsp.StageRelease, env.Stage())
	for i := 0; i < 20; i++ {
		env.Process()
	}
	assert.InDelta(t, 0.0, env.Value(), 0.05)
}

func TestADSRResetReturnsToIdleImmediately(t *testing.T) {
	env := dsp.NewADSR(44100)
	env.NoteOn()
	env.Process()
	env.Reset()
	assert.Equal(t, dsp.StageIdle, env.Stage())
	assert.Equal(t, 0.0, env.Value())
}

func TestADSRClampBoundsParams(t *testing.T) {
	p := dsp.ADSRParams{Attack: -1, Decay: 100, Sustain: 2, Release: 0}.Clamp()
	assert.GreaterOrEqual(t, p.Attack, 0.001)
	assert.LessOrEqual(t, p.Decay, 5.0)
	assert.Equal(t, 1.0, p.Sustain)
	assert.GreaterOrEqual(t, p.Release, 0.001)
}

func TestOnePoleSmootherConvergesToTarget(t *testing.T) {
	s := dsp.NewOnePoleSmoother(44100, 5, 0.0)
	var v float64
	for i := 0; i < 100000; i++ {
		v = s.Process(1.0)
	}
	assert.InDelta(t, 1.0, v, 1e-6)
}

func TestOnePoleSmootherSnapToSkipsRamp(t *testing.T) {
	s := dsp.NewOnePoleSmoother(44100, 1000, 0.0)
	s.SnapTo(0.75)
	assert.Equal(t, 0.75, s.Value())
}

func TestFilterParamsClampBoundsCutoffToNyquistFraction(t *testing.T) {
	p := dsp.FilterParams{Cutoff: 1_000_000, Resonance: 50}.Clamp(44100)
	assert.LessOrEqual(t, p.Cutoff, 44100.0/6.0)
	assert.LessOrEqual(t, p.Resonance, 20.0)
}

func TestStateVariableFilterLowpassAttenuatesHighFrequency(t *testing.T) {
	f := dsp.NewStateVariableFilter(44100)
	f.SetParams(dsp.FilterParams{Cutoff: 200, Resonance: 0.707, FilterType: dsp.FilterLowPass})

	// Feed a near-Nyquist alternating signal; a 200Hz lowpass should
	// attenuate it far below unity after settling.
	var maxOut float64
	for i := 0; i < 2000; i++ {
		in := 1.0
		if i%2 == 0 {
			in = -1.0
		}
		out := math.Abs(f.Process(in))
		if i > 1000 && out > maxOut {
			maxOut = out
		}
	}
	assert.Less(t, maxOut, 0.5)
}

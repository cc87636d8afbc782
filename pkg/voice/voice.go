package voice

import (
	"math"

	"github.com/antikkorps/godaw/pkg/dsp"
	"github.com/antikkorps/godaw/pkg/effect"
)

// PolyMode selects how new notes are allocated against existing voices.
type PolyMode int

const (
	PolyModePoly PolyMode = iota
	PolyModeMono
	PolyModeLegato
)

// VoiceMode selects which kind of voice a note allocates.
type VoiceMode int

const (
	VoiceModeSynth VoiceMode = iota
	VoiceModeSampler
)

// SynthVoice owns one polyphonic voice's full signal chain: oscillator,
// envelope, LFOs, filter, per-voice effects and portamento glide.
//
// Invariant: IsActive() is true exactly when the envelope is not idle.
// Age strictly increases with every note-on the manager issues so voice
// stealing can always find the oldest voice.
type SynthVoice struct {
	index int

	Note     uint8
	Velocity float64 // 0..1
	Pressure float64 // aftertouch, 0..1
	Pan      float64 // static per-voice pan, -1..1
	Age      uint64

	osc         *dsp.Oscillator
	Envelope    *dsp.ADSR
	Lfo1        *dsp.LFO
	Lfo2        *dsp.LFO
	Filter      *dsp.StateVariableFilter
	Effects     *effect.Chain
	Portamento  *Portamento
	ModMatrix   ModMatrix
	FilterParam dsp.FilterParams

	baseFreq   float64
	targetFreq float64

	releasing bool
}

// NewSynthVoice creates an idle voice at index for the given sample rate.
func NewSynthVoice(index int, sampleRate float64) *SynthVoice {
	return &SynthVoice{
		index:       index,
		osc:         dsp.NewOscillator(sampleRate),
		Envelope:    dsp.NewADSR(sampleRate),
		Lfo1:        dsp.NewLFO(sampleRate),
		Lfo2:        dsp.NewLFO(sampleRate),
		Filter:      dsp.NewStateVariableFilter(sampleRate),
		Effects:     effect.NewChain(),
		Portamento:  NewPortamento(sampleRate, 440),
		FilterParam: dsp.DefaultFilterParams(),
	}
}

// Index returns the voice's fixed slot index within its manager.
func (v *SynthVoice) Index() int { return v.index }

// IsActive reports whether the voice's envelope is non-idle.
func (v *SynthVoice) IsActive() bool { return v.Envelope.IsActive() }

// IsReleasing reports whether note-off has already been received for the
// currently sounding note.
func (v *SynthVoice) IsReleasing() bool { return v.releasing }

// SetSampleRate propagates a sample-rate change to every component.
func (v *SynthVoice) SetSampleRate(sr float64) {
	v.osc.SetSampleRate(sr)
	v.Envelope.SetSampleRate(sr)
	v.Lfo1.SetSampleRate(sr)
	v.Lfo2.SetSampleRate(sr)
	v.Filter.SetSampleRate(sr)
}

// SetWaveform selects the voice's oscillator waveform.
func (v *SynthVoice) SetWaveform(w dsp.Waveform) { v.osc.Waveform = w }

// retrigger starts a brand-new note: resets age bookkeeping, snaps
// portamento (unless gliding from another active note), and retriggers the
// envelope from its current value.
func (v *SynthVoice) retrigger(note uint8, velocity, aftertouch float64, age uint64, glideFrom float64, hasGlideSource bool) {
	v.Note = note
	v.Velocity = velocity
	v.Pressure = aftertouch
	v.Age = age
	v.releasing = false

	v.baseFreq = dsp.NoteToFrequency(int(note))
	v.targetFreq = v.baseFreq
	if !hasGlideSource {
		v.Portamento.SnapTo(v.baseFreq)
	} else {
		v.Portamento.SnapTo(glideFrom)
	}

	v.Envelope.NoteOn()
}

// updateLegato changes pitch/velocity/age without retriggering the
// envelope (used by Legato poly-mode note-on).
func (v *SynthVoice) updateLegato(note uint8, velocity, aftertouch float64, age uint64) {
	v.Note = note
	v.Velocity = velocity
	v.Pressure = aftertouch
	v.Age = age
	v.releasing = false
	v.baseFreq = dsp.NoteToFrequency(int(note))
	v.targetFreq = v.baseFreq
}

// noteOff enters the release stage, preserving the envelope's current
// value as the release starting point.
func (v *SynthVoice) noteOff() {
	v.releasing = true
	v.Envelope.NoteOff()
}

// setAftertouch updates per-voice channel/poly aftertouch pressure.
func (v *SynthVoice) setAftertouch(value float64) { v.Pressure = value }

// Render advances the voice by one sample, returning its stereo
// contribution. Steps follow §4.B of the engine's per-voice rendering
// contract: glide, LFOs, envelope, mod matrix, oscillator, filter,
// per-voice effects, volume LFO, velocity*env*ampMult, then equal-power
// pan.
func (v *SynthVoice) Render() (left, right float64) {
	if !v.IsActive() {
		return 0, 0
	}

	freq := v.Portamento.Process(v.targetFreq)

	lfo1 := v.Lfo1.Process()
	lfo2 := v.Lfo2.Process()
	env := v.Envelope.Process()

	mod := v.ModMatrix.Apply(v.Velocity, v.Pressure, env, [2]float64{lfo1, lfo2})

	if mod.PitchSemitones != 0 {
		freq *= math.Pow(2, mod.PitchSemitones/12.0)
	}
	v.osc.SetFrequency(freq)
	sample := v.osc.Process()

	cutoff := v.FilterParam.Cutoff * mod.CutoffMult
	v.Filter.SetParams(dsp.FilterParams{Cutoff: v.FilterParam.Cutoff, Resonance: v.FilterParam.Resonance, FilterType: v.FilterParam.FilterType})
	sample = v.Filter.ProcessModulated(sample, cutoff)

	sample = v.Effects.Process(sample)

	if v.Lfo1.Params.Destination == dsp.LfoDestVolume {
		sample *= 1 + lfo1
	}
	if v.Lfo2.Params.Destination == dsp.LfoDestVolume {
		sample *= 1 + lfo2
	}

	sample *= v.Velocity * env * mod.AmpMult

	finalPan := clampf(v.Pan+mod.PanMod, -1, 1)
	angle := (finalPan*0.5 + 0.5) * math.Pi / 2
	left = sample * math.Cos(angle)
	right = sample * math.Sin(angle)
	return
}

// Deactivate immediately silences the voice (used by Manager.Panic),
// without running a release ramp.
func (v *SynthVoice) Deactivate() {
	v.Envelope.Reset()
	v.releasing = false
	v.Filter.Reset()
	v.Effects.Reset()
}

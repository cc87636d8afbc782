// Package dsp provides the sample-rate signal processing primitives shared
// by every voice and effect in the engine: oscillators, envelopes, LFOs,
// smoothers, filters, delay and reverb lines, and output conditioning.
//
// Everything in this package is hot-path code: no allocation, no locks, no
// I/O. Callers on the audio thread may call these functions once per
// sample without surprises.
package dsp

import "math"

// Waveform selects the oscillator's wave shape.
type Waveform int

const (
	WaveformSine Waveform = iota
	WaveformSquare
	WaveformSaw
	WaveformTriangle
)

// Oscillator is a phase-accumulating bandlimited oscillator. Phase always
// stays in [0, 1).
type Oscillator struct {
	Waveform  Waveform
	phase     float64
	frequency float64
	sr        float64
}

// NewOscillator creates an oscillator for the given sample rate.
func NewOscillator(sampleRate float64) *Oscillator {
	return &Oscillator{sr: sampleRate, Waveform: WaveformSine}
}

// SetSampleRate updates the sample rate used for phase advancement.
func (o *Oscillator) SetSampleRate(sr float64) { o.sr = sr }

// SetFrequency sets the oscillator's fundamental frequency in Hz.
func (o *Oscillator) SetFrequency(freq float64) { o.frequency = freq }

// Phase returns the oscillator's current phase in [0, 1).
func (o *Oscillator) Phase() float64 { return o.phase }

// Reset zeros the phase accumulator.
func (o *Oscillator) Reset() { o.phase = 0 }

// Process advances the oscillator by one sample and returns the waveform
// value. PolyBLEP correction is applied to saw and square to reduce
// aliasing; the corrected output can transiently exceed ±1 near the
// discontinuity, which the master soft-clip absorbs.
func (o *Oscillator) Process() float64 {
	if o.sr <= 0 {
		return 0
	}
	dt := o.frequency / o.sr
	var out float64

	switch o.Waveform {
	case WaveformSine:
		out = math.Sin(2 * math.Pi * o.phase)
	case WaveformSaw:
		out = 2*o.phase - 1
		out -= blep(o.phase, dt)
	case WaveformSquare:
		if o.phase < 0.5 {
			out = 1
		} else {
			out = -1
		}
		out += blep(o.phase, dt)
		out -= blep(math.Mod(o.phase+0.5, 1.0), dt)
	case WaveformTriangle:
		if o.phase < 0.5 {
			out = 4*o.phase - 1
		} else {
			out = 3 - 4*o.phase
		}
	}

	o.phase += dt
	if o.phase >= 1.0 {
		o.phase -= math.Floor(o.phase)
	}
	return out
}

// blep implements the PolyBLEP correction polynomial for normalized time t
// against a discontinuity step of width dt (dt = phase increment).
func blep(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	switch {
	case t < dt:
		u := t / dt
		return 2*u - u*u - 1
	case t > 1-dt:
		u := (t - 1) / dt
		return u*u + 2*u + 1
	default:
		return 0
	}
}

// NoteToFrequency converts a MIDI note number (0..127) to frequency in Hz
// using equal temperament with A4 (note 69) at 440 Hz.
func NoteToFrequency(note int) float64 {
	return 440.0 * math.Pow(2.0, (float64(note)-69.0)/12.0)
}

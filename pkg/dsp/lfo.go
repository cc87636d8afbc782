package dsp

import "math"

// LfoDestination tags where a caller should apply the LFO's output. The
// LFO itself is destination-agnostic: it only produces a value in
// [-depth, +depth].
type LfoDestination int

const (
	LfoDestPitch LfoDestination = iota
	LfoDestVolume
	LfoDestFilterCutoff
	LfoDestPan
)

// LfoParams holds the LFO's rate (0.1..20 Hz), depth (0..1) and the
// destination the caller intends to drive with its output.
type LfoParams struct {
	Rate        float64
	Depth       float64
	Destination LfoDestination
}

// DefaultLfoParams returns a slow, silent-by-default LFO.
func DefaultLfoParams() LfoParams {
	return LfoParams{Rate: 5.0, Depth: 0.0, Destination: LfoDestPitch}
}

// Clamp bounds rate and depth to their documented ranges.
func (p LfoParams) Clamp() LfoParams {
	return LfoParams{
		Rate:        clamp(p.Rate, 0.1, 20.0),
		Depth:       clamp(p.Depth, 0, 1),
		Destination: p.Destination,
	}
}

// LFO is a low-rate sine oscillator used as a modulation source.
type LFO struct {
	Params LfoParams
	phase  float64
	sr     float64
}

// NewLFO creates an LFO for the given sample rate.
func NewLFO(sampleRate float64) *LFO {
	return &LFO{Params: DefaultLfoParams(), sr: sampleRate}
}

// SetSampleRate updates the LFO's sample rate.
func (l *LFO) SetSampleRate(sr float64) { l.sr = sr }

// SetParams replaces the LFO parameters, clamped to valid ranges.
func (l *LFO) SetParams(p LfoParams) { l.Params = p.Clamp() }

// Reset zeros the LFO's phase.
func (l *LFO) Reset() { l.phase = 0 }

// Process advances the LFO by one sample and returns a value in
// [-depth, +depth].
func (l *LFO) Process() float64 {
	if l.sr <= 0 {
		return 0
	}
	out := math.Sin(2*math.Pi*l.phase) * l.Params.Depth

	l.phase += l.Params.Rate / l.sr
	if l.phase >= 1.0 {
		l.phase -= math.Floor(l.phase)
	}
	return out
}

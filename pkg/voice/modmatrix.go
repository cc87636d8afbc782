// Package voice implements per-voice synthesis state (oscillator, envelope,
// LFO, filter, effect chain, portamento) and polyphonic voice allocation
// with mono/legato/poly policies and deterministic voice stealing.
package voice

import "math"

// ModSource identifies a modulation matrix source.
type ModSource int

const (
	ModSourceLfo1 ModSource = iota
	ModSourceLfo2
	ModSourceVelocity
	ModSourceAftertouch
	ModSourceEnvelope
)

// ModDestination identifies a modulation matrix destination.
type ModDestination int

const (
	ModDestOscillatorPitch ModDestination = iota
	ModDestAmplitude
	ModDestFilterCutoff
	ModDestPan
)

// MaxModSlots is the fixed size of a voice's modulation matrix.
const MaxModSlots = 8

// ModRouting is a single modulation matrix entry.
type ModRouting struct {
	Source      ModSource
	Destination ModDestination
	Amount      float64 // -1..1
	Enabled     bool
}

// Clamp bounds Amount to [-1, 1].
func (r ModRouting) Clamp() ModRouting {
	r.Amount = clampf(r.Amount, -1, 1)
	return r
}

// ModMatrix is a fixed-size array of modulation routings applied once per
// sample to derive pitch/amplitude/cutoff/pan modifiers.
type ModMatrix struct {
	Routings [MaxModSlots]ModRouting
}

// SetRouting installs routing at index, clamped to valid bounds. Indexes
// outside [0, MaxModSlots) are ignored.
func (m *ModMatrix) SetRouting(index int, routing ModRouting) {
	if index < 0 || index >= MaxModSlots {
		return
	}
	m.Routings[index] = routing.Clamp()
}

// ClearRouting disables the routing at index.
func (m *ModMatrix) ClearRouting(index int) {
	if index < 0 || index >= MaxModSlots {
		return
	}
	m.Routings[index] = ModRouting{}
}

// ModResult bundles the matrix's combined output for one sample.
type ModResult struct {
	PitchSemitones float64
	AmpMult        float64
	PanMod         float64
	CutoffMult     float64
}

// Apply sums every enabled routing's contribution per destination.
// Pitch and pan are additive; amplitude and cutoff are combined as
// 1+sum(scaled source) around unity, clamped to stay non-negative.
func (m *ModMatrix) Apply(velocity, aftertouch, env float64, lfos [2]float64) ModResult {
	var pitch, ampSum, pan, cutoffSum float64

	for _, r := range m.Routings {
		if !r.Enabled {
			continue
		}

		var src float64
		switch r.Source {
		case ModSourceLfo1:
			src = lfos[0]
		case ModSourceLfo2:
			src = lfos[1]
		case ModSourceVelocity:
			src = velocity
		case ModSourceAftertouch:
			src = aftertouch
		case ModSourceEnvelope:
			src = env
		}

		scaled := src * r.Amount
		switch r.Destination {
		case ModDestOscillatorPitch:
			pitch += scaled * 12 // amount=1 maps to one octave of modulation range
		case ModDestAmplitude:
			ampSum += scaled
		case ModDestFilterCutoff:
			cutoffSum += scaled
		case ModDestPan:
			pan += scaled
		}
	}

	return ModResult{
		PitchSemitones: pitch,
		AmpMult:        math.Max(0, 1+ampSum),
		PanMod:         clampf(pan, -1, 1),
		CutoffMult:     math.Max(0.01, 1+cutoffSum),
	}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

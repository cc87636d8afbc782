// Package dawstate holds the UI-thread mirror of the parameters the
// audio engine owns: the value the UI shows and edits, kept in sync with
// the audio thread by pushing a Command on every change. Commands are
// the source of truth on the audio side; DawState is a convenience
// cache so the UI doesn't need to read back through the ring.
package dawstate

import (
	"github.com/antikkorps/godaw/pkg/dsp"
	"github.com/antikkorps/godaw/pkg/messaging"
	"github.com/antikkorps/godaw/pkg/sequencer"
	"github.com/antikkorps/godaw/pkg/timeline"
	"github.com/antikkorps/godaw/pkg/voice"
)

// State is the full set of parameters a project/undo system can mutate.
type State struct {
	Volume     float64
	Waveform   dsp.Waveform
	Adsr       dsp.ADSRParams
	Lfo1       dsp.LfoParams
	Lfo2       dsp.LfoParams
	Filter     dsp.FilterParams
	Portamento voice.PortamentoParams
	PolyMode   voice.PolyMode
	VoiceMode  voice.VoiceMode
	ModRouting [voice.MaxModSlots]voice.ModRouting

	MetronomeEnabled bool
	MetronomeVolume  float64

	Tempo         timeline.Tempo
	TimeSignature timeline.TimeSignature

	Pattern sequencer.Pattern
}

// DawState pairs the value mirror with the ring used to propagate
// changes to the audio thread.
type DawState struct {
	Value State
	Ring  *messaging.CommandRing
}

// New constructs a DawState at the engine's defaults, bound to ring.
func New(ring *messaging.CommandRing) *DawState {
	return &DawState{
		Value: State{
			Volume:          0.5,
			Waveform:        dsp.WaveformSine,
			Adsr:            dsp.ADSRParams{Attack: 0.01, Decay: 0.1, Sustain: 0.7, Release: 0.2},
			Filter:          dsp.FilterParams{Cutoff: 20000, Resonance: 0.707, FilterType: dsp.FilterLowPass},
			Portamento:      voice.DefaultPortamentoParams(),
			MetronomeVolume: 0.5,
			Tempo:           timeline.DefaultTempo(),
			TimeSignature:   timeline.FourFour(),
			Pattern:         sequencer.NewDefaultPattern(1, "Pattern 1"),
		},
		Ring: ring,
	}
}

// Push enqueues cmd on the UI→audio ring, reporting ErrRingFull if the
// audio thread hasn't drained it in time.
func (d *DawState) Push(cmd messaging.Command) error {
	if !d.Ring.TryPush(cmd) {
		return ErrRingFull
	}
	return nil
}

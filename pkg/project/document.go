// Package project implements the DAW's project value model and its
// versioned migration chain. The core owns migrating the value model
// between on-disk schema versions; the container the bytes are wrapped
// in (file, cloud blob, ...) is an external collaborator's concern.
package project

import (
	"github.com/antikkorps/godaw/pkg/dsp"
	"github.com/antikkorps/godaw/pkg/voice"
)

// Version is a project file's schema version.
type Version uint32

const (
	VersionUnknown Version = 0
	Version1_0     Version = 1
	Version1_1     Version = 2
	Version1_2     Version = 3

	// CurrentVersion is the schema every successfully loaded Document is
	// migrated up to.
	CurrentVersion = Version1_2
)

func (v Version) String() string {
	switch v {
	case Version1_0:
		return "1.0"
	case Version1_1:
		return "1.1"
	case Version1_2:
		return "1.2"
	default:
		return "unknown"
	}
}

// Header carries the project's identity and schema version.
type Header struct {
	Name    string  `json:"name"`
	Version Version `json:"version"`
}

// Track is a named lane of patterns; the sequencer itself is
// single-pattern today (§4.E), so Track is metadata only for now.
type Track struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

// NoteDoc is a JSON-friendly projection of sequencer.Note: absolute
// sample offsets rather than a timeline.Position, so a project file
// doesn't depend on the sample rate it was authored at to parse.
type NoteDoc struct {
	Pitch           uint8  `json:"pitch"`
	StartSamples    uint64 `json:"start_samples"`
	DurationSamples uint64 `json:"duration_samples"`
	Velocity        uint8  `json:"velocity"`
}

// PatternDoc is a JSON-friendly projection of sequencer.Pattern.
type PatternDoc struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	LengthBars uint32    `json:"length_bars"`
	Notes      []NoteDoc `json:"notes"`
}

// SynthDoc is the synth parameter snapshot: every value dawstate.State
// mirrors, minus the pattern (tracked separately as Patterns) and the
// transport/tempo fields (tracked separately on Document).
type SynthDoc struct {
	Volume     float64                            `json:"volume"`
	Waveform   dsp.Waveform                        `json:"waveform"`
	Adsr       dsp.ADSRParams                      `json:"adsr"`
	Lfo1       dsp.LfoParams                        `json:"lfo1"`
	Lfo2       dsp.LfoParams                        `json:"lfo2"`
	Filter     dsp.FilterParams                     `json:"filter"`
	Portamento voice.PortamentoParams                `json:"portamento"`
	PolyMode   voice.PolyMode                        `json:"poly_mode"`
	VoiceMode  voice.VoiceMode                       `json:"voice_mode"`
	ModRouting [voice.MaxModSlots]voice.ModRouting   `json:"mod_routing"`
}

// SampleRef points at an externally-decoded sample file; the project
// format stores the reference, not the decoded frames (§6, decoding is
// out of core scope).
type SampleRef struct {
	ID   uint32 `json:"id"`
	Path string `json:"path"`
}

// MetronomeDoc was introduced in v1.1.
type MetronomeDoc struct {
	Enabled bool    `json:"enabled"`
	Volume  float64 `json:"volume"`
}

// LoopDoc was introduced in v1.2.
type LoopDoc struct {
	Enabled  bool   `json:"enabled"`
	StartBar uint32 `json:"start_bar"`
	EndBar   uint32 `json:"end_bar"`
}

// Document is the full project value model. A Document returned by Load
// is always at CurrentVersion; callers never see a pre-migration shape.
type Document struct {
	Header Header `json:"header"`

	SampleRate    float64     `json:"sample_rate"`
	TempoBPM      float64     `json:"tempo_bpm"`
	Numerator     uint8       `json:"numerator"`
	Denominator   uint8       `json:"denominator"`
	Tracks        []Track     `json:"tracks"`
	Patterns      []PatternDoc `json:"patterns"`
	Synth         SynthDoc    `json:"synth"`
	Samples       []SampleRef `json:"samples,omitempty"`

	// Metronome is the zero value (disabled, silent) on a document that
	// hasn't yet been migrated through v1.1; NewDocument/FromState/Load always
	// populate it with the v1.0→v1.1 defaults first.
	Metronome MetronomeDoc `json:"metronome"`
	// Loop is the zero value until migrated through v1.2.
	Loop LoopDoc `json:"loop"`
}

// NewDocument creates an empty CurrentVersion document with the v1.1/v1.2
// defaults already applied, ready to populate and save.
func NewDocument(name string, sampleRate float64) Document {
	return Document{
		Header:      Header{Name: name, Version: CurrentVersion},
		SampleRate:  sampleRate,
		TempoBPM:    120.0,
		Numerator:   4,
		Denominator: 4,
		Metronome:   MetronomeDoc{Enabled: true, Volume: 0.5},
		Loop:        LoopDoc{Enabled: false, StartBar: 1, EndBar: 8},
	}
}

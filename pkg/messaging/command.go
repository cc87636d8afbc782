package messaging

import (
	"github.com/antikkorps/godaw/pkg/dsp"
	"github.com/antikkorps/godaw/pkg/sequencer"
	"github.com/antikkorps/godaw/pkg/voice"
)

// CommandKind tags the variant carried by a Command.
type CommandKind int

const (
	CmdMidi CommandKind = iota
	CmdSetVolume
	CmdSetWaveform
	CmdSetAdsr
	CmdSetLfo1
	CmdSetLfo2
	CmdSetFilter
	CmdSetPortamento
	CmdSetPolyMode
	CmdSetVoiceMode
	CmdSetModRouting
	CmdClearModRouting
	CmdAddSample
	CmdRemoveSample
	CmdSetNoteSampleMapping
	CmdUpdateSample
	CmdSetMetronomeEnabled
	CmdSetMetronomeVolume
	CmdSetTempo
	CmdSetTimeSignature
	CmdSetTransportPlaying
	CmdSetTransportPosition
	CmdSetPattern
	CmdQuit
)

// Command is the tagged union carried on the UI→audio command ring. Only
// the fields relevant to Kind are populated for any given value.
type Command struct {
	Kind CommandKind

	Midi MidiEventTimed

	Float  float64
	Uint   uint32
	Uint64 uint64
	Bool   bool
	Int    int

	Waveform   dsp.Waveform
	Adsr       dsp.ADSRParams
	Lfo        dsp.LfoParams
	Filter     dsp.FilterParams
	Portamento voice.PortamentoParams
	PolyMode   voice.PolyMode
	VoiceMode  voice.VoiceMode
	ModRouting voice.ModRouting

	Sample *voice.Sample
	Note   uint8

	Pattern sequencer.Pattern
}

// MidiCommand wraps a timed MIDI event for the UI/MIDI→audio ring.
func MidiCommand(ev MidiEventTimed) Command { return Command{Kind: CmdMidi, Midi: ev} }

// SetVolumeCommand sets the master volume (clamped to [0,1] by the
// receiver, not here — acceptance bounds are enforced at dispatch).
func SetVolumeCommand(v float64) Command { return Command{Kind: CmdSetVolume, Float: v} }

// SetWaveformCommand selects the oscillator waveform for every voice.
func SetWaveformCommand(w dsp.Waveform) Command { return Command{Kind: CmdSetWaveform, Waveform: w} }

// SetAdsrCommand replaces the envelope parameters.
func SetAdsrCommand(p dsp.ADSRParams) Command { return Command{Kind: CmdSetAdsr, Adsr: p} }

// SetLfoCommand replaces an LFO's parameters; slot 1 selects LFO2
// (CmdSetLfo2) and any other slot selects LFO1 (CmdSetLfo1).
func SetLfoCommand(slot int, p dsp.LfoParams) Command {
	kind := CmdSetLfo1
	if slot == 1 {
		kind = CmdSetLfo2
	}
	return Command{Kind: kind, Lfo: p}
}

// SetFilterCommand replaces the filter parameters.
func SetFilterCommand(p dsp.FilterParams) Command { return Command{Kind: CmdSetFilter, Filter: p} }

// SetPortamentoCommand replaces the glide parameters.
func SetPortamentoCommand(p voice.PortamentoParams) Command {
	return Command{Kind: CmdSetPortamento, Portamento: p}
}

// SetPolyModeCommand selects poly/mono/legato allocation.
func SetPolyModeCommand(m voice.PolyMode) Command { return Command{Kind: CmdSetPolyMode, PolyMode: m} }

// SetVoiceModeCommand selects synth/sampler voices.
func SetVoiceModeCommand(m voice.VoiceMode) Command { return Command{Kind: CmdSetVoiceMode, VoiceMode: m} }

// SetModRoutingCommand installs a modulation routing at index.
func SetModRoutingCommand(index int, r voice.ModRouting) Command {
	return Command{Kind: CmdSetModRouting, Int: index, ModRouting: r}
}

// ClearModRoutingCommand disables the routing at index.
func ClearModRoutingCommand(index int) Command {
	return Command{Kind: CmdClearModRouting, Int: index}
}

// AddSampleCommand registers a decoded sample.
func AddSampleCommand(s *voice.Sample) Command { return Command{Kind: CmdAddSample, Sample: s} }

// RemoveSampleCommand drops a sample by id.
func RemoveSampleCommand(id uint32) Command { return Command{Kind: CmdRemoveSample, Uint: id} }

// SetNoteSampleMappingCommand maps note to a sample id.
func SetNoteSampleMappingCommand(note uint8, sampleID uint32) Command {
	return Command{Kind: CmdSetNoteSampleMapping, Note: note, Uint: sampleID}
}

// UpdateSampleCommand replaces the frames of an already-registered sample.
func UpdateSampleCommand(s *voice.Sample) Command { return Command{Kind: CmdUpdateSample, Sample: s} }

// SetMetronomeEnabledCommand toggles the metronome.
func SetMetronomeEnabledCommand(enabled bool) Command {
	return Command{Kind: CmdSetMetronomeEnabled, Bool: enabled}
}

// SetMetronomeVolumeCommand sets the metronome's mix level.
func SetMetronomeVolumeCommand(v float64) Command { return Command{Kind: CmdSetMetronomeVolume, Float: v} }

// SetTempoCommand sets the tempo in BPM.
func SetTempoCommand(bpm float64) Command { return Command{Kind: CmdSetTempo, Float: bpm} }

// SetTimeSignatureCommand sets numerator/denominator.
func SetTimeSignatureCommand(numerator, denominator int) Command {
	return Command{Kind: CmdSetTimeSignature, Int: numerator, Uint: uint32(denominator)}
}

// SetTransportPlayingCommand starts or stops playback.
func SetTransportPlayingCommand(playing bool) Command {
	return Command{Kind: CmdSetTransportPlaying, Bool: playing}
}

// SetTransportPositionCommand seeks the transport to an absolute sample
// position.
func SetTransportPositionCommand(samples uint64) Command {
	return Command{Kind: CmdSetTransportPosition, Uint64: samples}
}

// SetPatternCommand replaces the active pattern.
func SetPatternCommand(p sequencer.Pattern) Command { return Command{Kind: CmdSetPattern, Pattern: p} }

// QuitCommand instructs the audio thread to emit silence until torn down.
func QuitCommand() Command { return Command{Kind: CmdQuit} }

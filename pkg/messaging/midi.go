// Package messaging implements the UI↔audio and MIDI↔audio messaging
// fabric: the Command and Notification sum types, the MIDI event model,
// and the lock-free rings and atomics that carry them between threads.
package messaging

// MidiEventKind tags the variant carried by a MidiEvent.
type MidiEventKind int

const (
	MidiNoteOn MidiEventKind = iota
	MidiNoteOff
	MidiChannelAftertouch
	MidiPolyAftertouch
	MidiControlChange
	MidiPitchBend
)

// MidiEvent is a tagged union of the MIDI event variants the core decodes
// and dispatches. Only the fields relevant to Kind are meaningful.
type MidiEvent struct {
	Kind MidiEventKind

	Note     uint8   // NoteOn, NoteOff, PolyAftertouch
	Velocity uint8   // NoteOn: 1..127
	Value    float64 // ChannelAftertouch, PolyAftertouch: 0..1
	Controller uint8 // ControlChange
	CCValue    uint8 // ControlChange
	PitchBend  float64 // PitchBend, normalized -1..1
}

// NoteOn constructs a NoteOn event without validating it. Velocity must be
// 1..127: the engine rejects a zero-velocity NoteOn with a Warning
// notification instead of treating it as a disguised NoteOff (§9 ambiguity (a)).
func NoteOn(note, velocity uint8) MidiEvent {
	return MidiEvent{Kind: MidiNoteOn, Note: note, Velocity: velocity}
}

// NoteOff constructs a NoteOff event.
func NoteOff(note uint8) MidiEvent {
	return MidiEvent{Kind: MidiNoteOff, Note: note}
}

// ChannelAftertouch constructs a channel-wide aftertouch event.
func ChannelAftertouch(value float64) MidiEvent {
	return MidiEvent{Kind: MidiChannelAftertouch, Value: value}
}

// PolyAftertouch constructs a per-note aftertouch event.
func PolyAftertouch(note uint8, value float64) MidiEvent {
	return MidiEvent{Kind: MidiPolyAftertouch, Note: note, Value: value}
}

// MidiEventTimed wraps a MidiEvent with its offset, in samples, from the
// start of the buffer it will be dispatched within.
type MidiEventTimed struct {
	Event          MidiEvent
	SamplesFromNow uint32
}

// MicrosToSamples converts a microsecond timestamp delta to a sample
// count at sampleRate, rounding to the nearest sample.
func MicrosToSamples(micros int64, sampleRate float64) uint32 {
	if micros < 0 {
		micros = 0
	}
	samples := float64(micros) * sampleRate / 1_000_000.0
	return uint32(samples + 0.5)
}

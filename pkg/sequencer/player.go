package sequencer

import (
	"sort"

	"github.com/antikkorps/godaw/pkg/timeline"
)

// EventKind distinguishes the two event types a Player emits. Player
// deliberately returns its own lightweight event type rather than the
// messaging package's MidiEvent: messaging.Command already carries a
// Pattern, so a dependency in the other direction would cycle. Callers
// wrap NoteEvent into whatever wire type their dispatch path needs.
type EventKind int

const (
	EventNoteOn EventKind = iota
	EventNoteOff
)

// NoteEvent is a scheduled note-on/off with its offset into the current
// processing buffer.
type NoteEvent struct {
	Kind           EventKind
	Pitch          uint8
	Velocity       uint8
	SamplesFromNow uint32
}

// Player turns a Pattern's notes into timed NoteEvents buffer by buffer,
// tracking which NoteOns are still awaiting their NoteOff so a transport
// stop can close them out instead of leaving voices hung.
type Player struct {
	pending map[NoteID]Note // NoteOns emitted, NoteOff not yet sent
}

// NewPlayer creates an empty player.
func NewPlayer() *Player {
	return &Player{pending: make(map[NoteID]Note)}
}

// Process advances the player by one buffer of bufferSize samples
// starting at currentPosition, returning events sorted by
// SamplesFromNow ascending (NoteOff before NoteOn on ties, so a
// retriggered note's off isn't dropped by an immediately following on).
//
// The pattern loops: the position is taken modulo its length in samples, so
// a pattern shorter than the running position still fires on each
// virtual repetition. A buffer that straddles the loop boundary is split
// into up to two sub-intervals, each checked against the pattern
// independently.
func (p *Player) Process(pattern *Pattern, currentPosition uint64, isPlaying bool, tempo timeline.Tempo, sig timeline.TimeSignature, sampleRate float64, bufferSize int) []NoteEvent {
	if !isPlaying {
		return p.flushPending()
	}

	length := pattern.LengthSamples(sampleRate, tempo, sig)
	if length == 0 {
		return nil
	}

	var events []NoteEvent
	bufferEnd := currentPosition + uint64(bufferSize)

	for _, iv := range splitLoopIntervals(currentPosition, bufferEnd, length) {
		events = append(events, p.processInterval(pattern, iv, currentPosition)...)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].SamplesFromNow != events[j].SamplesFromNow {
			return events[i].SamplesFromNow < events[j].SamplesFromNow
		}
		return events[i].Kind == EventNoteOff && events[j].Kind == EventNoteOn
	})

	return events
}

// loopInterval is a [start, end) window within one virtual loop
// repetition, plus the absolute sample that the window's start
// corresponds to (for computing offsets into the caller's buffer).
type loopInterval struct {
	virtualStart, virtualEnd uint64 // positions mod loop length
	absoluteBase             uint64 // absolute sample that virtualStart maps to
}

// splitLoopIntervals breaks [start, end) (absolute sample positions) into
// one or two intervals expressed modulo the loop length, handling the
// case where the buffer straddles a loop wraparound.
func splitLoopIntervals(start, end, length uint64) []loopInterval {
	modStart := start % length
	span := end - start

	if modStart+span <= length {
		return []loopInterval{{virtualStart: modStart, virtualEnd: modStart + span, absoluteBase: start}}
	}

	firstSpan := length - modStart
	return []loopInterval{
		{virtualStart: modStart, virtualEnd: length, absoluteBase: start},
		{virtualStart: 0, virtualEnd: span - firstSpan, absoluteBase: start + firstSpan},
	}
}

func (p *Player) processInterval(pattern *Pattern, iv loopInterval, currentPosition uint64) []NoteEvent {
	var events []NoteEvent

	for _, n := range pattern.Notes() {
		if n.Start.Samples >= iv.virtualStart && n.Start.Samples < iv.virtualEnd {
			offset := iv.absoluteBase + (n.Start.Samples - iv.virtualStart) - currentPosition
			events = append(events, NoteEvent{Kind: EventNoteOn, Pitch: n.Pitch, Velocity: n.Velocity, SamplesFromNow: uint32(offset)})
			p.pending[n.ID] = n
		}

		end := n.EndSample()
		if end >= iv.virtualStart && end < iv.virtualEnd {
			offset := iv.absoluteBase + (end - iv.virtualStart) - currentPosition
			events = append(events, NoteEvent{Kind: EventNoteOff, Pitch: n.Pitch, SamplesFromNow: uint32(offset)})
			delete(p.pending, n.ID)
		}
	}

	return events
}

// flushPending emits an immediate NoteOff for every NoteOn that has not
// yet been matched with its NoteOff, used when playback stops mid-note.
func (p *Player) flushPending() []NoteEvent {
	if len(p.pending) == 0 {
		return nil
	}
	events := make([]NoteEvent, 0, len(p.pending))
	for id, n := range p.pending {
		events = append(events, NoteEvent{Kind: EventNoteOff, Pitch: n.Pitch, SamplesFromNow: 0})
		delete(p.pending, id)
	}
	return events
}

// Reset clears pending NoteOn tracking, e.g. after a transport seek that
// invalidates in-flight notes.
func (p *Player) Reset() { p.pending = make(map[NoteID]Note) }

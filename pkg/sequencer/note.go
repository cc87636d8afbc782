// Package sequencer implements the pattern/note data model and the
// sample-accurate player that turns a pattern into timed MIDI events,
// plus the metronome click generator and beat scheduler.
package sequencer

import (
	"sync/atomic"

	"github.com/antikkorps/godaw/pkg/timeline"
)

// NoteID uniquely identifies a Note within a Pattern.
type NoteID uint64

var nextNoteID atomic.Uint64

// GenerateNoteID returns a process-wide unique note id.
func GenerateNoteID() NoteID {
	return NoteID(nextNoteID.Add(1))
}

// Note is a single scheduled MIDI note within a pattern.
type Note struct {
	ID       NoteID
	Pitch    uint8
	Start    timeline.Position
	Duration uint64 // samples
	Velocity uint8
}

// NewNote constructs a note at a given musical position.
func NewNote(id NoteID, pitch uint8, start timeline.Position, durationSamples uint64, velocity uint8) Note {
	return Note{ID: id, Pitch: pitch, Start: start, Duration: durationSamples, Velocity: velocity}
}

// EndSample returns the absolute sample the note's duration ends at.
func (n Note) EndSample() uint64 { return n.Start.Samples + n.Duration }

// ContainsSample reports whether sample falls within [start, end).
func (n Note) ContainsSample(sample uint64) bool {
	return sample >= n.Start.Samples && sample < n.EndSample()
}

package sequencer

import (
	"fmt"
	"sort"

	"github.com/antikkorps/godaw/pkg/timeline"
)

// PatternID identifies a Pattern.
type PatternID uint64

// Pattern is a reusable sequence of notes placed on the timeline; the DAW
// equivalent of a clip. Notes are kept sorted by start sample; the player
// still checks every note on each buffer.
type Pattern struct {
	ID         PatternID
	Name       string
	LengthBars uint32

	notes []Note
}

// NewPattern creates an empty pattern. lengthBars must be at least 1.
func NewPattern(id PatternID, name string, lengthBars uint32) (Pattern, error) {
	if lengthBars == 0 {
		return Pattern{}, fmt.Errorf("sequencer: pattern length must be at least 1 bar")
	}
	return Pattern{ID: id, Name: name, LengthBars: lengthBars}, nil
}

// NewDefaultPattern creates an empty 4-bar pattern.
func NewDefaultPattern(id PatternID, name string) Pattern {
	p, _ := NewPattern(id, name, 4)
	return p
}

// Notes returns the pattern's notes in start-sample order.
func (p *Pattern) Notes() []Note { return p.notes }

// AddNote inserts note, keeping notes sorted by start sample.
func (p *Pattern) AddNote(note Note) {
	i := sort.Search(len(p.notes), func(i int) bool {
		return p.notes[i].Start.Samples >= note.Start.Samples
	})
	p.notes = append(p.notes, Note{})
	copy(p.notes[i+1:], p.notes[i:])
	p.notes[i] = note
}

// RemoveNote deletes the note with the given id, returning it if found.
func (p *Pattern) RemoveNote(id NoteID) (Note, bool) {
	for i, n := range p.notes {
		if n.ID == id {
			p.notes = append(p.notes[:i], p.notes[i+1:]...)
			return n, true
		}
	}
	return Note{}, false
}

// GetNote returns the note with the given id.
func (p *Pattern) GetNote(id NoteID) (Note, bool) {
	for _, n := range p.notes {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// NotesAtSample returns every note sounding at the given absolute sample.
func (p *Pattern) NotesAtSample(sample uint64) []Note {
	var out []Note
	for _, n := range p.notes {
		if n.ContainsSample(sample) {
			out = append(out, n)
		}
	}
	return out
}

// NotesInRange returns every note overlapping [start, end).
func (p *Pattern) NotesInRange(start, end uint64) []Note {
	var out []Note
	for _, n := range p.notes {
		if n.Start.Samples < end && n.EndSample() > start {
			out = append(out, n)
		}
	}
	return out
}

// LengthSamples returns the pattern's loop length under the given
// sample rate, tempo, and time signature.
func (p *Pattern) LengthSamples(sampleRate float64, tempo timeline.Tempo, sig timeline.TimeSignature) uint64 {
	barDuration := tempo.BarDurationSamples(sampleRate, sig)
	return uint64(barDuration * float64(p.LengthBars))
}

// Clear removes every note.
func (p *Pattern) Clear() { p.notes = nil }

// NoteCount returns the number of notes in the pattern.
func (p *Pattern) NoteCount() int { return len(p.notes) }

// IsEmpty reports whether the pattern has no notes.
func (p *Pattern) IsEmpty() bool { return len(p.notes) == 0 }

// QuantizeAll snaps every note's start to the nearest subdivision (e.g.
// subdivision=4 for sixteenth notes) and re-sorts.
func (p *Pattern) QuantizeAll(subdivision uint16, sampleRate float64, tempo timeline.Tempo, sig timeline.TimeSignature) {
	for i := range p.notes {
		quantized := p.notes[i].Start.Musical.QuantizeToSubdivision(sig, subdivision)
		p.notes[i].Start = timeline.PositionFromMusical(quantized, sampleRate, tempo, sig)
	}
	sort.Slice(p.notes, func(i, j int) bool { return p.notes[i].Start.Samples < p.notes[j].Start.Samples })
}

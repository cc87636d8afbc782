package project

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/antikkorps/godaw/pkg/dawstate"
	"github.com/antikkorps/godaw/pkg/sequencer"
	"github.com/antikkorps/godaw/pkg/timeline"
)

// Load reads a project document from r and migrates it to CurrentVersion.
// A document newer than CurrentVersion is refused outright (§7: "project
// version newer than supported ⇒ refuse load").
func Load(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("project: read: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("project: parse: %w", err)
	}

	if doc.Header.Version > CurrentVersion {
		return Document{}, fmt.Errorf("%w: %s (supported: %s)", ErrVersionTooNew, doc.Header.Version, CurrentVersion)
	}
	if doc.Header.Version == VersionUnknown {
		doc.Header.Version = Version1_0
	}

	migrated, err := NewMigrationChain().Migrate(doc, CurrentVersion)
	if err != nil {
		return Document{}, err
	}
	return migrated, nil
}

// Save writes doc to w as indented JSON at CurrentVersion.
func Save(w io.Writer, doc Document) error {
	doc.Header.Version = CurrentVersion
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("project: marshal: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// FromState builds a CurrentVersion Document from the UI's live
// dawstate.State, so the running project can be snapshotted to disk.
func FromState(name string, sampleRate float64, state dawstate.State, tracks []Track, samples []SampleRef) Document {
	doc := NewDocument(name, sampleRate)
	doc.TempoBPM = state.Tempo.BPM()
	doc.Numerator = state.TimeSignature.Numerator
	doc.Denominator = state.TimeSignature.Denominator
	doc.Tracks = tracks
	doc.Samples = samples
	doc.Metronome = MetronomeDoc{Enabled: state.MetronomeEnabled, Volume: state.MetronomeVolume}
	doc.Synth = SynthDoc{
		Volume:     state.Volume,
		Waveform:   state.Waveform,
		Adsr:       state.Adsr,
		Lfo1:       state.Lfo1,
		Lfo2:       state.Lfo2,
		Filter:     state.Filter,
		Portamento: state.Portamento,
		PolyMode:   state.PolyMode,
		VoiceMode:  state.VoiceMode,
		ModRouting: state.ModRouting,
	}
	doc.Patterns = []PatternDoc{patternToDoc(state.Pattern)}
	return doc
}

// ToState reconstructs a dawstate.State from doc at sampleRate, the
// inverse of FromState. Only the first pattern is restored; the
// sequencer runtime plays a single active pattern (§4.E).
func (d Document) ToState(sampleRate float64) (dawstate.State, error) {
	tempo, err := timeline.NewTempo(d.TempoBPM)
	if err != nil {
		return dawstate.State{}, fmt.Errorf("project: %w", err)
	}
	sig, err := timeline.NewTimeSignature(d.Numerator, d.Denominator)
	if err != nil {
		return dawstate.State{}, fmt.Errorf("project: %w", err)
	}

	pattern := sequencer.NewDefaultPattern(1, "Pattern 1")
	if len(d.Patterns) > 0 {
		p, err := patternFromDoc(d.Patterns[0], sampleRate, tempo, sig)
		if err != nil {
			return dawstate.State{}, err
		}
		pattern = p
	}

	return dawstate.State{
		Volume:           d.Synth.Volume,
		Waveform:         d.Synth.Waveform,
		Adsr:             d.Synth.Adsr,
		Lfo1:             d.Synth.Lfo1,
		Lfo2:             d.Synth.Lfo2,
		Filter:           d.Synth.Filter,
		Portamento:       d.Synth.Portamento,
		PolyMode:         d.Synth.PolyMode,
		VoiceMode:        d.Synth.VoiceMode,
		ModRouting:       d.Synth.ModRouting,
		MetronomeEnabled: d.Metronome.Enabled,
		MetronomeVolume:  d.Metronome.Volume,
		Tempo:            tempo,
		TimeSignature:    sig,
		Pattern:          pattern,
	}, nil
}

func patternToDoc(p sequencer.Pattern) PatternDoc {
	notes := p.Notes()
	out := PatternDoc{ID: uint64(p.ID), Name: p.Name, LengthBars: p.LengthBars, Notes: make([]NoteDoc, len(notes))}
	for i, n := range notes {
		out.Notes[i] = NoteDoc{
			Pitch:           n.Pitch,
			StartSamples:    n.Start.Samples,
			DurationSamples: n.Duration,
			Velocity:        n.Velocity,
		}
	}
	return out
}

func patternFromDoc(doc PatternDoc, sampleRate float64, tempo timeline.Tempo, sig timeline.TimeSignature) (sequencer.Pattern, error) {
	pattern, err := sequencer.NewPattern(sequencer.PatternID(doc.ID), doc.Name, doc.LengthBars)
	if err != nil {
		return sequencer.Pattern{}, fmt.Errorf("project: pattern %d: %w", doc.ID, err)
	}
	for _, n := range doc.Notes {
		start := timeline.PositionFromSamples(n.StartSamples, sampleRate, tempo, sig)
		pattern.AddNote(sequencer.NewNote(sequencer.GenerateNoteID(), n.Pitch, start, n.DurationSamples, n.Velocity))
	}
	return pattern, nil
}

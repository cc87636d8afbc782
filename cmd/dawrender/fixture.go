package main

import (
	"fmt"
	"os"

	"github.com/antikkorps/godaw/pkg/sequencer"
	"github.com/antikkorps/godaw/pkg/timeline"
	"gopkg.in/yaml.v3"
)

// fixture is the on-disk shape of a pattern rendering test file: plain
// pitch/start/duration/velocity tuples in quarter-note units, not the
// full project value model.
type fixture struct {
	Bpm         float64       `yaml:"bpm"`
	Numerator   uint8         `yaml:"numerator"`
	Denominator uint8         `yaml:"denominator"`
	Notes       []fixtureNote `yaml:"notes"`
}

type fixtureNote struct {
	Pitch         uint8   `yaml:"pitch"`
	StartBeat     float64 `yaml:"start_beat"`
	DurationBeats float64 `yaml:"duration_beats"`
	Velocity      uint8   `yaml:"velocity"`
}

// loadFixture reads a YAML pattern fixture and builds a Pattern from it,
// resolving beat offsets against sampleRate/tempo/timeSig.
func loadFixture(path string, sampleRate float64) (sequencer.Pattern, timeline.Tempo, timeline.TimeSignature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sequencer.Pattern{}, timeline.Tempo{}, timeline.TimeSignature{}, fmt.Errorf("read fixture: %w", err)
	}

	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return sequencer.Pattern{}, timeline.Tempo{}, timeline.TimeSignature{}, fmt.Errorf("parse fixture: %w", err)
	}

	tempo, err := timeline.NewTempo(f.Bpm)
	if err != nil {
		return sequencer.Pattern{}, timeline.Tempo{}, timeline.TimeSignature{}, fmt.Errorf("fixture tempo: %w", err)
	}
	num, den := f.Numerator, f.Denominator
	if num == 0 {
		num = 4
	}
	if den == 0 {
		den = 4
	}
	timeSig, err := timeline.NewTimeSignature(num, den)
	if err != nil {
		return sequencer.Pattern{}, timeline.Tempo{}, timeline.TimeSignature{}, fmt.Errorf("fixture time signature: %w", err)
	}

	samplesPerBeat := sampleRate * 60.0 / tempo.BPM()

	var maxEnd uint64
	pattern := sequencer.NewDefaultPattern(1, "fixture")
	for _, n := range f.Notes {
		startSamples := uint64(n.StartBeat * samplesPerBeat)
		durationSamples := uint64(n.DurationBeats * samplesPerBeat)
		start := timeline.PositionFromSamples(startSamples, sampleRate, tempo, timeSig)
		note := sequencer.NewNote(sequencer.GenerateNoteID(), n.Pitch, start, durationSamples, n.Velocity)
		pattern.AddNote(note)
		if end := startSamples + durationSamples; end > maxEnd {
			maxEnd = end
		}
	}

	samplesPerBar := samplesPerBeat * float64(num)
	bars := uint32(float64(maxEnd)/samplesPerBar) + 1
	pattern.LengthBars = bars

	return pattern, tempo, timeSig, nil
}

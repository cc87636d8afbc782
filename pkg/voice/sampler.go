package voice

import (
	"math"

	"github.com/antikkorps/godaw/pkg/dsp"
)

// Sample is decoded PCM (mono, already sample-rate matched to the engine)
// handed to the core by an external sample-file decoder (out of core
// scope per the system's external-collaborator boundary).
type Sample struct {
	ID     uint32
	Frames []float32
}

// SampleBank maps MIDI notes to decoded samples for sampler voices.
type SampleBank struct {
	samples     map[uint32]*Sample
	noteToSample map[uint8]uint32
}

// NewSampleBank creates an empty bank.
func NewSampleBank() *SampleBank {
	return &SampleBank{
		samples:      make(map[uint32]*Sample),
		noteToSample: make(map[uint8]uint32),
	}
}

// AddSample registers a decoded sample under id.
func (b *SampleBank) AddSample(s *Sample) { b.samples[s.ID] = s }

// RemoveSample drops a sample and any note mappings pointing at it.
func (b *SampleBank) RemoveSample(id uint32) {
	delete(b.samples, id)
	for note, sid := range b.noteToSample {
		if sid == id {
			delete(b.noteToSample, note)
		}
	}
}

// UpdateSample replaces the frames of an already-registered sample.
func (b *SampleBank) UpdateSample(id uint32, frames []float32) {
	if s, ok := b.samples[id]; ok {
		s.Frames = frames
	}
}

// SetNoteSampleMapping maps note to sample id.
func (b *SampleBank) SetNoteSampleMapping(note uint8, sampleID uint32) {
	b.noteToSample[note] = sampleID
}

// Lookup returns the sample mapped to note, if any.
func (b *SampleBank) Lookup(note uint8) (*Sample, bool) {
	id, ok := b.noteToSample[note]
	if !ok {
		return nil, false
	}
	s, ok := b.samples[id]
	return s, ok
}

// SamplerVoice plays back a single decoded sample once triggered, shaped
// by the same ADSR envelope contract as SynthVoice so the voice manager
// can treat both kinds uniformly.
type SamplerVoice struct {
	index int

	Note     uint8
	Velocity float64
	Age      uint64
	Pan      float64

	Envelope *dsp.ADSR

	sample   *Sample
	position float64
	rate     float64

	releasing bool
}

// NewSamplerVoice creates an idle sampler voice at index.
func NewSamplerVoice(index int, sampleRate float64) *SamplerVoice {
	return &SamplerVoice{index: index, Envelope: dsp.NewADSR(sampleRate), rate: 1.0}
}

// Index returns the voice's fixed slot index.
func (v *SamplerVoice) Index() int { return v.index }

// IsActive reports whether the envelope is non-idle.
func (v *SamplerVoice) IsActive() bool { return v.Envelope.IsActive() }

// Trigger starts playback of sample from the beginning.
func (v *SamplerVoice) Trigger(note uint8, velocity float64, age uint64, sample *Sample) {
	v.Note = note
	v.Velocity = velocity
	v.Age = age
	v.sample = sample
	v.position = 0
	v.releasing = false
	v.Envelope.NoteOn()
}

// NoteOff enters the release stage.
func (v *SamplerVoice) NoteOff() {
	v.releasing = true
	v.Envelope.NoteOff()
}

// Render advances playback by one sample, shaped by the envelope and
// velocity. Playback does not loop: past the end of the sample's frames it
// outputs silence and sends the envelope into release.
func (v *SamplerVoice) Render() (left, right float64) {
	if !v.IsActive() || v.sample == nil || len(v.sample.Frames) == 0 {
		return 0, 0
	}
	env := v.Envelope.Process()

	idx := int(v.position)
	var raw float64
	if idx < len(v.sample.Frames) {
		raw = float64(v.sample.Frames[idx])
	}
	v.position += v.rate
	if v.position >= float64(len(v.sample.Frames)) {
		v.Envelope.NoteOff()
	}

	sample := raw * v.Velocity * env
	angle := (clampf(v.Pan, -1, 1)*0.5 + 0.5) * math.Pi / 2
	left = sample * math.Cos(angle)
	right = sample * math.Sin(angle)
	return
}

package sequencer

import (
	"math"

	"github.com/antikkorps/godaw/pkg/timeline"
)

// ClickType distinguishes the downbeat accent click from regular beats.
type ClickType int

const (
	ClickAccent ClickType = iota
	ClickRegular
)

const clickDurationMs = 10.0

// MetronomeSound precomputes the accent and regular click waveforms once,
// so playback is a cheap buffer copy rather than per-sample synthesis.
type MetronomeSound struct {
	accent  []float32
	regular []float32
}

// NewMetronomeSound generates both click buffers at sampleRate.
func NewMetronomeSound(sampleRate float64) *MetronomeSound {
	n := int(clickDurationMs / 1000.0 * sampleRate)
	return &MetronomeSound{
		accent:  generateClick(sampleRate, n, 1200.0, 0.6),
		regular: generateClick(sampleRate, n, 800.0, 0.4),
	}
}

func generateClick(sampleRate float64, numSamples int, frequency, amplitude float64) []float32 {
	samples := make([]float32, numSamples)
	phaseIncrement := 2.0 * math.Pi * frequency / sampleRate
	for i := 0; i < numSamples; i++ {
		t := float64(i) / float64(numSamples)
		envelope := math.Exp(-t * 8.0)
		phase := float64(i) * phaseIncrement
		samples[i] = float32(math.Sin(phase) * envelope * amplitude)
	}
	return samples
}

// GetClick returns the precomputed buffer for the given click type.
func (s *MetronomeSound) GetClick(t ClickType) []float32 {
	if t == ClickAccent {
		return s.accent
	}
	return s.regular
}

// ClickDuration returns the click length in samples.
func (s *MetronomeSound) ClickDuration() int { return len(s.accent) }

type clickPlayback struct {
	clickType ClickType
	position  int
}

// Metronome holds the enable/volume state and the cursor into whichever
// click buffer is currently playing.
type Metronome struct {
	sound   *MetronomeSound
	Enabled bool
	Volume  float64

	current *clickPlayback
}

// NewMetronome creates an enabled metronome at half volume.
func NewMetronome(sampleRate float64) *Metronome {
	return &Metronome{sound: NewMetronomeSound(sampleRate), Enabled: true, Volume: 0.5}
}

// SetEnabled toggles the metronome, clearing any in-flight click when
// disabled.
func (m *Metronome) SetEnabled(enabled bool) {
	m.Enabled = enabled
	if !enabled {
		m.current = nil
	}
}

// SetVolume clamps and sets the click mix volume.
func (m *Metronome) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	m.Volume = v
}

// TriggerClick starts playback of the given click type from its start,
// replacing whatever click was already playing.
func (m *Metronome) TriggerClick(t ClickType) {
	if !m.Enabled {
		return
	}
	m.current = &clickPlayback{clickType: t}
}

// ProcessSample returns the next click sample, or 0 if none is playing.
func (m *Metronome) ProcessSample() float64 {
	if m.current == nil {
		return 0
	}
	buf := m.sound.GetClick(m.current.clickType)
	if m.current.position >= len(buf) {
		m.current = nil
		return 0
	}
	sample := float64(buf[m.current.position]) * m.Volume
	m.current.position++
	return sample
}

// ProcessBuffer fills output with consecutive ProcessSample calls.
func (m *Metronome) ProcessBuffer(output []float64) {
	for i := range output {
		output[i] = m.ProcessSample()
	}
}

// Reset stops any in-flight click.
func (m *Metronome) Reset() { m.current = nil }

// Scheduler determines, buffer by buffer, whether a beat boundary has
// been crossed and what type of click it calls for.
type Scheduler struct {
	lastBeat uint64
}

// NewScheduler creates a scheduler with no beats yet emitted.
func NewScheduler() *Scheduler { return &Scheduler{} }

// CheckForClick looks at [bufferStart, bufferStart+bufferSize) and
// returns the sample offset and click type if a new beat boundary falls
// inside it.
func (s *Scheduler) CheckForClick(bufferStart uint64, bufferSize int, sampleRate float64, tempo timeline.Tempo, sig timeline.TimeSignature) (offset int, click ClickType, found bool) {
	bufferEnd := bufferStart + uint64(bufferSize)
	beatDuration := tempo.BeatDurationSamples(sampleRate)

	beatStart := uint64(float64(bufferStart) / beatDuration)
	beatEnd := uint64(float64(bufferEnd) / beatDuration)

	if beatEnd > beatStart && beatEnd > s.lastBeat {
		beatNumber := beatEnd
		s.lastBeat = beatNumber

		beatSamplePos := uint64(float64(beatNumber) * beatDuration)
		var off uint64
		if beatSamplePos > bufferStart {
			off = beatSamplePos - bufferStart
		}

		beatInBar := (beatNumber - 1) % uint64(sig.Numerator)
		clickType := ClickRegular
		if beatInBar == 0 {
			clickType = ClickAccent
		}
		return int(off), clickType, true
	}

	return 0, 0, false
}

// Reset zeroes the last-emitted beat index (e.g. on transport stop).
func (s *Scheduler) Reset() { s.lastBeat = 0 }

// SetCurrentBeat realigns the scheduler after a transport seek.
func (s *Scheduler) SetCurrentBeat(beat uint64) { s.lastBeat = beat }

package voice

import "github.com/antikkorps/godaw/pkg/dsp"

// MaxVoices is the fixed polyphony limit (reference engine uses 16).
const MaxVoices = 16

// Manager owns a fixed array of MaxVoices synth voices and applies the
// poly/mono/legato allocation and deterministic voice-stealing policy from
// §4.B. At most one voice sounds per note in Mono/Legato; Poly allows
// multiple voices to share a pitch.
type Manager struct {
	voices     [MaxVoices]*SynthVoice
	sampleRate float64
	nextAge    uint64

	PolyMode PolyMode
	Sampler  *SampleBank
}

// NewManager creates a manager with every voice pre-allocated.
func NewManager(sampleRate float64) *Manager {
	m := &Manager{sampleRate: sampleRate, Sampler: NewSampleBank()}
	for i := range m.voices {
		m.voices[i] = NewSynthVoice(i, sampleRate)
	}
	return m
}

// SetSampleRate propagates a sample-rate change to every voice.
func (m *Manager) SetSampleRate(sr float64) {
	m.sampleRate = sr
	for _, v := range m.voices {
		v.SetSampleRate(sr)
	}
}

// Voices exposes the fixed voice array for iteration by the mixdown step.
func (m *Manager) Voices() [MaxVoices]*SynthVoice { return m.voices }

// ActiveCount returns how many voices currently have a non-idle envelope.
func (m *Manager) ActiveCount() int {
	n := 0
	for _, v := range m.voices {
		if v.IsActive() {
			n++
		}
	}
	return n
}

func (m *Manager) allocAge() uint64 {
	m.nextAge++
	return m.nextAge
}

// currentMonoVoice returns the single active voice in Mono/Legato mode, or
// nil if none is active. Invariant: at most one voice is active in these
// modes, so voices[0] onward is scanned and the first active one wins.
func (m *Manager) currentMonoVoice() *SynthVoice {
	for _, v := range m.voices {
		if v.IsActive() {
			return v
		}
	}
	return nil
}

// NoteOn allocates or retriggers a voice for note per the manager's
// current PolyMode.
func (m *Manager) NoteOn(note uint8, velocity, aftertouch float64) *SynthVoice {
	age := m.allocAge()

	switch m.PolyMode {
	case PolyModeMono:
		if v := m.currentMonoVoice(); v != nil {
			v.retrigger(note, velocity, aftertouch, age, 0, false)
			return v
		}
		v := m.voices[0]
		v.retrigger(note, velocity, aftertouch, age, 0, false)
		return v

	case PolyModeLegato:
		if v := m.currentMonoVoice(); v != nil {
			v.updateLegato(note, velocity, aftertouch, age)
			return v
		}
		v := m.voices[0]
		v.retrigger(note, velocity, aftertouch, age, 0, false)
		return v

	default: // PolyModePoly
		return m.allocatePolyVoice(note, velocity, aftertouch, age)
	}
}

// allocatePolyVoice implements the poly allocation policy: lowest-index
// idle voice first, else deterministic stealing (prefer releasing voices,
// oldest by age; otherwise oldest active voice overall; ties break by
// lowest index).
func (m *Manager) allocatePolyVoice(note uint8, velocity, aftertouch float64, age uint64) *SynthVoice {
	for _, v := range m.voices {
		if !v.IsActive() {
			v.retrigger(note, velocity, aftertouch, age, 0, false)
			return v
		}
	}

	victim := m.pickStealVictim()
	victim.retrigger(note, velocity, aftertouch, age, 0, false)
	return victim
}

func (m *Manager) pickStealVictim() *SynthVoice {
	var oldestReleasing *SynthVoice
	var oldestActive *SynthVoice

	for _, v := range m.voices {
		if !v.IsActive() {
			continue
		}
		if oldestActive == nil || v.Age < oldestActive.Age {
			oldestActive = v
		}
		if v.IsReleasing() {
			if oldestReleasing == nil || v.Age < oldestReleasing.Age {
				oldestReleasing = v
			}
		}
	}

	if oldestReleasing != nil {
		return oldestReleasing
	}
	return oldestActive
}

// NoteOff releases voices matching note: every active voice with a
// matching note in Poly, or the single sounding voice (if it matches) in
// Mono/Legato.
func (m *Manager) NoteOff(note uint8) {
	switch m.PolyMode {
	case PolyModeMono, PolyModeLegato:
		if v := m.currentMonoVoice(); v != nil && v.Note == note {
			v.noteOff()
		}
	default:
		for _, v := range m.voices {
			if v.IsActive() && v.Note == note {
				v.noteOff()
			}
		}
	}
}

// SetAftertouch applies polyphonic aftertouch to every active voice
// matching note; SetChannelAftertouch covers all active voices.
func (m *Manager) SetAftertouch(note uint8, value float64) {
	for _, v := range m.voices {
		if v.IsActive() && v.Note == note {
			v.setAftertouch(value)
		}
	}
}

// SetChannelAftertouch applies aftertouch to every active voice.
func (m *Manager) SetChannelAftertouch(value float64) {
	for _, v := range m.voices {
		if v.IsActive() {
			v.setAftertouch(value)
		}
	}
}

// ReleaseAll forces every active voice into release.
func (m *Manager) ReleaseAll() {
	for _, v := range m.voices {
		if v.IsActive() {
			v.noteOff()
		}
	}
}

// Panic immediately silences every voice without a release ramp.
func (m *Manager) Panic() {
	for _, v := range m.voices {
		v.Deactivate()
	}
}

// NextSample mixes every active voice's per-sample render into a single
// stereo frame.
func (m *Manager) NextSample() (left, right float64) {
	for _, v := range m.voices {
		l, r := v.Render()
		left += l
		right += r
	}
	return
}

// ApplyWaveform sets the oscillator waveform on every voice (current and
// future notes).
func (m *Manager) ApplyWaveform(w dsp.Waveform) {
	for _, v := range m.voices {
		v.SetWaveform(w)
	}
}

// ApplyADSR sets envelope parameters on every voice.
func (m *Manager) ApplyADSR(p dsp.ADSRParams) {
	for _, v := range m.voices {
		v.Envelope.SetParams(p)
	}
}

// ApplyFilter sets filter parameters on every voice.
func (m *Manager) ApplyFilter(p dsp.FilterParams) {
	for _, v := range m.voices {
		v.FilterParam = p
		v.Filter.SetParams(p)
	}
}

// ApplyLfo1 sets the first LFO's parameters on every voice.
func (m *Manager) ApplyLfo1(p dsp.LfoParams) {
	for _, v := range m.voices {
		v.Lfo1.SetParams(p)
	}
}

// ApplyLfo2 sets the second LFO's parameters on every voice.
func (m *Manager) ApplyLfo2(p dsp.LfoParams) {
	for _, v := range m.voices {
		v.Lfo2.SetParams(p)
	}
}

// ApplyPortamento sets the glide parameters on every voice.
func (m *Manager) ApplyPortamento(p PortamentoParams) {
	for _, v := range m.voices {
		v.Portamento.SetParams(p)
	}
}

// ApplyModRouting installs routing at index on every voice's mod matrix.
func (m *Manager) ApplyModRouting(index int, routing ModRouting) {
	for _, v := range m.voices {
		v.ModMatrix.SetRouting(index, routing)
	}
}

// ClearModRouting disables the routing at index on every voice.
func (m *Manager) ClearModRouting(index int) {
	for _, v := range m.voices {
		v.ModMatrix.ClearRouting(index)
	}
}

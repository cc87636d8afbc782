package timeline

import "sync/atomic"

// State is the transport's play/stop/record state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StateRecording
	StatePaused
)

// IsPlaying reports whether state advances the playhead (Playing or
// Recording).
func (s State) IsPlaying() bool { return s == StatePlaying || s == StateRecording }

// IsRecording reports whether state is Recording.
func (s State) IsRecording() bool { return s == StateRecording }

// IsStopped reports whether state is Stopped or Paused.
func (s State) IsStopped() bool { return s == StateStopped || s == StatePaused }

// SharedTransportState is the atomics-backed transport state shared
// between the UI thread (which issues play/stop/seek) and the audio
// thread (which advances the playhead every callback). No locks: every
// field is an independent atomic, matching the command-ring discipline
// used elsewhere in the messaging fabric.
type SharedTransportState struct {
	playing   atomic.Bool
	recording atomic.Bool
	paused    atomic.Bool

	positionSamples atomic.Uint64

	loopEnabled atomic.Bool
	loopStart   atomic.Uint64
	loopEnd     atomic.Uint64
}

// NewSharedTransportState returns a stopped transport at position 0.
func NewSharedTransportState() *SharedTransportState { return &SharedTransportState{} }

// State resolves the current play/record/pause bits to a single State,
// recording taking precedence over playing over paused over stopped.
func (s *SharedTransportState) State() State {
	switch {
	case s.recording.Load():
		return StateRecording
	case s.playing.Load():
		return StatePlaying
	case s.paused.Load():
		return StatePaused
	default:
		return StateStopped
	}
}

// PositionSamples returns the current playhead position.
func (s *SharedTransportState) PositionSamples() uint64 { return s.positionSamples.Load() }

// SetPositionSamples seeks the playhead directly.
func (s *SharedTransportState) SetPositionSamples(samples uint64) { s.positionSamples.Store(samples) }

// AdvancePosition moves the playhead forward by delta samples, wrapping
// into the loop region if one is active and the new position has reached
// or passed the loop end. Returns the resulting position.
func (s *SharedTransportState) AdvancePosition(delta uint64) uint64 {
	newPos := s.positionSamples.Load() + delta

	if s.loopEnabled.Load() {
		start, end := s.loopStart.Load(), s.loopEnd.Load()
		if end > start && newPos >= end {
			loopLen := end - start
			overflow := newPos - end
			newPos = start + overflow%loopLen
		}
	}

	s.positionSamples.Store(newPos)
	return newPos
}

// IsLoopEnabled reports whether looping is active.
func (s *SharedTransportState) IsLoopEnabled() bool { return s.loopEnabled.Load() }

// LoopRegion returns the loop start/end in samples.
func (s *SharedTransportState) LoopRegion() (start, end uint64) {
	return s.loopStart.Load(), s.loopEnd.Load()
}

// SetLoopRegion sets the loop boundaries. end must be greater than start;
// violating this is a caller bug, not a runtime condition, so it panics
// like the bounds check it mirrors.
func (s *SharedTransportState) SetLoopRegion(start, end uint64) {
	if end <= start {
		panic("timeline: loop end must be after start")
	}
	s.loopStart.Store(start)
	s.loopEnd.Store(end)
}

// SetLoopEnabled toggles looping without touching the region.
func (s *SharedTransportState) SetLoopEnabled(enabled bool) { s.loopEnabled.Store(enabled) }

func (s *SharedTransportState) setPlaying(playing, recording, paused bool) {
	s.playing.Store(playing)
	s.recording.Store(recording)
	s.paused.Store(paused)
}

// Transport is the UI-thread controller for playback: it owns the
// musical-time context (tempo, time signature, sample rate) and mutates
// the shared atomics the audio thread reads.
type Transport struct {
	shared        *SharedTransportState
	tempo         Tempo
	timeSignature TimeSignature
	sampleRate    float64
}

// NewTransport creates a transport with its own shared state, at the
// engine's default tempo and time signature.
func NewTransport(sampleRate float64) *Transport {
	return &Transport{
		shared:        NewSharedTransportState(),
		tempo:         DefaultTempo(),
		timeSignature: FourFour(),
		sampleRate:    sampleRate,
	}
}

// NewTransportWithSharedState wraps an existing shared state, e.g. the
// instance the audio thread was handed at engine construction.
func NewTransportWithSharedState(shared *SharedTransportState, sampleRate float64) *Transport {
	return &Transport{
		shared:        shared,
		tempo:         DefaultTempo(),
		timeSignature: FourFour(),
		sampleRate:    sampleRate,
	}
}

// SharedState exposes the underlying atomics for handoff to the audio
// thread.
func (t *Transport) SharedState() *SharedTransportState { return t.shared }

// State returns the current transport state.
func (t *Transport) State() State { return t.shared.State() }

// Position returns the current position in both sample and musical form.
func (t *Transport) Position() Position {
	return PositionFromSamples(t.shared.PositionSamples(), t.sampleRate, t.tempo, t.timeSignature)
}

// SetPosition seeks to an already-resolved Position.
func (t *Transport) SetPosition(p Position) { t.shared.SetPositionSamples(p.Samples) }

// SetPositionSamples seeks to an absolute sample count.
func (t *Transport) SetPositionSamples(samples uint64) { t.shared.SetPositionSamples(samples) }

// Play starts playback from the current position.
func (t *Transport) Play() { t.shared.setPlaying(true, false, false) }

// Stop halts playback and resets the position to 0.
func (t *Transport) Stop() {
	t.shared.setPlaying(false, false, false)
	t.shared.SetPositionSamples(0)
}

// Pause halts playback, keeping the current position.
func (t *Transport) Pause() { t.shared.setPlaying(false, false, true) }

// Record starts playback in recording mode.
func (t *Transport) Record() { t.shared.setPlaying(true, true, false) }

// TogglePlay pauses if playing, else plays.
func (t *Transport) TogglePlay() {
	if t.State().IsPlaying() {
		t.Pause()
	} else {
		t.Play()
	}
}

// Tempo returns the current tempo.
func (t *Transport) Tempo() Tempo { return t.tempo }

// SetTempo replaces the tempo.
func (t *Transport) SetTempo(tempo Tempo) { t.tempo = tempo }

// TimeSignature returns the current time signature.
func (t *Transport) TimeSignature() TimeSignature { return t.timeSignature }

// SetTimeSignature replaces the time signature.
func (t *Transport) SetTimeSignature(sig TimeSignature) { t.timeSignature = sig }

// SampleRate returns the sample rate used for musical-time conversion.
func (t *Transport) SampleRate() float64 { return t.sampleRate }

// SetSampleRate updates the sample rate, e.g. after an audio device change.
func (t *Transport) SetSampleRate(sr float64) { t.sampleRate = sr }

// SetLoopEnabled toggles looping.
func (t *Transport) SetLoopEnabled(enabled bool) { t.shared.SetLoopEnabled(enabled) }

// IsLoopEnabled reports whether looping is active.
func (t *Transport) IsLoopEnabled() bool { return t.shared.IsLoopEnabled() }

// SetLoopRegion sets the loop boundaries from musical-time positions.
func (t *Transport) SetLoopRegion(start, end Position) {
	t.shared.SetLoopRegion(start.Samples, end.Samples)
}

// SetLoopRegionSamples sets the loop boundaries directly in samples.
func (t *Transport) SetLoopRegionSamples(start, end uint64) { t.shared.SetLoopRegion(start, end) }

// LoopRegion returns the loop boundaries as resolved Positions.
func (t *Transport) LoopRegion() (start, end Position) {
	s, e := t.shared.LoopRegion()
	return PositionFromSamples(s, t.sampleRate, t.tempo, t.timeSignature),
		PositionFromSamples(e, t.sampleRate, t.tempo, t.timeSignature)
}

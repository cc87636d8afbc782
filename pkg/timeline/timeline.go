// Package timeline converts between absolute sample counts and musical
// time (bars, beats, ticks), and defines the tempo and time-signature
// values that govern that conversion.
package timeline

import (
	"fmt"
)

// Tempo holds a validated BPM value. The zero value is not usable;
// construct with NewTempo or DefaultTempo.
type Tempo struct {
	bpm float64
}

// NewTempo validates bpm against [20.0, 999.0] and returns a Tempo.
func NewTempo(bpm float64) (Tempo, error) {
	if bpm < 20.0 || bpm > 999.0 {
		return Tempo{}, fmt.Errorf("timeline: bpm %.2f out of range [20, 999]", bpm)
	}
	return Tempo{bpm: bpm}, nil
}

// DefaultTempo returns 120 BPM.
func DefaultTempo() Tempo { return Tempo{bpm: 120.0} }

// BPM returns the tempo in beats per minute.
func (t Tempo) BPM() float64 { return t.bpm }

// BeatDurationSeconds returns the duration of one quarter-note beat.
func (t Tempo) BeatDurationSeconds() float64 { return 60.0 / t.bpm }

// BeatDurationSamples returns the duration of one beat at sampleRate.
func (t Tempo) BeatDurationSamples(sampleRate float64) float64 {
	return t.BeatDurationSeconds() * sampleRate
}

// BarDurationSeconds returns the duration of one bar under sig.
func (t Tempo) BarDurationSeconds(sig TimeSignature) float64 {
	return t.BeatDurationSeconds() * sig.BeatsPerBar()
}

// BarDurationSamples returns the duration of one bar at sampleRate under sig.
func (t Tempo) BarDurationSamples(sampleRate float64, sig TimeSignature) float64 {
	return t.BarDurationSeconds(sig) * sampleRate
}

func (t Tempo) String() string { return fmt.Sprintf("%.1f BPM", t.bpm) }

// TimeSignature is a validated numerator/denominator pair, e.g. 4/4.
type TimeSignature struct {
	Numerator   uint8
	Denominator uint8
}

// NewTimeSignature validates numerator ∈ [1,32] and denominator a power of
// two ≤ 32.
func NewTimeSignature(numerator, denominator uint8) (TimeSignature, error) {
	if numerator == 0 || numerator > 32 {
		return TimeSignature{}, fmt.Errorf("timeline: numerator %d out of range [1, 32]", numerator)
	}
	if !isPowerOfTwo(denominator) || denominator > 32 {
		return TimeSignature{}, fmt.Errorf("timeline: denominator %d must be a power of two ≤ 32", denominator)
	}
	return TimeSignature{Numerator: numerator, Denominator: denominator}, nil
}

func isPowerOfTwo(n uint8) bool { return n != 0 && n&(n-1) == 0 }

// FourFour is the common 4/4 time signature.
func FourFour() TimeSignature { return TimeSignature{Numerator: 4, Denominator: 4} }

// ThreeFour is the common 3/4 (waltz) time signature.
func ThreeFour() TimeSignature { return TimeSignature{Numerator: 3, Denominator: 4} }

// SixEight is the common 6/8 time signature.
func SixEight() TimeSignature { return TimeSignature{Numerator: 6, Denominator: 8} }

// BeatsPerBar returns the numerator as a float64 beat count.
func (s TimeSignature) BeatsPerBar() float64 { return float64(s.Numerator) }

// BeatDurationMultiplier returns the beat's duration relative to a quarter
// note (e.g. 6/8 is 0.5, an eighth note).
func (s TimeSignature) BeatDurationMultiplier() float64 { return 4.0 / float64(s.Denominator) }

func (s TimeSignature) String() string { return fmt.Sprintf("%d/%d", s.Numerator, s.Denominator) }

// TicksPerQuarter is the PPQN resolution used throughout the engine.
const TicksPerQuarter uint16 = 480

// MusicalTime is a bar:beat:tick position. Bar and beat are 1-based; tick
// is 0-based and runs [0, TicksPerQuarter).
type MusicalTime struct {
	Bar  uint32
	Beat uint8
	Tick uint16
}

// ZeroMusicalTime is bar 1, beat 1, tick 0.
func ZeroMusicalTime() MusicalTime { return MusicalTime{Bar: 1, Beat: 1, Tick: 0} }

// ToTotalTicks flattens the position into an absolute tick count from the
// start of the timeline, under sig.
func (m MusicalTime) ToTotalTicks(sig TimeSignature) uint64 {
	ticksPerBeat := uint64(TicksPerQuarter)
	beatsPerBar := uint64(sig.Numerator)
	ticksPerBar := beatsPerBar * ticksPerBeat

	bar0 := uint64(m.Bar - 1)
	beat0 := uint64(m.Beat - 1)

	return bar0*ticksPerBar + beat0*ticksPerBeat + uint64(m.Tick)
}

// MusicalTimeFromTotalTicks is the inverse of ToTotalTicks.
func MusicalTimeFromTotalTicks(totalTicks uint64, sig TimeSignature) MusicalTime {
	ticksPerBeat := uint64(TicksPerQuarter)
	beatsPerBar := uint64(sig.Numerator)
	ticksPerBar := beatsPerBar * ticksPerBeat

	bar := totalTicks/ticksPerBar + 1
	remaining := totalTicks % ticksPerBar
	beat := remaining/ticksPerBeat + 1
	tick := remaining % ticksPerBeat

	return MusicalTime{Bar: uint32(bar), Beat: uint8(beat), Tick: uint16(tick)}
}

// QuantizeToBeat rounds m to the nearest beat boundary.
func (m MusicalTime) QuantizeToBeat(sig TimeSignature) MusicalTime {
	total := m.ToTotalTicks(sig)
	ticksPerBeat := uint64(TicksPerQuarter)
	quantized := (total + ticksPerBeat/2) / ticksPerBeat * ticksPerBeat
	return MusicalTimeFromTotalTicks(quantized, sig)
}

// QuantizeToSubdivision rounds m to the nearest 1/subdivision fraction of a
// beat (subdivision=4 quantizes to sixteenth notes).
func (m MusicalTime) QuantizeToSubdivision(sig TimeSignature, subdivision uint16) MusicalTime {
	total := m.ToTotalTicks(sig)
	ticksPerSub := uint64(TicksPerQuarter / subdivision)
	quantized := (total + ticksPerSub/2) / ticksPerSub * ticksPerSub
	return MusicalTimeFromTotalTicks(quantized, sig)
}

func (m MusicalTime) String() string { return fmt.Sprintf("%d:%02d:%03d", m.Bar, m.Beat, m.Tick) }

// Position pairs an absolute sample count with its musical-time
// equivalent, computed under a specific sample rate, tempo, and time
// signature.
type Position struct {
	Samples uint64
	Musical MusicalTime
}

// ZeroPosition is sample 0, bar 1 beat 1 tick 0.
func ZeroPosition() Position { return Position{Samples: 0, Musical: ZeroMusicalTime()} }

// PositionFromSamples converts an absolute sample count to a Position.
func PositionFromSamples(samples uint64, sampleRate float64, tempo Tempo, sig TimeSignature) Position {
	seconds := float64(samples) / sampleRate
	beats := seconds / tempo.BeatDurationSeconds()
	totalTicks := uint64(beats * float64(TicksPerQuarter))
	return Position{Samples: samples, Musical: MusicalTimeFromTotalTicks(totalTicks, sig)}
}

// PositionFromMusical converts a musical-time position to a Position.
func PositionFromMusical(m MusicalTime, sampleRate float64, tempo Tempo, sig TimeSignature) Position {
	totalTicks := m.ToTotalTicks(sig)
	beats := float64(totalTicks) / float64(TicksPerQuarter)
	seconds := beats * tempo.BeatDurationSeconds()
	samples := uint64(seconds * sampleRate)
	return Position{Samples: samples, Musical: m}
}

// AddSamples returns the position delta samples later.
func (p Position) AddSamples(delta uint64, sampleRate float64, tempo Tempo, sig TimeSignature) Position {
	return PositionFromSamples(p.Samples+delta, sampleRate, tempo, sig)
}

func (p Position) String() string { return fmt.Sprintf("%s (%d)", p.Musical, p.Samples) }

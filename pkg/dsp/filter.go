package dsp

import "math"

// FilterType selects which of the state-variable filter's simultaneous
// outputs is returned by Process.
type FilterType int

const (
	FilterLowPass FilterType = iota
	FilterHighPass
	FilterBandPass
	FilterNotch
)

// FilterParams holds cutoff (Hz), resonance (Q factor) and the selected
// output tap.
type FilterParams struct {
	Cutoff     float64
	Resonance  float64
	FilterType FilterType
}

// DefaultFilterParams returns an open low-pass with a Butterworth Q.
func DefaultFilterParams() FilterParams {
	return FilterParams{Cutoff: 1000.0, Resonance: 0.707, FilterType: FilterLowPass}
}

// Clamp bounds cutoff to [20, sr/6] for stability and resonance's Q to
// [0.5, 20].
func (p FilterParams) Clamp(sampleRate float64) FilterParams {
	maxCutoff := sampleRate / 6.0
	return FilterParams{
		Cutoff:     clamp(p.Cutoff, 20, maxCutoff),
		Resonance:  clamp(p.Resonance, 0.5, 20.0),
		FilterType: p.FilterType,
	}
}

// StateVariableFilter is a Chamberlin two-integrator state-variable filter
// with independently smoothed cutoff and resonance, plus a
// ProcessModulated entry point that bypasses cutoff smoothing for
// sample-accurate envelope/LFO modulation of the cutoff.
type StateVariableFilter struct {
	Params FilterParams

	low, band float64
	sr        float64

	cutoffSmoother *OnePoleSmoother
	qSmoother      *OnePoleSmoother
}

// NewStateVariableFilter creates a filter for the given sample rate.
func NewStateVariableFilter(sampleRate float64) *StateVariableFilter {
	p := DefaultFilterParams().Clamp(sampleRate)
	return &StateVariableFilter{
		Params:         p,
		sr:             sampleRate,
		cutoffSmoother: NewOnePoleSmoother(sampleRate, 10, p.Cutoff),
		qSmoother:      NewOnePoleSmoother(sampleRate, 10, p.Resonance),
	}
}

// SetSampleRate updates the sample rate used for coefficient computation.
func (f *StateVariableFilter) SetSampleRate(sr float64) {
	f.sr = sr
	f.cutoffSmoother.SetSampleRate(sr)
	f.qSmoother.SetSampleRate(sr)
}

// SetParams replaces the filter parameters, clamped for stability.
func (f *StateVariableFilter) SetParams(p FilterParams) {
	f.Params = p.Clamp(f.sr)
}

// Reset clears the two integrator states.
func (f *StateVariableFilter) Reset() {
	f.low = 0
	f.band = 0
}

func coefficients(cutoff, resonance, sr float64) (fCoef, q float64) {
	fCoef = 2 * math.Sin(math.Pi*cutoff/sr)
	q = clamp(1.0/resonance, 0.01, 2.0)
	return
}

// Process runs one sample through the filter with cutoff and resonance
// smoothed towards their target params (avoids zipper noise on slider
// moves).
func (f *StateVariableFilter) Process(in float64) float64 {
	cutoff := f.cutoffSmoother.Process(f.Params.Cutoff)
	q := f.qSmoother.Process(f.Params.Resonance)
	return f.step(in, cutoff, q)
}

// ProcessModulated runs one sample through the filter at an explicit
// cutoff frequency, bypassing the cutoff smoother so an envelope or LFO
// can drive it sample-accurately. Resonance is still smoothed.
func (f *StateVariableFilter) ProcessModulated(in, cutoffHz float64) float64 {
	maxCutoff := f.sr / 6.0
	cutoffHz = clamp(cutoffHz, 20, maxCutoff)
	q := f.qSmoother.Process(f.Params.Resonance)
	return f.step(in, cutoffHz, q)
}

func (f *StateVariableFilter) step(in, cutoffHz, q float64) float64 {
	fCoef, qCoef := coefficients(cutoffHz, q, f.sr)

	high := in - f.low - qCoef*f.band
	f.band += fCoef * high
	f.low += fCoef * f.band
	notch := in - qCoef*f.band

	f.low = FlushDenormal(f.low)
	f.band = FlushDenormal(f.band)

	switch f.Params.FilterType {
	case FilterLowPass:
		return f.low
	case FilterHighPass:
		return high
	case FilterBandPass:
		return f.band
	case FilterNotch:
		return notch
	default:
		return f.low
	}
}

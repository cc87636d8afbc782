package dsp

// OnePoleSmoother ramps a value towards a target over a fixed time
// constant to avoid zipper noise on control-rate parameters (volume,
// cutoff, feedback, mix, portamento target frequency).
type OnePoleSmoother struct {
	alpha float64
	y     float64
	sr    float64
	tauMs float64
}

// NewOnePoleSmoother creates a smoother with the given time constant in
// milliseconds, initialized to startValue.
func NewOnePoleSmoother(sampleRate, tauMs, startValue float64) *OnePoleSmoother {
	s := &OnePoleSmoother{sr: sampleRate, tauMs: tauMs, y: startValue}
	s.recompute()
	return s
}

// SetTimeConstant changes the smoothing time constant in milliseconds.
func (s *OnePoleSmoother) SetTimeConstant(tauMs float64) {
	s.tauMs = tauMs
	s.recompute()
}

// SetSampleRate updates the sample rate and recomputes alpha.
func (s *OnePoleSmoother) SetSampleRate(sr float64) {
	s.sr = sr
	s.recompute()
}

func (s *OnePoleSmoother) recompute() {
	if s.tauMs <= 0 || s.sr <= 0 {
		s.alpha = 1.0
		return
	}
	alpha := 1.0 / (s.tauMs * s.sr / 1000.0)
	if alpha > 1.0 {
		alpha = 1.0
	}
	s.alpha = alpha
}

// SnapTo immediately sets the smoother's current value with no ramp.
func (s *OnePoleSmoother) SnapTo(value float64) { s.y = value }

// Value returns the smoother's current output without advancing it.
func (s *OnePoleSmoother) Value() float64 { return s.y }

// Process advances the smoother one sample towards target and returns the
// new value.
func (s *OnePoleSmoother) Process(target float64) float64 {
	s.y += s.alpha * (target - s.y)
	s.y = FlushDenormal(s.y)
	return s.y
}

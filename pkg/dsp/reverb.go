package dsp

// ReverbParams holds Freeverb-style room size, damping and wet/dry mix,
// all in [0, 1].
type ReverbParams struct {
	RoomSize float64
	Damping  float64
	Mix      float64
}

// DefaultReverbParams returns a modest, mostly-dry room.
func DefaultReverbParams() ReverbParams {
	return ReverbParams{RoomSize: 0.5, Damping: 0.5, Mix: 0.2}
}

// Clamp bounds every field to [0, 1].
func (p ReverbParams) Clamp() ReverbParams {
	return ReverbParams{
		RoomSize: clamp(p.RoomSize, 0, 1),
		Damping:  clamp(p.Damping, 0, 1),
		Mix:      clamp(p.Mix, 0, 1),
	}
}

var combTunings = [4]float64{1116, 1188, 1277, 1356}
var allpassTunings = [2]float64{556, 441}

type dampedComb struct {
	buf      []float64
	pos      int
	feedback float64
	damp     float64
	lpState  float64
}

func newDampedComb(length int) *dampedComb {
	if length < 1 {
		length = 1
	}
	return &dampedComb{buf: make([]float64, length)}
}

func (c *dampedComb) process(in float64) float64 {
	out := c.buf[c.pos]
	c.lpState = out*(1-c.damp) + c.lpState*c.damp
	c.lpState = FlushDenormal(c.lpState)
	c.buf[c.pos] = in + c.lpState*c.feedback
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

func (c *dampedComb) reset() {
	for i := range c.buf {
		c.buf[i] = 0
	}
	c.pos = 0
	c.lpState = 0
}

type allpass struct {
	buf []float64
	pos int
	fb  float64
}

func newAllpass(length int) *allpass {
	if length < 1 {
		length = 1
	}
	return &allpass{buf: make([]float64, length), fb: 0.5}
}

func (a *allpass) process(in float64) float64 {
	bufOut := a.buf[a.pos]
	out := -in + bufOut
	a.buf[a.pos] = in + bufOut*a.fb
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

func (a *allpass) reset() {
	for i := range a.buf {
		a.buf[i] = 0
	}
	a.pos = 0
}

// Reverb is a Freeverb-style reverb: four parallel damped comb filters
// feeding two series allpass filters.
type Reverb struct {
	Params ReverbParams

	combs   [4]*dampedComb
	allpass [2]*allpass

	mixSmoother *OnePoleSmoother
}

// NewReverb creates a reverb scaled to the given sample rate (the
// reference comb/allpass tunings are specified at 44100 Hz and scaled
// proportionally).
func NewReverb(sampleRate float64) *Reverb {
	r := &Reverb{Params: DefaultReverbParams().Clamp(), mixSmoother: NewOnePoleSmoother(sampleRate, 10, 0.2)}
	scale := sampleRate / 44100.0
	for i, t := range combTunings {
		r.combs[i] = newDampedComb(int(t * scale))
	}
	for i, t := range allpassTunings {
		r.allpass[i] = newAllpass(int(t * scale))
	}
	r.applyCoefficients()
	return r
}

// SetParams replaces the reverb parameters and recomputes comb
// feedback/damping coefficients.
func (r *Reverb) SetParams(p ReverbParams) {
	r.Params = p.Clamp()
	r.applyCoefficients()
}

func (r *Reverb) applyCoefficients() {
	feedback := r.Params.RoomSize*0.28 + 0.7
	damping := r.Params.Damping * 0.4
	for _, c := range r.combs {
		c.feedback = feedback
		c.damp = damping
	}
}

// Reset clears all comb and allpass delay lines.
func (r *Reverb) Reset() {
	for _, c := range r.combs {
		c.reset()
	}
	for _, a := range r.allpass {
		a.reset()
	}
}

// Process runs one sample through the reverb and returns the wet/dry mix.
func (r *Reverb) Process(in float64) float64 {
	var combSum float64
	for _, c := range r.combs {
		combSum += c.process(in)
	}
	combSum *= 0.75 * 0.25

	out := combSum
	for _, a := range r.allpass {
		out = a.process(out)
	}

	mix := r.mixSmoother.Process(r.Params.Mix)
	return (1-mix)*in + mix*out
}

package dsp

// DelayParams holds the delay's time (ms), feedback (0..0.99) and wet/dry
// mix (0..1).
type DelayParams struct {
	TimeMs   float64
	Feedback float64
	Mix      float64
}

// DefaultDelayParams returns a short, dry-biased delay.
func DefaultDelayParams() DelayParams {
	return DelayParams{TimeMs: 250, Feedback: 0.3, Mix: 0.25}
}

// Clamp bounds feedback to prevent runaway (<=0.99) and mix to [0,1].
func (p DelayParams) Clamp() DelayParams {
	return DelayParams{
		TimeMs:   p.TimeMs,
		Feedback: clamp(p.Feedback, 0, 0.99),
		Mix:      clamp(p.Mix, 0, 1),
	}
}

// Delay is a single-tap feedback delay over a circular buffer, with mix
// and feedback smoothed over 10ms to avoid zipper noise on parameter
// changes.
type Delay struct {
	Params DelayParams

	buf      []float64
	writePos int
	sr       float64
	maxMs    float64

	feedbackSmoother *OnePoleSmoother
	mixSmoother      *OnePoleSmoother
}

// NewDelay creates a delay line sized for maxTimeMs at the given sample
// rate.
func NewDelay(sampleRate, maxTimeMs float64) *Delay {
	p := DefaultDelayParams().Clamp()
	size := int(maxTimeMs*sampleRate/1000.0) + 1
	if size < 2 {
		size = 2
	}
	return &Delay{
		Params:           p,
		buf:              make([]float64, size),
		sr:               sampleRate,
		maxMs:            maxTimeMs,
		feedbackSmoother: NewOnePoleSmoother(sampleRate, 10, p.Feedback),
		mixSmoother:      NewOnePoleSmoother(sampleRate, 10, p.Mix),
	}
}

// SetParams replaces the delay parameters (time is clamped to the
// buffer's allocated maximum; feedback/mix are clamped for stability).
func (d *Delay) SetParams(p DelayParams) {
	p = p.Clamp()
	if p.TimeMs > d.maxMs {
		p.TimeMs = d.maxMs
	}
	d.Params = p
}

// Reset clears the delay buffer.
func (d *Delay) Reset() {
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.writePos = 0
}

// Process advances the delay line by one sample.
func (d *Delay) Process(in float64) float64 {
	delaySamples := int(d.Params.TimeMs * d.sr / 1000.0)
	if delaySamples < 0 {
		delaySamples = 0
	}
	if delaySamples >= len(d.buf) {
		delaySamples = len(d.buf) - 1
	}

	readPos := d.writePos - delaySamples
	for readPos < 0 {
		readPos += len(d.buf)
	}
	delayed := d.buf[readPos]

	fb := d.feedbackSmoother.Process(d.Params.Feedback)
	written := clamp(in+fb*delayed, -2, 2)
	d.buf[d.writePos] = written

	d.writePos++
	if d.writePos >= len(d.buf) {
		d.writePos = 0
	}

	mix := d.mixSmoother.Process(d.Params.Mix)
	return (1-mix)*in + mix*delayed
}

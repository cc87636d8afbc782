package effect

import "github.com/antikkorps/godaw/pkg/dsp"

// DelayEffect adapts dsp.Delay to the Effect interface.
type DelayEffect struct {
	delay *dsp.Delay
}

// NewDelayEffect wraps a delay line sized for maxTimeMs at sampleRate.
func NewDelayEffect(sampleRate, maxTimeMs float64) *DelayEffect {
	return &DelayEffect{delay: dsp.NewDelay(sampleRate, maxTimeMs)}
}

// SetParams forwards to the underlying delay line.
func (d *DelayEffect) SetParams(p dsp.DelayParams) { d.delay.SetParams(p) }

func (d *DelayEffect) Process(in float64) float64 { return d.delay.Process(in) }
func (d *DelayEffect) Reset()                      { d.delay.Reset() }
func (d *DelayEffect) LatencySamples() int         { return 0 }
func (d *DelayEffect) Name() string                { return "delay" }

// ReverbEffect adapts dsp.Reverb to the Effect interface.
type ReverbEffect struct {
	reverb *dsp.Reverb
}

// NewReverbEffect wraps a Freeverb-style reverb for sampleRate.
func NewReverbEffect(sampleRate float64) *ReverbEffect {
	return &ReverbEffect{reverb: dsp.NewReverb(sampleRate)}
}

// SetParams forwards to the underlying reverb.
func (r *ReverbEffect) SetParams(p dsp.ReverbParams) { r.reverb.SetParams(p) }

func (r *ReverbEffect) Process(in float64) float64 { return r.reverb.Process(in) }
func (r *ReverbEffect) Reset()                       { r.reverb.Reset() }
func (r *ReverbEffect) LatencySamples() int          { return 0 }
func (r *ReverbEffect) Name() string                 { return "reverb" }

// FilterEffect adapts dsp.StateVariableFilter to the Effect interface for
// use as a per-voice chain slot distinct from the voice's primary filter.
type FilterEffect struct {
	filter *dsp.StateVariableFilter
}

// NewFilterEffect wraps a state-variable filter for sampleRate.
func NewFilterEffect(sampleRate float64) *FilterEffect {
	return &FilterEffect{filter: dsp.NewStateVariableFilter(sampleRate)}
}

// SetParams forwards to the underlying filter.
func (f *FilterEffect) SetParams(p dsp.FilterParams) { f.filter.SetParams(p) }

func (f *FilterEffect) Process(in float64) float64 { return f.filter.Process(in) }
func (f *FilterEffect) Reset()                       { f.filter.Reset() }
func (f *FilterEffect) LatencySamples() int          { return 0 }
func (f *FilterEffect) Name() string                 { return "filter" }

package voice

import "github.com/antikkorps/godaw/pkg/dsp"

// PortamentoParams holds the glide time in milliseconds and whether glide
// is enabled at all.
type PortamentoParams struct {
	Enabled bool
	TimeMs  float64
}

// DefaultPortamentoParams returns portamento disabled with a moderate
// glide time ready to use if enabled later.
func DefaultPortamentoParams() PortamentoParams {
	return PortamentoParams{Enabled: false, TimeMs: 50}
}

// Portamento glides a voice's sounding frequency towards a target
// frequency using a one-pole smoother. When disabled, Process returns the
// target immediately (no glide).
type Portamento struct {
	Params   PortamentoParams
	smoother *dsp.OnePoleSmoother
}

// NewPortamento creates a portamento glide for the given sample rate,
// starting at startFreq.
func NewPortamento(sampleRate, startFreq float64) *Portamento {
	p := DefaultPortamentoParams()
	return &Portamento{
		Params:   p,
		smoother: dsp.NewOnePoleSmoother(sampleRate, p.TimeMs, startFreq),
	}
}

// SetParams updates the glide parameters.
func (p *Portamento) SetParams(params PortamentoParams) {
	p.Params = params
	p.smoother.SetTimeConstant(params.TimeMs)
}

// SnapTo immediately sets the glide's current frequency with no ramp (used
// when a brand-new voice is allocated, so it doesn't glide in from a stale
// frequency).
func (p *Portamento) SnapTo(freq float64) {
	p.smoother.SnapTo(freq)
}

// Process advances the glide towards target by one sample and returns the
// resulting frequency.
func (p *Portamento) Process(target float64) float64 {
	if !p.Params.Enabled {
		p.smoother.SnapTo(target)
		return target
	}
	return p.smoother.Process(target)
}

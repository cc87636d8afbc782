package command

import (
	"github.com/antikkorps/godaw/pkg/dawstate"
	"github.com/antikkorps/godaw/pkg/dsp"
	"github.com/antikkorps/godaw/pkg/messaging"
	"github.com/antikkorps/godaw/pkg/sequencer"
	"github.com/antikkorps/godaw/pkg/timeline"
)

// SetWaveform replaces the oscillator waveform on every voice.
type SetWaveform struct {
	newValue, oldValue dsp.Waveform
}

// NewSetWaveform constructs a SetWaveform command.
func NewSetWaveform(w dsp.Waveform) *SetWaveform { return &SetWaveform{newValue: w} }

func (c *SetWaveform) Execute(state *dawstate.DawState) error {
	c.oldValue = state.Value.Waveform
	if err := state.Push(messaging.SetWaveformCommand(c.newValue)); err != nil {
		return err
	}
	state.Value.Waveform = c.newValue
	return nil
}

func (c *SetWaveform) Undo(state *dawstate.DawState) error {
	if err := state.Push(messaging.SetWaveformCommand(c.oldValue)); err != nil {
		return err
	}
	state.Value.Waveform = c.oldValue
	return nil
}

func (c *SetWaveform) Description() string { return "Set Waveform" }

// SetAdsr replaces the envelope parameters. Distinct ADSR edits (attack
// vs. decay vs. ...) do not merge — each is its own undo step.
type SetAdsr struct {
	newValue, oldValue dsp.ADSRParams
}

// NewSetAdsr constructs a SetAdsr command.
func NewSetAdsr(p dsp.ADSRParams) *SetAdsr { return &SetAdsr{newValue: p} }

func (c *SetAdsr) Execute(state *dawstate.DawState) error {
	c.oldValue = state.Value.Adsr
	if err := state.Push(messaging.SetAdsrCommand(c.newValue)); err != nil {
		return err
	}
	state.Value.Adsr = c.newValue
	return nil
}

func (c *SetAdsr) Undo(state *dawstate.DawState) error {
	if err := state.Push(messaging.SetAdsrCommand(c.oldValue)); err != nil {
		return err
	}
	state.Value.Adsr = c.oldValue
	return nil
}

func (c *SetAdsr) Description() string { return "Set Envelope" }

// SetFilter replaces the filter parameters.
type SetFilter struct {
	newValue, oldValue dsp.FilterParams
}

// NewSetFilter constructs a SetFilter command.
func NewSetFilter(p dsp.FilterParams) *SetFilter { return &SetFilter{newValue: p} }

func (c *SetFilter) Execute(state *dawstate.DawState) error {
	c.oldValue = state.Value.Filter
	if err := state.Push(messaging.SetFilterCommand(c.newValue)); err != nil {
		return err
	}
	state.Value.Filter = c.newValue
	return nil
}

func (c *SetFilter) Undo(state *dawstate.DawState) error {
	if err := state.Push(messaging.SetFilterCommand(c.oldValue)); err != nil {
		return err
	}
	state.Value.Filter = c.oldValue
	return nil
}

func (c *SetFilter) Description() string { return "Set Filter" }

// CanMergeWith coalesces consecutive filter-knob drags.
func (c *SetFilter) CanMergeWith(other UndoableCommand) bool {
	_, ok := other.(*SetFilter)
	return ok
}

// MergeWith absorbs other's target value.
func (c *SetFilter) MergeWith(other UndoableCommand) { c.newValue = other.(*SetFilter).newValue }

// SetTempo changes the transport tempo.
type SetTempo struct {
	newValue, oldValue timeline.Tempo
}

// NewSetTempo constructs a SetTempo command.
func NewSetTempo(t timeline.Tempo) *SetTempo { return &SetTempo{newValue: t} }

func (c *SetTempo) Execute(state *dawstate.DawState) error {
	c.oldValue = state.Value.Tempo
	if err := state.Push(messaging.SetTempoCommand(c.newValue.BPM())); err != nil {
		return err
	}
	state.Value.Tempo = c.newValue
	return nil
}

func (c *SetTempo) Undo(state *dawstate.DawState) error {
	if err := state.Push(messaging.SetTempoCommand(c.oldValue.BPM())); err != nil {
		return err
	}
	state.Value.Tempo = c.oldValue
	return nil
}

func (c *SetTempo) Description() string { return "Set Tempo" }

// CanMergeWith coalesces consecutive tempo-knob drags.
func (c *SetTempo) CanMergeWith(other UndoableCommand) bool {
	_, ok := other.(*SetTempo)
	return ok
}

// MergeWith absorbs other's target value.
func (c *SetTempo) MergeWith(other UndoableCommand) { c.newValue = other.(*SetTempo).newValue }

// SetPattern replaces the active pattern (e.g. after a piano-roll edit
// batch commits).
type SetPattern struct {
	newValue, oldValue sequencer.Pattern
}

// NewSetPattern constructs a SetPattern command.
func NewSetPattern(p sequencer.Pattern) *SetPattern { return &SetPattern{newValue: p} }

func (c *SetPattern) Execute(state *dawstate.DawState) error {
	c.oldValue = state.Value.Pattern
	if err := state.Push(messaging.SetPatternCommand(c.newValue)); err != nil {
		return err
	}
	state.Value.Pattern = c.newValue
	return nil
}

func (c *SetPattern) Undo(state *dawstate.DawState) error {
	if err := state.Push(messaging.SetPatternCommand(c.oldValue)); err != nil {
		return err
	}
	state.Value.Pattern = c.oldValue
	return nil
}

func (c *SetPattern) Description() string { return "Edit Pattern" }

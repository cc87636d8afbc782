package command

import (
	"github.com/antikkorps/godaw/pkg/dawstate"
	"github.com/antikkorps/godaw/pkg/messaging"
)

// SetVolume sets the master volume. Consecutive SetVolume commands
// coalesce into one undo entry (a slider drag that fires many commands
// should undo as a single gesture back to the value before the drag
// started).
type SetVolume struct {
	newValue float64
	oldValue float64
}

// NewSetVolume constructs a SetVolume command for the given target value.
func NewSetVolume(value float64) *SetVolume {
	return &SetVolume{newValue: value}
}

// Execute stores the pre-image, mutates state, and propagates the
// change to the audio thread.
func (c *SetVolume) Execute(state *dawstate.DawState) error {
	c.oldValue = state.Value.Volume
	if err := state.Push(messaging.SetVolumeCommand(c.newValue)); err != nil {
		return err
	}
	state.Value.Volume = c.newValue
	return nil
}

// Undo restores the value captured before Execute.
func (c *SetVolume) Undo(state *dawstate.DawState) error {
	if err := state.Push(messaging.SetVolumeCommand(c.oldValue)); err != nil {
		return err
	}
	state.Value.Volume = c.oldValue
	return nil
}

// Description describes the command for undo-history display.
func (c *SetVolume) Description() string { return "Set Volume" }

// CanMergeWith reports whether other is also a SetVolume edit.
func (c *SetVolume) CanMergeWith(other UndoableCommand) bool {
	_, ok := other.(*SetVolume)
	return ok
}

// MergeWith absorbs other's target value, keeping this command's
// original oldValue so undo still restores the pre-drag volume.
func (c *SetVolume) MergeWith(other UndoableCommand) {
	o := other.(*SetVolume)
	c.newValue = o.newValue
}

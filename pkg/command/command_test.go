package command_test

import (
	"testing"

	"github.com/antikkorps/godaw/pkg/command"
	"github.com/antikkorps/godaw/pkg/dawstate"
	"github.com/antikkorps/godaw/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState() *dawstate.DawState {
	return dawstate.New(messaging.NewCommandRing(64))
}

func TestManagerExecuteUndoRedo(t *testing.T) {
	m := command.NewManager()
	state := newState()

	require.NoError(t, m.Execute(command.NewSetVolume(0.8), state))
	assert.Equal(t, 0.8, state.Value.Volume)
	assert.True(t, m.CanUndo())
	assert.False(t, m.CanRedo())

	desc, err := m.Undo(state)
	require.NoError(t, err)
	assert.Equal(t, "Set Volume", desc)
	assert.Equal(t, 0.5, state.Value.Volume)
	assert.True(t, m.CanRedo())

	desc, err = m.Redo(state)
	require.NoError(t, err)
	assert.Equal(t, "Set Volume", desc)
	assert.Equal(t, 0.8, state.Value.Volume)
}

func TestManagerUndoRedoEmptyStacksError(t *testing.T) {
	m := command.NewManager()
	state := newState()

	_, err := m.Undo(state)
	assert.ErrorIs(t, err, command.ErrNothingToUndo)

	_, err = m.Redo(state)
	assert.ErrorIs(t, err, command.ErrNothingToRedo)
}

func TestSetVolumeCoalescesConsecutiveEdits(t *testing.T) {
	m := command.NewManager()
	state := newState()

	require.NoError(t, m.Execute(command.NewSetVolume(0.6), state))
	require.NoError(t, m.Execute(command.NewSetVolume(0.7), state))
	require.NoError(t, m.Execute(command.NewSetVolume(0.9), state))

	assert.Equal(t, 1, m.UndoCount(), "a drag of three SetVolume edits should coalesce into one undo entry")
	assert.Equal(t, 0.9, state.Value.Volume)

	_, err := m.Undo(state)
	require.NoError(t, err)
	assert.Equal(t, 0.5, state.Value.Volume, "undo should restore the value from before the whole drag, not the penultimate step")
}

func TestExecuteClearsRedoStack(t *testing.T) {
	m := command.NewManager()
	state := newState()

	require.NoError(t, m.Execute(command.NewSetVolume(0.6), state))
	_, err := m.Undo(state)
	require.NoError(t, err)
	assert.True(t, m.CanRedo())

	require.NoError(t, m.Execute(command.NewSetVolume(0.4), state))
	assert.False(t, m.CanRedo(), "a new edit after undo should drop the redo history")
}

func TestManagerTrimsHistoryToCapacity(t *testing.T) {
	m := command.NewManagerWithCapacity(2)
	state := newState()

	require.NoError(t, m.Execute(command.NewSetWaveform(1), state))
	require.NoError(t, m.Execute(command.NewSetAdsr(state.Value.Adsr), state))
	require.NoError(t, m.Execute(command.NewSetWaveform(2), state))

	assert.Equal(t, 2, m.UndoCount())
}

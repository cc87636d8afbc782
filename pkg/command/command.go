// Package command implements the undo/redo contract for UI edits:
// UndoableCommand captures enough state to reverse itself, and
// CommandManager maintains bounded undo/redo stacks with coalescing for
// rapid-fire edits like slider drags.
package command

import (
	"errors"
	"fmt"

	"github.com/antikkorps/godaw/pkg/dawstate"
)

// ErrNothingToUndo is returned by Manager.Undo when the undo stack is
// empty.
var ErrNothingToUndo = errors.New("command: nothing to undo")

// ErrNothingToRedo is returned by Manager.Redo when the redo stack is
// empty.
var ErrNothingToRedo = errors.New("command: nothing to redo")

// UndoableCommand captures a reversible edit to a DawState. Execute must
// record whatever pre-image Undo needs before mutating state, and must
// propagate the resulting low-level messaging.Command to the audio ring
// — if that push fails (a full ring), Execute returns an error and
// leaves state unchanged.
type UndoableCommand interface {
	Execute(state *dawstate.DawState) error
	Undo(state *dawstate.DawState) error
	Description() string
}

// Mergeable is implemented by commands that can coalesce with an
// immediately preceding command of the same kind, e.g. consecutive
// SetVolume edits from one slider drag.
type Mergeable interface {
	CanMergeWith(other UndoableCommand) bool
	MergeWith(other UndoableCommand)
}

// DefaultMaxHistory bounds the undo/redo stacks unless overridden.
const DefaultMaxHistory = 100

// Manager owns the undo and redo stacks.
type Manager struct {
	undoStack  []UndoableCommand
	redoStack  []UndoableCommand
	maxHistory int
}

// NewManager creates a manager with DefaultMaxHistory capacity.
func NewManager() *Manager { return NewManagerWithCapacity(DefaultMaxHistory) }

// NewManagerWithCapacity creates a manager with a custom history limit.
func NewManagerWithCapacity(maxHistory int) *Manager {
	return &Manager{maxHistory: maxHistory}
}

// Execute runs cmd against state. On success it either coalesces cmd
// into the top of the undo stack (if the top is Mergeable and accepts
// it) or pushes cmd as a new entry, then clears the redo stack and trims
// the undo stack to maxHistory.
func (m *Manager) Execute(cmd UndoableCommand, state *dawstate.DawState) error {
	if err := cmd.Execute(state); err != nil {
		return fmt.Errorf("command: execute %q: %w", cmd.Description(), err)
	}

	if len(m.undoStack) > 0 {
		if top, ok := m.undoStack[len(m.undoStack)-1].(Mergeable); ok {
			if top.CanMergeWith(cmd) {
				top.MergeWith(cmd)
				m.redoStack = m.redoStack[:0]
				return nil
			}
		}
	}

	m.undoStack = append(m.undoStack, cmd)
	m.redoStack = m.redoStack[:0]

	if len(m.undoStack) > m.maxHistory {
		m.undoStack = m.undoStack[1:]
	}

	return nil
}

// Undo pops the most recent undo entry, reverses it, and moves it to the
// redo stack. Returns the command's description.
func (m *Manager) Undo(state *dawstate.DawState) (string, error) {
	if len(m.undoStack) == 0 {
		return "", ErrNothingToUndo
	}
	cmd := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]

	if err := cmd.Undo(state); err != nil {
		m.undoStack = append(m.undoStack, cmd)
		return "", fmt.Errorf("command: undo %q: %w", cmd.Description(), err)
	}

	m.redoStack = append(m.redoStack, cmd)
	return cmd.Description(), nil
}

// Redo re-executes the most recently undone command and moves it back
// to the undo stack. Returns the command's description.
func (m *Manager) Redo(state *dawstate.DawState) (string, error) {
	if len(m.redoStack) == 0 {
		return "", ErrNothingToRedo
	}
	cmd := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]

	if err := cmd.Execute(state); err != nil {
		m.redoStack = append(m.redoStack, cmd)
		return "", fmt.Errorf("command: redo %q: %w", cmd.Description(), err)
	}

	m.undoStack = append(m.undoStack, cmd)
	return cmd.Description(), nil
}

// CanUndo reports whether Undo has an entry to pop.
func (m *Manager) CanUndo() bool { return len(m.undoStack) > 0 }

// CanRedo reports whether Redo has an entry to pop.
func (m *Manager) CanRedo() bool { return len(m.redoStack) > 0 }

// UndoDescription describes the command Undo would reverse next, if any.
func (m *Manager) UndoDescription() (string, bool) {
	if len(m.undoStack) == 0 {
		return "", false
	}
	return m.undoStack[len(m.undoStack)-1].Description(), true
}

// RedoDescription describes the command Redo would re-apply next, if any.
func (m *Manager) RedoDescription() (string, bool) {
	if len(m.redoStack) == 0 {
		return "", false
	}
	return m.redoStack[len(m.redoStack)-1].Description(), true
}

// Clear empties both stacks.
func (m *Manager) Clear() {
	m.undoStack = nil
	m.redoStack = nil
}

// UndoCount returns the number of entries on the undo stack.
func (m *Manager) UndoCount() int { return len(m.undoStack) }

// RedoCount returns the number of entries on the redo stack.
func (m *Manager) RedoCount() int { return len(m.redoStack) }

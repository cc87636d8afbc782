package dawstate

import "errors"

// ErrRingFull is returned when a Command could not be pushed to the
// audio thread because the UI→audio ring has no free slot. Callers must
// treat this as a transient condition, never block waiting for space.
var ErrRingFull = errors.New("dawstate: command ring is full")

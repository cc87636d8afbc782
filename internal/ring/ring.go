// Package ring implements a bounded single-producer/single-consumer ring
// buffer used for every cross-thread channel in the engine (UI→audio
// commands, MIDI→audio commands, audio→UI notifications). Push and Pop are
// lock-free and allocation-free once the buffer is constructed, making
// them safe to call from the audio thread's hot path.
package ring

import "sync/atomic"

// Buffer is a bounded SPSC ring buffer of T. Exactly one goroutine may call
// Push; exactly one (possibly different) goroutine may call Pop.
type Buffer[T any] struct {
	slots []T
	mask  uint64
	head  atomic.Uint64 // next slot to write (producer-owned)
	tail  atomic.Uint64 // next slot to read (consumer-owned)
}

// NewBuffer creates a ring buffer with capacity rounded up to the next
// power of two, allocated immediately so the hot path never allocates.
func NewBuffer[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	size := nextPowerOfTwo(capacity)
	return &Buffer[T]{
		slots: make([]T, size),
		mask:  uint64(size - 1),
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// TryPush attempts to enqueue value. It returns false without blocking if
// the buffer is full.
func (b *Buffer[T]) TryPush(value T) bool {
	head := b.head.Load()
	tail := b.tail.Load()
	if head-tail >= uint64(len(b.slots)) {
		return false
	}
	b.slots[head&b.mask] = value
	b.head.Store(head + 1)
	return true
}

// TryPop attempts to dequeue a value. It returns the zero value and false
// without blocking if the buffer is empty.
func (b *Buffer[T]) TryPop() (T, bool) {
	tail := b.tail.Load()
	head := b.head.Load()
	if tail >= head {
		var zero T
		return zero, false
	}
	value := b.slots[tail&b.mask]
	var zero T
	b.slots[tail&b.mask] = zero // drop the reference so GC can reclaim it
	b.tail.Store(tail + 1)
	return value, true
}

// Len returns a snapshot of the number of queued items. Racy by nature
// (both counters can move concurrently); intended for diagnostics only.
func (b *Buffer[T]) Len() int {
	return int(b.head.Load() - b.tail.Load())
}

// Cap returns the buffer's fixed capacity.
func (b *Buffer[T]) Cap() int {
	return len(b.slots)
}

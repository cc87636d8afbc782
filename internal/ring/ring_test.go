package ring_test

import (
	"sync"
	"testing"

	"github.com/antikkorps/godaw/internal/ring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	b := ring.NewBuffer[int](5)
	assert.Equal(t, 8, b.Cap())
}

func TestBufferPushPopFIFO(t *testing.T) {
	b := ring.NewBuffer[int](4)
	require.True(t, b.TryPush(1))
	require.True(t, b.TryPush(2))
	require.True(t, b.TryPush(3))

	v, ok := b.TryPop()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = b.TryPop()
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestBufferFullReturnsFalse(t *testing.T) {
	b := ring.NewBuffer[int](2)
	require.True(t, b.TryPush(1))
	require.True(t, b.TryPush(2))
	assert.False(t, b.TryPush(3), "capacity 2 should reject a third push")
}

func TestBufferEmptyPopReturnsFalse(t *testing.T) {
	b := ring.NewBuffer[int](2)
	_, ok := b.TryPop()
	assert.False(t, ok)
}

func TestBufferSPSCConcurrentProducerConsumer(t *testing.T) {
	b := ring.NewBuffer[int](64)
	const n = 10000

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for !b.TryPush(i) {
			}
		}
	}()

	received := make([]int, 0, n)
	go func() {
		defer wg.Done()
		for len(received) < n {
			if v, ok := b.TryPop(); ok {
				received = append(received, v)
			}
		}
	}()

	wg.Wait()
	for i, v := range received {
		assert.Equal(t, i, v, "values must come out in push order")
	}
}

package render_test

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/antikkorps/godaw/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memWriteSeeker is a minimal io.WriteSeeker over an in-memory buffer,
// standing in for an *os.File in tests.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		m.pos = int(offset)
	default:
		return 0, fmt.Errorf("unsupported whence %d", whence)
	}
	return int64(m.pos), nil
}

func TestWavWriterHeaderAndSizesRoundTrip(t *testing.T) {
	mem := &memWriteSeeker{}
	w, err := render.NewWavWriter(mem, 44100, 2)
	require.NoError(t, err)

	left := []float32{0.1, 0.2, -0.3}
	right := []float32{-0.1, -0.2, 0.3}
	require.NoError(t, w.WriteFrames(left, right))
	require.NoError(t, w.Close())

	assert.Equal(t, "RIFF", string(mem.buf[0:4]))
	assert.Equal(t, "WAVE", string(mem.buf[8:12]))
	assert.Equal(t, "data", string(mem.buf[36:40]))

	dataSize := binary.LittleEndian.Uint32(mem.buf[40:44])
	assert.Equal(t, uint32(len(left)*2*2), dataSize)

	riffSize := binary.LittleEndian.Uint32(mem.buf[4:8])
	assert.Equal(t, 36+dataSize, riffSize)

	channels := binary.LittleEndian.Uint16(mem.buf[22:24])
	assert.Equal(t, uint16(2), channels)
}

func TestWavWriterMonoIgnoresRightChannel(t *testing.T) {
	mem := &memWriteSeeker{}
	w, err := render.NewWavWriter(mem, 44100, 1)
	require.NoError(t, err)

	require.NoError(t, w.WriteFrames([]float32{0.5, -0.5}, nil))
	require.NoError(t, w.Close())

	dataSize := binary.LittleEndian.Uint32(mem.buf[40:44])
	assert.Equal(t, uint32(2*2), dataSize, "mono frames are 2 bytes each, no right channel")
}

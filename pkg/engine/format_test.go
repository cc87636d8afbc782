package engine

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteInterleavedFloat32(t *testing.T) {
	buf := make([]byte, 8)
	WriteInterleaved(buf, FormatFloat32, 0, 2, 0.5, -0.5)

	left := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4]))
	right := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8]))
	assert.InDelta(t, 0.5, left, 1e-6)
	assert.InDelta(t, -0.5, right, 1e-6)
}

func TestWriteInterleavedInt16ClampsRange(t *testing.T) {
	buf := make([]byte, 4)
	WriteInterleaved(buf, FormatInt16, 0, 2, 2.0, -2.0)

	left := int16(binary.LittleEndian.Uint16(buf[0:2]))
	right := int16(binary.LittleEndian.Uint16(buf[2:4]))
	assert.Equal(t, int16(32767), left)
	assert.Equal(t, int16(-32767), right)
}

func TestWriteInterleavedUint16MidpointIsSilence(t *testing.T) {
	buf := make([]byte, 4)
	WriteInterleaved(buf, FormatUint16, 0, 2, 0, 0)

	left := binary.LittleEndian.Uint16(buf[0:2])
	right := binary.LittleEndian.Uint16(buf[2:4])
	assert.Equal(t, uint16(32767), left)
	assert.Equal(t, uint16(32767), right)
}

func TestWriteInterleavedMonoSkipsRightChannel(t *testing.T) {
	buf := make([]byte, 4)
	WriteInterleaved(buf, FormatFloat32, 0, 1, 0.25, 0.75)

	left := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4]))
	assert.InDelta(t, 0.25, left, 1e-6)
}

func TestCPUMeterSamplesEveryNthCallback(t *testing.T) {
	m := NewCPUMeter(4)
	var sampled int
	for i := 0; i < 8; i++ {
		if m.ShouldSample() {
			sampled++
		}
	}
	assert.Equal(t, 2, sampled)
}

func TestCPUMeterLoadReflectsRatio(t *testing.T) {
	m := NewCPUMeter(1)
	assert.Equal(t, 0.0, m.Load(), "no samples recorded yet")

	m.ShouldSample()
	m.Record(5_000_000, 10_000_000) // 5ms of work in a 10ms window
	assert.InDelta(t, 50.0, m.Load(), 0.01)
}

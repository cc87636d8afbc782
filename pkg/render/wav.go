package render

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WavWriter streams interleaved 16-bit PCM frames to a WAV container.
// No ecosystem WAV encoder appears anywhere in the retrieved example
// corpus (the only audio I/O library present, portaudio, is a live
// device binding, not a file container writer), so this implements the
// RIFF/WAVE header and PCM body directly against encoding/binary.
type WavWriter struct {
	w             io.WriteSeeker
	sampleRate    int
	channels      int
	dataBytes     uint32
	headerWritten bool
}

// NewWavWriter prepares a writer for the given sample rate and channel
// count (1 or 2), reserving space for a header that Close will back-patch
// with the final sizes.
func NewWavWriter(w io.WriteSeeker, sampleRate, channels int) (*WavWriter, error) {
	ww := &WavWriter{w: w, sampleRate: sampleRate, channels: channels}
	if err := ww.writePlaceholderHeader(); err != nil {
		return nil, err
	}
	return ww, nil
}

func (w *WavWriter) writePlaceholderHeader() error {
	const bitsPerSample = 16
	byteRate := w.sampleRate * w.channels * bitsPerSample / 8
	blockAlign := w.channels * bitsPerSample / 8

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36) // patched on Close
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(w.channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(w.sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], 0) // patched on Close

	_, err := w.w.Write(header)
	w.headerWritten = true
	return err
}

// WriteFrames writes len(left) frames as interleaved 16-bit PCM. If the
// writer was opened mono, right is ignored.
func (w *WavWriter) WriteFrames(left, right []float32) error {
	if !w.headerWritten {
		return fmt.Errorf("render: wav writer not initialized")
	}
	buf := make([]byte, 0, len(left)*w.channels*2)
	for i := range left {
		buf = appendInt16(buf, left[i])
		if w.channels > 1 {
			buf = appendInt16(buf, right[i])
		}
	}
	n, err := w.w.Write(buf)
	w.dataBytes += uint32(n)
	return err
}

func appendInt16(buf []byte, v float32) []byte {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	sample := int16(v * 32767.0)
	return append(buf, byte(sample), byte(sample>>8))
}

// Close back-patches the RIFF and data chunk sizes now that the total
// byte count is known.
func (w *WavWriter) Close() error {
	if _, err := w.w.Seek(4, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(w.w, binary.LittleEndian, uint32(36+w.dataBytes)); err != nil {
		return err
	}
	if _, err := w.w.Seek(40, io.SeekStart); err != nil {
		return err
	}
	return binary.Write(w.w, binary.LittleEndian, w.dataBytes)
}

// Package render implements the offline pattern-to-PCM renderer: the
// same voice/DSP graph as the real-time engine, driven by a simple
// chunked loop instead of a device callback.
package render

import (
	"github.com/antikkorps/godaw/pkg/dsp"
	"github.com/antikkorps/godaw/pkg/sequencer"
	"github.com/antikkorps/godaw/pkg/timeline"
	"github.com/antikkorps/godaw/pkg/voice"
)

// BufferSize is the chunk size the renderer processes at a time.
const BufferSize = 512

// Options configures a render run.
type Options struct {
	SampleRate       float64
	Tempo            timeline.Tempo
	TimeSignature    timeline.TimeSignature
	MasterVolume     float64 // fixed gain applied via the same smoother the engine uses
	Mono             bool
	MetronomeMix     bool
	ProgressInterval float64 // seconds between Progress callback invocations; 0 disables
}

// DefaultOptions returns render defaults: 44100Hz, 4/4, volume 0.5,
// stereo, no metronome, progress every second.
func DefaultOptions() Options {
	return Options{
		SampleRate:       44100,
		Tempo:            timeline.DefaultTempo(),
		TimeSignature:    timeline.FourFour(),
		MasterVolume:     0.5,
		ProgressInterval: 1.0,
	}
}

// Progress reports rendering completion, 0..1.
type Progress func(fraction float64)

// FrameWriter receives rendered frames chunk by chunk: len(left) ==
// len(right) == however many frames were produced this call (<=
// BufferSize). For mono output, right mirrors left (already averaged).
type FrameWriter interface {
	WriteFrames(left, right []float32) error
}

// Render plays pattern from sample 0 through its full length (including
// any pending NoteOffs) into w, using a freshly constructed voice
// manager and sequencer player so the render graph is isolated from any
// live engine instance. waveform/adsr/filter seed the fresh voice
// manager's initial parameters.
func Render(pattern *sequencer.Pattern, opts Options, waveform dsp.Waveform, adsr dsp.ADSRParams, filter dsp.FilterParams, w FrameWriter, onProgress Progress) error {
	voices := voice.NewManager(opts.SampleRate)
	voices.ApplyWaveform(waveform)
	voices.ApplyADSR(adsr)
	voices.ApplyFilter(filter)

	player := sequencer.NewPlayer()
	metronome := sequencer.NewMetronome(opts.SampleRate)
	metronome.SetEnabled(opts.MetronomeMix)
	scheduler := sequencer.NewScheduler()

	smoother := dsp.NewOnePoleSmoother(opts.SampleRate, 10.0, opts.MasterVolume)

	totalSamples := pattern.LengthSamples(opts.SampleRate, opts.Tempo, opts.TimeSignature)
	// Extend the render by a fixed 2-second tail; playback stops inside it,
	// so pending NoteOffs are flushed and release tails get room to decay.
	totalSamples += uint64(opts.SampleRate * 2.0)

	var position uint64
	lastReported := -1.0

	left := make([]float32, BufferSize)
	right := make([]float32, BufferSize)

	for position < totalSamples {
		chunk := BufferSize
		remaining := totalSamples - position
		if uint64(chunk) > remaining {
			chunk = int(remaining)
		}

		isPlaying := position < totalSamples-uint64(opts.SampleRate*2.0)
		events := player.Process(pattern, position, isPlaying, opts.Tempo, opts.TimeSignature, opts.SampleRate, chunk)
		for _, ev := range events {
			switch ev.Kind {
			case sequencer.EventNoteOn:
				voices.NoteOn(ev.Pitch, float64(ev.Velocity)/127.0, 0)
			case sequencer.EventNoteOff:
				voices.NoteOff(ev.Pitch)
			}
		}

		if isPlaying {
			if _, click, found := scheduler.CheckForClick(position, chunk, opts.SampleRate, opts.Tempo, opts.TimeSignature); found {
				metronome.TriggerClick(click)
			}
		}

		for i := 0; i < chunk; i++ {
			v := smoother.Process(opts.MasterVolume)

			l, r := voices.NextSample()
			l = dsp.FlushDenormal(l)
			r = dsp.FlushDenormal(r)

			m := dsp.FlushDenormal(metronome.ProcessSample())
			l = l*v + 0.3*m
			r = r*v + 0.3*m

			l = dsp.SoftClip(l)
			r = dsp.SoftClip(r)

			if opts.Mono {
				avg := float32((l + r) / 2.0)
				left[i] = avg
				right[i] = avg
			} else {
				left[i] = float32(l)
				right[i] = float32(r)
			}
		}

		if err := w.WriteFrames(left[:chunk], right[:chunk]); err != nil {
			return err
		}

		position += uint64(chunk)

		if onProgress != nil && opts.ProgressInterval > 0 {
			elapsedSeconds := float64(position) / opts.SampleRate
			if elapsedSeconds-lastReported >= opts.ProgressInterval || position >= totalSamples {
				onProgress(float64(position) / float64(totalSamples))
				lastReported = elapsedSeconds
			}
		}
	}

	return nil
}

// Command dawrender headlessly renders a pattern to a WAV file using the
// same voice/DSP graph the real-time engine runs.
package main

import (
	"fmt"
	"os"

	"github.com/antikkorps/godaw/pkg/dsp"
	"github.com/antikkorps/godaw/pkg/render"
	"github.com/antikkorps/godaw/pkg/sequencer"
	"github.com/antikkorps/godaw/pkg/timeline"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

func main() {
	var (
		out         = pflag.StringP("out", "o", "render.wav", "output WAV path")
		sampleRate  = pflag.Float64("sample-rate", 44100, "render sample rate")
		bpm         = pflag.Float64("bpm", 120, "tempo in BPM")
		bars        = pflag.Uint32("bars", 4, "pattern length in bars (ignored if --pattern is set)")
		mono        = pflag.Bool("mono", false, "downmix to mono (average L+R)")
		volume      = pflag.Float64("volume", 0.5, "master volume, 0..1")
		patternPath = pflag.String("pattern", "", "YAML pattern fixture to render (default: built-in demo arpeggio)")
		verbose     = pflag.BoolP("verbose", "v", false, "enable debug logging")
	)
	pflag.Parse()

	logger := log.New(os.Stderr)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	var (
		pattern sequencer.Pattern
		tempo   timeline.Tempo
		sig     = timeline.FourFour()
	)
	if *patternPath != "" {
		var err error
		pattern, tempo, sig, err = loadFixture(*patternPath, *sampleRate)
		if err != nil {
			logger.Fatal("loading pattern fixture failed", "err", err)
		}
		logger.Info("loaded pattern fixture", "path", *patternPath, "notes", len(pattern.Notes()))
	} else {
		var err error
		tempo, err = timeline.NewTempo(*bpm)
		if err != nil {
			logger.Fatal("invalid tempo", "err", err)
		}
		pattern = sequencer.NewDefaultPattern(1, "render")
		if err := demoPattern(&pattern, *bars); err != nil {
			logger.Fatal("building demo pattern failed", "err", err)
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		logger.Fatal("create output file failed", "err", err)
	}
	defer f.Close()

	writer, err := render.NewWavWriter(f, int(*sampleRate), channelCount(*mono))
	if err != nil {
		logger.Fatal("init wav writer failed", "err", err)
	}

	opts := render.DefaultOptions()
	opts.SampleRate = *sampleRate
	opts.Tempo = tempo
	opts.TimeSignature = sig
	opts.Mono = *mono
	opts.MasterVolume = *volume

	progress := func(frac float64) {
		fmt.Fprintf(os.Stderr, "\rrendering... %3.0f%%", frac*100)
	}

	if err := render.Render(&pattern, opts, dsp.WaveformSine, dsp.DefaultADSRParams(), dsp.DefaultFilterParams(), writer, progress); err != nil {
		logger.Fatal("render failed", "err", err)
	}
	fmt.Fprintln(os.Stderr)

	if err := writer.Close(); err != nil {
		logger.Fatal("finalize wav failed", "err", err)
	}

	logger.Info("render complete", "path", *out)
}

func channelCount(mono bool) int {
	if mono {
		return 1
	}
	return 2
}

// demoPattern fills p with a simple ascending arpeggio across its full
// length, used when no --pattern fixture is given on the command line.
func demoPattern(p *sequencer.Pattern, bars uint32) error {
	if bars == 0 {
		return fmt.Errorf("dawrender: --bars must be at least 1")
	}
	p.LengthBars = bars
	notes := []uint8{60, 64, 67, 72}
	stepSamples := uint64(22050) // a quarter note at 120bpm/44100Hz, fixed for the demo pattern
	for bar := uint32(0); bar < bars; bar++ {
		for i, pitch := range notes {
			start := timeline.PositionFromSamples(uint64(bar)*4*stepSamples+uint64(i)*stepSamples, 44100, timeline.DefaultTempo(), timeline.FourFour())
			note := sequencer.NewNote(sequencer.GenerateNoteID(), pitch, start, stepSamples-100, 100)
			p.AddNote(note)
		}
	}
	return nil
}

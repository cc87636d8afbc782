// Package engine implements the real-time audio callback: command
// intake, sequencer/metronome dispatch, voice mixdown, plugin routing,
// device format conversion, and CPU instrumentation. Nothing on the hot
// path (Process) allocates, blocks, or performs I/O.
package engine

import (
	"time"

	"github.com/antikkorps/godaw/pkg/dsp"
	"github.com/antikkorps/godaw/pkg/messaging"
	"github.com/antikkorps/godaw/pkg/plugin"
	"github.com/antikkorps/godaw/pkg/sequencer"
	"github.com/antikkorps/godaw/pkg/timeline"
	"github.com/antikkorps/godaw/pkg/voice"
)

// Engine owns every component the audio callback touches. It is created
// on the UI/startup thread and then driven exclusively from the audio
// thread via Process, except for the command rings (producer side) and
// the atomics inside SharedTransportState/AtomicDeviceStatus/CPUMeter.
type Engine struct {
	SampleRate float64
	Channels   int

	commandsUI   *messaging.CommandRing
	commandsMidi *messaging.CommandRing
	notify       *messaging.NotificationRing

	voices    *voice.Manager
	pattern   sequencer.Pattern
	sequencer *sequencer.Player
	metronome *sequencer.Metronome
	scheduler *sequencer.Scheduler

	pluginHost *plugin.Host

	transport *timeline.Transport
	tempo     timeline.Tempo
	timeSig   timeline.TimeSignature

	volumeTarget atomic64
	volumeSmooth *dsp.OnePoleSmoother
	voiceMode    voice.VoiceMode

	cpu    *CPUMeter
	status *messaging.AtomicDeviceStatus

	running  bool
	quitting bool

	// Scratch buffers sized once at construction and reused every
	// Process call; the hot path never allocates.
	scratchL, scratchR             []float64
	scratchIn32L, scratchIn32R     []float32
	scratchOut32L, scratchOut32R   []float32
}

// maxScratchFrames bounds the per-callback buffer size this engine can
// process without reallocating; callers passing a larger numFrames to
// Process get truncated scratch space (see Process's bounds check).
const maxScratchFrames = 8192

// atomic64 holds the master volume as a plain float64; it performs no
// atomic operations. It is written only in New and on the audio thread
// when a CmdSetVolume command arrives through the command rings.
type atomic64 struct{ v float64 }

func (a *atomic64) Store(v float64) { a.v = v }
func (a *atomic64) Load() float64   { return a.v }

// New creates an Engine at the given sample rate and channel count (1 or
// 2), wired to the given command/notification rings and plugin host.
func New(sampleRate float64, channels int, commandsUI, commandsMidi *messaging.CommandRing, notify *messaging.NotificationRing, host *plugin.Host) *Engine {
	e := &Engine{
		SampleRate:   sampleRate,
		Channels:     channels,
		commandsUI:   commandsUI,
		commandsMidi: commandsMidi,
		notify:       notify,
		voices:       voice.NewManager(sampleRate),
		pattern:      sequencer.NewDefaultPattern(1, "Pattern 1"),
		sequencer:    sequencer.NewPlayer(),
		metronome:    sequencer.NewMetronome(sampleRate),
		scheduler:    sequencer.NewScheduler(),
		pluginHost:   host,
		transport:    timeline.NewTransport(sampleRate),
		tempo:        timeline.DefaultTempo(),
		timeSig:      timeline.FourFour(),
		volumeSmooth: dsp.NewOnePoleSmoother(sampleRate, 10.0, 0.5),
		cpu:          NewCPUMeter(10),
		status:       messaging.NewAtomicDeviceStatus(),

		scratchL:      make([]float64, maxScratchFrames),
		scratchR:      make([]float64, maxScratchFrames),
		scratchIn32L:  make([]float32, maxScratchFrames),
		scratchIn32R:  make([]float32, maxScratchFrames),
		scratchOut32L: make([]float32, maxScratchFrames),
		scratchOut32R: make([]float32, maxScratchFrames),
	}
	e.volumeTarget.Store(0.5)
	e.status.Store(messaging.DeviceConnected)
	return e
}

// CPULoad returns the most recently accumulated CPU load percentage.
func (e *Engine) CPULoad() float64 { return e.cpu.Load() }

// Status returns the engine's device-status cell for external monitoring.
func (e *Engine) Status() *messaging.AtomicDeviceStatus { return e.status }

// Transport returns the engine's transport for UI-thread inspection
// (Position, State) between commands.
func (e *Engine) Transport() *timeline.Transport { return e.transport }

// Process renders one buffer of numFrames frames into out, encoded in
// format. This is the hot path: steps 1-8 mirror the callback's defined
// stage order exactly.
func (e *Engine) Process(out []byte, numFrames int, format SampleFormat) {
	sample := e.cpu.ShouldSample()
	var start time.Time
	if sample {
		start = time.Now()
	}

	e.drainCommands()

	if e.quitting {
		e.fillSilence(out, numFrames, format)
		return
	}

	isPlaying := e.transport.State().IsPlaying()
	currentPosition := e.transport.SharedState().PositionSamples()

	events := e.sequencer.Process(&e.pattern, currentPosition, isPlaying, e.tempo, e.timeSig, e.SampleRate, numFrames)
	for _, ev := range events {
		e.dispatchNoteEvent(ev)
	}

	if isPlaying {
		if offset, click, found := e.scheduler.CheckForClick(currentPosition, numFrames, e.SampleRate, e.tempo, e.timeSig); found {
			_ = offset // click fires at buffer granularity; sub-buffer offset isn't separately scheduled
			e.metronome.TriggerClick(click)
		}
	}

	if numFrames > maxScratchFrames {
		numFrames = maxScratchFrames
	}
	inputsL := e.scratchL[:numFrames]
	inputsR := e.scratchR[:numFrames]

	for i := 0; i < numFrames; i++ {
		target := e.volumeTarget.Load()
		v := e.volumeSmooth.Process(target)

		l, r := e.voices.NextSample()
		l = dsp.FlushDenormal(l)
		r = dsp.FlushDenormal(r)

		m := dsp.FlushDenormal(e.metronome.ProcessSample())

		l = l*v + 0.3*m
		r = r*v + 0.3*m

		inputsL[i] = l
		inputsR[i] = r

		if isPlaying {
			e.transport.SharedState().AdvancePosition(1)
		}
	}

	e.routeThroughPlugins(inputsL, inputsR, numFrames)

	for i := 0; i < numFrames; i++ {
		l := dsp.SoftClip(inputsL[i])
		r := dsp.SoftClip(inputsR[i])
		WriteInterleaved(out, format, i, e.Channels, l, r)
	}

	if sample {
		elapsed := time.Since(start)
		available := time.Duration(float64(numFrames) / e.SampleRate * float64(time.Second))
		e.cpu.Record(uint64(elapsed.Nanoseconds()), uint64(available.Nanoseconds()))
	}
}

func (e *Engine) fillSilence(out []byte, numFrames int, format SampleFormat) {
	for i := 0; i < numFrames; i++ {
		WriteInterleaved(out, format, i, e.Channels, 0, 0)
	}
}

func (e *Engine) routeThroughPlugins(inL, inR []float64, numFrames int) {
	instances := e.pluginHost.ActiveInstances()
	if len(instances) == 0 {
		return
	}

	inputs32L := e.scratchIn32L[:numFrames]
	inputs32R := e.scratchIn32R[:numFrames]
	for i := 0; i < numFrames; i++ {
		inputs32L[i] = float32(inL[i])
		inputs32R[i] = float32(inR[i])
	}
	outputs32L := e.scratchOut32L[:numFrames]
	outputs32R := e.scratchOut32R[:numFrames]

	for _, inst := range instances {
		status, err := inst.Process([][]float32{inputs32L, inputs32R}, [][]float32{outputs32L, outputs32R}, uint32(numFrames), 0)
		if err != nil || status == 0 {
			e.notify.TryPush(messaging.NewNotification(messaging.NotifyPlugin, messaging.LevelWarning, "plugin "+inst.Descriptor.Name+" process failed"))
			continue
		}
		for i := 0; i < numFrames; i++ {
			inL[i] = float64(outputs32L[i])
			inR[i] = float64(outputs32R[i])
			inputs32L[i] = outputs32L[i]
			inputs32R[i] = outputs32R[i]
		}
	}
}

func (e *Engine) dispatchNoteEvent(ev sequencer.NoteEvent) {
	switch ev.Kind {
	case sequencer.EventNoteOn:
		e.voices.NoteOn(ev.Pitch, float64(ev.Velocity)/127.0, 0)
		e.pluginHost.QueueNoteEvent(plugin.NoteEvent{NoteOn: true, Pitch: ev.Pitch, Velocity: ev.Velocity, SamplesFromNow: ev.SamplesFromNow})
	case sequencer.EventNoteOff:
		e.voices.NoteOff(ev.Pitch)
		e.pluginHost.QueueNoteEvent(plugin.NoteEvent{NoteOn: false, Pitch: ev.Pitch, SamplesFromNow: ev.SamplesFromNow})
	}
}

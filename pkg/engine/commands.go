package engine

import (
	"github.com/antikkorps/godaw/pkg/messaging"
	"github.com/antikkorps/godaw/pkg/plugin"
	"github.com/antikkorps/godaw/pkg/timeline"
)

// drainCommands pops every pending command off both rings and applies it
// to engine state. Runs at the top of every Process call.
func (e *Engine) drainCommands() {
	for {
		cmd, ok := e.commandsUI.TryPop()
		if !ok {
			break
		}
		e.apply(cmd)
	}
	for {
		cmd, ok := e.commandsMidi.TryPop()
		if !ok {
			break
		}
		e.apply(cmd)
	}
}

func (e *Engine) apply(cmd messaging.Command) {
	switch cmd.Kind {
	case messaging.CmdMidi:
		e.applyMidi(cmd.Midi.Event)
	case messaging.CmdSetVolume:
		v := cmd.Float
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		e.volumeTarget.Store(v)
	case messaging.CmdSetWaveform:
		e.voices.ApplyWaveform(cmd.Waveform)
	case messaging.CmdSetAdsr:
		e.voices.ApplyADSR(cmd.Adsr)
	case messaging.CmdSetLfo1:
		e.voices.ApplyLfo1(cmd.Lfo)
	case messaging.CmdSetLfo2:
		e.voices.ApplyLfo2(cmd.Lfo)
	case messaging.CmdSetFilter:
		e.voices.ApplyFilter(cmd.Filter)
	case messaging.CmdSetPortamento:
		e.voices.ApplyPortamento(cmd.Portamento)
	case messaging.CmdSetPolyMode:
		e.voices.PolyMode = cmd.PolyMode
	case messaging.CmdSetVoiceMode:
		e.voiceMode = cmd.VoiceMode
	case messaging.CmdSetModRouting:
		e.voices.ApplyModRouting(cmd.Int, cmd.ModRouting)
	case messaging.CmdClearModRouting:
		e.voices.ClearModRouting(cmd.Int)
	case messaging.CmdSetMetronomeEnabled:
		e.metronome.SetEnabled(cmd.Bool)
	case messaging.CmdSetMetronomeVolume:
		e.metronome.SetVolume(cmd.Float)
	case messaging.CmdSetTempo:
		if t, err := timeline.NewTempo(cmd.Float); err == nil {
			e.tempo = t
		}
	case messaging.CmdSetTimeSignature:
		if sig, err := timeline.NewTimeSignature(uint8(cmd.Int), uint8(cmd.Uint)); err == nil {
			e.timeSig = sig
		}
	case messaging.CmdSetTransportPlaying:
		e.applyTransportPlaying(cmd.Bool)
	case messaging.CmdSetTransportPosition:
		e.transport.SetPositionSamples(cmd.Uint64)
	case messaging.CmdSetPattern:
		e.pattern = cmd.Pattern
		e.sequencer.Reset()
	case messaging.CmdQuit:
		e.quitting = true
	}
}

func (e *Engine) applyTransportPlaying(playing bool) {
	wasPlaying := e.transport.State().IsPlaying()
	switch {
	case playing && !wasPlaying:
		e.transport.Play()
	case !playing && wasPlaying:
		e.transport.Stop()
		e.scheduler.Reset()
	}
}

func (e *Engine) applyMidi(ev messaging.MidiEvent) {
	switch ev.Kind {
	case messaging.MidiNoteOn:
		if ev.Velocity == 0 {
			e.notify.TryPush(messaging.NewNotification(messaging.NotifyMidi, messaging.LevelWarning, "note-on with zero velocity rejected"))
			return
		}
		e.voices.NoteOn(ev.Note, float64(ev.Velocity)/127.0, 0)
		e.dispatchMidiToPlugins(ev)
	case messaging.MidiNoteOff:
		e.voices.NoteOff(ev.Note)
		e.dispatchMidiToPlugins(ev)
	case messaging.MidiChannelAftertouch:
		e.voices.SetChannelAftertouch(ev.Value)
	case messaging.MidiPolyAftertouch:
		e.voices.SetAftertouch(ev.Note, ev.Value)
	}
}

// dispatchMidiToPlugins forwards a live NoteOn/NoteOff to every active
// plugin instance's input-event stream for the next Process call (§4.D
// step 2, §4.H). Only note events cross this boundary; aftertouch isn't
// part of the CLAP core note event this host builds.
func (e *Engine) dispatchMidiToPlugins(ev messaging.MidiEvent) {
	switch ev.Kind {
	case messaging.MidiNoteOn:
		e.pluginHost.QueueNoteEvent(plugin.NoteEvent{NoteOn: true, Pitch: ev.Note, Velocity: ev.Velocity})
	case messaging.MidiNoteOff:
		e.pluginHost.QueueNoteEvent(plugin.NoteEvent{NoteOn: false, Pitch: ev.Note})
	}
}

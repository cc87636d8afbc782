package plugin

import (
	"unsafe"

	"github.com/antikkorps/godaw/internal/clapabi"
	"github.com/ebitengine/purego"
)

// CLAP core event-space type tags (clap_event_header_t.type_). Values per
// the CLAP 1.0 ABI's clap/events.h.
const (
	eventTypeNoteOn     = 0
	eventTypeNoteOff    = 1
	eventTypeParamValue = 5
)

// paramValueEvent mirrors clap_event_param_value_t: a header followed by
// the parameter id, target value, and note-addressing fields (all -1 /
// wildcard for the global parameter changes this host emits).
type paramValueEvent struct {
	header    clapabi.EventHeader
	paramID   uint32
	cookie    unsafe.Pointer
	noteID    int32
	portIndex int16
	channel   int16
	key       int16
	_pad      int16
	value     float64
}

// noteEvent mirrors clap_event_note_t: a header followed by the note
// addressing fields and velocity. port_index/channel are wildcarded
// (-1); this host does not track per-channel/per-port note routing.
type noteEvent struct {
	header    clapabi.EventHeader
	noteID    int32
	portIndex int16
	channel   int16
	key       int16
	_pad      int16
	velocity  float64
}

// NoteEvent is a timed note-on/off queued for delivery to a plugin
// instance's next Process call, built from the engine's own note
// dispatch (§4.H: MIDI for this buffer reaches every active instance
// before process_all_instances).
type NoteEvent struct {
	NoteOn         bool
	Pitch          uint8
	Velocity       uint8
	SamplesFromNow uint32
}

// goInputEvents wraps Go-owned slices of pending parameter and note
// events as a single clap_input_events_t, via size/get callbacks
// registered with purego. The backing slices and callback handles are
// kept alive for the life of the returned *clapabi.InputEvents by the
// caller holding a reference.
type goInputEvents struct {
	paramEvents []paramValueEvent
	noteEvents  []noteEvent
	headers     []unsafe.Pointer

	vtable clapabi.InputEvents
	sizeCB uintptr
	getCB  uintptr
}

func newGoInputEvents(pendingParams map[uint32]float64, notes []NoteEvent) *goInputEvents {
	g := &goInputEvents{}
	for id, value := range pendingParams {
		g.paramEvents = append(g.paramEvents, paramValueEvent{
			header: clapabi.EventHeader{
				Size: uint32(unsafe.Sizeof(paramValueEvent{})),
				Type: eventTypeParamValue,
			},
			paramID:   id,
			noteID:    -1,
			portIndex: -1,
			channel:   -1,
			key:       -1,
			value:     value,
		})
	}
	for _, n := range notes {
		typ := uint16(eventTypeNoteOn)
		if !n.NoteOn {
			typ = eventTypeNoteOff
		}
		g.noteEvents = append(g.noteEvents, noteEvent{
			header: clapabi.EventHeader{
				Size: uint32(unsafe.Sizeof(noteEvent{})),
				Time: n.SamplesFromNow,
				Type: typ,
			},
			noteID:    -1,
			portIndex: -1,
			channel:   -1,
			key:       int16(n.Pitch),
			velocity:  float64(n.Velocity) / 127.0,
		})
	}

	// headers is built once, up front: every pointer in it stays valid
	// for the life of g because paramEvents/noteEvents are never
	// reallocated afterward (no further appends).
	g.headers = make([]unsafe.Pointer, 0, len(g.paramEvents)+len(g.noteEvents))
	for i := range g.paramEvents {
		g.headers = append(g.headers, unsafe.Pointer(&g.paramEvents[i].header))
	}
	for i := range g.noteEvents {
		g.headers = append(g.headers, unsafe.Pointer(&g.noteEvents[i].header))
	}

	g.sizeCB = purego.NewCallback(func(self uintptr) uint32 {
		return uint32(len(g.headers))
	})
	g.getCB = purego.NewCallback(func(self uintptr, index uint32) uintptr {
		if int(index) >= len(g.headers) {
			return 0
		}
		return uintptr(g.headers[index])
	})

	g.vtable = clapabi.InputEvents{Size: g.sizeCB, Get: g.getCB}
	return g
}

// emptyOutputEvents is a clap_output_events_t whose try_push always
// reports success and discards the event; this host does not yet
// consume plugin-originated events (automation recording, gesture
// begin/end) but must supply a valid vtable for plugins that push them.
func emptyOutputEvents() *clapabi.OutputEvents {
	tryPush := purego.NewCallback(func(self uintptr, event uintptr) uintptr { return 1 })
	return &clapabi.OutputEvents{TryPush: tryPush}
}

package plugin

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/antikkorps/godaw/internal/clapabi"
)

// Instance is one running plugin: its native vtable pointer, lifecycle
// state, and the thread-safe parameter cache the UI writes into and the
// audio thread flushes at the start of every process call.
type Instance struct {
	ID         InstanceID
	Descriptor Descriptor

	plugin *clapabi.Plugin
	active atomic.Bool

	paramsExt *clapabi.PluginParams

	paramsMu   sync.Mutex
	paramInfo  map[uint32]clapabi.ParamInfo
	paramCache map[uint32]float64
	pending    map[uint32]float64

	notesMu      sync.Mutex
	pendingNotes []NoteEvent
}

func newInstance(id InstanceID, desc Descriptor, cPlugin *clapabi.Plugin) *Instance {
	return &Instance{
		ID:         id,
		Descriptor: desc,
		plugin:     cPlugin,
		paramInfo:  make(map[uint32]clapabi.ParamInfo),
		paramCache: make(map[uint32]float64),
		pending:    make(map[uint32]float64),
	}
}

func (inst *Instance) call0(fnPtr uintptr) {
	fn := clapabi.RegisteredCall[func(plugin uintptr)](fnPtr)
	fn(uintptr(unsafe.Pointer(inst.plugin)))
}

func (inst *Instance) callBool0(fnPtr uintptr) bool {
	fn := clapabi.RegisteredCall[func(plugin uintptr) uintptr](fnPtr)
	return fn(uintptr(unsafe.Pointer(inst.plugin))) != 0
}

// initializeAndActivate calls plugin.init then plugin.activate, marking
// the instance active on success.
func (inst *Instance) initializeAndActivate(sampleRate float64, minFrames, maxFrames uint32) error {
	if !inst.callBool0(inst.plugin.Init) {
		return fmt.Errorf("plugin: %s: init failed", inst.Descriptor.Name)
	}

	activateFn := clapabi.RegisteredCall[func(plugin uintptr, sr float64, min, max uint32) uintptr](inst.plugin.Activate)
	if activateFn(uintptr(unsafe.Pointer(inst.plugin)), sampleRate, minFrames, maxFrames) == 0 {
		return fmt.Errorf("plugin: %s: activate failed", inst.Descriptor.Name)
	}

	inst.loadParamsExtension()
	inst.active.Store(true)
	return nil
}

// deactivateAndDestroy calls plugin.deactivate then plugin.destroy.
func (inst *Instance) deactivateAndDestroy() {
	inst.active.Store(false)
	inst.call0(inst.plugin.Deactivate)
	inst.call0(inst.plugin.Destroy)
}

// IsActive reports whether the instance has been activated and not yet
// destroyed.
func (inst *Instance) IsActive() bool { return inst.active.Load() }

// StartProcessing must be called before the first Process call in a
// processing session.
func (inst *Instance) StartProcessing() error {
	if !inst.callBool0(inst.plugin.StartProcessing) {
		return fmt.Errorf("plugin: %s: start_processing failed", inst.Descriptor.Name)
	}
	return nil
}

// StopProcessing ends a processing session.
func (inst *Instance) StopProcessing() { inst.call0(inst.plugin.StopProcessing) }

// Reset clears the plugin's internal state (e.g. on transport stop).
func (inst *Instance) Reset() { inst.call0(inst.plugin.Reset) }

func (inst *Instance) loadParamsExtension() {
	getExtFn := clapabi.RegisteredCall[func(plugin uintptr, id string) uintptr](inst.plugin.GetExtension)
	ptr := getExtFn(uintptr(unsafe.Pointer(inst.plugin)), clapabi.ParamsExtensionID)
	if ptr == 0 {
		return
	}
	paramsExt := (*clapabi.PluginParams)(unsafe.Pointer(ptr))

	countFn := clapabi.RegisteredCall[func(plugin uintptr) uint32](paramsExt.Count)
	count := countFn(uintptr(unsafe.Pointer(inst.plugin)))

	getInfoFn := clapabi.RegisteredCall[func(plugin uintptr, index uint32, out *clapabi.ParamInfo) uintptr](paramsExt.GetInfo)
	for i := uint32(0); i < count; i++ {
		var info clapabi.ParamInfo
		if getInfoFn(uintptr(unsafe.Pointer(inst.plugin)), i, &info) != 0 {
			inst.paramInfo[info.ID] = info
			inst.paramCache[info.ID] = info.DefaultValue
		}
	}
	inst.paramsExt = paramsExt
}

// SetParameter clamps value to the parameter's [min,max] and queues it
// for delivery by flushPendingParams at the top of the next Process. The
// cache is updated immediately so GetParameter reflects the pending
// write without waiting for the audio thread.
func (inst *Instance) SetParameter(id uint32, value float64) {
	inst.paramsMu.Lock()
	defer inst.paramsMu.Unlock()

	if info, ok := inst.paramInfo[id]; ok {
		if value < info.MinValue {
			value = info.MinValue
		}
		if value > info.MaxValue {
			value = info.MaxValue
		}
	}
	inst.paramCache[id] = value
	inst.pending[id] = value
}

// QueueNoteEvent queues a note-on/off for delivery on the instance's
// next Process call.
func (inst *Instance) QueueNoteEvent(ev NoteEvent) {
	inst.notesMu.Lock()
	inst.pendingNotes = append(inst.pendingNotes, ev)
	inst.notesMu.Unlock()
}

func (inst *Instance) drainPendingNotes() []NoteEvent {
	inst.notesMu.Lock()
	defer inst.notesMu.Unlock()
	if len(inst.pendingNotes) == 0 {
		return nil
	}
	notes := inst.pendingNotes
	inst.pendingNotes = nil
	return notes
}

// GetParameter reads the cached value for id.
func (inst *Instance) GetParameter(id uint32) (float64, bool) {
	inst.paramsMu.Lock()
	defer inst.paramsMu.Unlock()
	v, ok := inst.paramCache[id]
	return v, ok
}

// flushPendingParams drains the pending-write queue and delivers it to
// the plugin's params.flush, run at the start of every Process call.
func (inst *Instance) flushPendingParams() {
	inst.paramsMu.Lock()
	if len(inst.pending) == 0 || inst.paramsExt == nil {
		inst.paramsMu.Unlock()
		return
	}
	pending := inst.pending
	inst.pending = make(map[uint32]float64)
	inst.paramsMu.Unlock()

	in := newGoInputEvents(pending, nil)
	out := emptyOutputEvents()

	flushFn := clapabi.RegisteredCall[func(plugin uintptr, in, out uintptr)](inst.paramsExt.Flush)
	flushFn(uintptr(unsafe.Pointer(inst.plugin)), uintptr(unsafe.Pointer(&in.vtable)), uintptr(unsafe.Pointer(out)))
}

// Process runs one audio buffer through the plugin, after flushing any
// pending parameter writes. inputs/outputs are per-channel float32
// slices; the caller owns their backing storage for the duration of the
// call.
func (inst *Instance) Process(inputs, outputs [][]float32, framesCount uint32, steadyTime int64) (clapabi.ProcessStatus, error) {
	inst.flushPendingParams()
	notes := inst.drainPendingNotes()

	inBuf := channelsToAudioBuffer(inputs)
	outBuf := channelsToAudioBuffer(outputs)

	in := newGoInputEvents(nil, notes)
	out := emptyOutputEvents()

	proc := clapabi.Process{
		SteadyTime:        steadyTime,
		FramesCount:       framesCount,
		AudioInputs:       inBuf,
		AudioOutputs:      outBuf,
		AudioInputsCount:  boolToCount(inBuf != nil),
		AudioOutputsCount: boolToCount(outBuf != nil),
		InEvents:          &in.vtable,
		OutEvents:         out,
	}

	processFn := clapabi.RegisteredCall[func(plugin uintptr, process *clapabi.Process) int32](inst.plugin.Process)
	status := processFn(uintptr(unsafe.Pointer(inst.plugin)), &proc)
	if clapabi.ProcessStatus(status) == clapabi.ProcessError {
		return clapabi.ProcessError, fmt.Errorf("plugin: %s: process returned error", inst.Descriptor.Name)
	}
	return clapabi.ProcessStatus(status), nil
}

func boolToCount(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// channelsToAudioBuffer packs Go float32 channel slices into a
// clap_audio_buffer_t's data32 pointer array. Returns nil if channels is
// empty (no input/output ports).
func channelsToAudioBuffer(channels [][]float32) *clapabi.AudioBuffer {
	if len(channels) == 0 {
		return nil
	}
	ptrs := make([]unsafe.Pointer, len(channels))
	for i, ch := range channels {
		if len(ch) > 0 {
			ptrs[i] = unsafe.Pointer(&ch[0])
		}
	}
	return &clapabi.AudioBuffer{
		Data32:       unsafe.Pointer(&ptrs[0]),
		ChannelCount: uint32(len(channels)),
	}
}

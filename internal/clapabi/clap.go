// Package clapabi mirrors the subset of the CLAP v1.0.0 C ABI the host
// needs to drive a native plugin bundle: the entry point, the plugin
// factory, the plugin vtable, the host vtable, process buffers, and the
// params extension. Struct layouts match the C headers field-for-field
// so they can be read through unsafe.Pointer once a library is mapped
// in via dlopen.
package clapabi

import "unsafe"

// Version mirrors clap_version_t.
type Version struct {
	Major, Minor, Patch uint32
}

// CurrentVersion is the CLAP ABI version this host speaks.
var CurrentVersion = Version{Major: 1, Minor: 0, Patch: 0}

// PluginEntry mirrors clap_plugin_entry_t, the symbol named "clap_entry"
// exported by every CLAP bundle.
type PluginEntry struct {
	ClapVersion Version
	Init        uintptr // bool (*)(const char *plugin_path)
	Deinit      uintptr // void (*)(void)
	GetFactory  uintptr // const void *(*)(const char *factory_id)
}

// PluginFactoryID is the factory_id passed to get_factory for the
// standard plugin factory.
const PluginFactoryID = "clap.plugin-factory"

// PluginFactory mirrors clap_plugin_factory_t.
type PluginFactory struct {
	GetPluginCount uintptr // uint32_t (*)(const clap_plugin_factory_t*)
	GetDescriptor  uintptr // const clap_plugin_descriptor_t *(*)(const clap_plugin_factory_t*, uint32_t index)
	CreatePlugin   uintptr // const clap_plugin_t *(*)(const clap_plugin_factory_t*, const clap_host_t*, const char *plugin_id)
}

// PluginDescriptor mirrors clap_plugin_descriptor_t (the strings are C
// NUL-terminated char* and must be read with a cgo-free C-string copy
// helper).
type PluginDescriptor struct {
	ClapVersion Version
	ID          uintptr // const char*
	Name        uintptr // const char*
	Vendor      uintptr // const char*
	URL         uintptr // const char*
	ManualURL   uintptr // const char*
	SupportURL  uintptr // const char*
	Version     uintptr // const char*
	Description uintptr // const char*
	Features    uintptr // const char *const *, NULL terminated
}

// Plugin mirrors clap_plugin_t, the per-instance vtable.
type Plugin struct {
	Desc            *PluginDescriptor
	PluginData      unsafe.Pointer
	Init            uintptr // bool (*)(const clap_plugin_t*)
	Destroy         uintptr // void (*)(const clap_plugin_t*)
	Activate        uintptr // bool (*)(const clap_plugin_t*, double sr, uint32_t min_frames, uint32_t max_frames)
	Deactivate      uintptr // void (*)(const clap_plugin_t*)
	StartProcessing uintptr // bool (*)(const clap_plugin_t*)
	StopProcessing  uintptr // void (*)(const clap_plugin_t*)
	Reset           uintptr // void (*)(const clap_plugin_t*)
	Process         uintptr // clap_process_status (*)(const clap_plugin_t*, const clap_process_t*)
	GetExtension    uintptr // const void *(*)(const clap_plugin_t*, const char *id)
	OnMainThread    uintptr // void (*)(const clap_plugin_t*)
}

// Host mirrors clap_host_t, the callbacks the host exposes back to the
// plugin. The host fills these slots in pkg/plugin/host_callbacks.go with
// function pointers made by purego.NewCallback.
type Host struct {
	ClapVersion   Version
	HostData      unsafe.Pointer
	Name          uintptr
	Vendor        uintptr
	URL           uintptr
	Version       uintptr
	GetExtension  uintptr
	RequestRestart uintptr
	RequestProcess uintptr
	RequestCallback uintptr
}

// EventHeader mirrors clap_event_header_t.
type EventHeader struct {
	Size     uint32
	Time     uint32
	SpaceID  uint16
	Type     uint16
	Flags    uint32
}

// InputEvents mirrors clap_input_events_t.
type InputEvents struct {
	Ctx  unsafe.Pointer
	Size uintptr // uint32_t (*)(const clap_input_events_t*)
	Get  uintptr // const clap_event_header_t *(*)(const clap_input_events_t*, uint32_t index)
}

// OutputEvents mirrors clap_output_events_t.
type OutputEvents struct {
	Ctx      unsafe.Pointer
	TryPush  uintptr // bool (*)(const clap_output_events_t*, const clap_event_header_t*)
}

// AudioBuffer mirrors clap_audio_buffer_t for the float32 (non-64-bit)
// case, the only one this host produces.
type AudioBuffer struct {
	Data32     unsafe.Pointer // float **
	Data64     unsafe.Pointer // always nil here
	ChannelCount uint32
	Latency    uint32
	Constant   uint64
}

// Process mirrors clap_process_t.
type Process struct {
	SteadyTime    int64
	FramesCount   uint32
	Transport     unsafe.Pointer // const clap_event_transport_t*, unused by this host
	AudioInputs   *AudioBuffer
	AudioOutputs  *AudioBuffer
	AudioInputsCount  uint32
	AudioOutputsCount uint32
	InEvents  *InputEvents
	OutEvents *OutputEvents
}

// ProcessStatus mirrors clap_process_status.
type ProcessStatus int32

const (
	ProcessError        ProcessStatus = 0
	ProcessContinue     ProcessStatus = 1
	ProcessContinueIfNotQuiet ProcessStatus = 2
	ProcessTail         ProcessStatus = 3
	ProcessSleep        ProcessStatus = 4
)

// ParamsExtensionID is the extension id string for "clap.params".
const ParamsExtensionID = "clap.params"

// PluginParams mirrors clap_plugin_params_t.
type PluginParams struct {
	Count        uintptr // uint32_t (*)(const clap_plugin_t*)
	GetInfo      uintptr // bool (*)(const clap_plugin_t*, uint32_t index, clap_param_info_t *out)
	GetValue     uintptr // bool (*)(const clap_plugin_t*, clap_id id, double *out)
	ValueToText  uintptr // bool (*)(const clap_plugin_t*, clap_id id, double value, char *out, uint32_t size)
	TextToValue  uintptr // bool (*)(const clap_plugin_t*, clap_id id, const char *text, double *out)
	Flush        uintptr // void (*)(const clap_plugin_t*, const clap_input_events_t*, const clap_output_events_t*)
}

// ParamInfo mirrors clap_param_info_t.
type ParamInfo struct {
	ID           uint32
	Flags        uint32
	Cookie       unsafe.Pointer
	Name         [256]byte
	Module       [1024]byte
	MinValue     float64
	MaxValue     float64
	DefaultValue float64
}

package plugin

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/antikkorps/godaw/internal/clapabi"
	"github.com/charmbracelet/log"
)

// PluginID identifies a loaded library within a Host.
type PluginID uint64

// InstanceID identifies a created plugin instance within a Host.
type InstanceID uint64

type loadedPlugin struct {
	id      PluginID
	desc    Descriptor
	lib     *clapabi.Library
	factory *clapabi.PluginFactory
}

// Host owns every loaded library and every instance created from them.
// Mutating maps (libraries/instances) happen on the UI/background
// thread; Instance.Process runs only on the audio thread, per the CLAP
// thread model.
type Host struct {
	mu        sync.Mutex
	libraries map[PluginID]*loadedPlugin
	instances map[InstanceID]*Instance

	nextPluginID   atomic.Uint64
	nextInstanceID atomic.Uint64

	sampleRate float64
	logger     *log.Logger
}

// NewHost creates an empty host at the given sample rate.
func NewHost(sampleRate float64, logger *log.Logger) *Host {
	return &Host{
		libraries:  make(map[PluginID]*loadedPlugin),
		instances:  make(map[InstanceID]*Instance),
		sampleRate: sampleRate,
		logger:     logger,
	}
}

// LoadPlugin opens the bundle at path, caching the library and its
// factory, and returns a PluginID used by CreateInstance.
func (h *Host) LoadPlugin(bundlePath string) (PluginID, error) {
	libPath, err := ResolveLibraryPath(bundlePath)
	if err != nil {
		return 0, err
	}

	lib, err := clapabi.Open(libPath)
	if err != nil {
		return 0, err
	}
	if !lib.Init() {
		lib.Close()
		return 0, fmt.Errorf("plugin: %s: clap_entry.init failed", bundlePath)
	}

	factory, err := lib.GetFactory()
	if err != nil {
		lib.Close()
		return 0, err
	}

	desc, err := loadDescriptor(bundlePath)
	if err != nil {
		lib.Close()
		return 0, err
	}

	id := PluginID(h.nextPluginID.Add(1))

	h.mu.Lock()
	h.libraries[id] = &loadedPlugin{id: id, desc: desc, lib: lib, factory: factory}
	h.mu.Unlock()

	return id, nil
}

// CreateInstance builds a plugin instance from an already-loaded plugin.
func (h *Host) CreateInstance(pluginID PluginID) (InstanceID, error) {
	h.mu.Lock()
	lp, ok := h.libraries[pluginID]
	h.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("plugin: unknown plugin id %d", pluginID)
	}

	createFn := clapabi.RegisteredCall[func(factory uintptr, host uintptr, pluginID string) uintptr](lp.factory.CreatePlugin)
	hostVtable := newEmbeddedHost()
	ptr := createFn(uintptr(unsafe.Pointer(lp.factory)), uintptr(unsafe.Pointer(hostVtable)), lp.desc.ID)
	if ptr == 0 {
		return 0, fmt.Errorf("plugin: %s: create_plugin returned null", lp.desc.Name)
	}

	cPlugin := (*clapabi.Plugin)(unsafe.Pointer(ptr))
	instID := InstanceID(h.nextInstanceID.Add(1))
	inst := newInstance(instID, lp.desc, cPlugin)

	h.mu.Lock()
	h.instances[instID] = inst
	h.mu.Unlock()

	return instID, nil
}

// InitializeInstance calls the plugin's init and activate, marking it
// active for process_all_instances.
func (h *Host) InitializeInstance(id InstanceID, sampleRate float64, minFrames, maxFrames uint32) error {
	inst, err := h.instance(id)
	if err != nil {
		return err
	}
	return inst.initializeAndActivate(sampleRate, minFrames, maxFrames)
}

// DestroyInstance deactivates and destroys an instance, dropping the
// host's handle to it.
func (h *Host) DestroyInstance(id InstanceID) error {
	inst, err := h.instance(id)
	if err != nil {
		return err
	}
	inst.deactivateAndDestroy()

	h.mu.Lock()
	delete(h.instances, id)
	h.mu.Unlock()
	return nil
}

func (h *Host) instance(id InstanceID) (*Instance, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	inst, ok := h.instances[id]
	if !ok {
		return nil, fmt.Errorf("plugin: unknown instance id %d", id)
	}
	return inst, nil
}

// ActiveInstances returns every instance currently marked active, for
// the audio thread's per-buffer iteration. The slice is a snapshot —
// safe to range over without holding the lock across Process calls.
func (h *Host) ActiveInstances() []*Instance {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Instance, 0, len(h.instances))
	for _, inst := range h.instances {
		if inst.IsActive() {
			out = append(out, inst)
		}
	}
	return out
}

// QueueNoteEvent delivers ev to every active instance's pending note
// queue, ahead of each one's next Process call (§4.H: MIDI for this
// buffer is delivered to every instance before process_all_instances).
func (h *Host) QueueNoteEvent(ev NoteEvent) {
	for _, inst := range h.ActiveInstances() {
		inst.QueueNoteEvent(ev)
	}
}

// Close destroys every instance and unloads every library. Call once,
// at host teardown.
func (h *Host) Close() {
	h.mu.Lock()
	instances := make([]*Instance, 0, len(h.instances))
	for _, inst := range h.instances {
		instances = append(instances, inst)
	}
	libraries := make([]*loadedPlugin, 0, len(h.libraries))
	for _, lp := range h.libraries {
		libraries = append(libraries, lp)
	}
	h.instances = make(map[InstanceID]*Instance)
	h.libraries = make(map[PluginID]*loadedPlugin)
	h.mu.Unlock()

	for _, inst := range instances {
		inst.deactivateAndDestroy()
	}
	for _, lp := range libraries {
		if err := lp.lib.Close(); err != nil {
			h.logger.Warn("plugin library close failed", "path", lp.lib.Path, "err", err)
		}
	}
}

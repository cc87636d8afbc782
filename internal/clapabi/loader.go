package clapabi

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Library is a dlopen'd CLAP bundle: the resolved shared-object handle
// plus its decoded clap_entry vtable.
type Library struct {
	Path    string
	handle  uintptr
	Entry   *PluginEntry
}

// Open maps the shared library at path and resolves its "clap_entry"
// symbol. The returned Library.Entry.Init has NOT been called yet —
// callers must call Init before requesting a factory.
func Open(path string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("clapabi: dlopen %s: %w", path, err)
	}

	sym, err := purego.Dlsym(handle, "clap_entry")
	if err != nil {
		return nil, fmt.Errorf("clapabi: %s does not export clap_entry: %w", path, err)
	}

	entry := (*PluginEntry)(unsafe.Pointer(sym))
	return &Library{Path: path, handle: handle, Entry: entry}, nil
}

// Init calls the bundle's clap_entry.init(path), required before
// GetFactory.
func (l *Library) Init() bool {
	var initFn func(path string) bool
	purego.RegisterFunc(&initFn, l.Entry.Init)
	return initFn(l.Path)
}

// Deinit calls clap_entry.deinit. The library remains mapped; call
// Close to unmap it.
func (l *Library) Deinit() {
	var deinitFn func()
	purego.RegisterFunc(&deinitFn, l.Entry.Deinit)
	deinitFn()
}

// GetFactory resolves the standard plugin factory.
func (l *Library) GetFactory() (*PluginFactory, error) {
	var getFactoryFn func(id string) uintptr
	purego.RegisterFunc(&getFactoryFn, l.Entry.GetFactory)

	ptr := getFactoryFn(PluginFactoryID)
	if ptr == 0 {
		return nil, fmt.Errorf("clapabi: %s has no %s", l.Path, PluginFactoryID)
	}
	return (*PluginFactory)(unsafe.Pointer(ptr)), nil
}

// Close calls deinit and unmaps the library. The caller must have
// already destroyed every instance created from it.
func (l *Library) Close() error {
	l.Deinit()
	runtime.KeepAlive(l)
	return purego.Dlclose(l.handle)
}

// RegisteredCall resolves fnPtr as a Go function of type T via purego and
// returns it ready to call. T must match the native function's C
// signature exactly — purego uses it to build the calling convention.
func RegisteredCall[T any](fnPtr uintptr) T {
	var fn T
	purego.RegisterFunc(&fn, fnPtr)
	return fn
}

// CString copies a NUL-terminated C string at ptr into a Go string.
// Bundles hand back descriptor fields this way; there is no cgo
// compiler available to do it for us.
func CString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	var b []byte
	for i := 0; ; i++ {
		c := *(*byte)(unsafe.Pointer(ptr + uintptr(i)))
		if c == 0 {
			break
		}
		b = append(b, c)
	}
	return string(b)
}

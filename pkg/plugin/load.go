package plugin

import (
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/antikkorps/godaw/internal/clapabi"
)

// loadDescriptor dlopens bundlePath just long enough to read its plugin
// descriptor, then closes it; the real load happens again in
// Host.LoadPlugin so the scanner never holds native handles open.
func loadDescriptor(bundlePath string) (Descriptor, error) {
	libPath, err := ResolveLibraryPath(bundlePath)
	if err != nil {
		return Descriptor{}, err
	}

	lib, err := clapabi.Open(libPath)
	if err != nil {
		return Descriptor{}, err
	}
	defer lib.Close()

	if !lib.Init() {
		return Descriptor{}, fmt.Errorf("plugin: %s: clap_entry.init failed", bundlePath)
	}

	factory, err := lib.GetFactory()
	if err != nil {
		return Descriptor{}, err
	}

	count := factoryPluginCount(factory)
	if count == 0 {
		return Descriptor{}, fmt.Errorf("plugin: %s exposes no plugins", bundlePath)
	}

	cDesc := factoryDescriptorAt(factory, 0)
	desc := Descriptor{
		ID:          clapabi.CString(cDesc.ID),
		Name:        clapabi.CString(cDesc.Name),
		Vendor:      clapabi.CString(cDesc.Vendor),
		Version:     clapabi.CString(cDesc.Version),
		Description: clapabi.CString(cDesc.Description),
		Category:    categoryFromStem(bundlePath),
		BundlePath:  bundlePath,
		LibraryPath: libPath,
	}
	return desc, nil
}

func categoryFromStem(bundlePath string) Category {
	stem := strings.ToLower(filepath.Base(bundlePath))
	switch {
	case strings.Contains(stem, "synth") || strings.Contains(stem, "instrument"):
		return CategoryInstrument
	case strings.Contains(stem, "analyzer") || strings.Contains(stem, "meter"):
		return CategoryAnalyzer
	default:
		return CategoryEffect
	}
}

// The following thin trampolines exist because clap_plugin_factory_t's
// methods take the factory pointer as their first (implicit this)
// argument, which purego.RegisterFunc models as an ordinary leading
// parameter.

func factoryPluginCount(f *clapabi.PluginFactory) uint32 {
	fn := clapabi.RegisteredCall[func(factory uintptr) uint32](f.GetPluginCount)
	return fn(uintptr(unsafe.Pointer(f)))
}

func factoryDescriptorAt(f *clapabi.PluginFactory, index uint32) *clapabi.PluginDescriptor {
	fn := clapabi.RegisteredCall[func(factory uintptr, index uint32) uintptr](f.GetDescriptor)
	ptr := fn(uintptr(unsafe.Pointer(f)), index)
	return (*clapabi.PluginDescriptor)(unsafe.Pointer(ptr))
}

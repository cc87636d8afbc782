package plugin

import (
	"unsafe"

	"github.com/antikkorps/godaw/internal/clapabi"
	"github.com/ebitengine/purego"
)

// cString allocates a NUL-terminated copy of s that outlives the Go GC
// for as long as the returned byte slice is kept alive by the caller —
// there is no cgo compiler available to do this allocation for us.
func cString(s string) (uintptr, []byte) {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return uintptr(unsafe.Pointer(&b[0])), b
}

// embeddedHost is the clap_host_t this process hands to every plugin it
// creates, plus the Go-side backing storage (strings, callback handles)
// that must not be garbage collected while the vtable is in use.
type embeddedHost struct {
	vtable      clapabi.Host
	name        []byte
	vendor      []byte
	url         []byte
	version     []byte
	getExtCB    uintptr
	restartCB   uintptr
	processCB   uintptr
	callbackCB  uintptr
}

var keepAliveHosts []*embeddedHost // prevents GC of any host ever created; hosts live for the process lifetime

func newEmbeddedHost() *clapabi.Host {
	h := &embeddedHost{}
	var nameStr, vendorStr, urlStr, versionStr uintptr
	nameStr, h.name = cString("godaw")
	vendorStr, h.vendor = cString("godaw")
	urlStr, h.url = cString("https://example.invalid/godaw")
	versionStr, h.version = cString("0.1.0")

	h.getExtCB = purego.NewCallback(func(host uintptr, extensionID uintptr) uintptr {
		return 0 // no host-side extensions implemented yet
	})
	h.restartCB = purego.NewCallback(func(host uintptr) uintptr { return 0 })
	h.processCB = purego.NewCallback(func(host uintptr) uintptr { return 0 })
	h.callbackCB = purego.NewCallback(func(host uintptr) uintptr { return 0 })

	h.vtable = clapabi.Host{
		ClapVersion:     clapabi.CurrentVersion,
		Name:            nameStr,
		Vendor:          vendorStr,
		URL:             urlStr,
		Version:         versionStr,
		GetExtension:    h.getExtCB,
		RequestRestart:  h.restartCB,
		RequestProcess:  h.processCB,
		RequestCallback: h.callbackCB,
	}

	keepAliveHosts = append(keepAliveHosts, h)
	return &h.vtable
}

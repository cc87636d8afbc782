// Package plugin implements the CLAP plugin host: scanning bundles into
// a disk-backed cache, loading a bundle's shared library, and driving
// plugin instances (lifecycle, per-buffer processing, parameter cache)
// through the internal/clapabi FFI bridge.
package plugin

// Category loosely classifies a plugin for search/filtering. The host
// buckets it from keywords in the bundle's file name (see
// categoryFromStem); CLAP "features" strings are not read.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryInstrument
	CategoryEffect
	CategoryAnalyzer
)

// String renders the category name, used by diagnostics and the scan CLI.
func (c Category) String() string {
	switch c {
	case CategoryInstrument:
		return "instrument"
	case CategoryEffect:
		return "effect"
	case CategoryAnalyzer:
		return "analyzer"
	default:
		return "unknown"
	}
}

// Descriptor is the host's view of a plugin's static metadata, read from
// the bundle's clap_plugin_descriptor_t once and cached thereafter.
type Descriptor struct {
	ID          string
	Name        string
	Vendor      string
	Version     string
	Description string
	Category    Category
	BundlePath  string // path the scanner found this under
	LibraryPath string // resolved shared-object path (see ResolveLibraryPath)
}

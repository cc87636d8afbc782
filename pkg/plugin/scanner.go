package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// cacheEntry is the on-disk representation of one scanned bundle.
type cacheEntry struct {
	BundlePath   string     `json:"bundle_path"`
	LastModified int64      `json:"last_modified"`
	Descriptor   Descriptor `json:"descriptor"`
}

// Scanner discovers CLAP bundles under configured directories and
// caches their descriptors on disk, keyed by (path, modified-time), so
// a re-scan of an unchanged tree never has to dlopen anything. Safe for
// concurrent use across directories (e.g. an errgroup fanning out
// ScanDirectory per search path): the cache and blacklist are
// mutex-guarded.
type Scanner struct {
	mu        sync.Mutex
	cachePath string
	cache     map[string]cacheEntry
	blacklist map[string]struct{}
	logger    *log.Logger
}

// NewScanner loads (or lazily creates) the cache file at cachePath.
func NewScanner(cachePath string, logger *log.Logger) *Scanner {
	s := &Scanner{
		cachePath: cachePath,
		cache:     make(map[string]cacheEntry),
		blacklist: make(map[string]struct{}),
		logger:    logger,
	}
	if err := s.loadCache(); err != nil {
		logger.Warn("plugin cache load failed, starting empty", "path", cachePath, "err", err)
	}
	return s
}

func (s *Scanner) loadCache() error {
	data, err := os.ReadFile(s.cachePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var entries []cacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("plugin: parse cache: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.cache[e.BundlePath] = e
	}
	return nil
}

// saveCache snapshots s.cache under lock, then writes outside the lock
// so a slow disk write never blocks a concurrent ScanDirectory.
func (s *Scanner) saveCache() error {
	s.mu.Lock()
	entries := make([]cacheEntry, 0, len(s.cache))
	for _, e := range s.cache {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.cachePath, data, 0o644)
}

// AddToBlacklist marks a path fragment as never to be loaded.
func (s *Scanner) AddToBlacklist(fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[fragment] = struct{}{}
}

// RemoveFromBlacklist undoes AddToBlacklist.
func (s *Scanner) RemoveFromBlacklist(fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blacklist, fragment)
}

// Blacklist returns the current blacklist fragments.
func (s *Scanner) Blacklist() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.blacklist))
	for f := range s.blacklist {
		out = append(out, f)
	}
	return out
}

func (s *Scanner) isBlacklisted(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for f := range s.blacklist {
		if strings.Contains(path, f) {
			return true
		}
	}
	return false
}

// ScanDirectory walks dir non-recursively for *.clap bundles and returns
// their descriptors, consulting the cache for each.
func (s *Scanner) ScanDirectory(dir string) ([]Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("plugin: scan directory %s: %w", dir, err)
	}

	var descriptors []Descriptor
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if !strings.EqualFold(filepath.Ext(e.Name()), ".clap") {
			continue
		}
		desc, err := s.ScanFile(path)
		if err != nil {
			s.logger.Warn("skipping plugin", "path", path, "err", err)
			continue
		}
		descriptors = append(descriptors, desc)
	}
	return descriptors, nil
}

// ScanFile scans one bundle, returning its descriptor from cache if the
// modification time hasn't changed, else opening the library to read
// fresh metadata.
func (s *Scanner) ScanFile(path string) (Descriptor, error) {
	if s.isBlacklisted(path) {
		return Descriptor{}, fmt.Errorf("plugin: %s is blacklisted", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("plugin: stat %s: %w", path, err)
	}
	modTime := info.ModTime().Unix()

	s.mu.Lock()
	cached, ok := s.cache[path]
	s.mu.Unlock()
	if ok && cached.LastModified == modTime {
		return cached.Descriptor, nil
	}

	desc, err := loadDescriptor(path)
	if err != nil {
		return Descriptor{}, err
	}

	s.mu.Lock()
	s.cache[path] = cacheEntry{BundlePath: path, LastModified: modTime, Descriptor: desc}
	s.mu.Unlock()
	if err := s.saveCache(); err != nil {
		s.logger.Warn("plugin cache save failed", "err", err)
	}
	return desc, nil
}

// GetAllPlugins returns every cached descriptor.
func (s *Scanner) GetAllPlugins() []Descriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Descriptor, 0, len(s.cache))
	for _, e := range s.cache {
		out = append(out, e.Descriptor)
	}
	return out
}

// ClearCache drops every cached entry and persists the empty cache.
func (s *Scanner) ClearCache() error {
	s.mu.Lock()
	s.cache = make(map[string]cacheEntry)
	s.mu.Unlock()
	return s.saveCache()
}

// ResolveLibraryPath returns the actual shared-object path for a bundle:
// on macOS a *.clap bundle is a directory with the library under
// Contents/MacOS/; elsewhere the bundle path is itself the library.
func ResolveLibraryPath(bundlePath string) (string, error) {
	info, err := os.Stat(bundlePath)
	if err != nil {
		return "", fmt.Errorf("plugin: stat %s: %w", bundlePath, err)
	}
	if runtime.GOOS != "darwin" || !info.IsDir() {
		return bundlePath, nil
	}

	macosDir := filepath.Join(bundlePath, "Contents", "MacOS")
	entries, err := os.ReadDir(macosDir)
	if err != nil {
		return "", fmt.Errorf("plugin: %s is a directory but has no Contents/MacOS: %w", bundlePath, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			return filepath.Join(macosDir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("plugin: %s/Contents/MacOS has no executable", bundlePath)
}

// DefaultSearchPaths returns the platform's conventional CLAP install
// locations plus a ./plugins directory relative to the working
// directory.
func DefaultSearchPaths() []string {
	var paths []string
	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "darwin":
		paths = append(paths, "/Library/Audio/Plug-Ins/CLAP")
		if home != "" {
			paths = append(paths, filepath.Join(home, "Library/Audio/Plug-Ins/CLAP"))
		}
	case "windows":
		if pf := os.Getenv("ProgramFiles"); pf != "" {
			paths = append(paths, filepath.Join(pf, "Common Files", "CLAP"))
		}
	default:
		paths = append(paths, "/usr/lib/clap", "/usr/local/lib/clap")
		if home != "" {
			paths = append(paths, filepath.Join(home, ".clap"))
		}
	}

	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, "plugins"))
	}
	return paths
}

package plugin_test

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/antikkorps/godaw/pkg/plugin"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScanner(t *testing.T) *plugin.Scanner {
	t.Helper()
	cache := filepath.Join(t.TempDir(), "cache.json")
	return plugin.NewScanner(cache, log.New(io.Discard))
}

func TestBlacklistAddRemove(t *testing.T) {
	s := newTestScanner(t)
	s.AddToBlacklist("badvendor")
	assert.Contains(t, s.Blacklist(), "badvendor")

	s.RemoveFromBlacklist("badvendor")
	assert.NotContains(t, s.Blacklist(), "badvendor")
}

func TestScanFileRejectsBlacklistedPath(t *testing.T) {
	s := newTestScanner(t)
	s.AddToBlacklist("quarantine")

	_, err := s.ScanFile(filepath.Join(t.TempDir(), "quarantine", "plugin.clap"))
	require.Error(t, err)
}

func TestScanDirectoryIgnoresNonClapFiles(t *testing.T) {
	s := newTestScanner(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o644))

	descs, err := s.ScanDirectory(dir)
	require.NoError(t, err)
	assert.Empty(t, descs)
}

func TestScanDirectoryOfMissingDirReturnsNoError(t *testing.T) {
	s := newTestScanner(t)
	descs, err := s.ScanDirectory(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, descs)
}

func TestBlacklistConcurrentAccessIsSafe(t *testing.T) {
	s := newTestScanner(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			frag := string(rune('a' + i%26))
			s.AddToBlacklist(frag)
			_ = s.Blacklist()
			s.RemoveFromBlacklist(frag)
		}(i)
	}
	wg.Wait()
}

func TestClearCacheEmptiesGetAllPlugins(t *testing.T) {
	s := newTestScanner(t)
	require.NoError(t, s.ClearCache())
	assert.Empty(t, s.GetAllPlugins())
}
